/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package pc implements Flajolet and Martin's probabilistic counting
// estimators for distinct values, in two variants: PC hashes every input
// with 64 seeded hash functions; PCSA applies stochastic averaging and
// hashes once, routing the input to one of 64 rows. Both share a 64x32 bit
// matrix whose merge is a bitwise OR, so results are deterministic under
// any split of the stream.
package pc

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/spongedu/colagg/common"
	"github.com/spongedu/colagg/internal"
)

const (
	numBitmaps   = 64
	bitmapLength = 32

	// StateSize is the wire size of the bit matrix.
	StateSize = numBitmaps * bitmapLength / 8
)

// The magic constant from the paper used to unbias the estimate.
const pcTheta = float32(0.77351)

// bitmap is the 64x32 bit matrix, one uint32 word per row, bit (row, col)
// stored little-endian as word[row] & (1 << col).
type bitmap [numBitmaps]uint32

func (bm *bitmap) set(row, col int) {
	bm[row] |= 1 << col
}

func (bm *bitmap) get(row, col int) bool {
	return bm[row]&(1<<col) != 0
}

func (bm *bitmap) merge(src *bitmap) {
	for i := range bm {
		bm[i] |= src[i]
	}
}

func (bm *bitmap) empty() bool {
	for _, w := range bm {
		if w != 0 {
			return false
		}
	}
	return true
}

// estimate converts the matrix to a distinct-count estimate: the average
// length of the leading run of 1s per row approximates log2 of the number of
// distinct values one row observed. For PC every row sees every value, so
// this is the estimate itself; PCSA rows see 1/64 of the values each, and
// PCSA scales the result by 64.
func (bm *bitmap) estimate() float64 {
	if bm.empty() {
		return 0
	}
	sum := 0
	for _, w := range bm {
		sum += internal.Min(internal.TrailingOnes32(w), bitmapLength)
	}
	avg := float64(sum) / float64(numBitmaps)
	return math.Pow(2, avg) / float64(pcTheta)
}

func (bm *bitmap) appendWire(dst []byte) []byte {
	out := dst
	for _, w := range bm {
		out = append(out, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return out
}

func bitmapFromWire(b []byte) bitmap {
	var bm bitmap
	for i := range bm {
		bm[i] = internal.GetUint32LE(b, i*4)
	}
	return bm
}

// dump renders the matrix row by row for diagnostics.
func (bm *bitmap) dump() string {
	var sb strings.Builder
	for i := 0; i < numBitmaps; i++ {
		for j := 0; j < bitmapLength; j++ {
			if bm.get(i, j) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func checkStateSize(n int) error {
	if n != StateSize {
		return fmt.Errorf("pc state must be %d bytes, got %d", StateSize, n)
	}
	return nil
}

func column(h uint32) int {
	col := bits.TrailingZeros32(h)
	if col >= bitmapLength {
		col = bitmapLength - 1
	}
	return col
}

// finalizeEstimate renders an estimate as the operator's ASCII output. The
// string return type is historical: the engine lacked a 64-bit integer
// return path for these aggregates.
func finalizeEstimate(e float64) common.Value {
	return common.StringValue(strconv.FormatInt(int64(e), 10))
}

// PC is the plain probabilistic-counting estimator.
type PC struct {
	bm bitmap
}

func NewPC(_ common.Context) *PC {
	return &PC{}
}

// Update hashes the value once per row, seeding a distinct hash function
// for each, and marks the first-one position in that row.
func (p *PC) Update(ctx common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	t := ctx.ArgType(0)
	for i := 0; i < numBitmaps; i++ {
		h := common.Hash32(v, t, uint32(i))
		if h == 0 {
			p.bm.set(i, bitmapLength-1)
			continue
		}
		p.bm.set(i, column(h))
	}
}

func (p *PC) Merge(_ common.Context, src *PC) {
	p.bm.merge(&src.bm)
}

func (p *PC) Serialize(_ common.Context) []byte {
	return p.bm.appendWire(make([]byte, 0, StateSize))
}

func PCFromBytes(b []byte) (*PC, error) {
	if err := checkStateSize(len(b)); err != nil {
		return nil, err
	}
	return &PC{bm: bitmapFromWire(b)}, nil
}

// Estimate returns the distinct-count estimate as an integer.
func (p *PC) Estimate() int64 {
	return int64(p.bm.estimate())
}

// Finalize returns the estimate as a decimal ASCII string.
func (p *PC) Finalize(_ common.Context) common.Value {
	return finalizeEstimate(p.bm.estimate())
}

func (p *PC) String() string {
	return p.bm.dump()
}

// PCSA is the stochastic-averaging variant: one hash per input, the low
// bits pick a row and the remaining bits pick the column.
type PCSA struct {
	bm bitmap
}

func NewPCSA(_ common.Context) *PCSA {
	return &PCSA{}
}

func (p *PCSA) Update(ctx common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	h := common.Hash32(v, ctx.ArgType(0), 0)
	row := int(h % numBitmaps)
	if h == 0 {
		p.bm.set(row, bitmapLength-1)
		return
	}
	p.bm.set(row, column(h/numBitmaps))
}

func (p *PCSA) Merge(_ common.Context, src *PCSA) {
	p.bm.merge(&src.bm)
}

func (p *PCSA) Serialize(_ common.Context) []byte {
	return p.bm.appendWire(make([]byte, 0, StateSize))
}

func PCSAFromBytes(b []byte) (*PCSA, error) {
	if err := checkStateSize(len(b)); err != nil {
		return nil, err
	}
	return &PCSA{bm: bitmapFromWire(b)}, nil
}

// Estimate scales the shared estimator by the row count to undo the
// stochastic averaging.
func (p *PCSA) Estimate() int64 {
	return int64(p.bm.estimate() * numBitmaps)
}

func (p *PCSA) Finalize(_ common.Context) common.Value {
	return finalizeEstimate(p.bm.estimate() * numBitmaps)
}

func (p *PCSA) String() string {
	return p.bm.dump()
}
