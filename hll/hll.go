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

// Package hll implements Flajolet's HyperLogLog cardinality estimator over
// a fixed array of 1024 single-byte registers. The precision barely matters
// between 6 and 12; 10 is the paper's default. Merge is a register-wise
// max, so the estimate is deterministic under any reordering of inputs
// across partial states.
package hll

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"

	"github.com/spongedu/colagg/common"
	"github.com/spongedu/colagg/internal"
)

const (
	precision = 10

	// NumRegisters is the register count m = 2^precision and the wire size
	// of the state.
	NumRegisters = 1 << precision
)

// Sketch is the HyperLogLog state: one byte per register holding the
// largest first-one position seen in that register's substream.
type Sketch struct {
	regs [NumRegisters]uint8
}

func NewSketch(_ common.Context) *Sketch {
	return &Sketch{}
}

// Update hashes the value with the 64-bit seeded hash; the low bits select
// a register and the remaining bits supply the first-one position. A hash
// of zero is skipped entirely.
func (s *Sketch) Update(ctx common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	h := common.Hash64(v, ctx.ArgType(0), common.FNV64Seed)
	if h == 0 {
		return
	}
	idx := h & (NumRegisters - 1)
	firstOne := uint8(bits.TrailingZeros64(h>>precision) + 1)
	s.regs[idx] = internal.Max(s.regs[idx], firstOne)
}

func (s *Sketch) Merge(_ common.Context, src *Sketch) {
	for i := range s.regs {
		s.regs[i] = internal.Max(s.regs[i], src.regs[i])
	}
}

// Serialize returns the 1024-byte register image.
func (s *Sketch) Serialize(_ common.Context) []byte {
	out := make([]byte, NumRegisters)
	copy(out, s.regs[:])
	return out
}

func SketchFromBytes(b []byte) (*Sketch, error) {
	if len(b) != NumRegisters {
		return nil, fmt.Errorf("hll state must be %d bytes, got %d", NumRegisters, len(b))
	}
	var s Sketch
	copy(s.regs[:], b)
	return &s, nil
}

// Estimate returns the cardinality estimate. The raw estimate is the
// bias-corrected harmonic mean of the registers; when any register is still
// zero the sketch is in its low range and linear counting is used instead.
// No large-range correction is applied, matching the historical behavior.
func (s *Sketch) Estimate() int64 {
	var alpha float32
	switch NumRegisters {
	case 16:
		alpha = 0.673
	case 32:
		alpha = 0.697
	case 64:
		alpha = 0.709
	default:
		alpha = 0.7213 / (1 + 1.079/float32(NumRegisters))
	}

	var harmonic float32
	zeroRegisters := 0
	for _, r := range s.regs {
		harmonic += float32(math.Pow(2, -float64(r)))
		if r == 0 {
			zeroRegisters++
		}
	}
	harmonic = 1.0 / harmonic
	estimate := int64(alpha * NumRegisters * NumRegisters * harmonic)

	if zeroRegisters != 0 {
		estimate = int64(NumRegisters *
			math.Log(float64(NumRegisters)/float64(zeroRegisters)))
	}
	return estimate
}

// Finalize returns the estimate as a decimal ASCII string; like the PC
// estimators this is a historical artifact of a missing integer return
// path.
func (s *Sketch) Finalize(_ common.Context) common.Value {
	return common.StringValue(strconv.FormatInt(s.Estimate(), 10))
}
