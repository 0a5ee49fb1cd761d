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

package avg

import (
	"encoding/binary"
	"fmt"

	"github.com/spongedu/colagg/common"
)

// DecimalStateSize is the wire size of the decimal average state.
const DecimalStateSize = 24

// DecimalAvg is the decimal average: { sum i128, count i64 }. The sum
// accumulates in the return type's scale; inputs are guaranteed to share
// that scale, so update is a plain integer add on the sub-field selected by
// the declared precision.
type DecimalAvg struct {
	sum   common.Int128
	count int64
}

func NewDecimalAvg(_ common.Context) *DecimalAvg {
	return &DecimalAvg{}
}

func (a *DecimalAvg) Update(ctx common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	width := common.DecimalWidth(ctx.ArgType(0).Precision)
	a.sum = a.sum.Add(v.Decimal().Trunc(width))
	a.count++
}

func (a *DecimalAvg) Merge(_ common.Context, src *DecimalAvg) {
	a.sum = a.sum.Add(src.sum)
	a.count += src.count
}

// Serialize writes { i128 sum, i64 count } little-endian.
func (a *DecimalAvg) Serialize(_ common.Context) []byte {
	out := make([]byte, 0, DecimalStateSize)
	out = a.sum.AppendLE(out, 16)
	return binary.LittleEndian.AppendUint64(out, uint64(a.count))
}

func DecimalAvgFromBytes(b []byte) (*DecimalAvg, error) {
	if len(b) != DecimalStateSize {
		return nil, fmt.Errorf("decimal avg state must be %d bytes, got %d", DecimalStateSize, len(b))
	}
	return &DecimalAvg{
		sum:   common.Int128FromLE(b[:16]),
		count: int64(binary.LittleEndian.Uint64(b[16:])),
	}, nil
}

// GetValue divides the accumulated sum by the count as a decimal division
// into the return type's scale. Overflow issues a warning and yields null.
func (a *DecimalAvg) GetValue(ctx common.Context) common.Value {
	if a.count == 0 {
		return common.NullValue(common.KindDecimal)
	}
	res, isNan, overflow := common.DecimalDivide(
		a.sum, ctx.ArgType(0).Scale, a.count, ctx.ReturnType().Scale)
	if isNan {
		return common.NullValue(common.KindDecimal)
	}
	if overflow {
		ctx.AddWarning("avg computation overflowed, returning NULL")
		return common.NullValue(common.KindDecimal)
	}
	return common.DecimalValue(res)
}

func (a *DecimalAvg) Finalize(ctx common.Context) common.Value {
	return a.GetValue(ctx)
}
