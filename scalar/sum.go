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

package scalar

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spongedu/colagg/common"
)

// Sum folds inputs into an accumulator of the declared return kind: int64
// for integer inputs, float64 for float inputs, a 128-bit decimal for
// decimal inputs. The state starts null; the first non-null value installs
// zero. Integer overflow wraps two's-complement.
type Sum struct {
	acc common.Value
}

func NewSum(ctx common.Context) *Sum {
	return &Sum{acc: common.NullValue(ctx.ReturnType().Kind)}
}

func (s *Sum) Update(ctx common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	k := s.acc.Kind()
	if s.acc.IsNull() {
		s.acc = common.ZeroValue(k)
	}
	switch k {
	case common.KindFloat64:
		s.acc = common.Float64Value(s.acc.Float64() + v.AsFloat64())
	case common.KindDecimal:
		// The source value occupies the physical width derived from the
		// declared precision; src and dst share scale, so this is a plain
		// integer add on the selected sub-field.
		width := common.DecimalWidth(ctx.ArgType(0).Precision)
		s.acc = common.DecimalValue(s.acc.Decimal().Add(v.Decimal().Trunc(width)))
	default:
		s.acc = common.Int64Value(s.acc.Int64() + v.Int64())
	}
}

func (s *Sum) Merge(_ common.Context, src *Sum) {
	if src.acc.IsNull() {
		return
	}
	k := s.acc.Kind()
	if s.acc.IsNull() {
		s.acc = common.ZeroValue(k)
	}
	switch k {
	case common.KindFloat64:
		s.acc = common.Float64Value(s.acc.Float64() + src.acc.Float64())
	case common.KindDecimal:
		// Partial sums are always full width.
		s.acc = common.DecimalValue(s.acc.Decimal().Add(src.acc.Decimal()))
	default:
		s.acc = common.Int64Value(s.acc.Int64() + src.acc.Int64())
	}
}

const sumStateSize = 17 // null flag + 16-byte payload

// Serialize writes a null byte followed by the 16-byte little-endian
// payload. Integer and float sums occupy the low 8 bytes.
func (s *Sum) Serialize(_ common.Context) []byte {
	out := make([]byte, 1, sumStateSize)
	if s.acc.IsNull() {
		out[0] = 1
		return append(out, make([]byte, 16)...)
	}
	switch s.acc.Kind() {
	case common.KindFloat64:
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(s.acc.Float64()))
		out = append(out, make([]byte, 8)...)
	case common.KindDecimal:
		out = s.acc.Decimal().AppendLE(out, 16)
	default:
		out = binary.LittleEndian.AppendUint64(out, uint64(s.acc.Int64()))
		out = append(out, make([]byte, 8)...)
	}
	return out
}

func SumFromBytes(ctx common.Context, b []byte) (*Sum, error) {
	if len(b) != sumStateSize {
		return nil, fmt.Errorf("sum state must be %d bytes, got %d", sumStateSize, len(b))
	}
	s := NewSum(ctx)
	if b[0] != 0 {
		return s, nil
	}
	switch s.acc.Kind() {
	case common.KindFloat64:
		s.acc = common.Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(b[1:])))
	case common.KindDecimal:
		s.acc = common.DecimalValue(common.Int128FromLE(b[1:]))
	default:
		s.acc = common.Int64Value(int64(binary.LittleEndian.Uint64(b[1:])))
	}
	return s, nil
}

func (s *Sum) Finalize(_ common.Context) common.Value {
	return s.acc
}
