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

// MinMax keeps the extremum of the inputs under the value type's total
// order. Byte-string extrema are deep-copied into context-owned buffers on
// replacement; the displaced buffer is freed immediately.
type MinMax struct {
	cur   common.Value
	isMax bool
}

func NewMin(ctx common.Context) *MinMax {
	return &MinMax{cur: common.NullValue(ctx.ArgType(0).Kind)}
}

func NewMax(ctx common.Context) *MinMax {
	return &MinMax{cur: common.NullValue(ctx.ArgType(0).Kind), isMax: true}
}

func (m *MinMax) Update(ctx common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	if !m.cur.IsNull() {
		c := common.Compare(v, m.cur)
		if m.isMax && c <= 0 || !m.isMax && c >= 0 {
			return
		}
	}
	if v.Kind() == common.KindBytes {
		if !m.cur.IsNull() {
			ctx.Free(m.cur.Bytes())
		}
		buf := ctx.Allocate(len(v.Bytes()))
		copy(buf, v.Bytes())
		m.cur = common.BytesValue(buf)
		return
	}
	m.cur = v
}

func (m *MinMax) Merge(ctx common.Context, src *MinMax) {
	if src.cur.IsNull() {
		return
	}
	m.Update(ctx, src.cur)
}

// Serialize writes a null byte followed by the payload image: 8 bytes for
// integers and floats, 12 for timestamps, 16 for decimals, the raw bytes
// for byte strings.
func (m *MinMax) Serialize(_ common.Context) []byte {
	if m.cur.IsNull() {
		return []byte{1}
	}
	out := []byte{0}
	switch m.cur.Kind() {
	case common.KindFloat32, common.KindFloat64:
		return binary.LittleEndian.AppendUint64(out, math.Float64bits(m.cur.Float64()))
	case common.KindDecimal:
		return m.cur.Decimal().AppendLE(out, 16)
	case common.KindTimestamp:
		ts := m.cur.Time()
		out = binary.LittleEndian.AppendUint32(out, uint32(ts.Days))
		return binary.LittleEndian.AppendUint64(out, uint64(ts.Nanos))
	case common.KindBytes:
		return append(out, m.cur.Bytes()...)
	default:
		return binary.LittleEndian.AppendUint64(out, uint64(m.cur.Int64()))
	}
}

func minMaxFromBytes(ctx common.Context, b []byte, isMax bool) (*MinMax, error) {
	if len(b) < 1 {
		return nil, fmt.Errorf("min/max state must carry a null byte")
	}
	m := &MinMax{cur: common.NullValue(ctx.ArgType(0).Kind), isMax: isMax}
	if b[0] != 0 {
		return m, nil
	}
	payload := b[1:]
	switch k := ctx.ArgType(0).Kind; k {
	case common.KindFloat32:
		m.cur = common.Float32Value(float32(math.Float64frombits(binary.LittleEndian.Uint64(payload))))
	case common.KindFloat64:
		m.cur = common.Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(payload)))
	case common.KindDecimal:
		m.cur = common.DecimalValue(common.Int128FromLE(payload))
	case common.KindTimestamp:
		m.cur = common.TimestampValue(common.Timestamp{
			Days:  int32(binary.LittleEndian.Uint32(payload)),
			Nanos: int64(binary.LittleEndian.Uint64(payload[4:])),
		})
	case common.KindBytes:
		buf := ctx.Allocate(len(payload))
		copy(buf, payload)
		m.cur = common.BytesValue(buf)
	default:
		m.cur = common.IntValue(k, int64(binary.LittleEndian.Uint64(payload)))
	}
	return m, nil
}

func MinFromBytes(ctx common.Context, b []byte) (*MinMax, error) {
	return minMaxFromBytes(ctx, b, false)
}

func MaxFromBytes(ctx common.Context, b []byte) (*MinMax, error) {
	return minMaxFromBytes(ctx, b, true)
}

// Finalize returns the extremum, copying byte-string results out of the
// context-owned buffer before freeing it.
func (m *MinMax) Finalize(ctx common.Context) common.Value {
	if m.cur.Kind() == common.KindBytes && !m.cur.IsNull() {
		out := append([]byte(nil), m.cur.Bytes()...)
		ctx.Free(m.cur.Bytes())
		m.cur = common.NullValue(common.KindBytes)
		return common.BytesValue(out)
	}
	return m.cur
}
