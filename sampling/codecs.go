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

package sampling

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"

	"github.com/spongedu/colagg/common"
)

// ItemCodec defines how one value kind lives inside a reservoir slot: its
// fixed-width inline representation, the little-endian wire form of that
// representation, its sort order and its output rendering. This is what
// keeps reservoir states free of pointers into non-owned memory.
type ItemCodec[T any] interface {
	FromValue(v common.Value) T
	Less(a, b T) bool
	Size() int
	Encode(dst []byte, v T)
	Decode(src []byte) T
	Format(v T) string
}

// Int64Codec samples any integer or boolean kind widened to int64.
type Int64Codec struct{}

func (Int64Codec) FromValue(v common.Value) int64 { return v.Int64() }
func (Int64Codec) Less(a, b int64) bool           { return a < b }
func (Int64Codec) Size() int                      { return 8 }
func (Int64Codec) Encode(dst []byte, v int64) {
	binary.LittleEndian.PutUint64(dst, uint64(v))
}
func (Int64Codec) Decode(src []byte) int64 {
	return int64(binary.LittleEndian.Uint64(src))
}
func (Int64Codec) Format(v int64) string { return strconv.FormatInt(v, 10) }

// Float64Codec samples either float kind widened to float64.
type Float64Codec struct{}

func (Float64Codec) FromValue(v common.Value) float64 { return v.AsFloat64() }
func (Float64Codec) Less(a, b float64) bool           { return a < b }
func (Float64Codec) Size() int                        { return 8 }
func (Float64Codec) Encode(dst []byte, v float64) {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
}
func (Float64Codec) Decode(src []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(src))
}
func (Float64Codec) Format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// DecimalCodec samples decimals by their unscaled 128-bit integers, which
// is also how they order and render.
type DecimalCodec struct{}

func (DecimalCodec) FromValue(v common.Value) common.Int128 { return v.Decimal() }
func (DecimalCodec) Less(a, b common.Int128) bool           { return a.Cmp(b) < 0 }
func (DecimalCodec) Size() int                              { return 16 }
func (DecimalCodec) Encode(dst []byte, v common.Int128) {
	v.AppendLE(dst[:0], 16)
}
func (DecimalCodec) Decode(src []byte) common.Int128 {
	return common.Int128FromLE(src[:16])
}
func (DecimalCodec) Format(v common.Int128) string { return v.String() }

// TimestampCodec samples timestamps, ordered by (date, time-of-day).
type TimestampCodec struct{}

func (TimestampCodec) FromValue(v common.Value) common.Timestamp { return v.Time() }
func (TimestampCodec) Less(a, b common.Timestamp) bool {
	return a.Compare(b) < 0
}
func (TimestampCodec) Size() int { return 12 }
func (TimestampCodec) Encode(dst []byte, v common.Timestamp) {
	binary.LittleEndian.PutUint32(dst, uint32(v.Days))
	binary.LittleEndian.PutUint64(dst[4:], uint64(v.Nanos))
}
func (TimestampCodec) Decode(src []byte) common.Timestamp {
	return common.Timestamp{
		Days:  int32(binary.LittleEndian.Uint32(src)),
		Nanos: int64(binary.LittleEndian.Uint64(src[4:])),
	}
}
func (TimestampCodec) Format(v common.Timestamp) string { return v.String() }

// FixedString is the inline form of a byte-string sample: the first
// MaxStringSampleLen bytes and the stored (truncated) length.
type FixedString struct {
	Buf [MaxStringSampleLen]byte
	Len int32
}

// StringCodec samples byte strings truncated to MaxStringSampleLen bytes.
// Ordering uses the truncated image; equal prefixes order shorter first.
type StringCodec struct{}

func (StringCodec) FromValue(v common.Value) FixedString {
	var f FixedString
	n := len(v.Bytes())
	if n > MaxStringSampleLen {
		n = MaxStringSampleLen
	}
	copy(f.Buf[:n], v.Bytes())
	f.Len = int32(n)
	return f
}

func (StringCodec) Less(a, b FixedString) bool {
	n := a.Len
	if b.Len < n {
		n = b.Len
	}
	if c := bytes.Compare(a.Buf[:n], b.Buf[:n]); c != 0 {
		return c < 0
	}
	return a.Len < b.Len
}

func (StringCodec) Size() int { return MaxStringSampleLen + 4 }

func (StringCodec) Encode(dst []byte, v FixedString) {
	copy(dst, v.Buf[:])
	binary.LittleEndian.PutUint32(dst[MaxStringSampleLen:], uint32(v.Len))
}

func (StringCodec) Decode(src []byte) FixedString {
	var f FixedString
	copy(f.Buf[:], src[:MaxStringSampleLen])
	f.Len = int32(binary.LittleEndian.Uint32(src[MaxStringSampleLen:]))
	return f
}

func (StringCodec) Format(v FixedString) string {
	return string(v.Buf[:v.Len])
}
