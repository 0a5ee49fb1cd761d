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

// Package common holds the typed value representation shared by every
// aggregate operator, the 128-bit decimal arithmetic, the seeded hash
// bindings and the execution context that operators run against.
package common

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
)

// Kind tags the payload carried by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBoolean
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindDecimal
	KindTimestamp
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindDecimal:
		return "decimal"
	case KindTimestamp:
		return "timestamp"
	case KindBytes:
		return "bytes"
	}
	return "invalid"
}

// IsNumeric reports whether the kind is an integer or floating point type.
func (k Kind) IsNumeric() bool {
	return k >= KindInt8 && k <= KindFloat64
}

// Value is a tagged value delivered to an aggregate operator, one row at a
// time. The null flag is carried separately from the payload; operators skip
// null inputs on update.
type Value struct {
	kind Kind
	null bool
	i    int64
	f    float64
	dec  Int128
	ts   Timestamp
	b    []byte
}

// NullValue returns the null value of the given kind.
func NullValue(k Kind) Value {
	return Value{kind: k, null: true}
}

// ZeroValue returns the non-null zero of the given kind.
func ZeroValue(k Kind) Value {
	return Value{kind: k}
}

// BoolValue returns a boolean value.
func BoolValue(v bool) Value {
	i := int64(0)
	if v {
		i = 1
	}
	return Value{kind: KindBoolean, i: i}
}

// IntValue returns an integer value of the given integer kind.
func IntValue(k Kind, v int64) Value {
	return Value{kind: k, i: v}
}

// Int64Value returns a 64-bit integer value.
func Int64Value(v int64) Value {
	return Value{kind: KindInt64, i: v}
}

// Float32Value returns a 32-bit float value. The payload is kept as a
// float64 but hashes and orders with 32-bit width.
func Float32Value(v float32) Value {
	return Value{kind: KindFloat32, f: float64(v)}
}

// Float64Value returns a 64-bit float value.
func Float64Value(v float64) Value {
	return Value{kind: KindFloat64, f: v}
}

// DecimalValue returns a decimal value with the given unscaled integer.
func DecimalValue(v Int128) Value {
	return Value{kind: KindDecimal, dec: v}
}

// TimestampValue returns a timestamp value.
func TimestampValue(ts Timestamp) Value {
	return Value{kind: KindTimestamp, ts: ts}
}

// BytesValue returns a byte-string value. The slice is not copied.
func BytesValue(b []byte) Value {
	return Value{kind: KindBytes, b: b}
}

// StringValue returns a byte-string value holding s.
func StringValue(s string) Value {
	return Value{kind: KindBytes, b: []byte(s)}
}

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.null }

// Int64 returns the integer or boolean payload.
func (v Value) Int64() int64 { return v.i }

// Float64 returns the float payload.
func (v Value) Float64() float64 { return v.f }

// Decimal returns the unscaled decimal payload.
func (v Value) Decimal() Int128 { return v.dec }

// Time returns the timestamp payload.
func (v Value) Time() Timestamp { return v.ts }

// Bytes returns the byte-string payload.
func (v Value) Bytes() []byte { return v.b }

// AsFloat64 widens any numeric payload to a float64.
func (v Value) AsFloat64() float64 {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.f
	default:
		return float64(v.i)
	}
}

// Compare orders two values of the same kind. Byte strings are ordered
// lexicographically, timestamps by (date, time-of-day), decimals by their
// unscaled integers.
func Compare(a, b Value) int {
	switch a.kind {
	case KindFloat32, KindFloat64:
		switch {
		case a.f < b.f:
			return -1
		case a.f > b.f:
			return 1
		}
		return 0
	case KindDecimal:
		return a.dec.Cmp(b.dec)
	case KindTimestamp:
		return a.ts.Compare(b.ts)
	case KindBytes:
		return bytes.Compare(a.b, b.b)
	default:
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		}
		return 0
	}
}

// AppendBinary appends the canonical little-endian byte image of the value.
// The image width of a decimal follows the declared precision of t; every
// other kind has a fixed width. This image is the hashing domain.
func (v Value) AppendBinary(dst []byte, t TypeDesc) []byte {
	switch v.kind {
	case KindBoolean, KindInt8:
		return append(dst, byte(v.i))
	case KindInt16:
		return binary.LittleEndian.AppendUint16(dst, uint16(v.i))
	case KindInt32:
		return binary.LittleEndian.AppendUint32(dst, uint32(v.i))
	case KindInt64:
		return binary.LittleEndian.AppendUint64(dst, uint64(v.i))
	case KindFloat32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v.f)))
	case KindFloat64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v.f))
	case KindDecimal:
		return v.dec.AppendLE(dst, DecimalWidth(t.Precision))
	case KindTimestamp:
		dst = binary.LittleEndian.AppendUint32(dst, uint32(v.ts.Days))
		return binary.LittleEndian.AppendUint64(dst, uint64(v.ts.Nanos))
	case KindBytes:
		return append(dst, v.b...)
	}
	return dst
}

// String renders the value in its output ASCII form. Null renders as "NULL".
func (v Value) String() string {
	if v.null {
		return "NULL"
	}
	switch v.kind {
	case KindBoolean:
		if v.i != 0 {
			return "true"
		}
		return "false"
	case KindFloat32, KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal:
		return v.dec.String()
	case KindTimestamp:
		return v.ts.String()
	case KindBytes:
		return string(v.b)
	default:
		return strconv.FormatInt(v.i, 10)
	}
}
