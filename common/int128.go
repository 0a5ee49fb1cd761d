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

package common

import (
	"encoding/binary"
	"math/bits"
	"strconv"
)

// Int128 is a signed 128-bit integer in two's complement, the unscaled
// backing of a decimal value. Arithmetic wraps modularly except where a
// method reports overflow explicitly.
type Int128 struct {
	hi uint64
	lo uint64
}

// Int128From64 sign-extends a 64-bit integer.
func Int128From64(v int64) Int128 {
	var hi uint64
	if v < 0 {
		hi = ^uint64(0)
	}
	return Int128{hi: hi, lo: uint64(v)}
}

// Int128FromLE reads a little-endian image of 4, 8 or 16 bytes,
// sign-extending narrower widths.
func Int128FromLE(b []byte) Int128 {
	switch len(b) {
	case 4:
		return Int128From64(int64(int32(binary.LittleEndian.Uint32(b))))
	case 8:
		return Int128From64(int64(binary.LittleEndian.Uint64(b)))
	default:
		return Int128{
			lo: binary.LittleEndian.Uint64(b),
			hi: binary.LittleEndian.Uint64(b[8:]),
		}
	}
}

// AppendLE appends the low `width` bytes (4, 8 or 16) in little-endian order.
func (x Int128) AppendLE(dst []byte, width int) []byte {
	switch width {
	case 4:
		return binary.LittleEndian.AppendUint32(dst, uint32(x.lo))
	case 8:
		return binary.LittleEndian.AppendUint64(dst, x.lo)
	default:
		dst = binary.LittleEndian.AppendUint64(dst, x.lo)
		return binary.LittleEndian.AppendUint64(dst, x.hi)
	}
}

// Trunc sign-extends the low `width` bytes, discarding the rest. Width is
// 4, 8 or 16; used to read a decimal sub-field of the declared physical
// width out of a full-width accumulator image.
func (x Int128) Trunc(width int) Int128 {
	switch width {
	case 4:
		return Int128From64(int64(int32(x.lo)))
	case 8:
		return Int128From64(int64(x.lo))
	default:
		return x
	}
}

// Int64 returns the low 64 bits as a signed integer.
func (x Int128) Int64() int64 { return int64(x.lo) }

// IsZero reports x == 0.
func (x Int128) IsZero() bool { return x.hi == 0 && x.lo == 0 }

// Sign returns -1, 0 or 1.
func (x Int128) Sign() int {
	if x.hi == 0 && x.lo == 0 {
		return 0
	}
	if int64(x.hi) < 0 {
		return -1
	}
	return 1
}

// Add returns x + y with modular wrap.
func (x Int128) Add(y Int128) Int128 {
	lo, carry := bits.Add64(x.lo, y.lo, 0)
	hi, _ := bits.Add64(x.hi, y.hi, carry)
	return Int128{hi: hi, lo: lo}
}

// Sub returns x - y with modular wrap.
func (x Int128) Sub(y Int128) Int128 {
	lo, borrow := bits.Sub64(x.lo, y.lo, 0)
	hi, _ := bits.Sub64(x.hi, y.hi, borrow)
	return Int128{hi: hi, lo: lo}
}

// Neg returns -x.
func (x Int128) Neg() Int128 {
	lo, carry := bits.Add64(^x.lo, 1, 0)
	return Int128{hi: ^x.hi + carry, lo: lo}
}

// Abs returns the magnitude of x and whether x was negative.
func (x Int128) Abs() (Int128, bool) {
	if x.Sign() < 0 {
		return x.Neg(), true
	}
	return x, false
}

// Cmp returns -1, 0 or 1 ordering x against y as signed integers.
func (x Int128) Cmp(y Int128) int {
	if int64(x.hi) != int64(y.hi) {
		if int64(x.hi) < int64(y.hi) {
			return -1
		}
		return 1
	}
	if x.lo != y.lo {
		if x.lo < y.lo {
			return -1
		}
		return 1
	}
	return 0
}

// MulPow10 returns x * 10^p, reporting overflow of the signed 128-bit range.
func (x Int128) MulPow10(p int) (Int128, bool) {
	mag, neg := x.Abs()
	for i := 0; i < p; i++ {
		hiCarry, lo := bits.Mul64(mag.lo, 10)
		hiHi, hiLo := bits.Mul64(mag.hi, 10)
		if hiHi != 0 {
			return Int128{}, true
		}
		hi, carry := bits.Add64(hiLo, hiCarry, 0)
		if carry != 0 || hi > 1<<63-1 {
			return Int128{}, true
		}
		mag = Int128{hi: hi, lo: lo}
	}
	if neg {
		mag = mag.Neg()
	}
	return mag, false
}

// DivMod64 divides x by d, truncating toward zero. The remainder carries the
// sign of x. d must be non-zero.
func (x Int128) DivMod64(d int64) (Int128, int64) {
	mag, neg := x.Abs()
	dm := uint64(d)
	dneg := d < 0
	if dneg {
		dm = uint64(-d)
	}
	qhi := mag.hi / dm
	rem := mag.hi % dm
	qlo, r := bits.Div64(rem, mag.lo, dm)
	q := Int128{hi: qhi, lo: qlo}
	if neg != dneg {
		q = q.Neg()
	}
	ri := int64(r)
	if neg {
		ri = -ri
	}
	return q, ri
}

// String renders x in decimal.
func (x Int128) String() string {
	if x.IsZero() {
		return "0"
	}
	mag, neg := x.Abs()
	// Peel 18 digits at a time; 10^18 fits a uint64 limb division.
	const chunk = int64(1e18)
	var parts []uint64
	for !mag.IsZero() {
		q, r := mag.DivMod64(chunk)
		parts = append(parts, uint64(r))
		mag = q
	}
	buf := make([]byte, 0, 40)
	if neg {
		buf = append(buf, '-')
	}
	buf = strconv.AppendUint(buf, parts[len(parts)-1], 10)
	for i := len(parts) - 2; i >= 0; i-- {
		s := strconv.FormatUint(parts[i], 10)
		for pad := 18 - len(s); pad > 0; pad-- {
			buf = append(buf, '0')
		}
		buf = append(buf, s...)
	}
	return string(buf)
}
