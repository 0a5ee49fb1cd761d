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

// DecimalWidth maps a declared decimal precision to the physical byte width
// of its storage: up to 9 digits fit 4 bytes, up to 19 fit 8, the rest 16.
func DecimalWidth(precision int) int {
	switch {
	case precision <= 9:
		return 4
	case precision <= 19:
		return 8
	default:
		return 16
	}
}

// DecimalDivide divides an unscaled sum at sumScale by an unscaled integer
// count, producing an unscaled result at outScale. isNan reports a zero
// divisor; overflow reports that rescaling the sum left the 128-bit range.
// The quotient truncates toward zero.
func DecimalDivide(sum Int128, sumScale int, count int64, outScale int) (res Int128, isNan, overflow bool) {
	if count == 0 {
		return Int128{}, true, false
	}
	adjust := outScale - sumScale
	if adjust >= 0 {
		scaled, ovf := sum.MulPow10(adjust)
		if ovf {
			return Int128{}, false, true
		}
		res, _ = scaled.DivMod64(count)
		return res, false, false
	}
	// Result is coarser than the accumulator; divide first, then drop scale
	// in limb-sized steps.
	q, _ := sum.DivMod64(count)
	for adjust < 0 {
		step := -adjust
		if step > 18 {
			step = 18
		}
		down, _ := Int128From64(1).MulPow10(step)
		q, _ = q.DivMod64(down.Int64())
		adjust += step
	}
	return q, false, false
}
