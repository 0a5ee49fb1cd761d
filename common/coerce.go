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
	"fmt"

	"github.com/spf13/cast"
)

// FromAny coerces an arbitrary Go value into a Value of kind k. A nil input
// becomes the null value. This is the ingestion boundary for hosts feeding
// rows out of dynamically typed sources.
func FromAny(k Kind, x any) (Value, error) {
	if x == nil {
		return NullValue(k), nil
	}
	switch k {
	case KindBoolean:
		b, err := cast.ToBoolE(x)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case KindInt8, KindInt16, KindInt32, KindInt64:
		i, err := cast.ToInt64E(x)
		if err != nil {
			return Value{}, err
		}
		return IntValue(k, i), nil
	case KindFloat32:
		f, err := cast.ToFloat32E(x)
		if err != nil {
			return Value{}, err
		}
		return Float32Value(f), nil
	case KindFloat64:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return Value{}, err
		}
		return Float64Value(f), nil
	case KindDecimal:
		i, err := cast.ToInt64E(x)
		if err != nil {
			return Value{}, err
		}
		return DecimalValue(Int128From64(i)), nil
	case KindTimestamp:
		t, err := cast.ToTimeE(x)
		if err != nil {
			return Value{}, err
		}
		return TimestampValue(TimestampFromTime(t)), nil
	case KindBytes:
		s, err := cast.ToStringE(x)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	}
	return Value{}, fmt.Errorf("cannot coerce %T to %s", x, k)
}
