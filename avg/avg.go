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

// Package avg implements the running average aggregates. The numeric
// average keeps a float64 sum and an int64 count; the timestamp variant
// averages in the fractional-day domain; the decimal variant accumulates an
// unscaled 128-bit sum at the return type's scale.
package avg

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spongedu/colagg/common"
)

// StateSize is the wire size of the numeric average state.
const StateSize = 16

// Avg is the integer/float average: { sum float64, count int64 }.
type Avg struct {
	sum   float64
	count int64
}

func NewAvg(_ common.Context) *Avg {
	return &Avg{}
}

func (a *Avg) Update(_ common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	a.sum += v.AsFloat64()
	a.count++
}

func (a *Avg) Merge(_ common.Context, src *Avg) {
	a.sum += src.sum
	a.count += src.count
}

// Serialize writes { f64 sum, i64 count } little-endian.
func (a *Avg) Serialize(_ common.Context) []byte {
	out := make([]byte, 0, StateSize)
	out = binary.LittleEndian.AppendUint64(out, math.Float64bits(a.sum))
	return binary.LittleEndian.AppendUint64(out, uint64(a.count))
}

func AvgFromBytes(b []byte) (*Avg, error) {
	if len(b) != StateSize {
		return nil, fmt.Errorf("avg state must be %d bytes, got %d", StateSize, len(b))
	}
	return &Avg{
		sum:   math.Float64frombits(binary.LittleEndian.Uint64(b)),
		count: int64(binary.LittleEndian.Uint64(b[8:])),
	}, nil
}

// GetValue evaluates the running average without consuming the state. Null
// until the first non-null input.
func (a *Avg) GetValue(_ common.Context) common.Value {
	if a.count == 0 {
		return common.NullValue(common.KindFloat64)
	}
	return common.Float64Value(a.sum / float64(a.count))
}

func (a *Avg) Finalize(ctx common.Context) common.Value {
	return a.GetValue(ctx)
}

// TimestampAvg averages timestamps by converting them to fractional days.
type TimestampAvg struct {
	Avg
}

func NewTimestampAvg(_ common.Context) *TimestampAvg {
	return &TimestampAvg{}
}

func (a *TimestampAvg) Update(_ common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	a.sum += v.Time().Float()
	a.count++
}

func (a *TimestampAvg) Merge(_ common.Context, src *TimestampAvg) {
	a.Avg.Merge(nil, &src.Avg)
}

func TimestampAvgFromBytes(b []byte) (*TimestampAvg, error) {
	inner, err := AvgFromBytes(b)
	if err != nil {
		return nil, err
	}
	return &TimestampAvg{Avg: *inner}, nil
}

func (a *TimestampAvg) GetValue(_ common.Context) common.Value {
	if a.count == 0 {
		return common.NullValue(common.KindTimestamp)
	}
	return common.TimestampValue(common.TimestampFromFloat(a.sum / float64(a.count)))
}

func (a *TimestampAvg) Finalize(ctx common.Context) common.Value {
	return a.GetValue(ctx)
}
