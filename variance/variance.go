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

// Package variance implements single-pass streaming variance and standard
// deviation with Knuth/Welford's numerically stable update and the
// Chan et al. parallel formula for merging partial states. A standard
// aggregate must be single pass, so the canonical two-pass computation is
// not an option.
package variance

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/spongedu/colagg/common"
)

// StateSize is the wire size of the variance state.
const StateSize = 24

// Variance is the shared state { mean, m2, count } of the variance and
// stddev aggregates.
type Variance struct {
	mean  float64
	m2    float64
	count int64
}

func NewVariance(_ common.Context) *Variance {
	return &Variance{}
}

func (s *Variance) Update(_ common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	x := v.AsFloat64()
	next := float64(s.count + 1)
	delta := x - s.mean
	r := delta / next
	s.mean += r
	s.m2 += float64(s.count) * delta * r
	s.count++
}

func (s *Variance) Merge(_ common.Context, src *Variance) {
	if src.count == 0 {
		return
	}
	delta := s.mean - src.mean
	n := float64(s.count + src.count)
	s.mean = src.mean + delta*(float64(s.count)/n)
	s.m2 = src.m2 + s.m2 + delta*delta*(float64(src.count)*float64(s.count)/n)
	s.count += src.count
}

// Serialize writes { f64 mean, f64 m2, i64 count } little-endian.
func (s *Variance) Serialize(_ common.Context) []byte {
	out := make([]byte, 0, StateSize)
	out = binary.LittleEndian.AppendUint64(out, math.Float64bits(s.mean))
	out = binary.LittleEndian.AppendUint64(out, math.Float64bits(s.m2))
	return binary.LittleEndian.AppendUint64(out, uint64(s.count))
}

func VarianceFromBytes(b []byte) (*Variance, error) {
	if len(b) != StateSize {
		return nil, fmt.Errorf("variance state must be %d bytes, got %d", StateSize, len(b))
	}
	return &Variance{
		mean:  math.Float64frombits(binary.LittleEndian.Uint64(b)),
		m2:    math.Float64frombits(binary.LittleEndian.Uint64(b[8:])),
		count: int64(binary.LittleEndian.Uint64(b[16:])),
	}, nil
}

// value computes the variance; population divides by count, sample by
// count-1. A single observation has variance zero by convention.
func (s *Variance) value(population bool) float64 {
	if s.count == 1 {
		return 0.0
	}
	if population {
		return s.m2 / float64(s.count)
	}
	return s.m2 / float64(s.count-1)
}

func formatted(v float64) common.Value {
	return common.StringValue(strconv.FormatFloat(v, 'g', -1, 64))
}

// Finalize returns the sample variance as a numeric double, null on an
// empty aggregate.
func (s *Variance) Finalize(_ common.Context) common.Value {
	if s.count == 0 {
		return common.NullValue(common.KindFloat64)
	}
	return common.Float64Value(s.value(false))
}

// FinalizePop returns the population variance rendered as an ASCII string.
func (s *Variance) FinalizePop(_ common.Context) common.Value {
	if s.count == 0 {
		return common.NullValue(common.KindBytes)
	}
	return formatted(s.value(true))
}

// FinalizeStddev returns the sample standard deviation as an ASCII string.
func (s *Variance) FinalizeStddev(_ common.Context) common.Value {
	if s.count == 0 {
		return common.NullValue(common.KindBytes)
	}
	return formatted(math.Sqrt(s.value(false)))
}

// FinalizeStddevPop returns the population standard deviation as an ASCII
// string.
func (s *Variance) FinalizeStddevPop(_ common.Context) common.Value {
	if s.count == 0 {
		return common.NullValue(common.KindBytes)
	}
	return formatted(math.Sqrt(s.value(true)))
}
