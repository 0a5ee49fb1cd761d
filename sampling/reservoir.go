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

// Package sampling implements the reservoir-sample-based aggregates:
// reservoir_sample, histogram and appx_median. A fixed reservoir of up to
// 20 000 slots collects a uniform sample of the stream; keys for weighted
// cross-partition merging are assigned lazily at serialize time, and merge
// keeps the highest-keyed slots via a min-heap.
package sampling

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spongedu/colagg/common"
)

const (
	numBuckets       = 100
	samplesPerBucket = 200

	// MaxSamples is the reservoir capacity.
	MaxSamples = numBuckets * samplesPerBucket

	// MaxStringSampleLen is the truncation length of byte-string samples;
	// longer strings are kept by their first 10 bytes only.
	MaxStringSampleLen = 10

	// defaultSeed seeds the per-state generator when the host supplies
	// none.
	defaultSeed = 9001
)

// lcg is the per-state 64-bit linear congruential generator (MMIX
// multiplier). Its single-word state is part of the wire image, so a
// deserialized partial resumes the same sequence.
type lcg struct {
	state uint64
}

func (g *lcg) next() uint64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return g.state
}

// nextMax returns a draw from [0, max] inclusive.
func (g *lcg) nextMax(max int64) int64 {
	return int64(g.next() % uint64(max+1))
}

// nextBelow returns a draw from [0, n).
func (g *lcg) nextBelow(n int64) int64 {
	return int64(g.next() % uint64(n))
}

type sample[T any] struct {
	val T
	// key orders samples across partials; -1 marks a slot whose key has
	// not been assigned yet.
	key float64
}

// Reservoir is the shared state of the reservoir-sample family,
// parameterized by the inline fixed-width item representation of its
// codec.
type Reservoir[T any] struct {
	codec      ItemCodec[T]
	samples    []sample[T]
	sourceSize int64
	rng        lcg
}

// NewReservoir builds an empty reservoir with the default seed.
func NewReservoir[T any](ctx common.Context, codec ItemCodec[T]) *Reservoir[T] {
	return NewReservoirSeeded(ctx, codec, defaultSeed)
}

// NewReservoirSeeded builds an empty reservoir with an explicit generator
// seed, for reproducible sampling.
func NewReservoirSeeded[T any](_ common.Context, codec ItemCodec[T], seed uint64) *Reservoir[T] {
	return &Reservoir[T]{codec: codec, rng: lcg{state: seed}}
}

// NumSamples returns the number of occupied slots.
func (r *Reservoir[T]) NumSamples() int { return len(r.samples) }

// SourceSize returns the number of values the samples were drawn from.
func (r *Reservoir[T]) SourceSize() int64 { return r.sourceSize }

// Update folds one value: append while the reservoir has room, then
// replace a random slot with probability capacity/source_size.
func (r *Reservoir[T]) Update(_ common.Context, v common.Value) {
	if v.IsNull() {
		return
	}
	if len(r.samples) < MaxSamples {
		r.samples = append(r.samples, sample[T]{val: r.codec.FromValue(v), key: -1})
	} else {
		idx := r.rng.nextMax(r.sourceSize)
		if idx < MaxSamples {
			r.samples[idx] = sample[T]{val: r.codec.FromValue(v), key: -1}
		}
	}
	r.sourceSize++
}

// assignKeys gives every unkeyed slot an approximate weighted-sampling key
// in [(source_size - num_samples)/source_size, 1]. True weighted reservoir
// sampling assigns keys on insertion; deferring to serialize time costs
// nothing while all inputs share weight, and the approximation weights the
// surviving samples by source_size so that merges across partials sample
// proportionally to each partition's stream.
func (r *Reservoir[T]) assignKeys() {
	for i := range r.samples {
		if r.samples[i].key >= 0 {
			continue
		}
		draw := r.rng.nextBelow(int64(len(r.samples)))
		r.samples[i].key = (float64(r.sourceSize) - float64(draw)) / float64(r.sourceSize)
	}
}

func (r *Reservoir[T]) wireSize() int {
	return MaxSamples*(r.codec.Size()+8) + 4 + 8 + 8
}

// Serialize assigns outstanding keys and writes the wire image: all
// capacity slots (vacant ones zeroed), then num_samples, source_size and
// the generator state, packed little-endian.
func (r *Reservoir[T]) Serialize(_ common.Context) []byte {
	r.assignKeys()
	itemSize := r.codec.Size() + 8
	out := make([]byte, r.wireSize())
	off := 0
	for _, s := range r.samples {
		r.codec.Encode(out[off:off+r.codec.Size()], s.val)
		binary.LittleEndian.PutUint64(out[off+r.codec.Size():], math.Float64bits(s.key))
		off += itemSize
	}
	off = MaxSamples * itemSize
	binary.LittleEndian.PutUint32(out[off:], uint32(len(r.samples)))
	binary.LittleEndian.PutUint64(out[off+4:], uint64(r.sourceSize))
	binary.LittleEndian.PutUint64(out[off+12:], r.rng.state)
	return out
}

// ReservoirFromBytes rebuilds a reservoir from its wire image.
func ReservoirFromBytes[T any](ctx common.Context, codec ItemCodec[T], b []byte) (*Reservoir[T], error) {
	r := NewReservoir(ctx, codec)
	if len(b) != r.wireSize() {
		return nil, fmt.Errorf("reservoir state must be %d bytes, got %d", r.wireSize(), len(b))
	}
	itemSize := codec.Size() + 8
	tail := MaxSamples * itemSize
	num := int(binary.LittleEndian.Uint32(b[tail:]))
	if num > MaxSamples {
		return nil, fmt.Errorf("reservoir sample count %d exceeds capacity %d", num, MaxSamples)
	}
	r.sourceSize = int64(binary.LittleEndian.Uint64(b[tail+4:]))
	r.rng.state = binary.LittleEndian.Uint64(b[tail+12:])
	r.samples = make([]sample[T], num)
	for i := 0; i < num; i++ {
		off := i * itemSize
		r.samples[i] = sample[T]{
			val: codec.Decode(b[off : off+codec.Size()]),
			key: math.Float64frombits(binary.LittleEndian.Uint64(b[off+codec.Size():])),
		}
	}
	return r, nil
}

// Merge folds a serialized partial into the destination. The destination
// array is maintained as a min-heap on key: source slots fill it until
// capacity, then each remaining slot evicts the heap root when its key is
// larger. Merge destinations start from init, so the heap invariant holds
// from the first insertion.
func (r *Reservoir[T]) Merge(_ common.Context, src *Reservoir[T]) {
	for _, s := range src.samples {
		if len(r.samples) < MaxSamples {
			r.samples = append(r.samples, s)
			r.siftUp(len(r.samples) - 1)
		} else if s.key > r.samples[0].key {
			r.samples[0] = s
			r.siftDown(0)
		}
	}
	r.sourceSize += src.sourceSize
}

func (r *Reservoir[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if r.samples[parent].key <= r.samples[i].key {
			return
		}
		r.samples[parent], r.samples[i] = r.samples[i], r.samples[parent]
		i = parent
	}
}

func (r *Reservoir[T]) siftDown(i int) {
	n := len(r.samples)
	for {
		least := i
		if l := 2*i + 1; l < n && r.samples[l].key < r.samples[least].key {
			least = l
		}
		if rt := 2*i + 2; rt < n && r.samples[rt].key < r.samples[least].key {
			least = rt
		}
		if least == i {
			return
		}
		r.samples[i], r.samples[least] = r.samples[least], r.samples[i]
		i = least
	}
}

func (r *Reservoir[T]) sortByValue() {
	sort.Slice(r.samples, func(i, j int) bool {
		return r.codec.Less(r.samples[i].val, r.samples[j].val)
	})
}

// FinalizeSample emits the samples in array order as a comma-separated
// list of their string forms.
func (r *Reservoir[T]) FinalizeSample(_ common.Context) common.Value {
	var sb strings.Builder
	for i, s := range r.samples {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.codec.Format(s.val))
	}
	return common.StringValue(sb.String())
}

// FinalizeHistogram sorts the samples by value and emits up to 100
// equi-height bucket boundaries as a comma-separated list.
func (r *Reservoir[T]) FinalizeHistogram(_ common.Context) common.Value {
	r.sortByValue()
	n := len(r.samples)
	buckets := n
	if buckets > numBuckets {
		buckets = numBuckets
	}
	step := n / numBuckets
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < buckets; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.codec.Format(r.samples[(i+1)*step-1].val))
	}
	return common.StringValue(sb.String())
}

// FinalizeMedian sorts the samples by value and emits the middle one. Null
// when the reservoir saw no values.
func (r *Reservoir[T]) FinalizeMedian(_ common.Context) common.Value {
	if len(r.samples) == 0 {
		return common.NullValue(common.KindBytes)
	}
	r.sortByValue()
	return common.StringValue(r.codec.Format(r.samples[len(r.samples)/2].val))
}
