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

// Package rank implements the rank and dense_rank window aggregates. The
// host calls Update once per row of the current peer group and GetValue at
// each peer-group boundary; rank advances past tie groups by their size,
// dense_rank by one.
package rank

import (
	"encoding/binary"
	"fmt"

	"github.com/spongedu/colagg/common"
)

// StateSize is the wire size of the rank state.
const StateSize = 16

// Rank is the rank() state { rank, count }.
type Rank struct {
	rank  int64
	count int64
}

func NewRank(_ common.Context) *Rank {
	return &Rank{rank: 1}
}

func (r *Rank) Update(_ common.Context) {
	r.count++
}

// GetValue returns the rank of the current peer group and advances past it.
func (r *Rank) GetValue(_ common.Context) common.Value {
	result := r.rank
	r.rank += r.count
	r.count = 0
	return common.Int64Value(result)
}

// Serialize writes { i64 rank, i64 count } little-endian.
func (r *Rank) Serialize(_ common.Context) []byte {
	out := make([]byte, 0, StateSize)
	out = binary.LittleEndian.AppendUint64(out, uint64(r.rank))
	return binary.LittleEndian.AppendUint64(out, uint64(r.count))
}

func RankFromBytes(b []byte) (*Rank, error) {
	if len(b) != StateSize {
		return nil, fmt.Errorf("rank state must be %d bytes, got %d", StateSize, len(b))
	}
	return &Rank{
		rank:  int64(binary.LittleEndian.Uint64(b)),
		count: int64(binary.LittleEndian.Uint64(b[8:])),
	}, nil
}

func (r *Rank) Finalize(_ common.Context) common.Value {
	return common.Int64Value(r.rank)
}

// DenseRank is the dense_rank() state. Update is intentionally a no-op:
// peer groups are expressed by how often GetValue is called, so the state
// only tracks the next rank to hand out.
type DenseRank struct {
	rank  int64
	count int64
}

func NewDenseRank(_ common.Context) *DenseRank {
	return &DenseRank{rank: 1}
}

func (r *DenseRank) Update(_ common.Context) {}

// GetValue returns the rank of the current peer group and advances by one.
func (r *DenseRank) GetValue(_ common.Context) common.Value {
	result := r.rank
	r.rank++
	return common.Int64Value(result)
}

func (r *DenseRank) Serialize(_ common.Context) []byte {
	out := make([]byte, 0, StateSize)
	out = binary.LittleEndian.AppendUint64(out, uint64(r.rank))
	return binary.LittleEndian.AppendUint64(out, uint64(r.count))
}

func DenseRankFromBytes(b []byte) (*DenseRank, error) {
	if len(b) != StateSize {
		return nil, fmt.Errorf("rank state must be %d bytes, got %d", StateSize, len(b))
	}
	return &DenseRank{
		rank:  int64(binary.LittleEndian.Uint64(b)),
		count: int64(binary.LittleEndian.Uint64(b[8:])),
	}, nil
}

func (r *DenseRank) Finalize(_ common.Context) common.Value {
	return common.Int64Value(r.rank)
}
