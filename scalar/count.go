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

// Package scalar implements the scalar fold aggregates: count, sum, min and
// max. Their intermediate state is the typed accumulator itself plus a null
// flag; empty or all-null input yields null for sum/min/max and 0 for count.
package scalar

import (
	"encoding/binary"
	"fmt"

	"github.com/spongedu/colagg/common"
)

// Count counts non-null inputs. The state is never null.
type Count struct {
	n int64
}

func NewCount(_ common.Context) *Count {
	return &Count{}
}

func (c *Count) Update(_ common.Context, v common.Value) {
	if !v.IsNull() {
		c.n++
	}
}

func (c *Count) Merge(_ common.Context, src *Count) {
	c.n += src.n
}

// Serialize writes the count as 8 little-endian bytes.
func (c *Count) Serialize(_ common.Context) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(c.n))
}

func CountFromBytes(b []byte) (*Count, error) {
	if len(b) != 8 {
		return nil, fmt.Errorf("count state must be 8 bytes, got %d", len(b))
	}
	return &Count{n: int64(binary.LittleEndian.Uint64(b))}, nil
}

func (c *Count) Finalize(_ common.Context) common.Value {
	return common.Int64Value(c.n)
}

// CountStar counts rows unconditionally; it takes no argument.
type CountStar struct {
	n int64
}

func NewCountStar(_ common.Context) *CountStar {
	return &CountStar{}
}

func (c *CountStar) Update(_ common.Context) {
	c.n++
}

func (c *CountStar) Merge(_ common.Context, src *CountStar) {
	c.n += src.n
}

func (c *CountStar) Serialize(_ common.Context) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(c.n))
}

func CountStarFromBytes(b []byte) (*CountStar, error) {
	if len(b) != 8 {
		return nil, fmt.Errorf("count state must be 8 bytes, got %d", len(b))
	}
	return &CountStar{n: int64(binary.LittleEndian.Uint64(b))}, nil
}

func (c *CountStar) Finalize(_ common.Context) common.Value {
	return common.Int64Value(c.n)
}
