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
	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"
)

// FNV64Seed is the FNV-64 offset basis, the seed of the 64-bit hash used by
// the HyperLogLog operator.
const FNV64Seed uint64 = 0xcbf29ce484222325

// Hash32 hashes the canonical byte image of v with the given seed. The
// probabilistic-counting operators derive their hash-function family from
// the seed.
func Hash32(v Value, t TypeDesc, seed uint32) uint32 {
	var scratch [16]byte
	return murmur3.SeedSum32(seed, v.AppendBinary(scratch[:0], t))
}

// Hash64 hashes the canonical byte image of v with the given 64-bit seed.
func Hash64(v Value, t TypeDesc, seed uint64) uint64 {
	var scratch [16]byte
	d := xxhash.NewWithSeed(seed)
	d.Write(v.AppendBinary(scratch[:0], t))
	return d.Sum64()
}
