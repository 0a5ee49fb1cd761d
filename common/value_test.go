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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(Int64Value(1), Int64Value(2)))
	assert.Equal(t, 1, Compare(Float64Value(2.5), Float64Value(1.5)))
	assert.Equal(t, 0, Compare(StringValue("abc"), StringValue("abc")))
	assert.Equal(t, -1, Compare(StringValue("ab"), StringValue("b")))
	assert.Equal(t, -1, Compare(
		DecimalValue(Int128From64(-5)), DecimalValue(Int128From64(5))))

	early := TimestampValue(Timestamp{Days: 10, Nanos: 100})
	late := TimestampValue(Timestamp{Days: 10, Nanos: 200})
	assert.Equal(t, -1, Compare(early, late))
	assert.Equal(t, 1, Compare(
		TimestampValue(Timestamp{Days: 11}), TimestampValue(Timestamp{Days: 10, Nanos: 999})))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "42", Int64Value(42).String())
	assert.Equal(t, "2.5", Float64Value(2.5).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "NULL", NullValue(KindInt64).String())
	assert.Equal(t, "abc", StringValue("abc").String())
	assert.Equal(t, "150", DecimalValue(Int128From64(150)).String())
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := Timestamp{Days: 19000, Nanos: 12 * 3600 * 1e9}
	back := TimestampFromFloat(ts.Float())
	assert.Equal(t, ts.Days, back.Days)
	assert.InDelta(t, float64(ts.Nanos), float64(back.Nanos), 1e4)

	now := time.Date(2024, 3, 1, 15, 30, 45, 0, time.UTC)
	conv := TimestampFromTime(now)
	assert.True(t, now.Equal(conv.Time()))
	assert.Equal(t, "2024-03-01 15:30:45", conv.String())
}

func TestHashSeedsDisagree(t *testing.T) {
	v := Int64Value(12345)
	td := TypeDesc{Kind: KindInt64}
	assert.Equal(t, Hash32(v, td, 7), Hash32(v, td, 7))
	assert.NotEqual(t, Hash32(v, td, 0), Hash32(v, td, 1))
	assert.Equal(t, Hash64(v, td, FNV64Seed), Hash64(v, td, FNV64Seed))
	assert.NotEqual(t, Hash64(v, td, 1), Hash64(v, td, 2))
}

func TestHashRespectsDeclaredWidth(t *testing.T) {
	// The same unscaled number hashes differently under different declared
	// precisions because the byte image width changes.
	v := DecimalValue(Int128From64(99))
	narrow := TypeDesc{Kind: KindDecimal, Precision: 9}
	wide := TypeDesc{Kind: KindDecimal, Precision: 38}
	assert.NotEqual(t, Hash32(v, narrow, 0), Hash32(v, wide, 0))
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(KindInt64, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int64())

	v, err = FromAny(KindFloat64, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v.Float64())

	v, err = FromAny(KindBytes, 7)
	require.NoError(t, err)
	assert.Equal(t, "7", string(v.Bytes()))

	v, err = FromAny(KindBoolean, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	_, err = FromAny(KindInt64, "not a number")
	assert.Error(t, err)
}

func TestExecContextAccounting(t *testing.T) {
	ctx := NewExecContext(TypeDesc{Kind: KindInt64}, TypeDesc{Kind: KindInt64})
	buf := ctx.Allocate(16)
	assert.Equal(t, 1, ctx.LiveAllocations())
	assert.Equal(t, int64(16), ctx.LiveBytes())

	buf = ctx.Reallocate(buf, 32)
	assert.Equal(t, 1, ctx.LiveAllocations())
	assert.Equal(t, int64(32), ctx.LiveBytes())

	ctx.Free(buf)
	assert.Equal(t, 0, ctx.LiveAllocations())
	assert.Equal(t, int64(0), ctx.LiveBytes())

	ctx.AddWarning("something soft")
	assert.Equal(t, []string{"something soft"}, ctx.Warnings())

	assert.Equal(t, KindInt64, ctx.ArgType(0).Kind)
	assert.Equal(t, KindInt64, ctx.ReturnType().Kind)
}
