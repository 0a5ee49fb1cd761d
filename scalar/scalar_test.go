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

package scalar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spongedu/colagg/common"
)

func int64Ctx() *common.ExecContext {
	return common.NewExecContext(
		common.TypeDesc{Kind: common.KindInt64},
		common.TypeDesc{Kind: common.KindInt64})
}

func TestCount(t *testing.T) {
	ctx := int64Ctx()
	c := NewCount(ctx)
	c.Update(ctx, common.Int64Value(1))
	c.Update(ctx, common.NullValue(common.KindInt64))
	c.Update(ctx, common.Int64Value(2))
	assert.Equal(t, int64(2), c.Finalize(ctx).Int64())

	star := NewCountStar(ctx)
	star.Update(ctx)
	star.Update(ctx)
	star.Update(ctx)
	assert.Equal(t, int64(3), star.Finalize(ctx).Int64())
}

func TestCountMergeAndWire(t *testing.T) {
	ctx := int64Ctx()
	a := NewCount(ctx)
	b := NewCount(ctx)
	for i := 0; i < 5; i++ {
		a.Update(ctx, common.Int64Value(int64(i)))
	}
	b.Update(ctx, common.Int64Value(9))

	restored, err := CountFromBytes(b.Serialize(ctx))
	require.NoError(t, err)
	a.Merge(ctx, restored)
	assert.Equal(t, int64(6), a.Finalize(ctx).Int64())

	_, err = CountFromBytes([]byte{1, 2})
	assert.Error(t, err)
}

func TestSumInt(t *testing.T) {
	ctx := int64Ctx()
	s := NewSum(ctx)
	assert.True(t, s.Finalize(ctx).IsNull())

	s.Update(ctx, common.Int64Value(3))
	s.Update(ctx, common.NullValue(common.KindInt64))
	s.Update(ctx, common.Int64Value(4))
	assert.Equal(t, int64(7), s.Finalize(ctx).Int64())
}

func TestSumFloat(t *testing.T) {
	ctx := common.NewExecContext(
		common.TypeDesc{Kind: common.KindFloat64},
		common.TypeDesc{Kind: common.KindFloat32})
	s := NewSum(ctx)
	s.Update(ctx, common.Float32Value(1.5))
	s.Update(ctx, common.Float32Value(2.25))
	assert.Equal(t, 3.75, s.Finalize(ctx).Float64())
}

func TestSumDecimalWidths(t *testing.T) {
	// A narrow source value is read through its 4-byte sub-field; the
	// accumulator stays full width.
	ctx := common.NewExecContext(
		common.TypeDesc{Kind: common.KindDecimal, Precision: 38, Scale: 2},
		common.TypeDesc{Kind: common.KindDecimal, Precision: 9, Scale: 2})
	s := NewSum(ctx)
	s.Update(ctx, common.DecimalValue(common.Int128From64(150)))
	s.Update(ctx, common.DecimalValue(common.Int128From64(-50)))
	assert.Equal(t, int64(100), s.Finalize(ctx).Decimal().Int64())
}

func TestSumPartitionInvariance(t *testing.T) {
	ctx := int64Ctx()
	whole := NewSum(ctx)
	left := NewSum(ctx)
	right := NewSum(ctx)
	for i := int64(1); i <= 100; i++ {
		whole.Update(ctx, common.Int64Value(i))
		if i <= 50 {
			left.Update(ctx, common.Int64Value(i))
		} else {
			right.Update(ctx, common.Int64Value(i))
		}
	}
	left.Merge(ctx, right)
	assert.Equal(t, whole.Finalize(ctx).Int64(), left.Finalize(ctx).Int64())
}

func TestSumWireRoundTrip(t *testing.T) {
	ctx := int64Ctx()
	s := NewSum(ctx)
	s.Update(ctx, common.Int64Value(-12))
	restored, err := SumFromBytes(ctx, s.Serialize(ctx))
	require.NoError(t, err)
	assert.Equal(t, int64(-12), restored.Finalize(ctx).Int64())

	empty, err := SumFromBytes(ctx, NewSum(ctx).Serialize(ctx))
	require.NoError(t, err)
	assert.True(t, empty.Finalize(ctx).IsNull())
}

func TestMinMaxInts(t *testing.T) {
	ctx := int64Ctx()
	mn := NewMin(ctx)
	mx := NewMax(ctx)
	for _, v := range []int64{5, -3, 12, 0} {
		mn.Update(ctx, common.Int64Value(v))
		mx.Update(ctx, common.Int64Value(v))
	}
	assert.Equal(t, int64(-3), mn.Finalize(ctx).Int64())
	assert.Equal(t, int64(12), mx.Finalize(ctx).Int64())
}

func TestMinMaxEmptyIsNull(t *testing.T) {
	ctx := int64Ctx()
	assert.True(t, NewMin(ctx).Finalize(ctx).IsNull())
	assert.True(t, NewMax(ctx).Finalize(ctx).IsNull())
}

func TestMinMaxStringsOwnTheirBuffers(t *testing.T) {
	ctx := common.NewExecContext(
		common.TypeDesc{Kind: common.KindBytes},
		common.TypeDesc{Kind: common.KindBytes})
	mx := NewMax(ctx)

	scratch := []byte("banana")
	mx.Update(ctx, common.BytesValue(scratch))
	// Mutating the caller's buffer must not change the stored extremum.
	scratch[0] = 'z'
	mx.Update(ctx, common.BytesValue([]byte("apple")))

	out := mx.Finalize(ctx)
	assert.Equal(t, "banana", string(out.Bytes()))
	assert.Equal(t, 0, ctx.LiveAllocations())
}

func TestMinMaxMergeCommutes(t *testing.T) {
	ctx := int64Ctx()
	a := NewMin(ctx)
	b := NewMin(ctx)
	a.Update(ctx, common.Int64Value(4))
	b.Update(ctx, common.Int64Value(-9))

	ab := NewMin(ctx)
	ab.Merge(ctx, a)
	ab.Merge(ctx, b)
	ba := NewMin(ctx)
	ba.Merge(ctx, b)
	ba.Merge(ctx, a)
	assert.Equal(t, ab.Finalize(ctx).Int64(), ba.Finalize(ctx).Int64())
}

func TestMinMaxTimestamp(t *testing.T) {
	ctx := common.NewExecContext(
		common.TypeDesc{Kind: common.KindTimestamp},
		common.TypeDesc{Kind: common.KindTimestamp})
	mn := NewMin(ctx)
	mn.Update(ctx, common.TimestampValue(common.Timestamp{Days: 100, Nanos: 5}))
	mn.Update(ctx, common.TimestampValue(common.Timestamp{Days: 100, Nanos: 3}))
	mn.Update(ctx, common.TimestampValue(common.Timestamp{Days: 101}))
	assert.Equal(t, common.Timestamp{Days: 100, Nanos: 3}, mn.Finalize(ctx).Time())
}

func TestMinMaxWireRoundTrip(t *testing.T) {
	ctx := common.NewExecContext(
		common.TypeDesc{Kind: common.KindBytes},
		common.TypeDesc{Kind: common.KindBytes})
	mn := NewMin(ctx)
	mn.Update(ctx, common.StringValue("pear"))
	mn.Update(ctx, common.StringValue("fig"))

	restored, err := MinFromBytes(ctx, mn.Serialize(ctx))
	require.NoError(t, err)
	assert.Equal(t, "fig", string(restored.Finalize(ctx).Bytes()))

	// Drain the original state's buffer too.
	mn.Finalize(ctx)
	assert.Equal(t, 0, ctx.LiveAllocations())
}
