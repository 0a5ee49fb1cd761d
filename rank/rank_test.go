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

package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spongedu/colagg/common"
)

func int64Ctx() *common.ExecContext {
	return common.NewExecContext(common.TypeDesc{Kind: common.KindInt64})
}

// The ordered input [10,10,20,20,20,30] forms peer groups of sizes 2, 3
// and 1. The host updates every row of a group, then reads the group's
// value once and assigns it to each row.
func peerGroups() []int {
	return []int{2, 3, 1}
}

func TestRankSkipsPastTieGroups(t *testing.T) {
	ctx := int64Ctx()
	r := NewRank(ctx)
	var perRow []int64
	for _, size := range peerGroups() {
		for i := 0; i < size; i++ {
			r.Update(ctx)
		}
		v := r.GetValue(ctx).Int64()
		for i := 0; i < size; i++ {
			perRow = append(perRow, v)
		}
	}
	assert.Equal(t, []int64{1, 1, 3, 3, 3, 6}, perRow)
}

func TestDenseRankDoesNotSkip(t *testing.T) {
	ctx := int64Ctx()
	r := NewDenseRank(ctx)
	var perRow []int64
	for _, size := range peerGroups() {
		for i := 0; i < size; i++ {
			r.Update(ctx)
		}
		v := r.GetValue(ctx).Int64()
		for i := 0; i < size; i++ {
			perRow = append(perRow, v)
		}
	}
	assert.Equal(t, []int64{1, 1, 2, 2, 2, 3}, perRow)
}

func TestRankFinalizeReturnsPendingRank(t *testing.T) {
	ctx := int64Ctx()
	r := NewRank(ctx)
	r.Update(ctx)
	r.Update(ctx)
	assert.Equal(t, int64(1), r.GetValue(ctx).Int64())
	assert.Equal(t, int64(3), r.Finalize(ctx).Int64())

	d := NewDenseRank(ctx)
	d.Update(ctx)
	assert.Equal(t, int64(1), d.GetValue(ctx).Int64())
	assert.Equal(t, int64(2), d.Finalize(ctx).Int64())
}

func TestRankWireRoundTrip(t *testing.T) {
	ctx := int64Ctx()
	r := NewRank(ctx)
	r.Update(ctx)
	r.Update(ctx)

	restored, err := RankFromBytes(r.Serialize(ctx))
	require.NoError(t, err)
	assert.Equal(t, int64(1), restored.GetValue(ctx).Int64())
	assert.Equal(t, int64(3), restored.GetValue(ctx).Int64())

	d, err := DenseRankFromBytes(NewDenseRank(ctx).Serialize(ctx))
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.GetValue(ctx).Int64())

	_, err = RankFromBytes([]byte{9})
	assert.Error(t, err)
}
