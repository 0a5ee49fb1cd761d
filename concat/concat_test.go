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

package concat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spongedu/colagg/common"
)

func bytesCtx() *common.ExecContext {
	return common.NewExecContext(
		common.TypeDesc{Kind: common.KindBytes},
		common.TypeDesc{Kind: common.KindBytes},
		common.TypeDesc{Kind: common.KindBytes})
}

func nullSep() common.Value {
	return common.NullValue(common.KindBytes)
}

func TestConcatDefaultSeparator(t *testing.T) {
	ctx := bytesCtx()
	c := NewConcat(ctx)
	for _, s := range []string{"a", "b", "c"} {
		c.Update(ctx, common.StringValue(s), nullSep())
	}
	assert.Equal(t, "a, b, c", string(c.Finalize(ctx).Bytes()))
	assert.Equal(t, 0, ctx.LiveAllocations())
}

func TestConcatExplicitSeparator(t *testing.T) {
	ctx := bytesCtx()
	c := NewConcat(ctx)
	c.Update(ctx, common.StringValue("x"), common.StringValue("|"))
	c.Update(ctx, common.StringValue("y"), common.StringValue("|"))
	assert.Equal(t, "x|y", string(c.Finalize(ctx).Bytes()))
}

func TestConcatSkipsNullValues(t *testing.T) {
	ctx := bytesCtx()
	c := NewConcat(ctx)
	c.Update(ctx, common.NullValue(common.KindBytes), nullSep())
	assert.True(t, c.Finalize(ctx).IsNull())
}

func TestConcatMergeKeepsFirstSeenSeparator(t *testing.T) {
	ctx := bytesCtx()
	left := NewConcat(ctx)
	left.Update(ctx, common.StringValue("a"), common.StringValue("-"))
	left.Update(ctx, common.StringValue("b"), common.StringValue("-"))

	right := NewConcat(ctx)
	right.Update(ctx, common.StringValue("c"), common.StringValue("+"))

	// The source payload is appended after its header; its own first
	// separator joins the two halves.
	left.Merge(ctx, right)
	out := left.Finalize(ctx)
	assert.Equal(t, "a-b+c", string(out.Bytes()))
}

func TestConcatMergeIntoEmpty(t *testing.T) {
	ctx := bytesCtx()
	src := NewConcat(ctx)
	src.Update(ctx, common.StringValue("a"), common.StringValue("-"))
	src.Update(ctx, common.StringValue("b"), common.StringValue("-"))

	dst := NewConcat(ctx)
	dst.Merge(ctx, src)
	assert.Equal(t, "a-b", string(dst.Finalize(ctx).Bytes()))
}

func TestConcatWireRoundTrip(t *testing.T) {
	ctx := bytesCtx()
	c := NewConcat(ctx)
	c.Update(ctx, common.StringValue("p"), common.StringValue("; "))
	c.Update(ctx, common.StringValue("q"), common.StringValue("; "))

	restored, err := ConcatFromBytes(ctx, c.Serialize(ctx))
	require.NoError(t, err)
	assert.Equal(t, "p; q", string(restored.Finalize(ctx).Bytes()))

	empty, err := ConcatFromBytes(ctx, nil)
	require.NoError(t, err)
	assert.True(t, empty.Finalize(ctx).IsNull())

	_, err = ConcatFromBytes(ctx, []byte{1, 2})
	assert.Error(t, err)
}
