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

// Package concat implements group_concat. The intermediate state is a
// context-owned buffer whose first four bytes store the length of the
// first-seen separator; the payload that follows begins with that
// separator. Keeping the leading separator makes merge a plain byte append
// and finalize a slice past header + first separator.
package concat

import (
	"fmt"

	"github.com/spongedu/colagg/common"
	"github.com/spongedu/colagg/internal"
)

// DefaultSeparator is used when the caller passes a null separator.
const DefaultSeparator = ", "

const headerLen = 4

// Concat is the group_concat state. A nil buffer is the null state; empty
// or all-null input finalizes to null.
type Concat struct {
	buf []byte
}

func NewConcat(_ common.Context) *Concat {
	return &Concat{}
}

// Update appends separator then value. The first call installs the header
// recording that separator's length.
func (c *Concat) Update(ctx common.Context, v, sep common.Value) {
	if v.IsNull() {
		return
	}
	sepBytes := []byte(DefaultSeparator)
	if !sep.IsNull() {
		sepBytes = sep.Bytes()
	}
	if c.buf == nil {
		c.buf = ctx.Allocate(headerLen)
		internal.PutUint32LE(c.buf, 0, uint32(len(sepBytes)))
	}
	oldLen := len(c.buf)
	c.buf = ctx.Reallocate(c.buf, oldLen+len(sepBytes)+len(v.Bytes()))
	copy(c.buf[oldLen:], sepBytes)
	copy(c.buf[oldLen+len(sepBytes):], v.Bytes())
}

// Merge appends the source payload, skipping the source header so the
// source's own first separator is kept in place exactly once.
func (c *Concat) Merge(ctx common.Context, src *Concat) {
	if src.buf == nil {
		return
	}
	if c.buf == nil {
		c.buf = ctx.Allocate(headerLen)
		copy(c.buf, src.buf[:headerLen])
	}
	oldLen := len(c.buf)
	c.buf = ctx.Reallocate(c.buf, oldLen+len(src.buf)-headerLen)
	copy(c.buf[oldLen:], src.buf[headerLen:])
}

// Serialize returns the state's byte image unchanged; the wire form is the
// state itself.
func (c *Concat) Serialize(_ common.Context) []byte {
	return c.buf
}

func ConcatFromBytes(ctx common.Context, b []byte) (*Concat, error) {
	if b == nil {
		return &Concat{}, nil
	}
	if len(b) < headerLen {
		return nil, fmt.Errorf("concat state must carry a %d-byte header, got %d bytes", headerLen, len(b))
	}
	sepLen := int(internal.GetUint32LE(b, 0))
	if len(b) < headerLen+sepLen {
		return nil, fmt.Errorf("concat state shorter than header plus separator")
	}
	buf := ctx.Allocate(len(b))
	copy(buf, b)
	return &Concat{buf: buf}, nil
}

// Finalize strips the header and the leading separator and returns the
// remaining bytes, releasing the state buffer.
func (c *Concat) Finalize(ctx common.Context) common.Value {
	if c.buf == nil {
		return common.NullValue(common.KindBytes)
	}
	sepLen := int(internal.GetUint32LE(c.buf, 0))
	out := append([]byte(nil), c.buf[headerLen+sepLen:]...)
	ctx.Free(c.buf)
	c.buf = nil
	return common.BytesValue(out)
}
