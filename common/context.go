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

import "go.uber.org/zap"

// TypeDesc describes a declared input or output type of an aggregate.
// Precision and Scale are meaningful for decimals only.
type TypeDesc struct {
	Kind      Kind
	Precision int
	Scale     int
}

// Context is the execution environment an aggregate runs against: a byte
// allocator whose lifetime is bound to the operator invocation chain, the
// declared argument and return types, and a non-fatal warning channel.
type Context interface {
	Allocate(n int) []byte
	Reallocate(buf []byte, n int) []byte
	Free(buf []byte)

	ArgType(i int) TypeDesc
	ReturnType() TypeDesc

	AddWarning(msg string)
}

// ExecContext is the default Context. It tracks outstanding allocations so
// tests can assert that finalize released every state buffer, collects
// warnings and mirrors them to a zap logger.
type ExecContext struct {
	ret  TypeDesc
	args []TypeDesc

	logger   *zap.Logger
	warnings []string

	liveAllocs int
	liveBytes  int64
}

// NewExecContext builds a context with the given return and argument types.
// Warnings go to a nop logger until WithLogger is called.
func NewExecContext(ret TypeDesc, args ...TypeDesc) *ExecContext {
	return &ExecContext{ret: ret, args: args, logger: zap.NewNop()}
}

// WithLogger routes warnings through l and returns the context.
func (c *ExecContext) WithLogger(l *zap.Logger) *ExecContext {
	c.logger = l
	return c
}

// Allocate returns a zeroed buffer of n bytes.
func (c *ExecContext) Allocate(n int) []byte {
	c.liveAllocs++
	c.liveBytes += int64(n)
	return make([]byte, n)
}

// Reallocate grows or shrinks buf to n bytes, preserving its prefix. The
// returned buffer replaces buf; the old one must not be used again.
func (c *ExecContext) Reallocate(buf []byte, n int) []byte {
	if buf == nil {
		return c.Allocate(n)
	}
	c.liveBytes += int64(n - len(buf))
	next := make([]byte, n)
	copy(next, buf)
	return next
}

// Free releases a buffer obtained from Allocate or Reallocate. Freeing nil
// is a no-op.
func (c *ExecContext) Free(buf []byte) {
	if buf == nil {
		return
	}
	c.liveAllocs--
	c.liveBytes -= int64(len(buf))
}

// ArgType returns the declared type of argument i.
func (c *ExecContext) ArgType(i int) TypeDesc { return c.args[i] }

// ReturnType returns the declared return type.
func (c *ExecContext) ReturnType() TypeDesc { return c.ret }

// AddWarning records a non-fatal diagnostic.
func (c *ExecContext) AddWarning(msg string) {
	c.warnings = append(c.warnings, msg)
	c.logger.Warn(msg)
}

// Warnings returns the warnings recorded so far.
func (c *ExecContext) Warnings() []string { return c.warnings }

// LiveAllocations returns the number of outstanding buffers.
func (c *ExecContext) LiveAllocations() int { return c.liveAllocs }

// LiveBytes returns the outstanding allocated byte count.
func (c *ExecContext) LiveBytes() int64 { return c.liveBytes }
