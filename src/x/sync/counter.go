// Copyright (c) 2021 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package sync

import (
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
)

// Counter is a process-wide tally shared by goroutines. It is constructed
// explicitly and handed to whoever increments it; it is never reset
// implicitly. Increments are mirrored to a tally counter.
type Counter struct {
	value   atomic.Uint64
	counter tally.Counter
}

// NewCounter returns a new counter reporting under name in scope.
func NewCounter(scope tally.Scope, name string) *Counter {
	return &Counter{counter: scope.Counter(name)}
}

// Inc increments the counter by one and returns the new value.
func (c *Counter) Inc() uint64 {
	return c.Add(1)
}

// Add increments the counter by delta and returns the new value.
func (c *Counter) Add(delta uint64) uint64 {
	c.counter.Inc(int64(delta))
	return c.value.Add(delta)
}

// Load returns the current value.
func (c *Counter) Load() uint64 {
	return c.value.Load()
}
