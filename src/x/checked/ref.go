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

package checked

import (
	"fmt"
)

// RefCount is the control block bookkeeping for a shared allocation: a
// strong count that keeps the payload alive and a weak count that keeps only
// the block observable. It is not safe for concurrent use.
type RefCount struct {
	strong    int32
	weak      int32
	dropped   bool
	finalized bool
	tracked   bool
	finalizer Finalizer
}

var _ Ref = (*RefCount)(nil)

// IncRef increments the strong reference count.
func (c *RefCount) IncRef() {
	if c.dropped {
		panicRef(c, fmt.Errorf("inc ref after free, ref=%d", c.strong))
		return
	}
	c.strong++
	if traceback {
		tracebackEvent(c, int(c.strong), incRefEvent)
	}
}

// TryIncRef increments the strong reference count if the payload has not
// been dropped yet.
func (c *RefCount) TryIncRef() bool {
	if c.dropped || c.strong <= 0 {
		return false
	}
	c.strong++
	if traceback {
		tracebackEvent(c, int(c.strong), incRefEvent)
	}
	return true
}

// DecRef decrements the strong reference count, returning true on the
// transition to zero.
func (c *RefCount) DecRef() bool {
	c.strong--
	n := c.strong
	if traceback {
		tracebackEvent(c, int(n), decRefEvent)
	}

	if n < 0 {
		panicRef(c, fmt.Errorf("negative ref count, ref=%d", n))
		return false
	}
	if n > 0 {
		return false
	}

	c.dropped = true
	if c.tracked {
		untrackObject(c)
	}
	return true
}

// NumRef returns the strong reference count.
func (c *RefCount) NumRef() int {
	return int(c.strong)
}

// IncWeakRef increments the weak reference count.
func (c *RefCount) IncWeakRef() {
	if c.Released() {
		panicRef(c, fmt.Errorf("inc weak ref after release, weak=%d", c.weak))
		return
	}
	c.weak++
	if traceback {
		tracebackEvent(c, int(c.weak), incWeakRefEvent)
	}
}

// DecWeakRef decrements the weak reference count, returning true if this
// released a block whose payload was already dropped.
func (c *RefCount) DecWeakRef() bool {
	c.weak--
	n := c.weak
	if traceback {
		tracebackEvent(c, int(n), decWeakRefEvent)
	}

	if n < 0 {
		panicRef(c, fmt.Errorf("negative weak ref count, weak=%d", n))
		return false
	}
	return n == 0 && c.dropped
}

// NumWeakRef returns the weak reference count.
func (c *RefCount) NumWeakRef() int {
	return int(c.weak)
}

// Dropped returns true once the strong count has reached zero.
func (c *RefCount) Dropped() bool {
	return c.dropped
}

// Released returns true once both counts have reached zero after the
// payload was dropped.
func (c *RefCount) Released() bool {
	return c.dropped && c.weak == 0
}

// Finalizer returns the finalizer if any or nil otherwise.
func (c *RefCount) Finalizer() Finalizer {
	return c.finalizer
}

// SetFinalizer sets the finalizer.
func (c *RefCount) SetFinalizer(f Finalizer) {
	c.finalizer = f
}

// Finalize runs the finalizer. It must be called exactly once, after the
// strong count reached zero.
func (c *RefCount) Finalize() {
	if n := c.NumRef(); n != 0 {
		panicRef(c, fmt.Errorf("finalize before zero ref count, ref=%d", n))
		return
	}
	if c.finalized {
		panicRef(c, fmt.Errorf("double finalize, ref=%d, weak=%d", c.strong, c.weak))
		return
	}
	c.finalized = true
	if traceback {
		tracebackEvent(c, 0, finalizeEvent)
	}

	if f := c.finalizer; f != nil {
		f.Finalize()
	}
}
