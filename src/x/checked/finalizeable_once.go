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

import "go.uber.org/atomic"

// FinalizeableOnce guards a release step that may race between goroutines
// so that exactly one of them performs it.
type FinalizeableOnce struct {
	finalized atomic.Bool
}

// Finalized returns true iff the object has been finalized.
func (c *FinalizeableOnce) Finalized() bool {
	return c.finalized.Load()
}

// TryFinalize marks the object finalized and returns true for the single
// caller that made the transition.
func (c *FinalizeableOnce) TryFinalize() bool {
	return c.finalized.CAS(false, true)
}

// FinalizeValue calls Finalize on the value pointed to by v if either *T or
// T implements Finalizer.
func FinalizeValue[T any](v *T) {
	if f, ok := interface{}(v).(Finalizer); ok {
		f.Finalize()
		return
	}
	if f, ok := interface{}(*v).(Finalizer); ok {
		f.Finalize()
	}
}
