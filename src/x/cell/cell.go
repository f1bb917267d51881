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

// Package cell provides interior mutability for values reached through
// shared handles: Cell moves whole values in and out, RefCell hands out
// borrows checked at runtime. Neither is safe for concurrent use.
package cell

// Cell holds a value that is only ever read or written as a whole. No
// pointer to the inner value escapes, so mutation through a shared handle
// never invalidates an outstanding reference.
type Cell[T any] struct {
	value T
}

// NewCell returns a cell holding value.
func NewCell[T any](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// Get returns a copy of the value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set overwrites the value.
func (c *Cell[T]) Set(value T) {
	c.value = value
}

// Replace overwrites the value and returns the previous one.
func (c *Cell[T]) Replace(value T) T {
	old := c.value
	c.value = value
	return old
}

// Take returns the value, leaving the zero value in its place.
func (c *Cell[T]) Take() T {
	var zero T
	return c.Replace(zero)
}

// Swap exchanges the values of two cells.
func (c *Cell[T]) Swap(other *Cell[T]) {
	if c == other {
		return
	}
	c.value, other.value = other.value, c.value
}
