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

package cons

import (
	"github.com/m3db/ownership/src/x/box"
)

// BoxNode is a list node that owns its successor exclusively, so a list
// built from it can be neither shared nor rewired into a cycle.
type BoxNode[T any] struct {
	end   bool
	value T
	next  *box.Box[BoxNode[T]]
}

var _ Link[*BoxNode[int]] = (*BoxNode[int])(nil)

// BoxCons allocates a node holding value that takes ownership of next. A
// nil next is a new end node.
func BoxCons[T any](value T, next *box.Box[BoxNode[T]]) *box.Box[BoxNode[T]] {
	if next == nil {
		next = BoxEnd[T]()
	}
	return box.New(BoxNode[T]{value: value, next: next})
}

// BoxEnd allocates the end of a list.
func BoxEnd[T any]() *box.Box[BoxNode[T]] {
	return box.New(BoxNode[T]{end: true})
}

// IsEnd returns true for the end of a list.
func (n *BoxNode[T]) IsEnd() bool {
	return n.end
}

// Value returns the value held by the node.
func (n *BoxNode[T]) Value() (T, error) {
	if n.end {
		var zero T
		return zero, ErrEndNode
	}
	return n.value, nil
}

// SetValue overwrites the value held by the node.
func (n *BoxNode[T]) SetValue(value T) error {
	if n.end {
		return ErrEndNode
	}
	n.value = value
	return nil
}

// Next returns the next node.
func (n *BoxNode[T]) Next() (*BoxNode[T], error) {
	if n.end {
		return nil, ErrEndNode
	}
	return n.next.GetMut(), nil
}

// Finalize drops the successor when the box owning n is dropped.
func (n *BoxNode[T]) Finalize() {
	if n.end || !n.next.Valid() {
		return
	}
	n.next.Drop()
}

// BoxFromSlice builds an exclusively owned list holding values in order.
func BoxFromSlice[T any](values []T) *box.Box[BoxNode[T]] {
	head := BoxEnd[T]()
	for i := len(values) - 1; i >= 0; i-- {
		head = BoxCons(values[i], head)
	}
	return head
}
