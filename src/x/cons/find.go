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
	"fmt"

	"github.com/m3db/ownership/src/x/rc"
)

// FindFromTail returns the k-th node from the end of the list starting at
// head, where k=1 is the last value node. It walks the list once with two
// cursors k nodes apart. The list must not contain a cycle.
func FindFromTail[N Link[N]](head N, k int) (N, error) {
	var zero N
	if k <= 0 {
		return zero, fmt.Errorf("%w: k=%d", ErrOutOfRange, k)
	}

	lead := head
	for i := 0; i < k; i++ {
		if lead.IsEnd() {
			return zero, fmt.Errorf("%w: list shorter than k=%d", ErrOutOfRange, k)
		}
		next, err := lead.Next()
		if err != nil {
			return zero, err
		}
		lead = next
	}

	trail := head
	for !lead.IsEnd() {
		var err error
		if lead, err = lead.Next(); err != nil {
			return zero, err
		}
		if trail, err = trail.Next(); err != nil {
			return zero, err
		}
	}
	return trail, nil
}

// Take returns up to n values starting at head. It stops at the end of the
// list, so it is safe to call on a cycle. A negative n takes nothing.
func Take[T any](head *Node[T], n int) []T {
	if n < 0 {
		n = 0
	}
	values := make([]T, 0, n)
	for node := head; len(values) < n && !node.IsEnd(); {
		v, err := node.Value()
		if err != nil {
			break
		}
		values = append(values, v)
		if node, err = node.Next(); err != nil {
			break
		}
	}
	return values
}

// FromSlice builds a shared list holding values in order and returns the
// handle to its head.
func FromSlice[T any](values []T) *rc.Rc[Node[T]] {
	head := rc.New(End[T]())
	for i := len(values) - 1; i >= 0; i-- {
		head = rc.New(Cons(values[i], head))
	}
	return head
}
