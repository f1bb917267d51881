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

// Package cons provides singly linked lists built from the ownership
// primitives: Node shares tails through rc handles and can be rewired
// through its cells, BoxNode owns its tail exclusively.
package cons

import (
	"errors"
	"fmt"

	"github.com/m3db/ownership/src/x/cell"
	"github.com/m3db/ownership/src/x/rc"
)

var (
	// ErrEndNode is returned when a value or successor is requested from
	// the end of a list.
	ErrEndNode = errors.New("end node has no value or successor")

	// ErrOutOfRange is returned when a position lies outside the list.
	ErrOutOfRange = errors.New("position out of range")
)

// Link is a list node that can be walked without taking ownership.
type Link[N any] interface {
	IsEnd() bool
	Next() (N, error)
}

// Node is either a cell holding a value and a shared successor, or the end
// of a list. Both the value and the successor are mutable through shared
// handles, which is what allows a list to be rewired into a cycle.
type Node[T any] struct {
	end   bool
	value *cell.Cell[T]
	next  *cell.RefCell[*rc.Rc[Node[T]]]
	prev  *cell.RefCell[*rc.Weak[Node[T]]]
}

var _ Link[*Node[int]] = (*Node[int])(nil)

// Cons returns a node holding value whose successor is tail. The node takes
// ownership of tail; a nil tail is a new end node.
func Cons[T any](value T, tail *rc.Rc[Node[T]]) Node[T] {
	if tail == nil {
		tail = rc.New(End[T]())
	}
	return Node[T]{
		value: cell.NewCell(value),
		next:  cell.NewRefCell(tail),
		prev:  cell.NewRefCell[*rc.Weak[Node[T]]](nil),
	}
}

// End returns the end of a list.
func End[T any]() Node[T] {
	return Node[T]{end: true}
}

// Wrap allocates node behind a shared handle stored in a mutable slot.
func Wrap[T any](node Node[T]) *cell.RefCell[*rc.Rc[Node[T]]] {
	return cell.NewRefCell(rc.New(node))
}

// IsEnd returns true for the end of a list.
func (n *Node[T]) IsEnd() bool {
	return n.end
}

// Value returns the value held by the node.
func (n *Node[T]) Value() (T, error) {
	if n.end {
		var zero T
		return zero, ErrEndNode
	}
	return n.value.Get(), nil
}

// SetValue overwrites the value held by the node.
func (n *Node[T]) SetValue(value T) error {
	if n.end {
		return ErrEndNode
	}
	n.value.Set(value)
	return nil
}

// Successor returns a new strong handle to the next node. The caller owns
// the handle and must drop it.
func (n *Node[T]) Successor() (*rc.Rc[Node[T]], error) {
	if n.end {
		return nil, ErrEndNode
	}
	r, err := n.next.TryBorrow()
	if err != nil {
		return nil, fmt.Errorf("successor: %w", err)
	}
	defer r.Release()
	return (*r.Get()).Clone(), nil
}

// Next returns the next node without taking a handle to it. The result is
// only valid while the list is held.
func (n *Node[T]) Next() (*Node[T], error) {
	if n.end {
		return nil, ErrEndNode
	}
	r, err := n.next.TryBorrow()
	if err != nil {
		return nil, fmt.Errorf("next: %w", err)
	}
	defer r.Release()
	return (*r.Get()).Get(), nil
}

// SetNext replaces the successor with next, taking ownership of it, and
// drops the previous successor. A nil next is a new end node. Pointing a
// node back at one of its predecessors forms a strong cycle that is never
// freed.
func (n *Node[T]) SetNext(next *rc.Rc[Node[T]]) error {
	if n.end {
		return ErrEndNode
	}
	if next == nil {
		next = rc.New(End[T]())
	}
	w, err := n.next.TryBorrowMut()
	if err != nil {
		return fmt.Errorf("set next: %w", err)
	}
	old := *w.Get()
	w.Set(next)
	w.Release()

	if old != nil {
		old.Drop()
	}
	return nil
}

// SetPrev records a weak back edge to prev, taking ownership of it. Back
// edges do not keep their target alive, so they never form a leaking cycle.
func (n *Node[T]) SetPrev(prev *rc.Weak[Node[T]]) error {
	if n.end {
		return ErrEndNode
	}
	w, err := n.prev.TryBorrowMut()
	if err != nil {
		return fmt.Errorf("set prev: %w", err)
	}
	old := *w.Get()
	w.Set(prev)
	w.Release()

	if old != nil {
		old.Drop()
	}
	return nil
}

// Prev upgrades the back edge, returning false if there is none or its
// target was dropped. The caller owns the returned handle.
func (n *Node[T]) Prev() (*rc.Rc[Node[T]], bool) {
	if n.end {
		return nil, false
	}
	r := n.prev.Borrow()
	if r == nil {
		return nil, false
	}
	defer r.Release()
	prev := *r.Get()
	if prev == nil {
		return nil, false
	}
	return prev.Upgrade()
}

// Finalize drops the node's successor and back edge. It runs when the last
// strong handle to the node is dropped.
func (n *Node[T]) Finalize() {
	if n.end {
		return
	}
	if next := n.next.Replace(nil); next != nil {
		next.Drop()
	}
	if prev := n.prev.Replace(nil); prev != nil {
		prev.Drop()
	}
}
