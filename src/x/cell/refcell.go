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

package cell

import (
	"errors"

	"github.com/m3db/ownership/src/x/checked"
)

var (
	// ErrAlreadyBorrowed is returned when a mutable borrow is requested while
	// any borrow is outstanding.
	ErrAlreadyBorrowed = checked.ErrAlreadyBorrowed

	// ErrAlreadyMutablyBorrowed is returned when a shared borrow is
	// requested while the mutable borrow is outstanding.
	ErrAlreadyMutablyBorrowed = checked.ErrAlreadyMutablyBorrowed

	errBorrowReleased = errors.New("borrow used after release")
)

// RefCell holds a value that is borrowed by reference, with the aliasing
// rule (any number of readers or a single writer) enforced at runtime.
type RefCell[T any] struct {
	_     noCopy
	flag  checked.BorrowFlag
	value T
}

// NewRefCell returns an unborrowed cell holding value.
func NewRefCell[T any](value T) *RefCell[T] {
	return &RefCell[T]{value: value}
}

// State returns the current borrow state.
func (c *RefCell[T]) State() checked.BorrowState {
	return c.flag.State()
}

// Borrow returns a shared borrow. A conflicting mutable borrow is reported
// through checked.Panic, in which case nil is returned if the panic
// function returns.
func (c *RefCell[T]) Borrow() *Ref[T] {
	r, err := c.TryBorrow()
	if err != nil {
		checked.Panic(err)
		return nil
	}
	return r
}

// TryBorrow returns a shared borrow or ErrAlreadyMutablyBorrowed.
func (c *RefCell[T]) TryBorrow() (*Ref[T], error) {
	if err := c.flag.IncReads(); err != nil {
		return nil, err
	}
	return &Ref[T]{cell: c}, nil
}

// BorrowMut returns the mutable borrow. A conflicting borrow is reported
// through checked.Panic, in which case nil is returned if the panic
// function returns.
func (c *RefCell[T]) BorrowMut() *RefMut[T] {
	r, err := c.TryBorrowMut()
	if err != nil {
		checked.Panic(err)
		return nil
	}
	return r
}

// TryBorrowMut returns the mutable borrow or ErrAlreadyBorrowed.
func (c *RefCell[T]) TryBorrowMut() (*RefMut[T], error) {
	if err := c.flag.IncWrites(); err != nil {
		return nil, err
	}
	return &RefMut[T]{cell: c}, nil
}

// With calls fn with read access to the value for the duration of a shared
// borrow.
func (c *RefCell[T]) With(fn func(value *T)) {
	r := c.Borrow()
	if r == nil {
		return
	}
	defer r.Release()
	fn(r.Get())
}

// WithMut calls fn with write access to the value for the duration of the
// mutable borrow.
func (c *RefCell[T]) WithMut(fn func(value *T)) {
	r := c.BorrowMut()
	if r == nil {
		return
	}
	defer r.Release()
	fn(r.Get())
}

// Replace overwrites the value under a mutable borrow and returns the
// previous one.
func (c *RefCell[T]) Replace(value T) T {
	var old T
	c.WithMut(func(v *T) {
		old = *v
		*v = value
	})
	return old
}

// Ref is an outstanding shared borrow.
type Ref[T any] struct {
	_    noCopy
	cell *RefCell[T]
}

// Get returns read access to the value. The pointer must not be used after
// Release.
func (r *Ref[T]) Get() *T {
	if r.cell == nil {
		checked.Panic(errBorrowReleased)
		return nil
	}
	return &r.cell.value
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *Ref[T]) Release() {
	if r.cell == nil {
		return
	}
	r.cell.flag.DecReads()
	r.cell = nil
}

// RefMut is the outstanding mutable borrow.
type RefMut[T any] struct {
	_    noCopy
	cell *RefCell[T]
}

// Get returns write access to the value. The pointer must not be used after
// Release.
func (r *RefMut[T]) Get() *T {
	if r.cell == nil {
		checked.Panic(errBorrowReleased)
		return nil
	}
	return &r.cell.value
}

// Set overwrites the borrowed value.
func (r *RefMut[T]) Set(value T) {
	if v := r.Get(); v != nil {
		*v = value
	}
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *RefMut[T]) Release() {
	if r.cell == nil {
		return
	}
	r.cell.flag.DecWrites()
	r.cell = nil
}

// noCopy is embedded in cells and guards that must not be copied after
// first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
