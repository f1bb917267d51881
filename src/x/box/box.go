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

// Package box provides Box, an exclusively owned heap allocation.
//
// A Box is the only handle to its payload: moving it invalidates the source
// and dropping it finalizes the payload. Go has no borrow checker, so the
// pointers returned by Get and GetMut must not be retained or aliased while
// the value is being mutated.
//
// Handles must be passed by pointer. Copying a Box struct would duplicate
// ownership of the payload; each handle embeds a noCopy marker so that go
// vet's copylocks check reports such copies.
package box

import (
	"errors"

	"github.com/m3db/ownership/src/x/checked"
)

var (
	// ErrInvalidBox is reported when a moved out or dropped box is used.
	ErrInvalidBox = errors.New("box used after move or drop")
)

// Box owns a single heap allocated value.
type Box[T any] struct {
	_   noCopy
	ptr *T
}

// noCopy is embedded in handles that must not be copied after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New moves value onto the heap and returns its owner.
func New[T any](value T) *Box[T] {
	ptr := new(T)
	*ptr = value
	return &Box[T]{ptr: ptr}
}

// Valid returns true if the box still owns its value.
func (b *Box[T]) Valid() bool {
	return b != nil && b.ptr != nil
}

// Get returns read access to the payload.
func (b *Box[T]) Get() *T {
	if !b.Valid() {
		checked.Panic(ErrInvalidBox)
		return nil
	}
	return b.ptr
}

// GetMut returns write access to the payload.
func (b *Box[T]) GetMut() *T {
	return b.Get()
}

// Replace swaps the payload in place and returns the previous value.
func (b *Box[T]) Replace(value T) T {
	ptr := b.Get()
	if ptr == nil {
		var zero T
		return zero
	}
	old := *ptr
	*ptr = value
	return old
}

// Move transfers ownership to a new box, invalidating b.
func (b *Box[T]) Move() *Box[T] {
	ptr := b.Get()
	if ptr == nil {
		return nil
	}
	b.ptr = nil
	return &Box[T]{ptr: ptr}
}

// IntoInner consumes the box and returns its payload.
func (b *Box[T]) IntoInner() T {
	ptr := b.Get()
	if ptr == nil {
		var zero T
		return zero
	}
	b.ptr = nil
	return *ptr
}

// Drop finalizes the payload if it implements checked.Finalizer and
// releases the allocation.
func (b *Box[T]) Drop() {
	ptr := b.Get()
	if ptr == nil {
		return
	}
	b.ptr = nil
	checked.FinalizeValue(ptr)
}
