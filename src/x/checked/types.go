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

// Package checked provides the bookkeeping behind the ownership handles:
// strong and weak reference counts, a runtime borrow flag and leak tracking.
// Invalid transitions are reported through a pluggable panic function rather
// than corrupting state.
package checked

// Finalizer finalizes a checked resource.
type Finalizer interface {
	Finalize()
}

// FinalizerFn is a function literal that is a finalizer.
type FinalizerFn func()

// Finalize will call the function literal as a finalizer.
func (fn FinalizerFn) Finalize() {
	fn()
}

// Ref is an entity that checks strong and weak reference counts.
type Ref interface {
	// IncRef increments the strong reference count to this entity.
	IncRef()

	// TryIncRef increments the strong reference count only if it is
	// still positive, returning whether a reference was taken.
	TryIncRef() bool

	// DecRef decrements the strong reference count to this entity and
	// returns true if this was the last strong reference.
	DecRef() bool

	// NumRef returns the strong reference count to this entity.
	NumRef() int

	// IncWeakRef increments the weak reference count to this entity.
	IncWeakRef()

	// DecWeakRef decrements the weak reference count to this entity and
	// returns true if the entity is now fully released.
	DecWeakRef() bool

	// NumWeakRef returns the weak reference count to this entity.
	NumWeakRef() int

	// Finalizer returns the finalizer if any or nil otherwise.
	Finalizer() Finalizer

	// SetFinalizer sets the finalizer.
	SetFinalizer(f Finalizer)
}

// Borrow is an entity that checks shared and exclusive access.
type Borrow interface {
	// IncReads acquires a shared borrow.
	IncReads() error

	// DecReads releases a shared borrow.
	DecReads()

	// IncWrites acquires the exclusive borrow.
	IncWrites() error

	// DecWrites releases the exclusive borrow.
	DecWrites()

	// State returns the current borrow state.
	State() BorrowState
}
