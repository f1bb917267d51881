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

package rc

import (
	"errors"

	"github.com/m3db/ownership/src/x/checked"

	"go.uber.org/zap"
)

var (
	// ErrDroppedHandle is reported when a handle is used after it was dropped.
	ErrDroppedHandle = errors.New("handle used after drop")
)

type controlBlock[T any] struct {
	ref     checked.RefCount
	value   T
	freed   bool
	metrics *handleMetrics
	logger  *zap.Logger
}

// release counts the block as freed once both counts reached zero.
func (b *controlBlock[T]) release() {
	if b.freed {
		return
	}
	b.freed = true
	b.metrics.frees.Inc(1)
}

// Rc is a strong handle to a reference counted value. Handles are not safe
// for concurrent use, use Arc to share a value between goroutines.
type Rc[T any] struct {
	_     noCopy
	block *controlBlock[T]
}

// New allocates value in a new control block with a strong count of one.
func New[T any](value T) *Rc[T] {
	return newRc(value, defaultOptions)
}

// NewWithOptions is New with instrumentation.
func NewWithOptions[T any](value T, opts Options) *Rc[T] {
	return newRc(value, resolveOptions(opts))
}

func newRc[T any](value T, opts *options) *Rc[T] {
	b := &controlBlock[T]{
		value:   value,
		metrics: opts.rc,
		logger:  opts.logger,
	}
	b.ref.IncRef()
	b.ref.TrackObject(value)
	b.metrics.allocs.Inc(1)
	return &Rc[T]{block: b}
}

func (r *Rc[T]) live() *controlBlock[T] {
	if r == nil || r.block == nil {
		checked.Panic(ErrDroppedHandle)
		return nil
	}
	return r.block
}

// SetFinalizer sets a hook that runs once when the payload is dropped,
// before the payload's own Finalize if it has one.
func (r *Rc[T]) SetFinalizer(f checked.Finalizer) {
	if b := r.live(); b != nil {
		b.ref.SetFinalizer(f)
	}
}

// Clone returns a new strong handle to the same value.
func (r *Rc[T]) Clone() *Rc[T] {
	b := r.live()
	if b == nil {
		return nil
	}
	b.ref.IncRef()
	b.metrics.clones.Inc(1)
	return &Rc[T]{block: b}
}

// Get returns shared read access to the value. Mutation must go through a
// cell stored in the value.
func (r *Rc[T]) Get() *T {
	b := r.live()
	if b == nil {
		return nil
	}
	return &b.value
}

// StrongCount returns the number of strong handles to the value.
func (r *Rc[T]) StrongCount() int {
	b := r.live()
	if b == nil {
		return 0
	}
	return b.ref.NumRef()
}

// WeakCount returns the number of weak handles to the value.
func (r *Rc[T]) WeakCount() int {
	b := r.live()
	if b == nil {
		return 0
	}
	return b.ref.NumWeakRef()
}

// Downgrade returns a weak handle to the value.
func (r *Rc[T]) Downgrade() *Weak[T] {
	b := r.live()
	if b == nil {
		return nil
	}
	b.ref.IncWeakRef()
	return &Weak[T]{block: b}
}

// Drop releases this strong handle. Dropping the last strong handle runs
// the finalizer, finalizes and zeroes the payload, and frees the block
// unless weak handles remain.
func (r *Rc[T]) Drop() {
	b := r.live()
	if b == nil {
		return
	}
	r.block = nil
	b.metrics.drops.Inc(1)
	if !b.ref.DecRef() {
		return
	}

	b.ref.Finalize()
	checked.FinalizeValue(&b.value)
	var zero T
	b.value = zero

	// Finalizing the payload may have dropped the last weak handle already.
	if b.ref.Released() {
		b.release()
		return
	}
	b.metrics.zombies.Inc(1)
	b.logger.Debug("rc payload dropped with outstanding weak handles",
		zap.Int("weak", b.ref.NumWeakRef()))
}

// PtrEq returns true if a and b point to the same control block.
func PtrEq[T any](a, b *Rc[T]) bool {
	return a.live() == b.live()
}

// Weak is a non owning handle. It does not keep the value alive and must be
// upgraded before the value can be read.
type Weak[T any] struct {
	_     noCopy
	block *controlBlock[T]
}

func (w *Weak[T]) live() *controlBlock[T] {
	if w == nil || w.block == nil {
		checked.Panic(ErrDroppedHandle)
		return nil
	}
	return w.block
}

// Upgrade returns a new strong handle if the value has not been dropped.
func (w *Weak[T]) Upgrade() (*Rc[T], bool) {
	b := w.live()
	if b == nil {
		return nil, false
	}
	if !b.ref.TryIncRef() {
		b.metrics.upgradeFailures.Inc(1)
		return nil, false
	}
	return &Rc[T]{block: b}, true
}

// Clone returns a new weak handle to the same block.
func (w *Weak[T]) Clone() *Weak[T] {
	b := w.live()
	if b == nil {
		return nil
	}
	b.ref.IncWeakRef()
	return &Weak[T]{block: b}
}

// StrongCount returns the number of strong handles to the value.
func (w *Weak[T]) StrongCount() int {
	b := w.live()
	if b == nil {
		return 0
	}
	return b.ref.NumRef()
}

// WeakCount returns the number of weak handles to the block.
func (w *Weak[T]) WeakCount() int {
	b := w.live()
	if b == nil {
		return 0
	}
	return b.ref.NumWeakRef()
}

// Drop releases this weak handle, freeing the block if the value was
// already dropped and this was the last weak handle.
func (w *Weak[T]) Drop() {
	b := w.live()
	if b == nil {
		return
	}
	w.block = nil
	if b.ref.DecWeakRef() {
		b.release()
	}
}
