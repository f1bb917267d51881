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
	"fmt"

	"github.com/m3db/ownership/src/x/checked"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type arcBlock[T any] struct {
	strong    atomic.Int32
	weak      atomic.Int32
	released  checked.FinalizeableOnce
	finalizer checked.Finalizer
	value     T
	metrics   *handleMetrics
	logger    *zap.Logger
}

func (b *arcBlock[T]) tryRelease() {
	if b.strong.Load() == 0 && b.weak.Load() == 0 && b.released.TryFinalize() {
		b.metrics.frees.Inc(1)
	}
}

// Arc is the goroutine safe analogue of Rc. The counts are atomic; a single
// handle must still not be used by two goroutines at once, clone it instead.
// The payload itself is shared, so mutation needs its own synchronization.
type Arc[T any] struct {
	_     noCopy
	block *arcBlock[T]
}

// NewArc allocates value in a new atomically counted block.
func NewArc[T any](value T) *Arc[T] {
	return newArc(value, defaultOptions, nil)
}

// NewArcWithOptions is NewArc with instrumentation and an optional
// finalizer that runs once when the payload is dropped.
func NewArcWithOptions[T any](value T, opts Options, f checked.Finalizer) *Arc[T] {
	return newArc(value, resolveOptions(opts), f)
}

func newArc[T any](value T, opts *options, f checked.Finalizer) *Arc[T] {
	b := &arcBlock[T]{
		finalizer: f,
		value:     value,
		metrics:   opts.arc,
		logger:    opts.logger,
	}
	b.strong.Store(1)
	b.metrics.allocs.Inc(1)
	return &Arc[T]{block: b}
}

func (a *Arc[T]) live() *arcBlock[T] {
	if a == nil || a.block == nil {
		checked.Panic(ErrDroppedHandle)
		return nil
	}
	return a.block
}

// Clone returns a new strong handle to the same value.
func (a *Arc[T]) Clone() *Arc[T] {
	b := a.live()
	if b == nil {
		return nil
	}
	b.strong.Inc()
	b.metrics.clones.Inc(1)
	return &Arc[T]{block: b}
}

// Get returns access to the shared value.
func (a *Arc[T]) Get() *T {
	b := a.live()
	if b == nil {
		return nil
	}
	return &b.value
}

// StrongCount returns the number of strong handles at the time of the call.
func (a *Arc[T]) StrongCount() int {
	b := a.live()
	if b == nil {
		return 0
	}
	return int(b.strong.Load())
}

// WeakCount returns the number of weak handles at the time of the call.
func (a *Arc[T]) WeakCount() int {
	b := a.live()
	if b == nil {
		return 0
	}
	return int(b.weak.Load())
}

// Downgrade returns a weak handle to the value.
func (a *Arc[T]) Downgrade() *WeakArc[T] {
	b := a.live()
	if b == nil {
		return nil
	}
	b.weak.Inc()
	return &WeakArc[T]{block: b}
}

// Drop releases this strong handle. The goroutine that drops the last
// strong handle finalizes the payload.
func (a *Arc[T]) Drop() {
	b := a.live()
	if b == nil {
		return
	}
	a.block = nil
	b.metrics.drops.Inc(1)

	n := b.strong.Dec()
	if n < 0 {
		checked.Panic(fmt.Errorf("negative ref count, ref=%d", n))
		return
	}
	if n > 0 {
		return
	}

	if b.finalizer != nil {
		b.finalizer.Finalize()
	}
	checked.FinalizeValue(&b.value)
	var zero T
	b.value = zero

	if w := b.weak.Load(); w > 0 {
		b.metrics.zombies.Inc(1)
		b.logger.Debug("arc payload dropped with outstanding weak handles",
			zap.Int32("weak", w))
	}
	b.tryRelease()
}

// WeakArc is a non owning handle to an Arc value.
type WeakArc[T any] struct {
	_     noCopy
	block *arcBlock[T]
}

func (w *WeakArc[T]) live() *arcBlock[T] {
	if w == nil || w.block == nil {
		checked.Panic(ErrDroppedHandle)
		return nil
	}
	return w.block
}

// Upgrade returns a new strong handle if at least one strong handle is
// still alive.
func (w *WeakArc[T]) Upgrade() (*Arc[T], bool) {
	b := w.live()
	if b == nil {
		return nil, false
	}
	for {
		n := b.strong.Load()
		if n <= 0 {
			b.metrics.upgradeFailures.Inc(1)
			return nil, false
		}
		if b.strong.CAS(n, n+1) {
			return &Arc[T]{block: b}, true
		}
	}
}

// Clone returns a new weak handle to the same block.
func (w *WeakArc[T]) Clone() *WeakArc[T] {
	b := w.live()
	if b == nil {
		return nil
	}
	b.weak.Inc()
	return &WeakArc[T]{block: b}
}

// StrongCount returns the number of strong handles at the time of the call.
func (w *WeakArc[T]) StrongCount() int {
	b := w.live()
	if b == nil {
		return 0
	}
	return int(b.strong.Load())
}

// WeakCount returns the number of weak handles at the time of the call.
func (w *WeakArc[T]) WeakCount() int {
	b := w.live()
	if b == nil {
		return 0
	}
	return int(b.weak.Load())
}

// Drop releases this weak handle.
func (w *WeakArc[T]) Drop() {
	b := w.live()
	if b == nil {
		return
	}
	w.block = nil
	if n := b.weak.Dec(); n < 0 {
		checked.Panic(fmt.Errorf("negative weak ref count, weak=%d", n))
		return
	}
	b.tryRelease()
}
