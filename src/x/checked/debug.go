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

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"time"
)

const (
	defaultTraceback         = false
	defaultTracebackCycles   = 3
	defaultTracebackMaxDepth = 64
)

var (
	traceback            = defaultTraceback
	tracebackCycles      = defaultTracebackCycles
	tracebackMaxDepth    = defaultTracebackMaxDepth
	tracebackCallersPool = sync.Pool{New: func() interface{} {
		return make([]uintptr, tracebackMaxDepth)
	}}
	panicFn = defaultPanic
)

// PanicFn is a panic function to call on invalid checked state.
type PanicFn func(e error)

// SetPanicFn sets the panic function.
func SetPanicFn(fn PanicFn) {
	panicFn = fn
}

// Panic will execute the currently set panic function.
func Panic(e error) {
	panicFn(e)
}

// ResetPanicFn resets the panic function to the default runtime panic.
func ResetPanicFn() {
	panicFn = defaultPanic
}

func defaultPanic(e error) {
	panic(e)
}

// SetTraceback sets whether to traceback ref count events.
func SetTraceback(value bool) {
	traceback = value
}

// SetTracebackCycles sets the count of finalize cycles to keep if enabled.
func SetTracebackCycles(value int) {
	tracebackCycles = value
}

// SetTracebackMaxDepth sets the max amount of frames to capture for traceback.
func SetTracebackMaxDepth(frames int) {
	tracebackMaxDepth = frames
}

// Traceback returns the recorded events for a ref count, most recent first,
// or an empty string if traceback was never enabled for it.
func Traceback(c *RefCount) string {
	d, ok := c.finalizer.(*debuggerRef)
	if !ok {
		return ""
	}
	return d.String()
}

func panicRef(c *RefCount, err error) {
	if traceback {
		trace := getDebuggerRef(c).String()
		err = fmt.Errorf("%v, traceback:\n\n%s", err, trace)
	}
	panicFn(err)
}

type debuggerEvent int

const (
	incRefEvent debuggerEvent = iota
	decRefEvent
	incWeakRefEvent
	decWeakRefEvent
	finalizeEvent
)

func (d debuggerEvent) String() string {
	switch d {
	case incRefEvent:
		return "IncRef"
	case decRefEvent:
		return "DecRef"
	case incWeakRefEvent:
		return "IncWeakRef"
	case decWeakRefEvent:
		return "DecWeakRef"
	case finalizeEvent:
		return "Finalize"
	}
	return "Unknown"
}

// debugger keeps the events of the last few finalize cycles.
type debugger struct {
	entries [][]debuggerEntry
}

func (d *debugger) append(event debuggerEvent, ref int, pc []uintptr) {
	if len(d.entries) == 0 {
		d.entries = make([][]debuggerEntry, 1, tracebackCycles)
	}
	idx := len(d.entries) - 1
	d.entries[idx] = append(d.entries[idx], debuggerEntry{
		event: event,
		ref:   ref,
		pc:    pc,
		t:     time.Now(),
	})
	if event != finalizeEvent {
		return
	}

	if len(d.entries) < tracebackCycles {
		d.entries = append(d.entries, nil)
		return
	}
	// Drop the oldest cycle and recycle its capture buffers.
	for _, entry := range d.entries[0] {
		tracebackCallersPool.Put(entry.pc[:cap(entry.pc)])
	}
	copy(d.entries, d.entries[1:])
	d.entries[idx] = nil
}

func (d *debugger) String() string {
	var buf bytes.Buffer
	for i := len(d.entries) - 1; i >= 0; i-- {
		for j := len(d.entries[i]) - 1; j >= 0; j-- {
			buf.WriteString(d.entries[i][j].String())
		}
	}
	return buf.String()
}

type debuggerRef struct {
	debugger
	finalizer Finalizer
}

func (d *debuggerRef) Finalize() {
	if d.finalizer != nil {
		d.finalizer.Finalize()
	}
}

type debuggerEntry struct {
	event debuggerEvent
	ref   int
	pc    []uintptr
	t     time.Time
}

func (e debuggerEntry) String() string {
	var buf bytes.Buffer
	frames := runtime.CallersFrames(e.pc)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&buf, "%s(...)\n\t%s:%d +%x\n",
			frame.Function, frame.File, frame.Line, frame.Entry)
		if !more {
			break
		}
	}
	return fmt.Sprintf("%s, ref=%d, unixnanos=%d:\n%s\n",
		e.event.String(), e.ref, e.t.UnixNano(), buf.String())
}

// getDebuggerRef installs the debugger in the finalizer slot, wrapping any
// finalizer already set so it still runs on Finalize.
func getDebuggerRef(c *RefCount) *debuggerRef {
	switch f := c.finalizer.(type) {
	case nil:
		d := &debuggerRef{}
		c.finalizer = d
		return d
	case *debuggerRef:
		return f
	default:
		d := &debuggerRef{finalizer: f}
		c.finalizer = d
		return d
	}
}

func tracebackEvent(c *RefCount, ref int, e debuggerEvent) {
	d := getDebuggerRef(c)
	depth := tracebackMaxDepth
	pc := tracebackCallersPool.Get().([]uintptr)
	if cap(pc) < depth {
		pc = make([]uintptr, depth)
	}
	pc = pc[:depth]
	skipEntry := 3
	n := runtime.Callers(skipEntry, pc)
	d.append(e, ref, pc[:n])
}
