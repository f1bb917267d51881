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
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"go.uber.org/atomic"
)

var (
	leakDetectionFlag atomic.Bool
	leaks             = leakTracker{objects: make(map[*RefCount]leakEntry)}
)

// EnableLeakDetection turns on tracking of ref counted objects that are
// never dropped. It should be enabled before objects are allocated.
func EnableLeakDetection() {
	leakDetectionFlag.Store(true)
}

// DisableLeakDetection turns off leak tracking and forgets every tracked
// object.
func DisableLeakDetection() {
	leakDetectionFlag.Store(false)
	leaks.reset()
}

func leakDetectionEnabled() bool {
	return leakDetectionFlag.Load()
}

// DumpLeaks returns one line per allocation origin that still holds strong
// references, formatted as "<count> <type> allocated at:\n<stack>". Blocks
// kept only by weak references are not leaks.
func DumpLeaks() []string {
	return leaks.dump()
}

// NumLeaks returns the number of tracked objects still strongly referenced.
func NumLeaks() int {
	return leaks.len()
}

type leakEntry struct {
	kind   string
	origin string
}

type leakTracker struct {
	sync.Mutex
	objects map[*RefCount]leakEntry
}

// TrackObject records v, the owner of c, so that it is reported by
// DumpLeaks until its strong count reaches zero. No-op unless leak
// detection is enabled.
func (c *RefCount) TrackObject(v interface{}) {
	if !leakDetectionEnabled() || c.tracked {
		return
	}

	pcs := make([]uintptr, tracebackMaxDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var origin strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&origin, "\t%s %s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}

	c.tracked = true
	leaks.Lock()
	leaks.objects[c] = leakEntry{kind: fmt.Sprintf("%T", v), origin: origin.String()}
	leaks.Unlock()
}

func untrackObject(c *RefCount) {
	c.tracked = false
	leaks.Lock()
	delete(leaks.objects, c)
	leaks.Unlock()
}

func (t *leakTracker) len() int {
	t.Lock()
	defer t.Unlock()
	return len(t.objects)
}

func (t *leakTracker) reset() {
	t.Lock()
	for c := range t.objects {
		c.tracked = false
	}
	t.objects = make(map[*RefCount]leakEntry)
	t.Unlock()
}

func (t *leakTracker) dump() []string {
	t.Lock()
	counts := make(map[leakEntry]int, len(t.objects))
	for _, e := range t.objects {
		counts[e]++
	}
	t.Unlock()

	result := make([]string, 0, len(counts))
	for e, n := range counts {
		result = append(result, fmt.Sprintf("%d %s allocated at:\n%s", n, e.kind, e.origin))
	}
	sort.Strings(result)
	return result
}
