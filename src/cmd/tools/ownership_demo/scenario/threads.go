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

package scenario

import (
	"context"
	"errors"
	"sync"

	"github.com/m3db/ownership/src/x/checked"
	"github.com/m3db/ownership/src/x/rc"
	xsync "github.com/m3db/ownership/src/x/sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var errSchedulingTimeout = errors.New("timed out waiting for a worker")

type guarded struct {
	sync.Mutex
	value int
}

// runThreads shares a mutex guarded value between pool workers through Arc
// handles, counts completed jobs in a process-wide counter and collects one
// result per job over a channel.
func runThreads(ctx context.Context, opts Options) (Report, error) {
	report := newReport("threads")
	logger := opts.InstrumentOptions.Logger()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var finalized atomic.Bool
	shared := rc.NewArcWithOptions(&guarded{}, opts.rcOptions(), checked.FinalizerFn(func() {
		finalized.Store(true)
	}))
	counter := xsync.NewCounter(opts.InstrumentOptions.MetricsScope(), "jobs-completed")

	pool := xsync.NewWorkerPool(opts.Workers)
	pool.Init()

	var (
		wg      sync.WaitGroup
		results = make(chan int, opts.Jobs)
	)
	for i := 0; i < opts.Jobs; i++ {
		handle := shared.Clone()
		job := i
		wg.Add(1)
		scheduled := pool.GoWithContext(ctx, func() {
			defer wg.Done()
			defer handle.Drop()

			g := *handle.Get()
			g.Lock()
			g.value++
			g.Unlock()

			counter.Inc()
			results <- 1
			logger.Debug("job finished", zap.Int("job", job))
		})
		if !scheduled {
			wg.Done()
			handle.Drop()
			wg.Wait()
			shared.Drop()
			return report, errSchedulingTimeout
		}
	}
	wg.Wait()
	close(results)

	sum := 0
	for r := range results {
		sum += r
	}

	g := *shared.Get()
	g.Lock()
	report.Counts["value"] = g.value
	g.Unlock()
	report.Counts["counter"] = int(counter.Load())
	report.Counts["channel-sum"] = sum
	report.Counts["strong"] = shared.StrongCount()

	shared.Drop()
	if finalized.Load() {
		report.Counts["finalized"] = 1
	}
	return report, nil
}
