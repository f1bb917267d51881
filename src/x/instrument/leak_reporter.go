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

package instrument

import (
	"errors"
	"sync"
	"time"

	"github.com/m3db/ownership/src/x/checked"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

var (
	errReporterAlreadyStarted = errors.New("reporter already started")
	errReporterNotStarted     = errors.New("reporter not started")
)

type leakReporter struct {
	sync.Mutex

	logger   *zap.Logger
	interval time.Duration
	leaked   tally.Gauge
	started  bool
	closeCh  chan struct{}
	doneCh   chan struct{}
	lastSeen int
}

// NewLeakReporter returns a reporter that periodically emits the number of
// ref counted objects that are still strongly referenced while leak
// detection is enabled, and logs when that number grows.
func NewLeakReporter(opts Options) Reporter {
	return &leakReporter{
		logger:   opts.Logger(),
		interval: opts.ReportInterval(),
		leaked:   opts.MetricsScope().SubScope("checked").Gauge("leaked-objects"),
	}
}

func (r *leakReporter) Start() error {
	r.Lock()
	defer r.Unlock()

	if r.started {
		return errReporterAlreadyStarted
	}
	r.started = true
	r.closeCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.report()

	go r.run(r.closeCh, r.doneCh)
	return nil
}

func (r *leakReporter) run(closeCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Lock()
			r.report()
			r.Unlock()
		case <-closeCh:
			return
		}
	}
}

func (r *leakReporter) report() {
	n := checked.NumLeaks()
	r.leaked.Update(float64(n))
	if n > r.lastSeen {
		r.logger.Warn("ref counted objects still referenced",
			zap.Int("leaked", n),
			zap.Int("previous", r.lastSeen))
	}
	r.lastSeen = n
}

func (r *leakReporter) Stop() error {
	r.Lock()
	if !r.started {
		r.Unlock()
		return errReporterNotStarted
	}
	r.started = false
	close(r.closeCh)
	doneCh := r.doneCh
	r.Unlock()

	<-doneCh
	return nil
}
