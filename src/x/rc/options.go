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
	"github.com/m3db/ownership/src/x/instrument"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

var defaultOptions = newOptions(instrument.NewOptions().SetLogger(zap.NewNop()))

type options struct {
	iOpts  instrument.Options
	rc     *handleMetrics
	arc    *handleMetrics
	logger *zap.Logger
}

// NewOptions returns new handle options. Handles log to a no-op logger and
// report to a no-op scope until instrument options are set.
func NewOptions() Options {
	opts := *defaultOptions
	return &opts
}

func newOptions(iOpts instrument.Options) *options {
	o := &options{}
	o.setInstrumentOptions(iOpts)
	return o
}

func (o *options) SetInstrumentOptions(value instrument.Options) Options {
	opts := *o
	opts.setInstrumentOptions(value)
	return &opts
}

func (o *options) InstrumentOptions() instrument.Options {
	return o.iOpts
}

func (o *options) setInstrumentOptions(value instrument.Options) {
	o.iOpts = value
	o.logger = value.Logger()
	o.rc = newHandleMetrics(value.MetricsScope().SubScope("rc"))
	o.arc = newHandleMetrics(value.MetricsScope().SubScope("arc"))
}

func resolveOptions(opts Options) *options {
	if o, ok := opts.(*options); ok {
		return o
	}
	return newOptions(opts.InstrumentOptions())
}

type handleMetrics struct {
	allocs          tally.Counter
	clones          tally.Counter
	drops           tally.Counter
	frees           tally.Counter
	zombies         tally.Counter
	upgradeFailures tally.Counter
}

func newHandleMetrics(scope tally.Scope) *handleMetrics {
	return &handleMetrics{
		allocs:          scope.Counter("allocs"),
		clones:          scope.Counter("clones"),
		drops:           scope.Counter("drops"),
		frees:           scope.Counter("frees"),
		zombies:         scope.Counter("zombies"),
		upgradeFailures: scope.Counter("upgrade-failures"),
	}
}
