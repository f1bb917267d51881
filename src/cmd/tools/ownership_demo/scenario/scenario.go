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

// Package scenario contains the ownership demo scenarios. Each scenario
// builds a small structure out of the ownership primitives, records what it
// observed and drops everything it allocated, except where leaking is the
// point of the scenario.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m3db/ownership/src/x/instrument"
	"github.com/m3db/ownership/src/x/rc"
)

// Options configures a scenario run.
type Options struct {
	InstrumentOptions instrument.Options
	FormatLimit       int
	Workers           int
	Jobs              int
	Timeout           time.Duration
}

// Report is what a scenario observed.
type Report struct {
	Name   string
	Lists  []string
	Counts map[string]int
}

func newReport(name string) Report {
	return Report{Name: name, Counts: make(map[string]int)}
}

// Fn runs a scenario.
type Fn func(ctx context.Context, opts Options) (Report, error)

var scenarios = map[string]Fn{
	"box":            runBox,
	"shared-suffix":  runSharedSuffix,
	"cell-cycle":     runCellCycle,
	"refcell-rewire": runRefCellRewire,
	"strong-cycle":   runStrongCycle,
	"weak-cycle":     runWeakCycle,
	"threads":        runThreads,
}

// Names returns the names of all scenarios in order.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run runs the named scenario.
func Run(ctx context.Context, name string, opts Options) (Report, error) {
	fn, ok := scenarios[name]
	if !ok {
		return Report{}, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(ctx, opts)
}

func (o Options) rcOptions() rc.Options {
	return rc.NewOptions().SetInstrumentOptions(o.InstrumentOptions)
}
