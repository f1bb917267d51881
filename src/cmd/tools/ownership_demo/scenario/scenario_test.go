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
	"testing"
	"time"

	"github.com/m3db/ownership/src/x/checked"
	"github.com/m3db/ownership/src/x/instrument"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/goleak"
)

func newTestOptions(t *testing.T) (Options, tally.TestScope) {
	iOpts := instrument.NewTestOptions(t)
	return Options{
		InstrumentOptions: iOpts,
		FormatLimit:       8,
		Workers:           4,
		Jobs:              10,
		Timeout:           5 * time.Second,
	}, iOpts.MetricsScope().(tally.TestScope)
}

func runScenario(t *testing.T, name string) Report {
	opts, _ := newTestOptions(t)
	report, err := Run(context.Background(), name, opts)
	require.NoError(t, err)
	assert.Equal(t, name, report.Name)
	return report
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"box",
		"cell-cycle",
		"refcell-rewire",
		"shared-suffix",
		"strong-cycle",
		"threads",
		"weak-cycle",
	}, Names())
}

func TestRunUnknown(t *testing.T) {
	opts, _ := newTestOptions(t)
	_, err := Run(context.Background(), "nope", opts)
	assert.EqualError(t, err, "unknown scenario: nope")
}

func TestBox(t *testing.T) {
	report := runScenario(t, "box")
	assert.Equal(t, []string{"33 -> 2 -> 1 -> End"}, report.Lists)
	assert.Equal(t, 2, report.Counts["kth-from-tail(2)"])
}

func TestSharedSuffix(t *testing.T) {
	checked.EnableLeakDetection()
	defer checked.DisableLeakDetection()

	report := runScenario(t, "shared-suffix")
	assert.Equal(t, map[string]int{"null": 2, "n1": 2, "n2": 3, "n3": 1, "n4": 1}, report.Counts)
	assert.Equal(t, []string{"3 -> 2 -> 1 -> End", "4 -> 2 -> 1 -> End"}, report.Lists)
	assert.Equal(t, 0, checked.NumLeaks())
}

func TestCellCycle(t *testing.T) {
	report := runScenario(t, "cell-cycle")
	assert.Equal(t, 11, report.Counts["user.age"])
	assert.Equal(t, 2, report.Counts["strong"])
	assert.Equal(t, 8, report.Counts["visited"])
	assert.Equal(t, 11, report.Counts["value"])
}

func TestRefCellRewire(t *testing.T) {
	checked.EnableLeakDetection()
	defer checked.DisableLeakDetection()

	report := runScenario(t, "refcell-rewire")
	require.Len(t, report.Lists, 2)
	assert.Equal(t, "100 -> 99 -> End", report.Lists[0])
	assert.Equal(t, "1 -> 1 -> 1 -> 1 -> 1 -> 1 -> 1 -> 1 -> ...", report.Lists[1])
	assert.Equal(t, 3, report.Counts["strong"])
	assert.Equal(t, 0, report.Counts["weak"])
	assert.Equal(t, 0, checked.NumLeaks())
}

func TestStrongCycleLeaks(t *testing.T) {
	checked.EnableLeakDetection()
	defer checked.DisableLeakDetection()

	report := runScenario(t, "strong-cycle")
	assert.Equal(t, "1 -> 2 -> 3 -> 1 -> 2 -> 3 -> 1 -> 2 -> ...", report.Lists[0])
	assert.Equal(t, 1, report.Counts["strong-after-drop"])
	assert.Equal(t, 3, checked.NumLeaks())
}

func TestWeakCycleFrees(t *testing.T) {
	checked.EnableLeakDetection()
	defer checked.DisableLeakDetection()

	opts, scope := newTestOptions(t)
	report, err := Run(context.Background(), "weak-cycle", opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"1 -> 2 -> End"}, report.Lists)
	assert.Equal(t, 1, report.Counts["a.strong"])
	assert.Equal(t, 1, report.Counts["a.weak"])
	assert.Equal(t, 2, report.Counts["b.strong"])
	assert.Equal(t, 0, report.Counts["strong-after-drop"])
	assert.Equal(t, 0, checked.NumLeaks())

	counters := scope.Snapshot().Counters()
	assert.Equal(t, int64(2), counters["rc.allocs+"].Value())
	assert.Equal(t, int64(2), counters["rc.frees+"].Value())
	assert.Equal(t, int64(1), counters["rc.zombies+"].Value())
}

func TestThreads(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts, scope := newTestOptions(t)
	report, err := Run(context.Background(), "threads", opts)
	require.NoError(t, err)

	assert.Equal(t, 10, report.Counts["value"])
	assert.Equal(t, 10, report.Counts["counter"])
	assert.Equal(t, 10, report.Counts["channel-sum"])
	assert.Equal(t, 1, report.Counts["strong"])
	assert.Equal(t, 1, report.Counts["finalized"])

	counters := scope.Snapshot().Counters()
	assert.Equal(t, int64(10), counters["jobs-completed+"].Value())
	assert.Equal(t, int64(10), counters["arc.clones+"].Value())
	assert.Equal(t, int64(1), counters["arc.frees+"].Value())
}

func TestThreadsCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts, _ := newTestOptions(t)
	opts.Workers = 1
	opts.Jobs = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, "threads", opts)
	assert.Equal(t, errSchedulingTimeout, err)
}
