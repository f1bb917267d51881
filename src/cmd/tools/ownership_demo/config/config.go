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

// Package config contains the ownership demo configuration.
package config

import (
	"time"

	xlog "github.com/m3db/ownership/src/x/log"
)

const (
	defaultFormatLimit    = 16
	defaultReportInterval = time.Second
	defaultWorkers        = 4
	defaultJobs           = 100
)

// Configuration is the ownership demo configuration.
type Configuration struct {
	// Logging configuration.
	Logging xlog.Configuration `yaml:"logging"`

	// LeakDetection tracks handles that are never dropped and reports them
	// when the demo exits.
	LeakDetection bool `yaml:"leakDetection"`

	// Traceback records the call stacks of reference count changes.
	Traceback bool `yaml:"traceback"`

	// Scenarios to run, all of them if empty.
	Scenarios []string `yaml:"scenarios"`

	// FormatLimit bounds the number of nodes rendered per list.
	FormatLimit int `yaml:"formatLimit" validate:"min=0"`

	// ReportInterval is how often leak metrics are reported.
	ReportInterval time.Duration `yaml:"reportInterval"`

	// Threads configures the concurrent counter scenario.
	Threads ThreadsConfiguration `yaml:"threads"`
}

// ThreadsConfiguration configures the concurrent counter scenario.
type ThreadsConfiguration struct {
	Workers int           `yaml:"workers" validate:"min=0"`
	Jobs    int           `yaml:"jobs" validate:"min=0"`
	Timeout time.Duration `yaml:"timeout"`
}

// FormatLimitOrDefault returns the configured format limit or the default.
func (c Configuration) FormatLimitOrDefault() int {
	if c.FormatLimit > 0 {
		return c.FormatLimit
	}
	return defaultFormatLimit
}

// ReportIntervalOrDefault returns the configured report interval or the
// default.
func (c Configuration) ReportIntervalOrDefault() time.Duration {
	if c.ReportInterval > 0 {
		return c.ReportInterval
	}
	return defaultReportInterval
}

// WorkersOrDefault returns the configured worker count or the default.
func (c ThreadsConfiguration) WorkersOrDefault() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return defaultWorkers
}

// JobsOrDefault returns the configured job count or the default.
func (c ThreadsConfiguration) JobsOrDefault() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return defaultJobs
}
