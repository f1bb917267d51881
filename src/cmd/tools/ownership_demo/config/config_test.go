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

package config

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	xconfig "github.com/m3db/ownership/src/x/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
logging:
  level: debug
leakDetection: true
scenarios:
  - box
  - threads
formatLimit: 4
threads:
  workers: 2
  jobs: 10
  timeout: 1s
`

func writeConfig(t *testing.T, contents string) string {
	f, err := ioutil.TempFile("", "ownership-demo-config")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString(contents)
	require.NoError(t, err)
	return f.Name()
}

func TestConfigurationLoad(t *testing.T) {
	file := writeConfig(t, testConfig)
	defer os.Remove(file)

	var cfg Configuration
	require.NoError(t, xconfig.LoadFile(&cfg, file, xconfig.Options{}))

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.LeakDetection)
	assert.False(t, cfg.Traceback)
	assert.Equal(t, []string{"box", "threads"}, cfg.Scenarios)
	assert.Equal(t, 4, cfg.FormatLimitOrDefault())
	assert.Equal(t, defaultReportInterval, cfg.ReportIntervalOrDefault())
	assert.Equal(t, ThreadsConfiguration{Workers: 2, Jobs: 10, Timeout: time.Second}, cfg.Threads)
	assert.Equal(t, 2, cfg.Threads.WorkersOrDefault())
	assert.Equal(t, 10, cfg.Threads.JobsOrDefault())
}

func TestConfigurationWithoutThreads(t *testing.T) {
	file := writeConfig(t, "scenarios:\n  - box\n")
	defer os.Remove(file)

	var cfg Configuration
	require.NoError(t, xconfig.LoadFile(&cfg, file, xconfig.Options{}))

	assert.Equal(t, []string{"box"}, cfg.Scenarios)
	assert.Equal(t, defaultWorkers, cfg.Threads.WorkersOrDefault())
	assert.Equal(t, defaultJobs, cfg.Threads.JobsOrDefault())
}

func TestConfigurationRejectsNegativeWorkers(t *testing.T) {
	file := writeConfig(t, "threads:\n  workers: -1\n  jobs: 1\n")
	defer os.Remove(file)

	var cfg Configuration
	err := xconfig.LoadFile(&cfg, file, xconfig.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestConfigurationDefaults(t *testing.T) {
	var cfg Configuration
	assert.Equal(t, defaultFormatLimit, cfg.FormatLimitOrDefault())
	assert.Equal(t, defaultReportInterval, cfg.ReportIntervalOrDefault())
	assert.Equal(t, defaultWorkers, cfg.Threads.WorkersOrDefault())
	assert.Equal(t, defaultJobs, cfg.Threads.JobsOrDefault())
}
