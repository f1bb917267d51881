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

package log

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggingConfiguration(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "logtest")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	cfg := Configuration{
		Fields: map[string]interface{}{
			"my-field": "my-val",
		},
		Level: "error",
		File:  filepath.Join(tmpDir, "log.txt"),
	}

	log, err := cfg.BuildLogger()
	require.NoError(t, err)

	log.Info("should not appear")
	log.Warn("should not appear")
	log.Error("this should appear", zap.Int("leaked", 3))

	b, err := ioutil.ReadFile(cfg.File)
	require.NoError(t, err)
	data := string(b)
	require.Equal(t, 1, strings.Count(data, "\n"), data)
	assert.True(t, strings.Contains(data, `"msg":"this should appear"`))
	assert.True(t, strings.Contains(data, `"my-field":"my-val"`))
	assert.True(t, strings.Contains(data, `"leaked":3`))
	assert.True(t, strings.Contains(data, `"level":"error"`))
}

func TestLoggingConfigurationBadLevel(t *testing.T) {
	cfg := Configuration{Level: "loud"}
	_, err := cfg.BuildLogger()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "unable to parse log level loud"))
}
