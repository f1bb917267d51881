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
	"testing"

	"github.com/m3db/ownership/src/x/instrument"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewOptionsStartsFromDefaults(t *testing.T) {
	opts := NewOptions()
	assert.True(t, opts.InstrumentOptions() == defaultOptions.iOpts)
	assert.False(t, opts.InstrumentOptions().Logger().Core().Enabled(zap.ErrorLevel))

	o, ok := opts.(*options)
	require.True(t, ok)
	assert.False(t, o == defaultOptions)
	assert.True(t, o.rc == defaultOptions.rc)
	assert.True(t, o.arc == defaultOptions.arc)
}

func TestSetInstrumentOptionsLeavesDefaultsUntouched(t *testing.T) {
	iOpts := instrument.NewTestOptions(t)
	opts := NewOptions().SetInstrumentOptions(iOpts)

	assert.True(t, opts.InstrumentOptions() == iOpts)
	assert.False(t, defaultOptions.iOpts == iOpts)
	assert.False(t, resolveOptions(opts).rc == defaultOptions.rc)
}
