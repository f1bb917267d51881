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

package cons

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxListMutateHead(t *testing.T) {
	list := BoxCons(3, BoxCons(2, BoxCons(1, nil)))
	require.NoError(t, list.GetMut().SetValue(33))
	assert.Equal(t, "33 -> 2 -> 1 -> End", FormatBox(list.Get(), 10))

	node, err := FindFromTail(list.Get(), 2)
	require.NoError(t, err)
	v, err := node.Value()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	list.Drop()
	assert.False(t, list.Valid())
}

func TestBoxListEnd(t *testing.T) {
	end := BoxEnd[string]()
	assert.True(t, end.Get().IsEnd())
	_, err := end.Get().Value()
	assert.Equal(t, ErrEndNode, err)
	_, err = end.Get().Next()
	assert.Equal(t, ErrEndNode, err)
	assert.Equal(t, ErrEndNode, end.Get().SetValue("x"))
	end.Drop()
}

func TestFindFromTail(t *testing.T) {
	head := FromSlice([]int{10, 20, 30, 40})
	defer head.Drop()

	tests := []struct {
		k    int
		want int
	}{
		{k: 1, want: 40},
		{k: 2, want: 30},
		{k: 4, want: 10},
	}
	for _, test := range tests {
		node, err := FindFromTail(head.Get(), test.k)
		require.NoError(t, err)
		v, err := node.Value()
		require.NoError(t, err)
		assert.Equal(t, test.want, v, "k=%d", test.k)
	}
}

func TestFindFromTailOutOfRange(t *testing.T) {
	head := FromSlice([]int{1, 2, 3})
	defer head.Drop()

	for _, k := range []int{-1, 0, 4, 10} {
		_, err := FindFromTail(head.Get(), k)
		assert.True(t, errors.Is(err, ErrOutOfRange), "k=%d", k)
	}

	end := BoxEnd[int]()
	defer end.Drop()
	_, err := FindFromTail(end.Get(), 1)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestTakeStopsAtEnd(t *testing.T) {
	head := FromSlice([]int{1, 2, 3})
	defer head.Drop()

	if diff := cmp.Diff([]int{1, 2}, Take(head.Get(), 2)); diff != "" {
		t.Errorf("unexpected values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, Take(head.Get(), 10)); diff != "" {
		t.Errorf("unexpected values (-want +got):\n%s", diff)
	}
	assert.Empty(t, Take(head.Get(), 0))
	assert.Empty(t, Take(head.Get(), -1))
}

func TestFormat(t *testing.T) {
	head := FromSlice([]string{"a", "b"})
	defer head.Drop()

	assert.Equal(t, "a -> b -> End", Format(head.Get(), 2))
	assert.Equal(t, "a -> ...", Format(head.Get(), 1))

	empty := FromSlice[int](nil)
	defer empty.Drop()
	assert.Equal(t, "End", Format(empty.Get(), 0))

	boxed := BoxFromSlice([]user{{ID: 1, Age: 30}})
	defer boxed.Drop()
	assert.Equal(t, "{1 30} -> End", FormatBox(boxed.Get(), 5))
}

type user struct {
	ID  int
	Age int
}

func TestPropFindFromTail(t *testing.T) {
	var (
		parameters = gopter.DefaultTestParameters()
		seed       = time.Now().UnixNano()
		props      = gopter.NewProperties(parameters)
		reporter   = gopter.NewFormatedReporter(true, 160, os.Stdout)
	)
	parameters.MinSuccessfulTests = 128
	parameters.Rng.Seed(seed)

	props.Property("shared and boxed lists agree with slice indexing", prop.ForAll(
		func(values []int, k int) (bool, error) {
			shared := FromSlice(values)
			defer shared.Drop()
			boxed := BoxFromSlice(values)
			defer boxed.Drop()

			a, errA := FindFromTail(shared.Get(), k)
			b, errB := FindFromTail(boxed.Get(), k)
			if k > len(values) {
				return errors.Is(errA, ErrOutOfRange) && errors.Is(errB, ErrOutOfRange), nil
			}
			if errA != nil || errB != nil {
				return false, nil
			}
			va, _ := a.Value()
			vb, _ := b.Value()
			want := values[len(values)-k]
			return va == want && vb == want, nil
		},
		gen.SliceOf(gen.Int()),
		gen.IntRange(1, 32),
	))

	if !props.Run(reporter) {
		t.Errorf("failed with initial seed: %d", seed)
	}
}
