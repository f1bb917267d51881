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

package cell

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/m3db/ownership/src/x/checked"
	"github.com/m3db/ownership/src/x/rc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefCellSharedBorrows(t *testing.T) {
	c := NewRefCell(10)
	assert.Equal(t, checked.Unborrowed, c.State())

	r1 := c.Borrow()
	r2 := c.Borrow()
	assert.Equal(t, checked.Shared(2), c.State())
	assert.Equal(t, 10, *r1.Get())
	assert.True(t, r1.Get() == r2.Get())

	_, err := c.TryBorrowMut()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyBorrowed))
	assert.Equal(t, checked.Shared(2), c.State())

	r1.Release()
	assert.Equal(t, checked.Shared(1), c.State())
	r2.Release()
	assert.Equal(t, checked.Unborrowed, c.State())
}

func TestRefCellMutableBorrow(t *testing.T) {
	c := NewRefCell(10)

	w := c.BorrowMut()
	assert.Equal(t, checked.Exclusive, c.State())
	*w.Get() += 5

	_, err := c.TryBorrow()
	assert.True(t, errors.Is(err, ErrAlreadyMutablyBorrowed))
	_, err = c.TryBorrowMut()
	assert.True(t, errors.Is(err, ErrAlreadyBorrowed))

	w.Set(20)
	w.Release()
	assert.Equal(t, checked.Unborrowed, c.State())

	r := c.Borrow()
	assert.Equal(t, 20, *r.Get())
	r.Release()
}

func TestRefCellConflictPanics(t *testing.T) {
	c := NewRefCell("v")
	r := c.Borrow()
	assert.Panics(t, func() {
		c.BorrowMut()
	})
	r.Release()

	w := c.BorrowMut()
	assert.Panics(t, func() {
		c.Borrow()
	})
	w.Release()
}

func TestRefCellConflictReportedThroughPanicFn(t *testing.T) {
	var err error
	checked.SetPanicFn(func(e error) {
		err = e
	})
	defer checked.ResetPanicFn()

	c := NewRefCell(1)
	w := c.BorrowMut()
	assert.Nil(t, c.Borrow())
	assert.True(t, errors.Is(err, ErrAlreadyMutablyBorrowed))
	assert.Equal(t, "already mutably borrowed: state=exclusive", err.Error())
	w.Release()
}

func TestRefCellReleaseIsIdempotent(t *testing.T) {
	c := NewRefCell(1)
	r := c.Borrow()
	r.Release()
	r.Release()
	assert.Equal(t, checked.Unborrowed, c.State())

	w := c.BorrowMut()
	w.Release()
	w.Release()
	assert.Equal(t, checked.Unborrowed, c.State())
}

func TestRefCellUseAfterRelease(t *testing.T) {
	var err error
	checked.SetPanicFn(func(e error) {
		err = e
	})
	defer checked.ResetPanicFn()

	c := NewRefCell(1)
	r := c.Borrow()
	r.Release()
	assert.Nil(t, r.Get())
	assert.Equal(t, errBorrowReleased, err)
}

func TestRefCellWithReleasesOnPanic(t *testing.T) {
	c := NewRefCell(1)
	assert.Panics(t, func() {
		c.WithMut(func(v *int) {
			*v = 2
			panic("boom")
		})
	})
	assert.Equal(t, checked.Unborrowed, c.State())

	c.With(func(v *int) {
		assert.Equal(t, 2, *v)
		assert.Equal(t, checked.Shared(1), c.State())
	})
	assert.Equal(t, checked.Unborrowed, c.State())
}

func TestRefCellReplace(t *testing.T) {
	c := NewRefCell([]int{1})
	assert.Equal(t, []int{1}, c.Replace([]int{2, 3}))
	c.With(func(v *[]int) {
		assert.Equal(t, []int{2, 3}, *v)
	})
}

type selfRefMut struct {
	value int
	next  *RefCell[*rc.Rc[selfRefMut]]
}

func TestRefCellSelfLoopThroughRc(t *testing.T) {
	node := rc.New(selfRefMut{value: 1, next: NewRefCell[*rc.Rc[selfRefMut]](nil)})
	other := node.Clone()
	node.Get().next.WithMut(func(next **rc.Rc[selfRefMut]) {
		*next = other.Clone()
	})
	assert.Equal(t, 3, node.StrongCount())
	assert.Equal(t, 0, node.WeakCount())

	node.Get().next.Replace(nil).Drop()
	other.Drop()
	assert.Equal(t, 1, node.StrongCount())
	node.Drop()
}

func TestRefCellCarriesNoCopyMarker(t *testing.T) {
	locker := reflect.TypeOf((*sync.Locker)(nil)).Elem()
	for _, typ := range []reflect.Type{
		reflect.TypeOf((*RefCell[int])(nil)).Elem(),
		reflect.TypeOf((*Ref[int])(nil)).Elem(),
		reflect.TypeOf((*RefMut[int])(nil)).Elem(),
	} {
		field := typ.Field(0)
		assert.Equal(t, "_", field.Name, typ.String())
		assert.True(t, reflect.PtrTo(field.Type).Implements(locker), typ.String())
	}
}
