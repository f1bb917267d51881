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

package checked

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyBorrowed is returned when exclusive access is requested while
	// any borrow is outstanding.
	ErrAlreadyBorrowed = errors.New("already borrowed")

	// ErrAlreadyMutablyBorrowed is returned when shared access is requested
	// while the exclusive borrow is outstanding.
	ErrAlreadyMutablyBorrowed = errors.New("already mutably borrowed")
)

// BorrowState is the state of a borrow flag: Unborrowed, Exclusive, or a
// positive number of shared readers.
type BorrowState int

const (
	// Exclusive means a single writer holds the value.
	Exclusive BorrowState = -1
	// Unborrowed means no borrow is outstanding.
	Unborrowed BorrowState = 0
)

// Shared returns the state with n shared readers.
func Shared(n int) BorrowState {
	return BorrowState(n)
}

// Readers returns the number of outstanding shared borrows.
func (s BorrowState) Readers() int {
	if s < 0 {
		return 0
	}
	return int(s)
}

// IsShared returns true if at least one shared borrow is outstanding.
func (s BorrowState) IsShared() bool {
	return s > 0
}

// IsExclusive returns true if the exclusive borrow is outstanding.
func (s BorrowState) IsExclusive() bool {
	return s == Exclusive
}

func (s BorrowState) String() string {
	switch {
	case s == Unborrowed:
		return "unborrowed"
	case s == Exclusive:
		return "exclusive"
	case s > 0:
		return fmt.Sprintf("shared(%d)", int(s))
	}
	return fmt.Sprintf("invalid(%d)", int(s))
}

// BorrowFlag enforces at most one writer or any number of readers at
// runtime. The zero value is Unborrowed. It is not safe for concurrent use.
type BorrowFlag struct {
	state BorrowState
}

var _ Borrow = (*BorrowFlag)(nil)

// IncReads acquires a shared borrow.
func (f *BorrowFlag) IncReads() error {
	if f.state == Exclusive {
		return fmt.Errorf("%w: state=%s", ErrAlreadyMutablyBorrowed, f.state)
	}
	f.state++
	return nil
}

// DecReads releases a shared borrow.
func (f *BorrowFlag) DecReads() {
	if f.state <= 0 {
		Panic(fmt.Errorf("read finish without borrow: state=%s", f.state))
		return
	}
	f.state--
}

// IncWrites acquires the exclusive borrow.
func (f *BorrowFlag) IncWrites() error {
	if f.state != Unborrowed {
		return fmt.Errorf("%w: state=%s", ErrAlreadyBorrowed, f.state)
	}
	f.state = Exclusive
	return nil
}

// DecWrites releases the exclusive borrow.
func (f *BorrowFlag) DecWrites() {
	if f.state != Exclusive {
		Panic(fmt.Errorf("write finish without borrow: state=%s", f.state))
		return
	}
	f.state = Unborrowed
}

// State returns the current borrow state.
func (f *BorrowFlag) State() BorrowState {
	return f.state
}
