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

	"github.com/m3db/ownership/src/x/cell"
	"github.com/m3db/ownership/src/x/cons"
	"github.com/m3db/ownership/src/x/rc"
)

type list = rc.Rc[cons.Node[int]]

func runBox(_ context.Context, opts Options) (Report, error) {
	report := newReport("box")

	head := cons.BoxCons(3, cons.BoxCons(2, cons.BoxCons(1, nil)))
	defer head.Drop()

	if err := head.GetMut().SetValue(33); err != nil {
		return report, err
	}
	report.Lists = append(report.Lists, cons.FormatBox(head.Get(), opts.FormatLimit))

	node, err := cons.FindFromTail(head.Get(), 2)
	if err != nil {
		return report, err
	}
	v, err := node.Value()
	if err != nil {
		return report, err
	}
	report.Counts["kth-from-tail(2)"] = v
	return report, nil
}

func runSharedSuffix(_ context.Context, opts Options) (Report, error) {
	report := newReport("shared-suffix")
	rcOpts := opts.rcOptions()

	null := rc.NewWithOptions(cons.End[int](), rcOpts)
	n1 := rc.NewWithOptions(cons.Cons(1, null.Clone()), rcOpts)
	n2 := rc.NewWithOptions(cons.Cons(2, n1.Clone()), rcOpts)
	n3 := rc.NewWithOptions(cons.Cons(3, n2.Clone()), rcOpts)
	n4 := rc.NewWithOptions(cons.Cons(4, n2.Clone()), rcOpts)

	for _, named := range []struct {
		name   string
		handle *list
	}{
		{"null", null},
		{"n1", n1},
		{"n2", n2},
		{"n3", n3},
		{"n4", n4},
	} {
		report.Counts[named.name] = named.handle.StrongCount()
	}
	report.Lists = append(report.Lists,
		cons.Format(n3.Get(), opts.FormatLimit),
		cons.Format(n4.Get(), opts.FormatLimit))

	for _, h := range []*list{n4, n3, n2, n1, null} {
		h.Drop()
	}
	return report, nil
}

type user struct {
	ID  int
	Age int
}

type loop struct {
	value *cell.Cell[int]
	next  *cell.Cell[*rc.Rc[loop]]
}

func runCellCycle(_ context.Context, opts Options) (Report, error) {
	report := newReport("cell-cycle")

	u := cell.NewCell(user{ID: 1, Age: 10})
	u.Set(user{ID: 1, Age: 11})
	report.Counts["user.age"] = u.Get().Age

	node := rc.NewWithOptions(loop{
		value: cell.NewCell(1),
		next:  cell.NewCell[*rc.Rc[loop]](nil),
	}, opts.rcOptions())
	node.Get().value.Set(11)
	node.Get().next.Set(node.Clone())
	report.Counts["strong"] = node.StrongCount()

	visited := 0
	for cur := node.Get(); visited < opts.FormatLimit; visited++ {
		cur = cur.next.Get().Get()
	}
	report.Counts["visited"] = visited
	report.Counts["value"] = node.Get().next.Get().Get().value.Get()

	node.Get().next.Take().Drop()
	node.Drop()
	return report, nil
}

func runRefCellRewire(_ context.Context, opts Options) (Report, error) {
	report := newReport("refcell-rewire")
	rcOpts := opts.rcOptions()

	t := rc.NewWithOptions(cons.Cons(1, nil), rcOpts)
	n1 := cell.NewRefCell(t.Clone())
	replacement := rc.NewWithOptions(cons.Cons(99, nil), rcOpts)

	var err error
	n1.With(func(h **list) {
		node := (*h).Get()
		if err = node.SetValue(100); err != nil {
			return
		}
		err = node.SetNext(replacement)
	})
	if err != nil {
		return report, err
	}
	report.Lists = append(report.Lists, cons.Format(t.Get(), opts.FormatLimit))
	n1.Replace(nil).Drop()
	t.Drop()

	self := rc.NewWithOptions(cons.Cons(1, nil), rcOpts)
	slot := cell.NewRefCell(self.Clone())
	slot.WithMut(func(h **list) {
		err = (*h).Get().SetNext(self.Clone())
	})
	if err != nil {
		return report, err
	}
	report.Counts["strong"] = self.StrongCount()
	report.Counts["weak"] = self.WeakCount()
	report.Lists = append(report.Lists, cons.Format(self.Get(), opts.FormatLimit))

	if err := self.Get().SetNext(nil); err != nil {
		return report, err
	}
	slot.Replace(nil).Drop()
	self.Drop()
	return report, nil
}

// runStrongCycle leaks a three node cycle on purpose.
func runStrongCycle(_ context.Context, opts Options) (Report, error) {
	report := newReport("strong-cycle")

	a := cons.FromSlice([]int{1, 2, 3})
	b, err := a.Get().Successor()
	if err != nil {
		return report, err
	}
	defer b.Drop()
	c, err := b.Get().Successor()
	if err != nil {
		return report, err
	}
	defer c.Drop()

	if err := c.Get().SetNext(a.Clone()); err != nil {
		return report, err
	}
	report.Lists = append(report.Lists, cons.Format(a.Get(), opts.FormatLimit))

	weak := a.Downgrade()
	defer weak.Drop()
	a.Drop()
	report.Counts["strong-after-drop"] = weak.StrongCount()
	return report, nil
}

func runWeakCycle(_ context.Context, opts Options) (Report, error) {
	report := newReport("weak-cycle")
	rcOpts := opts.rcOptions()

	b := rc.NewWithOptions(cons.Cons(2, nil), rcOpts)
	a := rc.NewWithOptions(cons.Cons(1, b.Clone()), rcOpts)
	if err := b.Get().SetPrev(a.Downgrade()); err != nil {
		return report, err
	}
	report.Lists = append(report.Lists, cons.Format(a.Get(), opts.FormatLimit))
	report.Counts["a.strong"] = a.StrongCount()
	report.Counts["a.weak"] = a.WeakCount()
	report.Counts["b.strong"] = b.StrongCount()

	weak := a.Downgrade()
	defer weak.Drop()
	b.Drop()
	a.Drop()
	report.Counts["strong-after-drop"] = weak.StrongCount()
	return report, nil
}
