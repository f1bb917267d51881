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
	"strings"

	"github.com/davecgh/go-spew/spew"
)

const (
	linkSeparator = " -> "
	endMarker     = "End"
	cutMarker     = "..."
)

var valueFormatter = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

type valuedLink[T any, N any] interface {
	Link[N]
	Value() (T, error)
}

// Format renders at most limit values of the list starting at head, as in
// "1 -> 2 -> End". A list longer than limit, or a cycle, ends in "...".
func Format[T any](head *Node[T], limit int) string {
	return formatList[T, *Node[T]](head, limit)
}

// FormatBox is Format for exclusively owned lists.
func FormatBox[T any](head *BoxNode[T], limit int) string {
	return formatList[T, *BoxNode[T]](head, limit)
}

func formatList[T any, N valuedLink[T, N]](head N, limit int) string {
	var (
		buf  strings.Builder
		node = head
	)
	for i := 0; ; i++ {
		if node.IsEnd() {
			buf.WriteString(endMarker)
			break
		}
		if i >= limit {
			buf.WriteString(cutMarker)
			break
		}
		v, err := node.Value()
		if err != nil {
			buf.WriteString(err.Error())
			break
		}
		valueFormatter.Fprint(&buf, v)
		buf.WriteString(linkSeparator)
		if node, err = node.Next(); err != nil {
			buf.WriteString(err.Error())
			break
		}
	}
	return buf.String()
}
