// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package heap

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/rawvec/pkg/common/malloc"
	"github.com/matrixorigin/rawvec/pkg/common/moerr"
	"github.com/matrixorigin/rawvec/pkg/container/vector"
)

func isHeap[T any](t *testing.T, h *BinaryHeap[T]) {
	t.Helper()
	first := h.Begin()
	n := h.End().Sub(first)
	for i := 1; i < n; i++ {
		require.False(t, h.less(first.At((i-1)/2), first.At(i)), "node %d above its parent", i)
	}
}

func TestPushPop(t *testing.T) {
	h := NewOrdered[int]()
	require.True(t, h.Empty())
	for i := 0; i < 1000; i++ {
		require.NoError(t, h.Push(rand.Intn(500)))
		isHeap(t, h)
	}
	require.Equal(t, 1000, h.Len())

	var got []int
	for !h.Empty() {
		top, err := h.Top()
		require.NoError(t, err)
		v, err := h.Pop()
		require.NoError(t, err)
		require.Equal(t, top, v)
		got = append(got, v)
	}
	require.True(t, slices.IsSortedFunc(got, func(a, b int) int { return b - a }))

	_, err := h.Pop()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEmptyVector))
	_, err = h.Top()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEmptyVector))
}

func TestMinHeap(t *testing.T) {
	h, err := FromSlice([]string{"pear", "apple", "fig", "kiwi"}, func(a, b string) bool {
		return a > b
	})
	require.NoError(t, err)
	isHeap(t, h)
	var got []string
	for !h.Empty() {
		v, err := h.Pop()
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []string{"apple", "fig", "kiwi", "pear"}, got)
}

func TestHeight(t *testing.T) {
	h := NewOrdered[int]()
	for n, want := range []int{0, 1, 2, 2, 3, 3, 3, 3, 4} {
		require.Equal(t, n, h.Len())
		require.Equal(t, want, h.Height(), "size %d", n)
		require.NoError(t, h.Push(n))
	}
}

func TestAssignClearSwap(t *testing.T) {
	h := NewOrdered[int]()
	require.NoError(t, h.Assign(3, 1, 4, 1, 5, 9, 2, 6))
	isHeap(t, h)
	top, err := h.Top()
	require.NoError(t, err)
	require.Equal(t, 9, top)

	o := New(func(a, b int) bool { return a > b })
	require.NoError(t, o.Push(7))
	require.NoError(t, o.Push(8))
	h.Swap(o)
	top, err = h.Top()
	require.NoError(t, err)
	require.Equal(t, 7, top)
	require.Equal(t, 8, o.Len())
	require.NoError(t, h.Push(1))
	top, err = h.Top()
	require.NoError(t, err)
	require.Equal(t, 1, top)

	o.Clear()
	require.True(t, o.Empty())
	require.Equal(t, 0, o.Height())
}

func TestEmplace(t *testing.T) {
	h := NewOrdered[int]()
	require.NoError(t, h.Emplace(func(p *int) error {
		*p = 5
		return nil
	}))
	errBuild := fmt.Errorf("build failed")
	require.ErrorIs(t, h.Emplace(func(p *int) error { return errBuild }), errBuild)
	require.Equal(t, 1, h.Len())
}

func TestNewWith(t *testing.T) {
	v, err := vector.NewFromSlice([]int{1, 2, 3, 4, 5})
	require.NoError(t, err)
	h := NewWith[int](v, func(a, b int) bool { return a < b })
	isHeap(t, h)
	top, err := h.Top()
	require.NoError(t, err)
	require.Equal(t, 5, top)
	require.Equal(t, 5, v.Front())
}

func TestHeapOverLimitedVector(t *testing.T) {
	limit := malloc.NewLimitAllocator(malloc.Default[int64](), 256)
	v := vector.New(vector.WithAllocator[int64](limit))
	h := NewWith[int64](v, func(a, b int64) bool { return a < b })
	var err error
	for i := int64(0); err == nil; i++ {
		err = h.Push(i)
	}
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM))
	isHeap(t, h)
	top, err := h.Top()
	require.NoError(t, err)
	require.Equal(t, int64(h.Len()-1), top)
}

func TestHeapSort(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 10, 257} {
		vals := make([]int, n)
		for i := range vals {
			vals[i] = rand.Intn(100)
		}
		v, err := vector.NewFromSlice(vals)
		require.NoError(t, err)
		HeapSort(v.Begin(), v.End(), func(a, b int) bool { return a < b })
		slices.Sort(vals)
		require.Equal(t, len(vals), v.Len())
		require.True(t, slices.Equal(vals, v.Data()))
	}
}

func TestSortHeapRange(t *testing.T) {
	v, err := vector.NewFromSlice([]int{9, 8, 7, 5, 3, 1, 4, 2})
	require.NoError(t, err)
	less := func(a, b int) bool { return a < b }
	// sort the middle only
	first, last := v.Begin().Add(2), v.End().Add(-1)
	MakeHeap(first, last, less)
	SortHeap(first, last, less)
	require.Equal(t, []int{9, 8, 1, 3, 4, 5, 7, 2}, v.Data())
}
