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

package vector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/rawvec/pkg/common/moerr"
)

func requireInvalidState(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
	}()
	fn()
}

func positions(v *Vector[int]) []Iterator[int] {
	its := make([]Iterator[int], v.Len()+1)
	for i := range its {
		its[i] = v.Begin().Add(i)
	}
	return its
}

func requireValidBefore(t *testing.T, its []Iterator[int], pos int) {
	t.Helper()
	for i, it := range its {
		require.Equal(t, i < pos, it.Valid(), "iterator %d", i)
	}
}

func TestInsertInvalidation(t *testing.T) {
	v, err := NewFromSlice([]int{0, 1, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, v.Reserve(16))
	its := positions(v)
	p := v.Ref(1)

	_, err = v.Insert(v.Begin().Add(2), 9)
	require.NoError(t, err)
	requireValidBefore(t, its, 2)
	require.Equal(t, 1, its[1].Get())
	require.Same(t, p, its[1].Ref())

	// reallocation invalidates everything
	its = positions(v)
	_, err = v.InsertN(v.End(), 20, 1)
	require.NoError(t, err)
	requireValidBefore(t, its, 0)
}

func TestEraseInvalidation(t *testing.T) {
	v, err := NewFromSlice([]int{0, 1, 2, 3, 4})
	require.NoError(t, err)
	its := positions(v)
	_, err = v.Erase(v.Begin().Add(3))
	require.NoError(t, err)
	requireValidBefore(t, its, 3)

	its = positions(v)
	_, err = v.EraseRange(v.Begin().Add(1), v.Begin().Add(2))
	require.NoError(t, err)
	requireValidBefore(t, its, 1)
}

func TestPushPopInvalidation(t *testing.T) {
	v := New[int]()
	require.NoError(t, v.Reserve(8))
	require.NoError(t, v.Assign(1, 2, 3))

	its := positions(v)
	require.NoError(t, v.PushBack(4))
	requireValidBefore(t, its, 3)

	its = positions(v)
	v.PopBack()
	requireValidBefore(t, its, 3)
	requireInvalidState(t, func() { its[3].Get() })

	its = positions(v)
	v.Clear()
	requireValidBefore(t, its, 0)
}

func TestResizeInvalidation(t *testing.T) {
	v, err := NewFromSlice([]int{1, 2, 3, 4})
	require.NoError(t, err)
	its := positions(v)
	require.NoError(t, v.Resize(2))
	requireValidBefore(t, its, 2)

	its = positions(v)
	require.NoError(t, v.Resize(3))
	requireValidBefore(t, its, 2)

	its = positions(v)
	require.NoError(t, v.Resize(8))
	requireValidBefore(t, its, 0)
}

func TestReserveInvalidation(t *testing.T) {
	v, err := NewFromSlice([]int{1, 2, 3})
	require.NoError(t, err)
	its := positions(v)
	require.NoError(t, v.Reserve(2))
	requireValidBefore(t, its, len(its))

	require.NoError(t, v.Reserve(4))
	requireValidBefore(t, its, 0)

	its = positions(v)
	require.NoError(t, v.ShrinkToFit())
	requireValidBefore(t, its, 0)

	its = positions(v)
	v.Free()
	requireValidBefore(t, its, 0)
	requireInvalidState(t, func() { its[0].Get() })
}

func TestDereference(t *testing.T) {
	v, err := NewFromSlice([]int{1, 2})
	require.NoError(t, err)
	require.True(t, v.End().Valid())
	requireInvalidState(t, func() { v.End().Get() })
	requireInvalidState(t, func() { v.Begin().Prev().Get() })
	requireInvalidState(t, func() { v.REnd().Get() })
	requireInvalidState(t, func() { Iterator[int]{}.Get() })
	requireInvalidState(t, func() { v.CEnd().Get() })

	var empty Vector[int]
	require.True(t, empty.Begin().Equal(empty.End()))
	requireInvalidState(t, func() { empty.RBegin().Get() })
}

func TestIteratorArithmetic(t *testing.T) {
	v, err := NewFromSlice([]int{10, 20, 30, 40})
	require.NoError(t, err)
	b, e := v.Begin(), v.End()
	require.Equal(t, 4, e.Sub(b))
	require.Equal(t, -4, b.Sub(e))
	require.True(t, b.Less(e))
	require.False(t, e.Less(b))
	require.True(t, b.Add(4).Equal(e))
	require.True(t, e.Prev().Prev().Equal(b.Next().Next()))
	require.Equal(t, 30, b.At(2))
	require.Equal(t, 2, b.Add(2).Index())

	w, err := NewFromSlice([]int{10})
	require.NoError(t, err)
	require.False(t, v.Begin().Equal(w.Begin()))
}

func TestEditLog(t *testing.T) {
	var l editLog
	require.True(t, l.untouched(0, 0))

	l.record(5) // epoch 1
	l.record(3) // epoch 2
	l.record(7) // epoch 3
	require.Equal(t, []edit{{epoch: 2, pos: 3, count: 1}, {epoch: 3, pos: 7, count: 1}}, l.marks)

	require.True(t, l.untouched(2, 0))
	require.False(t, l.untouched(3, 0))
	require.False(t, l.untouched(5, 1))
	require.True(t, l.untouched(6, 2))
	require.False(t, l.untouched(7, 2))
	require.True(t, l.untouched(100, 3))

	l.record(0)
	require.Equal(t, []edit{{epoch: 4, pos: 0, count: 1}}, l.marks)
	require.False(t, l.untouched(0, 3))
	require.True(t, l.untouched(0, 4))
}

func TestEditLogRuns(t *testing.T) {
	var l editLog
	for i := 0; i < 5; i++ {
		l.record(i) // epochs 1..5
	}
	require.Equal(t, []edit{{epoch: 1, pos: 0, count: 5}}, l.marks)
	require.False(t, l.untouched(0, 0))
	require.True(t, l.untouched(0, 1))
	require.False(t, l.untouched(1, 1))
	require.True(t, l.untouched(2, 3))
	require.False(t, l.untouched(3, 3))
	require.True(t, l.untouched(4, 5))

	// an edit inside the run cuts it
	l.record(2) // epoch 6
	require.Equal(t, []edit{{epoch: 1, pos: 0, count: 2}, {epoch: 6, pos: 2, count: 1}}, l.marks)
	require.False(t, l.untouched(3, 1))
	require.True(t, l.untouched(0, 1))
	require.True(t, l.untouched(1, 5))
	require.False(t, l.untouched(2, 5))
	require.True(t, l.untouched(9, 6))

	// a gap in epochs starts a new run
	l.record(3) // epoch 7
	require.Equal(t, 2, len(l.marks))
	l.record(5) // epoch 8, gap in positions
	require.Equal(t, 3, len(l.marks))
	require.True(t, l.untouched(4, 7))
	require.False(t, l.untouched(5, 7))
}

func TestEditLogAppends(t *testing.T) {
	const n = 1 << 16
	var v Vector[int64]
	require.NoError(t, v.Reserve(n))
	require.NoError(t, v.PushBack(0))
	first := v.Begin()
	for i := 1; i < n; i++ {
		require.NoError(t, v.PushBack(int64(i)))
	}
	require.Equal(t, n, v.Cap())
	require.Equal(t, 1, len(v.buf.edits.marks))
	require.True(t, first.Valid())
	require.Equal(t, int64(0), first.Get())

	mid := v.Begin().Add(n / 2)
	v.PopBack()
	require.NoError(t, v.PushBack(-1))
	require.LessOrEqual(t, len(v.buf.edits.marks), 2)
	require.True(t, mid.Valid())
	require.True(t, first.Valid())
}
