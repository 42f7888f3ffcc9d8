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
	"runtime"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/rawvec/pkg/common/malloc"
	"github.com/matrixorigin/rawvec/pkg/common/moerr"
	v2 "github.com/matrixorigin/rawvec/pkg/util/metric/v2"
)

func TestLimitedVector(t *testing.T) {
	convey.Convey("vector over a 1KB budget", t, func() {
		limit := malloc.NewLimitAllocator(malloc.Default[int64](), malloc.KB)
		v := New(WithAllocator[int64](limit))
		convey.So(v.MaxSize(), convey.ShouldEqual, 128)

		for i := 0; i < 64; i++ {
			convey.So(v.PushBack(int64(i)), convey.ShouldBeNil)
		}
		convey.So(v.Cap(), convey.ShouldEqual, 64)
		convey.So(limit.Inuse(), convey.ShouldEqual, uint64(512))
		// old and new block are both held while growing from 32 to 64
		convey.So(limit.Peak().Value, convey.ShouldEqual, uint64(768))

		convey.Convey("growth past the budget fails and keeps the contents", func() {
			err := v.PushBack(64)
			convey.So(moerr.IsMoErrCode(err, moerr.ErrOOM), convey.ShouldBeTrue)
			convey.So(v.Len(), convey.ShouldEqual, 64)
			convey.So(v.Back(), convey.ShouldEqual, int64(63))
			convey.So(limit.Inuse(), convey.ShouldEqual, uint64(512))
		})

		convey.Convey("a length past MaxSize is rejected before allocating", func() {
			err := v.Reserve(129)
			convey.So(moerr.IsMoErrCode(err, moerr.ErrInvalidArg), convey.ShouldBeTrue)
		})

		convey.Convey("shrinking returns the slack", func() {
			convey.So(v.Resize(10), convey.ShouldBeNil)
			convey.So(v.ShrinkToFit(), convey.ShouldBeNil)
			convey.So(limit.Inuse(), convey.ShouldEqual, uint64(80))
		})

		convey.Convey("free returns everything", func() {
			v.Free()
			convey.So(limit.Inuse(), convey.ShouldEqual, uint64(0))
			convey.So(v.PushBack(1), convey.ShouldBeNil)
			convey.So(limit.Inuse(), convey.ShouldEqual, uint64(8))
		})
	})
}

func TestBlocksReleasedOnce(t *testing.T) {
	alloc := &countingAllocator[string]{}
	v := New(WithAllocator[string](alloc))
	for i := 0; i < 100; i++ {
		require.NoError(t, v.PushBack("x"))
	}
	_, err := v.InsertN(v.Begin(), 200, "y")
	require.NoError(t, err)
	require.NoError(t, v.Assign("a", "b"))
	require.NoError(t, v.ShrinkToFit())
	require.Equal(t, int64(1), alloc.outstanding())
	require.Equal(t, int64(2), alloc.slots.Load())

	m := Move(v)
	v.Free()
	require.Equal(t, int64(1), alloc.outstanding())
	m.Free()
	m.Free()
	require.Equal(t, int64(0), alloc.outstanding())
}

func TestMetricsVector(t *testing.T) {
	metrics := v2.GetAllocatorMetrics("vector-test")
	alloc := malloc.NewMetricsAllocator(malloc.Default[uint32](), metrics)
	v := New(WithAllocator[uint32](alloc))
	require.NoError(t, v.Reserve(16))
	require.NoError(t, v.Reserve(32))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.AllocateObjects))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.InuseObjects))
	require.Equal(t, float64(128), testutil.ToFloat64(metrics.InuseBytes))
	v.Free()
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.InuseBytes))
}

func TestClassAllocatorVector(t *testing.T) {
	alloc := malloc.NewClassAllocator[int](64 * malloc.MB)
	v := New(WithAllocator[int](alloc))
	for round := 0; round < 3; round++ {
		for i := 0; i < 1000; i++ {
			require.NoError(t, v.PushBack(i))
		}
		for i := 0; i < 1000; i++ {
			require.Equal(t, i, v.Get(i))
		}
		// class blocks are larger than asked for, the vector only
		// exposes what it asked for
		require.Equal(t, 1024, v.Cap())
		v.Free()
	}
	reused, _ := alloc.Stats()
	require.Greater(t, reused, int64(0))
}

func TestMmapVector(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("mmap is not available")
	}
	alloc, err := malloc.NewMmapAllocator[int64]()
	require.NoError(t, err)
	v := New(WithAllocator[int64](alloc))
	for i := 0; i < 10000; i++ {
		require.NoError(t, v.PushBack(int64(i)))
	}
	_, err = v.EraseRange(v.Begin(), v.Begin().Add(5000))
	require.NoError(t, err)
	require.Equal(t, int64(5000), v.Front())
	require.Greater(t, alloc.Mapped(), int64(0))
	v.Free()
	require.Equal(t, int64(0), alloc.Mapped())

	_, err = malloc.NewMmapAllocator[*int64]()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))
}
