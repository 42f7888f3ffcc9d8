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
	"fmt"
	"sync/atomic"

	"github.com/matrixorigin/rawvec/pkg/common/malloc"
)

type elem struct {
	val   int
	alive bool
}

var errCopy = fmt.Errorf("copy failed")

// tracker is a lifecycle that counts live elements and panics on any
// construction into a live slot or destruction of a raw one.
type tracker struct {
	live     int
	copies   int
	defaults int
	moves    int
	destroys int
	// failAt makes the n-th copy attempt fail, 0 never fails.
	failAt   int
	attempts int
}

var _ Lifecycle[elem] = new(tracker)

func (t *tracker) CopyConstruct(dst, src *elem) error {
	if !src.alive {
		panic("copy from raw slot")
	}
	if dst.alive {
		panic("copy into live slot")
	}
	t.attempts++
	if t.failAt > 0 && t.attempts == t.failAt {
		// leave garbage behind, the vector must clear it
		dst.val = -1
		return errCopy
	}
	*dst = *src
	t.copies++
	t.live++
	return nil
}

func (t *tracker) DefaultConstruct(dst *elem) error {
	if dst.alive {
		panic("default construct into live slot")
	}
	*dst = elem{alive: true}
	t.defaults++
	t.live++
	return nil
}

func (t *tracker) MoveConstruct(dst, src *elem) {
	if !src.alive {
		panic("move from raw slot")
	}
	if dst.alive {
		panic("move into live slot")
	}
	*dst = *src
	t.moves++
}

func (t *tracker) Destroy(p *elem) {
	if !p.alive {
		panic("destroy of raw slot")
	}
	t.destroys++
	t.live--
}

func mk(vals ...int) []elem {
	es := make([]elem, len(vals))
	for i, v := range vals {
		es[i] = elem{val: v, alive: true}
	}
	return es
}

func vals(v *Vector[elem]) []int {
	out := make([]int, 0, v.Len())
	for e := range v.Values() {
		out = append(out, e.val)
	}
	return out
}

func newTracked(t *tracker, xs ...int) *Vector[elem] {
	v := New(WithLifecycle[elem](t))
	if err := v.Assign(mk(xs...)...); err != nil {
		panic(err)
	}
	return v
}

// countingAllocator wraps the Go allocator and checks every block is
// released exactly once.
type countingAllocator[T any] struct {
	allocs   atomic.Int64
	deallocs atomic.Int64
	slots    atomic.Int64
	fail     bool
}

func (c *countingAllocator[T]) Allocate(n uint64) ([]T, malloc.Deallocator, error) {
	if c.fail {
		return nil, nil, errAlloc
	}
	block, dealloc, err := malloc.Default[T]().Allocate(n)
	if err != nil {
		return nil, nil, err
	}
	c.allocs.Add(1)
	c.slots.Add(int64(n))
	var done atomic.Bool
	return block, malloc.ChainDeallocator(
		dealloc,
		malloc.DeallocatorFunc(func() {
			if !done.CompareAndSwap(false, true) {
				panic("block released twice")
			}
			c.deallocs.Add(1)
			c.slots.Add(-int64(n))
		}),
	), nil
}

func (c *countingAllocator[T]) MaxSize() uint64 {
	return malloc.Default[T]().MaxSize()
}

func (c *countingAllocator[T]) outstanding() int64 {
	return c.allocs.Load() - c.deallocs.Load()
}

var errAlloc = fmt.Errorf("allocation refused")
