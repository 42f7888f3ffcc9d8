// Copyright 2024 Matrix Origin
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

package malloc

import (
	"math"
	"sync/atomic"

	"github.com/matrixorigin/rawvec/pkg/common/moerr"
)

// ClassAllocator rounds requests up to a size class and keeps a bounded
// free list per class. Requests larger than the biggest class go straight
// to the Go heap.
type ClassAllocator[T any] struct {
	classSizes []uint64 // in slots
	pools      []classAllocatorPool[T]
}

type classAllocatorPool[T any] struct {
	numAlloc atomic.Int64
	numFree  atomic.Int64
	ch       chan *classAllocatorHandle[T]
}

type classAllocatorHandle[T any] struct {
	block     []T // full class length
	class     int
	allocator *ClassAllocator[T]
}

var _ Allocator[int] = new(ClassAllocator[int])

const (
	minClassBytes   = 128
	maxClassBytes   = 8 * MB
	classSizeFactor = 1.8
)

// NewClassAllocator caps the memory parked in free lists at roughly
// maxBufferSize bytes.
func NewClassAllocator[T any](
	maxBufferSize uint64,
) *ClassAllocator[T] {
	size := max(elemSize[T](), 1)

	classSizes := func() (ret []uint64) {
		for bytes := uint64(minClassBytes); bytes <= maxClassBytes; bytes = uint64(float64(bytes) * classSizeFactor) {
			slots := max(bytes/size, 1)
			if len(ret) > 0 && ret[len(ret)-1] >= slots {
				continue
			}
			ret = append(ret, slots)
		}
		return
	}()

	classSumSize := func() (ret uint64) {
		for _, slots := range classSizes {
			ret += slots * size
		}
		return
	}()

	bufferedObjectsPerClass := int(maxBufferSize / classSumSize)

	pools := make([]classAllocatorPool[T], len(classSizes))
	for i := range pools {
		pools[i].ch = make(chan *classAllocatorHandle[T], bufferedObjectsPerClass)
	}

	return &ClassAllocator[T]{
		classSizes: classSizes,
		pools:      pools,
	}
}

func (c *ClassAllocator[T]) requestSizeToClass(n uint64) int {
	for class, classSize := range c.classSizes {
		if classSize >= n {
			return class
		}
	}
	return -1
}

func (c *ClassAllocator[T]) classAllocate(class int) *classAllocatorHandle[T] {
	select {
	case handle := <-c.pools[class].ch:
		c.pools[class].numAlloc.Add(1)
		return handle
	default:
		return &classAllocatorHandle[T]{
			block:     make([]T, c.classSizes[class]),
			class:     class,
			allocator: c,
		}
	}
}

func (c *ClassAllocator[T]) Allocate(n uint64) ([]T, Deallocator, error) {
	if n == 0 {
		return nil, dumbHandle, nil
	}
	if n > c.MaxSize() {
		return nil, nil, moerr.NewOOMNoCtx()
	}
	class := c.requestSizeToClass(n)
	if class == -1 {
		return make([]T, n), dumbHandle, nil
	}
	handle := c.classAllocate(class)
	return handle.block[:n:n], handle, nil
}

func (c *ClassAllocator[T]) MaxSize() uint64 {
	return maxSlots[T](math.MaxInt)
}

// ClassSize reports the slot count of the class serving a request of n
// slots, or 0 if n is served outside the classes.
func (c *ClassAllocator[T]) ClassSize(n uint64) uint64 {
	class := c.requestSizeToClass(n)
	if class < 0 {
		return 0
	}
	return c.classSizes[class]
}

// Stats returns how many blocks were reused from and returned to free lists.
func (c *ClassAllocator[T]) Stats() (reused, returned int64) {
	for i := range c.pools {
		reused += c.pools[i].numAlloc.Load()
		returned += c.pools[i].numFree.Load()
	}
	return
}

func (h *classAllocatorHandle[T]) Deallocate() {
	// pooled blocks must not keep referents alive, and are handed out zeroed
	clear(h.block)
	select {
	case h.allocator.pools[h.class].ch <- h:
		h.allocator.pools[h.class].numFree.Add(1)
	default:
	}
}
