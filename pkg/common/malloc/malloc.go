// Copyright 2022 Matrix Origin
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

// Package malloc provides typed block allocators.
//
// An Allocator hands out blocks of n element slots. Every slot of a
// returned block holds the zero value of T, and the block must be returned
// exactly once through the Deallocator that came with it. Blocks are never
// resized in place; growing means allocating a new block.
package malloc

import (
	"math"
	"unsafe"
)

type Allocator[T any] interface {
	// Allocate returns a block of exactly n zeroed slots.
	// n == 0 returns a nil block and a no-op deallocator.
	Allocate(n uint64) ([]T, Deallocator, error)
	// MaxSize is the largest n Allocate may be asked for.
	MaxSize() uint64
}

type Deallocator interface {
	Deallocate()
}

type DeallocatorFunc func()

func (f DeallocatorFunc) Deallocate() {
	f()
}

type dumbDeallocator struct{}

func (dumbDeallocator) Deallocate() {}

var dumbHandle Deallocator = dumbDeallocator{}

// ChainDeallocator returns a deallocator running ds in order.
func ChainDeallocator(ds ...Deallocator) Deallocator {
	return DeallocatorFunc(func() {
		for _, d := range ds {
			d.Deallocate()
		}
	})
}

const (
	KB = 1 << 10
	MB = 1 << 20
	GB = 1 << 30
)

func elemSize[T any]() uint64 {
	var v T
	return uint64(unsafe.Sizeof(v))
}

// BlockBytes is the byte size of a block of n slots of T.
func BlockBytes[T any](n uint64) uint64 {
	return n * elemSize[T]()
}

// maxSlots bounds n so that n elements of T stay addressable as one Go slice.
func maxSlots[T any](maxBytes uint64) uint64 {
	size := elemSize[T]()
	if size == 0 {
		return math.MaxInt
	}
	return min(maxBytes/size, math.MaxInt)
}
