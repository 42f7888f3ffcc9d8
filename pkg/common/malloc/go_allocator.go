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

	"github.com/matrixorigin/rawvec/pkg/common/moerr"
)

// GoAllocator allocates blocks on the Go heap. Deallocation leaves the
// block to the garbage collector.
type GoAllocator[T any] struct{}

var _ Allocator[int] = GoAllocator[int]{}

func NewGoAllocator[T any]() GoAllocator[T] {
	return GoAllocator[T]{}
}

func (a GoAllocator[T]) Allocate(n uint64) ([]T, Deallocator, error) {
	if n == 0 {
		return nil, dumbHandle, nil
	}
	if n > a.MaxSize() {
		return nil, nil, moerr.NewOOMNoCtx()
	}
	return make([]T, n), dumbHandle, nil
}

func (GoAllocator[T]) MaxSize() uint64 {
	return maxSlots[T](math.MaxInt)
}

// Default returns the allocator vectors use when none is configured.
func Default[T any]() Allocator[T] {
	return GoAllocator[T]{}
}
