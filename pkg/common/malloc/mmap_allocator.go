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
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/matrixorigin/rawvec/pkg/common/moerr"
)

// MmapAllocator serves every block from its own anonymous private
// mapping. The garbage collector does not scan mapped memory, so only
// element types without pointers are accepted.
type MmapAllocator[T any] struct {
	numMapped   atomic.Int64
	numUnmapped atomic.Int64
}

type mmapDeallocator[T any] struct {
	allocator *MmapAllocator[T]
	mem       []byte
}

var _ Allocator[int] = new(MmapAllocator[int])

func NewMmapAllocator[T any]() (*MmapAllocator[T], error) {
	if !mmapSupported {
		return nil, moerr.NewNotSupportedNoCtx("mmap allocator on this platform")
	}
	if typ := reflect.TypeFor[T](); hasPointers(typ) {
		return nil, moerr.NewNotSupportedNoCtx("mmap allocator for pointer holding type %v", typ)
	}
	return &MmapAllocator[T]{}, nil
}

func (m *MmapAllocator[T]) Allocate(n uint64) ([]T, Deallocator, error) {
	if n == 0 {
		return nil, dumbHandle, nil
	}
	if n > m.MaxSize() {
		return nil, nil, moerr.NewOOMNoCtx()
	}
	size := elemSize[T]()
	if size == 0 {
		return make([]T, n), dumbHandle, nil
	}

	mem, err := mmapAnonymous(int(n * size))
	if err != nil {
		return nil, nil, moerr.NewOOMNoCtx().WithDetail(err.Error())
	}
	m.numMapped.Add(1)

	// mappings are page aligned and zero filled
	block := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(mem))), n)
	return block, &mmapDeallocator[T]{
		allocator: m,
		mem:       mem,
	}, nil
}

func (m *MmapAllocator[T]) MaxSize() uint64 {
	return maxSlots[T](math.MaxInt)
}

// Mapped returns the number of live mappings.
func (m *MmapAllocator[T]) Mapped() int64 {
	return m.numMapped.Load() - m.numUnmapped.Load()
}

func (d *mmapDeallocator[T]) Deallocate() {
	munmap(d.mem)
	d.allocator.numUnmapped.Add(1)
	d.mem = nil
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
