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
	"math"
	"sort"
	"unsafe"

	"github.com/matrixorigin/rawvec/pkg/common/malloc"
	"github.com/matrixorigin/rawvec/pkg/common/moerr"
	v2 "github.com/matrixorigin/rawvec/pkg/util/metric/v2"
)

// buffer is the header of one block. Iterators keep a pointer to it, so
// it follows the block through Swap and Move and is retired together with
// the block.
type buffer[T any] struct {
	// len(data) is the capacity, data[:length] the live region.
	data    []T
	dealloc malloc.Deallocator
	length  int
	edits   editLog
	retired bool
}

func (b *buffer[T]) retire() {
	b.data = nil
	b.dealloc = nil
	b.length = 0
	b.edits = editLog{}
	b.retired = true
}

// edit is a run of count marks: the k-th mark says epoch+k touched
// position pos+k. Appends in place extend one run.
type edit struct {
	epoch uint64
	pos   int
	count int
}

func (e edit) lastEpoch() uint64 {
	return e.epoch + uint64(e.count) - 1
}

func (e edit) end() int {
	return e.pos + e.count
}

// editLog remembers the lowest position touched since any past epoch.
// Its marks are ordered by epoch and by pos, both strictly increasing: an
// older mark at or after a newer one can never be the lowest and is dropped.
type editLog struct {
	epoch uint64
	marks []edit
}

func (l *editLog) record(pos int) {
	l.epoch++
	n := len(l.marks)
	for n > 0 && l.marks[n-1].pos >= pos {
		n--
	}
	l.marks = l.marks[:n]
	if n > 0 {
		last := &l.marks[n-1]
		if last.end() > pos {
			last.count = pos - last.pos
		} else if last.end() == pos && last.lastEpoch()+1 == l.epoch {
			last.count++
			return
		}
	}
	l.marks = append(l.marks, edit{epoch: l.epoch, pos: pos, count: 1})
}

// untouched reports whether every edit after epoch happened after pos.
func (l *editLog) untouched(pos int, epoch uint64) bool {
	i := sort.Search(len(l.marks), func(i int) bool {
		return l.marks[i].lastEpoch() > epoch
	})
	if i == len(l.marks) {
		return true
	}
	m := l.marks[i]
	first := m.pos
	if m.epoch <= epoch {
		first += int(epoch + 1 - m.epoch)
	}
	return pos < first
}

func (v *Vector[T]) b() *buffer[T] {
	if v.buf == nil {
		v.buf = &buffer[T]{}
	}
	return v.buf
}

func (v *Vector[T]) allocator() malloc.Allocator[T] {
	if v.alloc == nil {
		return malloc.Default[T]()
	}
	return v.alloc
}

func (v *Vector[T]) checkLength(n int) error {
	if n < 0 || n > v.MaxSize() {
		return moerr.NewInvalidArgNoCtx("vector length", n)
	}
	return nil
}

// allocate returns a block of n raw slots, or a nil block for n == 0.
func (v *Vector[T]) allocate(n int) ([]T, malloc.Deallocator, error) {
	if err := v.checkLength(n); err != nil {
		return nil, nil, err
	}
	if n == 0 {
		return nil, nil, nil
	}
	return v.allocator().Allocate(uint64(n))
}

func deallocate(dealloc malloc.Deallocator) {
	if dealloc != nil {
		dealloc.Deallocate()
	}
}

// adopt installs data as the block of v holding length live elements.
// It is the only place a block is released: the previous block must hold
// no live element, it is deallocated and its header retired, which
// invalidates every iterator into it.
func (v *Vector[T]) adopt(data []T, dealloc malloc.Deallocator, length int) {
	if old := v.buf; old != nil {
		deallocate(old.dealloc)
		old.retire()
	}
	v.buf = &buffer[T]{
		data:    data,
		dealloc: dealloc,
		length:  length,
	}
	if data != nil {
		v2.VectorReallocateCounter.Inc()
	}
}

// reallocate moves the live elements into a new block of n slots.
// If the allocation fails v is untouched.
func (v *Vector[T]) reallocate(n int) error {
	length := v.Len()
	if n < length {
		return moerr.NewInvalidArgNoCtx("vector capacity", n)
	}
	data, dealloc, err := v.allocate(n)
	if err != nil {
		return err
	}
	if length > 0 {
		v.moveForward(data[:length], v.buf.data[:length])
	}
	v.adopt(data, dealloc, length)
	return nil
}

// aliases reports whether s points into the block of v.
func (v *Vector[T]) aliases(s []T) bool {
	if v.buf == nil || len(v.buf.data) == 0 || len(s) == 0 {
		return false
	}
	size := unsafe.Sizeof(s[0])
	if size == 0 {
		return false
	}
	lo := uintptr(unsafe.Pointer(unsafe.SliceData(v.buf.data)))
	hi := lo + uintptr(len(v.buf.data))*size
	p := uintptr(unsafe.Pointer(unsafe.SliceData(s)))
	q := p + uintptr(len(s))*size
	return p < hi && lo < q
}

func (v *Vector[T]) MaxSize() int {
	return int(min(v.allocator().MaxSize(), math.MaxInt))
}

// Allocator returns the allocator blocks of v come from.
func (v *Vector[T]) Allocator() malloc.Allocator[T] {
	return v.allocator()
}
