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
	"slices"

	"github.com/matrixorigin/rawvec/pkg/common/moerr"
)

// position checks that it is a valid position in v.
func (v *Vector[T]) position(it Iterator[T]) (int, error) {
	if it.buf != v.b() || !it.Valid() {
		return 0, moerr.NewInvalidArgNoCtx("vector iterator", it.pos)
	}
	return it.pos, nil
}

// source returns the elements of [first, last) as a slice of their block.
func source[T any](first, last ConstIterator[T]) ([]T, error) {
	f, l := first.it, last.it
	if f.buf != l.buf || !f.Valid() || !l.Valid() || l.pos < f.pos {
		return nil, moerr.NewInvalidArgNoCtx("vector range", [2]int{f.pos, l.pos})
	}
	return f.buf.data[f.pos:l.pos], nil
}

// insertAt opens count slots at pos and has fill construct them. When
// fill fails the contents, length and capacity of v are left as they were.
func (v *Vector[T]) insertAt(pos, count int, fill func(dst []T) error) error {
	if count == 0 {
		return nil
	}
	b := v.b()
	length := b.length
	if count <= len(b.data)-length {
		tail := length - pos
		if tail > 0 {
			v.moveBackward(b.data[pos+count:length+count], b.data[pos:length])
		}
		if err := fill(b.data[pos : pos+count]); err != nil {
			if tail > 0 {
				v.moveForward(b.data[pos:length], b.data[pos+count:length+count])
			}
			return err
		}
		b.length += count
		b.edits.record(pos)
		return nil
	}

	n, err := v.grownCap(count)
	if err != nil {
		return err
	}
	data, dealloc, err := v.allocate(n)
	if err != nil {
		return err
	}
	if err := fill(data[pos : pos+count]); err != nil {
		deallocate(dealloc)
		return err
	}
	v.moveForward(data[:pos], b.data[:pos])
	v.moveForward(data[pos+count:length+count], b.data[pos:length])
	v.adopt(data, dealloc, length+count)
	return nil
}

// PushBack appends a copy of val.
func (v *Vector[T]) PushBack(val T) error {
	return v.insertAt(v.Len(), 1, func(dst []T) error {
		return v.constructFill(dst, &val)
	})
}

// EmplaceBack appends an element built in place by fn.
func (v *Vector[T]) EmplaceBack(fn func(*T) error) error {
	return v.insertAt(v.Len(), 1, func(dst []T) error {
		return v.constructWith(dst, fn)
	})
}

// PopBack destroys the last element. It does nothing on an empty vector.
func (v *Vector[T]) PopBack() {
	b := v.buf
	if b == nil || b.length == 0 {
		return
	}
	b.length--
	v.destroyAt(&b.data[b.length])
	b.edits.record(b.length)
}

// Insert inserts a copy of val before pos and returns an iterator to it.
func (v *Vector[T]) Insert(pos Iterator[T], val T) (Iterator[T], error) {
	return v.InsertN(pos, 1, val)
}

// InsertN inserts n copies of val before pos.
func (v *Vector[T]) InsertN(pos Iterator[T], n int, val T) (Iterator[T], error) {
	p, err := v.position(pos)
	if err != nil {
		return Iterator[T]{}, err
	}
	if n < 0 {
		return Iterator[T]{}, moerr.NewInvalidArgNoCtx("vector insert count", n)
	}
	if err := v.insertAt(p, n, func(dst []T) error {
		return v.constructFill(dst, &val)
	}); err != nil {
		return Iterator[T]{}, err
	}
	return v.iterAt(p), nil
}

// InsertRange inserts copies of [first, last) before pos. The range must
// belong to another vector.
func (v *Vector[T]) InsertRange(pos Iterator[T], first, last ConstIterator[T]) (Iterator[T], error) {
	p, err := v.position(pos)
	if err != nil {
		return Iterator[T]{}, err
	}
	src, err := source(first, last)
	if err != nil {
		return Iterator[T]{}, err
	}
	if first.it.buf == v.buf {
		return Iterator[T]{}, moerr.NewInvalidArgNoCtx("vector range", "range of the same vector")
	}
	return v.insertSlice(p, src)
}

// InsertSlice inserts copies of vals before pos.
func (v *Vector[T]) InsertSlice(pos Iterator[T], vals ...T) (Iterator[T], error) {
	p, err := v.position(pos)
	if err != nil {
		return Iterator[T]{}, err
	}
	if v.aliases(vals) {
		vals = slices.Clone(vals)
	}
	return v.insertSlice(p, vals)
}

func (v *Vector[T]) insertSlice(p int, vals []T) (Iterator[T], error) {
	if err := v.insertAt(p, len(vals), func(dst []T) error {
		return v.constructCopy(dst, vals)
	}); err != nil {
		return Iterator[T]{}, err
	}
	return v.iterAt(p), nil
}

// Emplace inserts before pos an element built in place by fn.
func (v *Vector[T]) Emplace(pos Iterator[T], fn func(*T) error) (Iterator[T], error) {
	p, err := v.position(pos)
	if err != nil {
		return Iterator[T]{}, err
	}
	if err := v.insertAt(p, 1, func(dst []T) error {
		return v.constructWith(dst, fn)
	}); err != nil {
		return Iterator[T]{}, err
	}
	return v.iterAt(p), nil
}

// Erase removes the element at pos and returns an iterator to the element
// that followed it.
func (v *Vector[T]) Erase(pos Iterator[T]) (Iterator[T], error) {
	p, err := v.position(pos)
	if err != nil {
		return Iterator[T]{}, err
	}
	if p == v.Len() {
		return Iterator[T]{}, moerr.NewInvalidArgNoCtx("vector iterator", "end is not erasable")
	}
	return v.eraseAt(p, p+1), nil
}

// EraseRange removes [first, last) and returns an iterator to the element
// that followed last.
func (v *Vector[T]) EraseRange(first, last Iterator[T]) (Iterator[T], error) {
	f, err := v.position(first)
	if err != nil {
		return Iterator[T]{}, err
	}
	l, err := v.position(last)
	if err != nil {
		return Iterator[T]{}, err
	}
	if l < f {
		return Iterator[T]{}, moerr.NewInvalidArgNoCtx("vector range", [2]int{f, l})
	}
	return v.eraseAt(f, l), nil
}

func (v *Vector[T]) eraseAt(f, l int) Iterator[T] {
	if f == l {
		return v.iterAt(f)
	}
	b := v.buf
	length := b.length
	v.destroyRange(b.data[f:l])
	// the vacated slots at the back end up zeroed by the moves
	v.moveForward(b.data[f:f+length-l], b.data[l:length])
	b.length -= l - f
	b.edits.record(f)
	return v.iterAt(f)
}

// Clear destroys every element. The capacity is kept.
func (v *Vector[T]) Clear() {
	b := v.buf
	if b == nil || b.length == 0 {
		return
	}
	v.destroyRange(b.data[:b.length])
	b.length = 0
	b.edits.record(0)
}

// AssignN replaces the contents of v by n copies of val.
func (v *Vector[T]) AssignN(n int, val T) error {
	return v.assignWith(n, func(dst []T) error {
		return v.constructFill(dst, &val)
	})
}

// AssignRange replaces the contents of v by copies of [first, last).
func (v *Vector[T]) AssignRange(first, last ConstIterator[T]) error {
	src, err := source(first, last)
	if err != nil {
		return err
	}
	return v.assignCopy(src)
}

// Assign replaces the contents of v by copies of vals.
func (v *Vector[T]) Assign(vals ...T) error {
	return v.assignCopy(vals)
}

func (v *Vector[T]) assignCopy(src []T) error {
	if v.aliases(src) {
		src = slices.Clone(src)
	}
	return v.assignWith(len(src), func(dst []T) error {
		return v.constructCopy(dst, src)
	})
}

// assignWith replaces the contents of v by n elements built by fill.
// When n exceeds the capacity the elements are built in a new block and v
// is untouched on failure; otherwise v is left empty on failure.
func (v *Vector[T]) assignWith(n int, fill func(dst []T) error) error {
	if err := v.checkLength(n); err != nil {
		return err
	}
	if n > v.Cap() {
		data, dealloc, err := v.allocate(n)
		if err != nil {
			return err
		}
		if err := fill(data); err != nil {
			deallocate(dealloc)
			return err
		}
		v.Clear()
		v.adopt(data, dealloc, n)
		return nil
	}
	v.Clear()
	b := v.b()
	if err := fill(b.data[:n]); err != nil {
		return err
	}
	b.length = n
	b.edits.record(0)
	return nil
}
