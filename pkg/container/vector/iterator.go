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
	"github.com/matrixorigin/rawvec/pkg/common/moerr"
)

// Iterator is a random access position in a vector. Arithmetic never
// fails; Get, Set and Ref panic with an ErrInvalidState error when the
// iterator has been invalidated or does not point at an element.
//
// An iterator is invalidated when the block it points into is replaced or
// freed, or when an element at or before its position is inserted, erased
// or popped.
type Iterator[T any] struct {
	buf   *buffer[T]
	pos   int
	epoch uint64
}

func (v *Vector[T]) iterAt(pos int) Iterator[T] {
	b := v.b()
	return Iterator[T]{
		buf:   b,
		pos:   pos,
		epoch: b.edits.epoch,
	}
}

func (v *Vector[T]) Begin() Iterator[T] {
	return v.iterAt(0)
}

func (v *Vector[T]) End() Iterator[T] {
	return v.iterAt(v.Len())
}

func (v *Vector[T]) CBegin() ConstIterator[T] {
	return v.Begin().Const()
}

func (v *Vector[T]) CEnd() ConstIterator[T] {
	return v.End().Const()
}

func (v *Vector[T]) RBegin() ReverseIterator[T] {
	return Reverse(v.End())
}

func (v *Vector[T]) REnd() ReverseIterator[T] {
	return Reverse(v.Begin())
}

func (v *Vector[T]) CRBegin() ConstReverseIterator[T] {
	return v.RBegin().Const()
}

func (v *Vector[T]) CREnd() ConstReverseIterator[T] {
	return v.REnd().Const()
}

// Valid reports whether the iterator is a position in its vector,
// the end position included.
func (it Iterator[T]) Valid() bool {
	b := it.buf
	return b != nil && !b.retired &&
		it.pos >= 0 && it.pos <= b.length &&
		b.edits.untouched(it.pos, it.epoch)
}

func (it Iterator[T]) deref() *T {
	if !it.Valid() || it.pos == it.buf.length {
		panic(moerr.NewInvalidStateNoCtx("dereference of invalid vector iterator at %d", it.pos))
	}
	return &it.buf.data[it.pos]
}

func (it Iterator[T]) Get() T {
	return *it.deref()
}

// Set assigns val to the element without running lifecycle hooks.
func (it Iterator[T]) Set(val T) {
	*it.deref() = val
}

func (it Iterator[T]) Ref() *T {
	return it.deref()
}

// At returns the element n positions after it.
func (it Iterator[T]) At(n int) T {
	return it.Add(n).Get()
}

// Index is the position of the iterator from the front of its vector.
func (it Iterator[T]) Index() int {
	return it.pos
}

func (it Iterator[T]) Add(n int) Iterator[T] {
	it.pos += n
	return it
}

func (it Iterator[T]) Next() Iterator[T] {
	return it.Add(1)
}

func (it Iterator[T]) Prev() Iterator[T] {
	return it.Add(-1)
}

// Sub returns the distance from o to it.
func (it Iterator[T]) Sub(o Iterator[T]) int {
	return it.pos - o.pos
}

func (it Iterator[T]) Equal(o Iterator[T]) bool {
	return it.buf == o.buf && it.pos == o.pos
}

func (it Iterator[T]) Less(o Iterator[T]) bool {
	return it.pos < o.pos
}

func (it Iterator[T]) Const() ConstIterator[T] {
	return ConstIterator[T]{it: it}
}

// ConstIterator is an Iterator that only reads.
type ConstIterator[T any] struct {
	it Iterator[T]
}

func (c ConstIterator[T]) Valid() bool { return c.it.Valid() }
func (c ConstIterator[T]) Get() T { return c.it.Get() }
func (c ConstIterator[T]) At(n int) T { return c.it.At(n) }
func (c ConstIterator[T]) Index() int { return c.it.pos }
func (c ConstIterator[T]) Add(n int) ConstIterator[T] {
	return ConstIterator[T]{it: c.it.Add(n)}
}
func (c ConstIterator[T]) Next() ConstIterator[T] { return c.Add(1) }
func (c ConstIterator[T]) Prev() ConstIterator[T] { return c.Add(-1) }
func (c ConstIterator[T]) Sub(o ConstIterator[T]) int { return c.it.Sub(o.it) }
func (c ConstIterator[T]) Equal(o ConstIterator[T]) bool { return c.it.Equal(o.it) }
func (c ConstIterator[T]) Less(o ConstIterator[T]) bool { return c.it.Less(o.it) }

// ReverseIterator walks a vector from the back. It refers to the element
// just before its base iterator.
type ReverseIterator[T any] struct {
	base Iterator[T]
}

func Reverse[T any](base Iterator[T]) ReverseIterator[T] {
	return ReverseIterator[T]{base: base}
}

// Base returns the forward iterator one position after the element r
// refers to.
func (r ReverseIterator[T]) Base() Iterator[T] {
	return r.base
}

func (r ReverseIterator[T]) Valid() bool {
	return r.base.Valid()
}

func (r ReverseIterator[T]) Get() T {
	return r.base.Prev().Get()
}

func (r ReverseIterator[T]) Set(val T) {
	r.base.Prev().Set(val)
}

func (r ReverseIterator[T]) Ref() *T {
	return r.base.Prev().Ref()
}

func (r ReverseIterator[T]) Add(n int) ReverseIterator[T] {
	return ReverseIterator[T]{base: r.base.Add(-n)}
}

func (r ReverseIterator[T]) Next() ReverseIterator[T] {
	return r.Add(1)
}

func (r ReverseIterator[T]) Prev() ReverseIterator[T] {
	return r.Add(-1)
}

func (r ReverseIterator[T]) Sub(o ReverseIterator[T]) int {
	return o.base.pos - r.base.pos
}

func (r ReverseIterator[T]) Equal(o ReverseIterator[T]) bool {
	return r.base.Equal(o.base)
}

func (r ReverseIterator[T]) Less(o ReverseIterator[T]) bool {
	return o.base.Less(r.base)
}

func (r ReverseIterator[T]) Const() ConstReverseIterator[T] {
	return ConstReverseIterator[T]{r: r}
}

type ConstReverseIterator[T any] struct {
	r ReverseIterator[T]
}

func (c ConstReverseIterator[T]) Base() ConstIterator[T] { return c.r.base.Const() }
func (c ConstReverseIterator[T]) Valid() bool { return c.r.Valid() }
func (c ConstReverseIterator[T]) Get() T { return c.r.Get() }
func (c ConstReverseIterator[T]) Add(n int) ConstReverseIterator[T] {
	return ConstReverseIterator[T]{r: c.r.Add(n)}
}
func (c ConstReverseIterator[T]) Next() ConstReverseIterator[T] { return c.Add(1) }
func (c ConstReverseIterator[T]) Prev() ConstReverseIterator[T] { return c.Add(-1) }
func (c ConstReverseIterator[T]) Sub(o ConstReverseIterator[T]) int { return c.r.Sub(o.r) }
func (c ConstReverseIterator[T]) Equal(o ConstReverseIterator[T]) bool { return c.r.Equal(o.r) }
func (c ConstReverseIterator[T]) Less(o ConstReverseIterator[T]) bool { return c.r.Less(o.r) }
