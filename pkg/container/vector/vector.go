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

// Package vector implements a contiguous growable sequence over blocks
// obtained from a malloc.Allocator, with explicit element lifecycles and
// checked iterators.
//
// Slots past Len() are raw: they hold the zero value of T. A Vector is not
// safe for concurrent use.
package vector

import (
	"iter"

	"github.com/matrixorigin/rawvec/pkg/common/malloc"
	"github.com/matrixorigin/rawvec/pkg/common/moerr"
)

type Vector[T any] struct {
	buf   *buffer[T]
	alloc malloc.Allocator[T]
	life  Lifecycle[T]
}

type Option[T any] func(*Vector[T])

// WithAllocator makes the vector obtain its blocks from a.
func WithAllocator[T any](a malloc.Allocator[T]) Option[T] {
	return func(v *Vector[T]) {
		v.alloc = a
	}
}

// WithLifecycle makes the vector construct and destroy elements with l.
func WithLifecycle[T any](l Lifecycle[T]) Option[T] {
	return func(v *Vector[T]) {
		v.life = l
	}
}

// New returns an empty vector with no block.
func New[T any](opts ...Option[T]) *Vector[T] {
	v := &Vector[T]{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewWithSize returns a vector of n default constructed elements and
// capacity n.
func NewWithSize[T any](n int, opts ...Option[T]) (*Vector[T], error) {
	v := New(opts...)
	if err := v.Resize(n); err != nil {
		v.Free()
		return nil, err
	}
	return v, nil
}

// NewFilled returns a vector of n copies of val and capacity n.
func NewFilled[T any](n int, val T, opts ...Option[T]) (*Vector[T], error) {
	v := New(opts...)
	if err := v.AssignN(n, val); err != nil {
		v.Free()
		return nil, err
	}
	return v, nil
}

// NewFromRange returns a vector holding copies of [first, last).
func NewFromRange[T any](first, last ConstIterator[T], opts ...Option[T]) (*Vector[T], error) {
	v := New(opts...)
	if err := v.AssignRange(first, last); err != nil {
		v.Free()
		return nil, err
	}
	return v, nil
}

func NewFromSlice[T any](vals []T, opts ...Option[T]) (*Vector[T], error) {
	v := New(opts...)
	if err := v.Assign(vals...); err != nil {
		v.Free()
		return nil, err
	}
	return v, nil
}

// Move returns a vector owning the block, allocator and lifecycle of src.
// src is left empty with capacity 0. Iterators into src now refer to the
// returned vector.
func Move[T any](src *Vector[T]) *Vector[T] {
	v := &Vector[T]{
		buf:   src.buf,
		alloc: src.alloc,
		life:  src.life,
	}
	src.buf = nil
	return v
}

// Clone copies v into a new vector using the allocator of v.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	return v.CloneWith()
}

// CloneWith copies v into a new vector. The copy starts with the allocator
// and lifecycle of v, opts may replace them.
func (v *Vector[T]) CloneWith(opts ...Option[T]) (*Vector[T], error) {
	c := &Vector[T]{
		alloc: v.alloc,
		life:  v.life,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.assignCopy(v.Data()); err != nil {
		return nil, err
	}
	return c, nil
}

// MoveAssign frees v and takes over the block, allocator and lifecycle of
// src, leaving src empty.
func (v *Vector[T]) MoveAssign(src *Vector[T]) {
	if v == src {
		return
	}
	v.Free()
	v.buf, v.alloc, v.life = src.buf, src.alloc, src.life
	src.buf = nil
}

// CopyFrom replaces the contents of v by copies of the elements of src.
// v keeps its allocator.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	if v == src {
		return nil
	}
	return v.assignCopy(src.Data())
}

// Free destroys every element and releases the block. v stays usable.
func (v *Vector[T]) Free() {
	if v.buf == nil {
		return
	}
	v.destroyRange(v.buf.data[:v.buf.length])
	v.buf.length = 0
	v.adopt(nil, nil, 0)
}

// Swap exchanges the contents of v and o, allocators and lifecycles
// included. Iterators follow the elements.
func (v *Vector[T]) Swap(o *Vector[T]) {
	v.buf, o.buf = o.buf, v.buf
	v.alloc, o.alloc = o.alloc, v.alloc
	v.life, o.life = o.life, v.life
}

func (v *Vector[T]) Len() int {
	if v.buf == nil {
		return 0
	}
	return v.buf.length
}

func (v *Vector[T]) Cap() int {
	if v.buf == nil {
		return 0
	}
	return len(v.buf.data)
}

func (v *Vector[T]) Empty() bool {
	return v.Len() == 0
}

// Get returns the element at i. i must be in [0, Len()).
func (v *Vector[T]) Get(i int) T {
	return v.buf.data[:v.buf.length][i]
}

// Ref returns a pointer to the element at i. i must be in [0, Len()).
func (v *Vector[T]) Ref(i int) *T {
	return &v.buf.data[:v.buf.length][i]
}

// Set assigns val to the element at i without running lifecycle hooks.
func (v *Vector[T]) Set(i int, val T) {
	v.buf.data[:v.buf.length][i] = val
}

// At is Get with bounds checking.
func (v *Vector[T]) At(i int) (T, error) {
	p, err := v.AtRef(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

func (v *Vector[T]) AtRef(i int) (*T, error) {
	if i < 0 || i >= v.Len() {
		return nil, moerr.NewOutOfRangeNoCtx("vector", "index %d, length %d", i, v.Len())
	}
	return &v.buf.data[i], nil
}

// Front returns the first element. v must not be empty.
func (v *Vector[T]) Front() T {
	return v.Get(0)
}

// Back returns the last element. v must not be empty.
func (v *Vector[T]) Back() T {
	return v.Get(v.Len() - 1)
}

// Data returns the live elements. The slice aliases the block and is
// capped at Len(), so appending to it never writes into raw slots.
func (v *Vector[T]) Data() []T {
	if v.buf == nil {
		return nil
	}
	return v.buf.data[:v.buf.length:v.buf.length]
}

// All iterates over index and element pairs in order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(i, v.buf.data[i]) {
				return
			}
		}
	}
}

func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(v.buf.data[i]) {
				return
			}
		}
	}
}

// Backward iterates over index and element pairs from the back.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := v.Len() - 1; i >= 0; i = min(i, v.Len()) - 1 {
			if !yield(i, v.buf.data[i]) {
				return
			}
		}
	}
}

// Equal reports whether a and b hold equal elements in the same order.
func Equal[T comparable](a, b *Vector[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

func EqualFunc[T any](a, b *Vector[T], eq func(T, T) bool) bool {
	x, y := a.Data(), b.Data()
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !eq(x[i], y[i]) {
			return false
		}
	}
	return true
}
