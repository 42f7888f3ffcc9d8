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

// Package heap implements a binary max-heap adapter over vectors.
package heap

import (
	"math/bits"

	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/rawvec/pkg/common/moerr"
	"github.com/matrixorigin/rawvec/pkg/container/vector"
)

// Container is the backing sequence of a BinaryHeap.
type Container[T any] interface {
	PushBack(val T) error
	PopBack()
	Front() T
	Back() T
	Begin() vector.Iterator[T]
	End() vector.Iterator[T]
	Len() int
	Empty() bool
	Assign(vals ...T) error
}

var _ Container[int] = new(vector.Vector[int])

// BinaryHeap keeps its greatest element under less on top.
type BinaryHeap[T any] struct {
	data Container[T]
	less func(a, b T) bool
}

// New returns an empty heap backed by a new vector.
func New[T any](less func(a, b T) bool) *BinaryHeap[T] {
	return NewWith[T](vector.New[T](), less)
}

// NewWith returns a heap over data, rearranging what data already holds.
func NewWith[T any](data Container[T], less func(a, b T) bool) *BinaryHeap[T] {
	h := &BinaryHeap[T]{
		data: data,
		less: less,
	}
	h.fix()
	return h
}

func NewOrdered[T constraints.Ordered]() *BinaryHeap[T] {
	return New(func(a, b T) bool { return a < b })
}

// FromSlice returns a heap holding copies of vals.
func FromSlice[T any](vals []T, less func(a, b T) bool) (*BinaryHeap[T], error) {
	h := New(less)
	if err := h.Assign(vals...); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *BinaryHeap[T]) fix() {
	MakeHeap(h.data.Begin(), h.data.End(), h.less)
}

func (h *BinaryHeap[T]) Push(val T) error {
	if err := h.data.PushBack(val); err != nil {
		return err
	}
	UpHeap(h.data.Begin(), h.data.End(), h.less)
	return nil
}

// Emplace pushes the element built by fn.
func (h *BinaryHeap[T]) Emplace(fn func(*T) error) error {
	var val T
	if err := fn(&val); err != nil {
		return err
	}
	return h.Push(val)
}

// Pop removes and returns the top element.
func (h *BinaryHeap[T]) Pop() (T, error) {
	if h.data.Empty() {
		var zero T
		return zero, moerr.NewEmptyVectorNoCtx()
	}
	top := h.data.Front()
	first, last := h.data.Begin(), h.data.End()
	if last.Sub(first) > 1 {
		a, b := first.Ref(), last.Prev().Ref()
		*a, *b = *b, *a
	}
	h.data.PopBack()
	DownHeap(h.data.Begin(), h.data.End(), h.less)
	return top, nil
}

// Top returns the greatest element without removing it.
func (h *BinaryHeap[T]) Top() (T, error) {
	if h.data.Empty() {
		var zero T
		return zero, moerr.NewEmptyVectorNoCtx()
	}
	return h.data.Front(), nil
}

func (h *BinaryHeap[T]) Len() int {
	return h.data.Len()
}

func (h *BinaryHeap[T]) Empty() bool {
	return h.data.Empty()
}

// Height is the number of levels of the tree, ceil(log2(Len()+1)).
func (h *BinaryHeap[T]) Height() int {
	return bits.Len(uint(h.data.Len()))
}

func (h *BinaryHeap[T]) Clear() {
	for !h.data.Empty() {
		h.data.PopBack()
	}
}

// Assign replaces the contents of the heap by vals.
func (h *BinaryHeap[T]) Assign(vals ...T) error {
	if err := h.data.Assign(vals...); err != nil {
		return err
	}
	h.fix()
	return nil
}

func (h *BinaryHeap[T]) Swap(o *BinaryHeap[T]) {
	h.data, o.data = o.data, h.data
	h.less, o.less = o.less, h.less
}

// Begin and End expose the heap ordered storage for reading.
func (h *BinaryHeap[T]) Begin() vector.ConstIterator[T] {
	return h.data.Begin().Const()
}

func (h *BinaryHeap[T]) End() vector.ConstIterator[T] {
	return h.data.End().Const()
}
