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

package heap

import (
	"github.com/matrixorigin/rawvec/pkg/container/vector"
)

// The functions below keep [first, last) as a max-heap under less: the
// element at first is never less than any other. Positions are 1-based
// internally, the parent of i is i/2.

func swapAt[T any](first vector.Iterator[T], i, j int) {
	a, b := first.Add(i).Ref(), first.Add(j).Ref()
	*a, *b = *b, *a
}

func lessAt[T any](first vector.Iterator[T], i, j int, less func(a, b T) bool) bool {
	return less(first.At(i), first.At(j))
}

// UpHeap restores the heap after the element at last-1 was appended to
// the heap [first, last-1).
func UpHeap[T any](first, last vector.Iterator[T], less func(a, b T) bool) {
	for i := last.Sub(first); i > 1 && lessAt(first, i/2-1, i-1, less); i /= 2 {
		swapAt(first, i/2-1, i-1)
	}
}

// DownHeap restores the heap after the element at first was replaced.
func DownHeap[T any](first, last vector.Iterator[T], less func(a, b T) bool) {
	size := last.Sub(first)
	i := 1
	for 2*i < size {
		child := 2*i - 1
		if lessAt(first, 2*i-1, 2*i, less) {
			child = 2 * i
		}
		if lessAt(first, child, i-1, less) {
			break
		}
		swapAt(first, child, i-1)
		i = child + 1
	}
	// a last node with no sibling
	if 2*i == size && lessAt(first, i-1, 2*i-1, less) {
		swapAt(first, i-1, 2*i-1)
	}
}

// MakeHeap arranges [first, last) into a heap.
func MakeHeap[T any](first, last vector.Iterator[T], less func(a, b T) bool) {
	for back := first; !back.Equal(last); {
		back = back.Next()
		UpHeap(first, back, less)
	}
}

// SortHeap turns the heap [first, last) into a range sorted ascending by less.
func SortHeap[T any](first, last vector.Iterator[T], less func(a, b T) bool) {
	for back := last; !back.Equal(first); {
		back = back.Prev()
		swapAt(first, 0, back.Sub(first))
		DownHeap(first, back, less)
	}
}

// HeapSort sorts [first, last) ascending by less.
func HeapSort[T any](first, last vector.Iterator[T], less func(a, b T) bool) {
	MakeHeap(first, last, less)
	SortHeap(first, last, less)
}
