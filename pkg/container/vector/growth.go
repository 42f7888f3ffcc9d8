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

// grownCap is the capacity used when extra more slots do not fit:
// exactly extra for an empty block, otherwise at least double.
func (v *Vector[T]) grownCap(extra int) (int, error) {
	length, maxSize := v.Len(), v.MaxSize()
	if extra > maxSize-length {
		return 0, moerr.NewInvalidArgNoCtx("vector length", uint64(length)+uint64(extra))
	}
	c := v.Cap()
	if c == 0 {
		return extra, nil
	}
	if c > maxSize/2 {
		return maxSize, nil
	}
	return max(2*c, length+extra), nil
}

// Reserve makes the capacity at least n. It reallocates to exactly n
// slots only when n exceeds the current capacity.
func (v *Vector[T]) Reserve(n int) error {
	if n <= v.Cap() {
		return nil
	}
	return v.reallocate(n)
}

// ShrinkToFit reallocates to exactly Len() slots.
func (v *Vector[T]) ShrinkToFit() error {
	if v.Cap() == v.Len() {
		return nil
	}
	return v.reallocate(v.Len())
}

// Resize grows v with default constructed elements or destroys the
// elements past n. Growing past the capacity reallocates to exactly n
// slots. A failed grow leaves v as it was.
func (v *Vector[T]) Resize(n int) error {
	return v.resize(n, v.constructDefault)
}

// ResizeFill is Resize with copies of val as the new elements.
func (v *Vector[T]) ResizeFill(n int, val T) error {
	return v.resize(n, func(dst []T) error {
		return v.constructFill(dst, &val)
	})
}

func (v *Vector[T]) resize(n int, fill func(dst []T) error) error {
	if err := v.checkLength(n); err != nil {
		return err
	}
	length := v.Len()
	switch {
	case n == length:
		return nil
	case n < length:
		b := v.buf
		v.destroyRange(b.data[n:length])
		b.length = n
		b.edits.record(n)
		return nil
	}
	if n <= v.Cap() {
		b := v.buf
		if err := fill(b.data[length:n]); err != nil {
			return err
		}
		b.length = n
		b.edits.record(length)
		return nil
	}
	// the new elements are built first so a failing fill leaves v as it was
	data, dealloc, err := v.allocate(n)
	if err != nil {
		return err
	}
	if err := fill(data[length:n]); err != nil {
		deallocate(dealloc)
		return err
	}
	if length > 0 {
		v.moveForward(data[:length], v.buf.data[:length])
	}
	v.adopt(data, dealloc, n)
	return nil
}
