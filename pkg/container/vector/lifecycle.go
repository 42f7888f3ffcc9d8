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

// Lifecycle constructs and destroys elements inside raw slots of a block.
//
// A raw slot holds the zero value of T and no live element. Construction
// turns a raw slot live, Destroy turns it raw again; the vector zeroes the
// slot after Destroy and after a slot has been moved from. A construction
// that returns an error must not leave anything for Destroy to release.
type Lifecycle[T any] interface {
	// CopyConstruct builds a copy of the live element *src into raw *dst.
	CopyConstruct(dst, src *T) error
	// DefaultConstruct builds a default element into raw *dst.
	DefaultConstruct(dst *T) error
	// MoveConstruct relocates live *src into raw *dst. It cannot fail.
	MoveConstruct(dst, src *T)
	// Destroy releases what the live element *p holds.
	Destroy(p *T)
}

type trivial[T any] struct{}

// Trivial is the lifecycle of plain values: copies are assignments,
// the default element is the zero value and nothing needs releasing.
func Trivial[T any]() Lifecycle[T] {
	return trivial[T]{}
}

func (trivial[T]) CopyConstruct(dst, src *T) error {
	*dst = *src
	return nil
}

func (trivial[T]) DefaultConstruct(dst *T) error {
	var zero T
	*dst = zero
	return nil
}

func (trivial[T]) MoveConstruct(dst, src *T) {
	*dst = *src
}

func (trivial[T]) Destroy(*T) {}

func (v *Vector[T]) lifecycle() Lifecycle[T] {
	if v.life == nil {
		return trivial[T]{}
	}
	return v.life
}

// clearSlot returns a slot to raw without running any hook.
func clearSlot[T any](p *T) {
	var zero T
	*p = zero
}

func (v *Vector[T]) destroyAt(p *T) {
	v.lifecycle().Destroy(p)
	clearSlot(p)
}

func (v *Vector[T]) moveAt(dst, src *T) {
	v.lifecycle().MoveConstruct(dst, src)
	clearSlot(src)
}

// destroyRange destroys the live elements of s in order.
func (v *Vector[T]) destroyRange(s []T) {
	life := v.lifecycle()
	for i := range s {
		life.Destroy(&s[i])
		clearSlot(&s[i])
	}
}

// moveForward relocates src into dst front to back. When the ranges
// overlap dst must start before src.
func (v *Vector[T]) moveForward(dst, src []T) {
	for i := 0; i < len(src); i++ {
		v.moveAt(&dst[i], &src[i])
	}
}

// moveBackward relocates src into dst back to front. When the ranges
// overlap dst must start after src.
func (v *Vector[T]) moveBackward(dst, src []T) {
	for i := len(src) - 1; i >= 0; i-- {
		v.moveAt(&dst[i], &src[i])
	}
}

// constructCopy copy constructs src into the raw slots dst. On failure
// every slot of dst is raw again.
func (v *Vector[T]) constructCopy(dst, src []T) error {
	life := v.lifecycle()
	for i := range dst {
		if err := life.CopyConstruct(&dst[i], &src[i]); err != nil {
			clearSlot(&dst[i])
			v.destroyRange(dst[:i])
			return err
		}
	}
	return nil
}

// constructFill copy constructs *val into every raw slot of dst.
func (v *Vector[T]) constructFill(dst []T, val *T) error {
	life := v.lifecycle()
	for i := range dst {
		if err := life.CopyConstruct(&dst[i], val); err != nil {
			clearSlot(&dst[i])
			v.destroyRange(dst[:i])
			return err
		}
	}
	return nil
}

func (v *Vector[T]) constructDefault(dst []T) error {
	life := v.lifecycle()
	for i := range dst {
		if err := life.DefaultConstruct(&dst[i]); err != nil {
			clearSlot(&dst[i])
			v.destroyRange(dst[:i])
			return err
		}
	}
	return nil
}

// constructWith runs a caller supplied constructor on the raw slots of dst.
func (v *Vector[T]) constructWith(dst []T, fn func(*T) error) error {
	for i := range dst {
		if err := fn(&dst[i]); err != nil {
			clearSlot(&dst[i])
			v.destroyRange(dst[:i])
			return err
		}
	}
	return nil
}
