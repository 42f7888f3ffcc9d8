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
	"sync/atomic"

	"github.com/matrixorigin/rawvec/pkg/common/moerr"
)

// LimitAllocator fails with ErrOOM once the bytes held by callers would
// exceed maxBytes.
type LimitAllocator[T any] struct {
	upstream Allocator[T]
	maxBytes uint64
	inuse    atomic.Uint64
	peak     *PeakInuseTracker
}

var _ Allocator[int] = new(LimitAllocator[int])

func NewLimitAllocator[T any](
	upstream Allocator[T],
	maxBytes uint64,
) *LimitAllocator[T] {
	return &LimitAllocator[T]{
		upstream: upstream,
		maxBytes: maxBytes,
		peak:     NewPeakInuseTracker(),
	}
}

func (l *LimitAllocator[T]) Allocate(n uint64) ([]T, Deallocator, error) {
	if n == 0 {
		return l.upstream.Allocate(0)
	}
	if n > l.MaxSize() {
		return nil, nil, moerr.NewOOMNoCtx()
	}
	bytes := BlockBytes[T](n)
	for {
		cur := l.inuse.Load()
		if cur+bytes > l.maxBytes {
			return nil, nil, moerr.NewOOMNoCtx()
		}
		if l.inuse.CompareAndSwap(cur, cur+bytes) {
			l.peak.Update(cur + bytes)
			break
		}
	}

	block, dec, err := l.upstream.Allocate(n)
	if err != nil {
		l.inuse.Add(-bytes)
		return nil, nil, err
	}
	return block, ChainDeallocator(
		dec,
		DeallocatorFunc(func() {
			l.inuse.Add(-bytes)
		}),
	), nil
}

func (l *LimitAllocator[T]) MaxSize() uint64 {
	return min(l.upstream.MaxSize(), maxSlots[T](l.maxBytes))
}

// Inuse returns the bytes currently held by callers.
func (l *LimitAllocator[T]) Inuse() uint64 {
	return l.inuse.Load()
}

func (l *LimitAllocator[T]) Peak() PeakInuse {
	return l.peak.Load()
}
