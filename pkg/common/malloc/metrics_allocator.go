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
	v2 "github.com/matrixorigin/rawvec/pkg/util/metric/v2"
)

// MetricsAllocator reports every allocation of its upstream to prometheus.
type MetricsAllocator[T any] struct {
	upstream Allocator[T]
	metrics  v2.AllocatorMetrics
}

var _ Allocator[int] = new(MetricsAllocator[int])

func NewMetricsAllocator[T any](
	upstream Allocator[T],
	metrics v2.AllocatorMetrics,
) *MetricsAllocator[T] {
	return &MetricsAllocator[T]{
		upstream: upstream,
		metrics:  metrics,
	}
}

func (m *MetricsAllocator[T]) Allocate(n uint64) ([]T, Deallocator, error) {
	block, dec, err := m.upstream.Allocate(n)
	if err != nil {
		if m.metrics.AllocateFailed != nil {
			m.metrics.AllocateFailed.Inc()
		}
		return nil, nil, err
	}
	if n == 0 {
		return block, dec, nil
	}

	bytes := float64(BlockBytes[T](n))
	m.metrics.AllocateBytes.Add(bytes)
	m.metrics.InuseBytes.Add(bytes)
	m.metrics.AllocateObjects.Inc()
	m.metrics.InuseObjects.Inc()

	return block, ChainDeallocator(
		dec,
		DeallocatorFunc(func() {
			m.metrics.InuseBytes.Sub(bytes)
			m.metrics.InuseObjects.Dec()
		}),
	), nil
}

func (m *MetricsAllocator[T]) MaxSize() uint64 {
	return m.upstream.MaxSize()
}
