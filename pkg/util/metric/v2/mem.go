// Copyright 2023 Matrix Origin
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

package v2

import "github.com/prometheus/client_golang/prometheus"

var (
	memAllocateBytesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rawvec",
			Subsystem: "mem",
			Name:      "allocate_bytes_total",
			Help:      "Total bytes handed out by the allocator.",
		}, []string{"type"})
	memInuseBytesGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rawvec",
			Subsystem: "mem",
			Name:      "inuse_bytes",
			Help:      "Bytes allocated and not yet released.",
		}, []string{"type"})
	memAllocateObjectsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rawvec",
			Subsystem: "mem",
			Name:      "allocate_objects_total",
			Help:      "Total number of blocks handed out by the allocator.",
		}, []string{"type"})
	memInuseObjectsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rawvec",
			Subsystem: "mem",
			Name:      "inuse_objects",
			Help:      "Blocks allocated and not yet released.",
		}, []string{"type"})
	memAllocateFailedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rawvec",
			Subsystem: "mem",
			Name:      "allocate_failed_total",
			Help:      "Total number of failed allocation requests.",
		}, []string{"type"})
)

var (
	VectorReallocateCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rawvec",
			Subsystem: "vector",
			Name:      "reallocate_total",
			Help:      "Total number of vector block reallocations.",
		})
)

// AllocatorMetrics groups the children of the mem vectors for one
// allocator type.
type AllocatorMetrics struct {
	AllocateBytes   prometheus.Counter
	InuseBytes      prometheus.Gauge
	AllocateObjects prometheus.Counter
	InuseObjects    prometheus.Gauge
	AllocateFailed  prometheus.Counter
}

func GetAllocatorMetrics(typ string) AllocatorMetrics {
	return AllocatorMetrics{
		AllocateBytes:   memAllocateBytesCounter.WithLabelValues(typ),
		InuseBytes:      memInuseBytesGauge.WithLabelValues(typ),
		AllocateObjects: memAllocateObjectsCounter.WithLabelValues(typ),
		InuseObjects:    memInuseObjectsGauge.WithLabelValues(typ),
		AllocateFailed:  memAllocateFailedCounter.WithLabelValues(typ),
	}
}
