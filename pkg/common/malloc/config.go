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
	"strings"

	"go.uber.org/zap"

	"github.com/matrixorigin/rawvec/pkg/common/moerr"
	"github.com/matrixorigin/rawvec/pkg/logutil"
	v2 "github.com/matrixorigin/rawvec/pkg/util/metric/v2"
)

const (
	GoAllocatorName    = "go"
	ClassAllocatorName = "class"
	MmapAllocatorName  = "mmap"

	defaultClassBufferSize = 64 * MB
)

type Config struct {
	// Allocator is one of "go", "class" or "mmap".
	Allocator string `toml:"allocator"`
	// ClassBufferSize bounds the bytes parked in class free lists.
	ClassBufferSize uint64 `toml:"class-buffer-size"`
	// MaxBytes, if non zero, caps the bytes held at once.
	MaxBytes uint64 `toml:"max-bytes"`
	// EnableMetrics reports allocations to prometheus.
	EnableMetrics bool `toml:"enable-metrics"`
}

func (c *Config) Adjust() {
	if c.Allocator == "" {
		c.Allocator = GoAllocatorName
	}
	c.Allocator = strings.ToLower(c.Allocator)
	if c.Allocator == ClassAllocatorName && c.ClassBufferSize == 0 {
		c.ClassBufferSize = defaultClassBufferSize
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Allocator) {
	case "", GoAllocatorName, ClassAllocatorName, MmapAllocatorName:
		return nil
	default:
		return moerr.NewBadConfigNoCtx("unknown allocator %q", c.Allocator)
	}
}

// NewAllocator builds the allocator described by cfg: a base allocator,
// optionally capped by MaxBytes, optionally reporting metrics.
func NewAllocator[T any](cfg Config) (Allocator[T], error) {
	cfg.Adjust()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var ret Allocator[T]
	switch cfg.Allocator {
	case GoAllocatorName:
		ret = NewGoAllocator[T]()
	case ClassAllocatorName:
		ret = NewClassAllocator[T](cfg.ClassBufferSize)
	case MmapAllocatorName:
		m, err := NewMmapAllocator[T]()
		if err != nil {
			return nil, err
		}
		ret = m
	}

	if cfg.MaxBytes > 0 {
		ret = NewLimitAllocator(ret, cfg.MaxBytes)
	}
	if cfg.EnableMetrics {
		ret = NewMetricsAllocator(ret, v2.GetAllocatorMetrics(cfg.Allocator))
	}

	logutil.Info("malloc",
		zap.String("allocator", cfg.Allocator),
		zap.Uint64("class buffer size", cfg.ClassBufferSize),
		zap.Uint64("max bytes", cfg.MaxBytes),
		zap.Bool("metrics", cfg.EnableMetrics),
		zap.Uint64("elem size", elemSize[T]()),
	)
	return ret, nil
}
