// Copyright 2022 Matrix Origin
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

package main

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/rawvec/pkg/common/malloc"
	"github.com/matrixorigin/rawvec/pkg/common/moerr"
	"github.com/matrixorigin/rawvec/pkg/container/heap"
	"github.com/matrixorigin/rawvec/pkg/container/vector"
	"github.com/matrixorigin/rawvec/pkg/logutil"
)

type result struct {
	vectors  int
	ops      int64
	failed   int64
	checksum int64
	elapsed  time.Duration
}

func (r result) fields() []zap.Field {
	return []zap.Field{
		zap.Int("vectors", r.vectors),
		zap.Int64("ops", r.ops),
		zap.Int64("failed", r.failed),
		zap.Int64("checksum", r.checksum),
		zap.Duration("elapsed", r.elapsed),
	}
}

func (r result) exitCode() int {
	if r.failed > 0 {
		return 1
	}
	return 0
}

// workloadFunc is the body of one pool task.
var workloadFunc = runWorkload

// safeRunWorkload reports a panicking workload as a failed one.
func safeRunWorkload(cfg WorkloadConfig, alloc malloc.Allocator[int64], seed int64) (ops int64, sum int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = moerr.ConvertPanicError(moerr.Context(), r)
		}
	}()
	return workloadFunc(cfg, alloc, seed)
}

// run applies the workload to cfg.Workload.Vectors vectors sharing one
// allocator, each vector owned by a single pool task.
func run(cfg *Config) (result, error) {
	alloc, err := malloc.NewAllocator[int64](cfg.Malloc)
	if err != nil {
		return result{}, err
	}
	pool, err := ants.NewPool(cfg.Workload.Workers, ants.WithPanicHandler(func(v any) {
		logutil.Error("vecbench task panic", zap.Any("panic", v))
	}))
	if err != nil {
		return result{}, err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		ops      atomic.Int64
		failed   atomic.Int64
		checksum atomic.Int64
	)
	start := time.Now()
	for i := 0; i < cfg.Workload.Vectors; i++ {
		seed := cfg.Workload.Seed + int64(i)
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			n, sum, err := safeRunWorkload(cfg.Workload, alloc, seed)
			ops.Add(n)
			if err != nil {
				failed.Add(1)
				logutil.Warn("vecbench workload failed",
					zap.Int64("seed", seed),
					zap.Int64("ops", n),
					zap.Error(err))
				return
			}
			checksum.Add(sum)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return result{}, moerr.ConvertGoError(moerr.Context(), err)
		}
	}
	wg.Wait()

	return result{
		vectors:  cfg.Workload.Vectors,
		ops:      ops.Load(),
		failed:   failed.Load(),
		checksum: checksum.Load(),
		elapsed:  time.Since(start),
	}, nil
}

// runWorkload returns the number of operations done and the sum of the
// elements left in the vector, or popped for the heap workload.
func runWorkload(cfg WorkloadConfig, alloc malloc.Allocator[int64], seed int64) (ops int64, sum int64, err error) {
	rnd := rand.New(rand.NewSource(seed))
	v := vector.New(vector.WithAllocator(alloc))
	defer v.Free()

	randPos := func(n int) vector.Iterator[int64] {
		return v.Begin().Add(rnd.Intn(n + 1))
	}

	switch cfg.Kind {
	case pushWorkload:
		for ; ops < int64(cfg.Ops); ops++ {
			if err = v.PushBack(rnd.Int63n(1000)); err != nil {
				return
			}
		}

	case insertWorkload:
		for ; ops < int64(cfg.Ops); ops++ {
			if _, err = v.Insert(randPos(v.Len()), rnd.Int63n(1000)); err != nil {
				return
			}
		}

	case eraseWorkload:
		if err = v.Resize(cfg.Ops); err != nil {
			return
		}
		for i := range v.Len() {
			v.Set(i, int64(i))
		}
		for ; v.Len() > cfg.Ops/2; ops++ {
			if _, err = v.Erase(v.Begin().Add(rnd.Intn(v.Len()))); err != nil {
				return
			}
		}
		if err = v.ShrinkToFit(); err != nil {
			return
		}

	case mixedWorkload:
		for ; ops < int64(cfg.Ops); ops++ {
			switch rnd.Intn(4) {
			case 0:
				err = v.PushBack(rnd.Int63n(1000))
			case 1:
				_, err = v.Insert(randPos(v.Len()), rnd.Int63n(1000))
			case 2:
				if !v.Empty() {
					_, err = v.Erase(v.Begin().Add(rnd.Intn(v.Len())))
				}
			default:
				v.PopBack()
			}
			if err != nil {
				return
			}
		}

	case heapWorkload:
		h := heap.NewWith[int64](v, func(a, b int64) bool { return a < b })
		for ; ops < int64(cfg.Ops); ops++ {
			if err = h.Push(rnd.Int63n(1000)); err != nil {
				return
			}
		}
		last := int64(1000)
		for !h.Empty() {
			var top int64
			if top, err = h.Pop(); err != nil {
				return
			}
			if top > last {
				err = moerr.NewInternalErrorNoCtx("heap popped %d after %d", top, last)
				return
			}
			last = top
			sum += top
			ops++
		}
		return
	}

	for x := range v.Values() {
		sum += x
	}
	return
}
