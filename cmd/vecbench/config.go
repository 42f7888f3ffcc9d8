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
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/rawvec/pkg/common/malloc"
	"github.com/matrixorigin/rawvec/pkg/common/moerr"
	"github.com/matrixorigin/rawvec/pkg/logutil"
)

const (
	pushWorkload   = "push"
	insertWorkload = "insert"
	eraseWorkload  = "erase"
	mixedWorkload  = "mixed"
	heapWorkload   = "heap"

	defaultVectors = 64
	defaultOps     = 10000
)

var supportedWorkloads = map[string]struct{}{
	pushWorkload:   {},
	insertWorkload: {},
	eraseWorkload:  {},
	mixedWorkload:  {},
	heapWorkload:   {},
}

// Config is the vecbench configuration file.
type Config struct {
	Log      logutil.LogConfig `toml:"log"`
	Malloc   malloc.Config     `toml:"malloc"`
	Workload WorkloadConfig    `toml:"workload"`
}

type WorkloadConfig struct {
	// Kind is one of push, insert, erase, mixed or heap.
	Kind string `toml:"kind"`
	// Workers is the size of the goroutine pool running the vectors.
	Workers int `toml:"workers"`
	// Vectors is the number of independent vectors, one task each.
	Vectors int `toml:"vectors"`
	// Ops is the number of operations applied to every vector.
	Ops  int   `toml:"ops"`
	Seed int64 `toml:"seed"`
}

func parseConfigFromFile(file string) (*Config, error) {
	cfg := &Config{}
	if file != "" {
		if _, err := toml.DecodeFile(file, cfg); err != nil {
			return nil, err
		}
	}
	cfg.adjust()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) adjust() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	c.Malloc.Adjust()

	w := &c.Workload
	w.Kind = strings.ToLower(w.Kind)
	if w.Kind == "" {
		w.Kind = pushWorkload
	}
	if w.Workers <= 0 {
		w.Workers = runtime.GOMAXPROCS(0)
	}
	if w.Vectors <= 0 {
		w.Vectors = defaultVectors
	}
	if w.Ops <= 0 {
		w.Ops = defaultOps
	}
}

func (c *Config) validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Malloc.Validate(); err != nil {
		return err
	}
	if _, ok := supportedWorkloads[c.Workload.Kind]; !ok {
		return moerr.NewBadConfigNoCtx("unknown workload %q", c.Workload.Kind)
	}
	return nil
}
