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

// vecbench runs vector workloads over a configured allocator and reports
// the allocator metrics.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"github.com/matrixorigin/rawvec/pkg/logutil"
	v2 "github.com/matrixorigin/rawvec/pkg/util/metric/v2"
)

var (
	configFile  = flag.String("cfg", "", "toml configuration used to run vecbench")
	dumpMetrics = flag.Bool("metrics", true, "print the rawvec metrics when done")
)

func main() {
	flag.Parse()

	cfg, err := parseConfigFromFile(*configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to parse config from %s, error: %s", *configFile, err.Error()))
	}
	setupLogger(cfg)

	res, err := run(cfg)
	if err != nil {
		logutil.Fatal("vecbench failed", zap.Error(err))
	}
	logutil.Info("vecbench done", append(res.fields(), zap.String("workload", cfg.Workload.Kind))...)

	if *dumpMetrics {
		if err := writeMetrics(os.Stdout); err != nil {
			logutil.Error("failed to dump metrics", zap.Error(err))
		}
	}
	if code := res.exitCode(); code != 0 {
		os.Exit(code)
	}
}

func setupLogger(cfg *Config) {
	logutil.SetupMOLogger(&cfg.Log)
}

// writeMetrics writes the rawvec metric families in the text exposition
// format.
func writeMetrics(w io.Writer) error {
	mfs, err := v2.GetPrometheusGatherer().Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), "rawvec_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
