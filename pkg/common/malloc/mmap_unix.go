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

//go:build linux || darwin

package malloc

import (
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/matrixorigin/rawvec/pkg/logutil"
)

const mmapSupported = true

func mmapAnonymous(length int) ([]byte, error) {
	return unix.Mmap(
		-1, 0,
		length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
}

func munmap(mem []byte) {
	if err := unix.Munmap(mem); err != nil {
		logutil.Error("malloc: munmap failed",
			zap.Int("length", len(mem)),
			zap.Error(err),
		)
	}
}
