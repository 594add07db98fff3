// Copyright 2024 OSST Authors
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

// Package sensitive tracks buffers that have held secret material and
// guarantees they are overwritten with zero bytes before release.
//
// The registry is process-wide and mutex-guarded. Registrations are balanced
// with releases; releasing twice is a no-op so that explicit releases and
// teardown sweeps can overlap safely. A buffer still registered at teardown
// indicates a missed release upstream.
package sensitive

import (
	"runtime"
	"sync"
)

var (
	mu        sync.Mutex
	registry  = make(map[*byte][]byte)
	collector func() = runtime.GC
)

// Register records b as holding secret material. Empty buffers are ignored.
func Register(b []byte) {
	if len(b) == 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[&b[0]] = b
}

// Release zeroizes b and drops it from the registry. Buffers that were never
// registered are still zeroized; releasing twice is a no-op.
func Release(b []byte) {
	if len(b) == 0 {
		return
	}
	Zero(b)
	mu.Lock()
	defer mu.Unlock()
	delete(registry, &b[0])
}

// Zero overwrites b with zero bytes.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Registered reports how many buffers are currently tracked.
func Registered() int {
	mu.Lock()
	defer mu.Unlock()
	return len(registry)
}

// WipeAll zeroizes every registered buffer, empties the registry and asks
// the collector hook for a pass.
func WipeAll() {
	mu.Lock()
	for k, b := range registry {
		Zero(b)
		delete(registry, k)
	}
	c := collector
	mu.Unlock()
	if c != nil {
		c()
	}
}

// SetCollector replaces the collector hook run after WipeAll. A nil hook
// disables the pass.
func SetCollector(f func()) {
	mu.Lock()
	defer mu.Unlock()
	collector = f
}
