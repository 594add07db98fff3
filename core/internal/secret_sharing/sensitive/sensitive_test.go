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

package sensitive_test

import (
	"bytes"
	"testing"

	"github.com/airgap-tools/osst/core/internal/secret_sharing/sensitive"
)

func TestReleaseZeroizes(t *testing.T) {
	b := []byte("super secret bytes")
	sensitive.Register(b)
	sensitive.Release(b)
	if !bytes.Equal(b, make([]byte, len(b))) {
		t.Errorf("buffer not zeroized after release: %v", b)
	}
	if got := sensitive.Registered(); got != 0 {
		t.Errorf("Registered() = %d, want 0", got)
	}
}

func TestDoubleReleaseIsNoOp(t *testing.T) {
	b := []byte{1, 2, 3}
	sensitive.Register(b)
	sensitive.Release(b)
	sensitive.Release(b)
	if got := sensitive.Registered(); got != 0 {
		t.Errorf("Registered() = %d, want 0", got)
	}
}

func TestReleaseOfUnregisteredStillZeroizes(t *testing.T) {
	b := []byte{9, 9, 9}
	sensitive.Release(b)
	if !bytes.Equal(b, []byte{0, 0, 0}) {
		t.Errorf("unregistered buffer not zeroized: %v", b)
	}
}

func TestWipeAllSweepsAndRunsCollector(t *testing.T) {
	collected := 0
	sensitive.SetCollector(func() { collected++ })
	t.Cleanup(func() { sensitive.SetCollector(nil) })

	a := []byte("aaaa")
	b := []byte("bbbb")
	sensitive.Register(a)
	sensitive.Register(b)

	sensitive.WipeAll()

	if !bytes.Equal(a, make([]byte, 4)) || !bytes.Equal(b, make([]byte, 4)) {
		t.Errorf("buffers not zeroized after WipeAll: %v %v", a, b)
	}
	if got := sensitive.Registered(); got != 0 {
		t.Errorf("Registered() = %d, want 0", got)
	}
	if collected != 1 {
		t.Errorf("collector ran %d times, want 1", collected)
	}
}

func TestNilCollectorIsAccepted(t *testing.T) {
	sensitive.SetCollector(nil)
	t.Cleanup(func() { sensitive.SetCollector(nil) })
	sensitive.Register([]byte{1})
	sensitive.WipeAll()
}

func TestEmptyBuffersIgnored(t *testing.T) {
	sensitive.Register(nil)
	sensitive.Register([]byte{})
	sensitive.Release(nil)
	if got := sensitive.Registered(); got != 0 {
		t.Errorf("Registered() = %d, want 0", got)
	}
}
