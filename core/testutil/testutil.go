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

// Package testutil contains utilities for unit tests.
package testutil

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/airgap-tools/osst/core/internal/secret_sharing/securerandom"
)

// InstallSeededSource replaces the core's randomness source with a
// deterministic PRNG for the duration of the test. It must run before
// core.Init binds the OS source.
func InstallSeededSource(t *testing.T, seed int64) {
	t.Helper()
	prng := rand.New(rand.NewSource(seed))
	installSource(t, func(b []byte) error {
		prng.Read(b)
		return nil
	})
}

// InstallFailingSource replaces the randomness source with one that always
// fails, for exercising RandomnessUnavailable paths.
func InstallFailingSource(t *testing.T) {
	t.Helper()
	installSource(t, func([]byte) error {
		return errors.New("source disabled for test")
	})
}

// InstallStuckSource replaces the randomness source with one that repeats a
// single byte forever, for exercising the self-check.
func InstallStuckSource(t *testing.T, v byte) {
	t.Helper()
	installSource(t, func(b []byte) error {
		for i := range b {
			b[i] = v
		}
		return nil
	})
}

func installSource(t *testing.T, s securerandom.Source) {
	t.Helper()
	restore, err := securerandom.SetSourceForTesting(s)
	if err != nil {
		t.Fatalf("securerandom.SetSourceForTesting() err = %v, want nil", err)
	}
	t.Cleanup(restore)
}
