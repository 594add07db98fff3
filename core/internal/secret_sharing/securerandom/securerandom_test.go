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

package securerandom_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/airgap-tools/osst/core/internal/secret_sharing/securerandom"
)

func setSource(t *testing.T, s securerandom.Source) {
	t.Helper()
	restore, err := securerandom.SetSourceForTesting(s)
	if err != nil {
		t.Fatalf("securerandom.SetSourceForTesting() err = %v, want nil", err)
	}
	t.Cleanup(restore)
}

func TestBytesLengthAndFreshness(t *testing.T) {
	a, err := securerandom.Bytes(32)
	if err != nil {
		t.Fatalf("securerandom.Bytes(32) err = %v, want nil", err)
	}
	if len(a) != 32 {
		t.Fatalf("len = %d, want 32", len(a))
	}
	b, err := securerandom.Bytes(32)
	if err != nil {
		t.Fatalf("securerandom.Bytes(32) err = %v, want nil", err)
	}
	if bytes.Equal(a, b) {
		t.Errorf("two 32-byte draws are identical")
	}
}

func TestVerifyWithOSSource(t *testing.T) {
	if err := securerandom.Verify(); err != nil {
		t.Errorf("securerandom.Verify() err = %v, want nil", err)
	}
}

func TestVerifyRejectsStuckSource(t *testing.T) {
	setSource(t, func(b []byte) error {
		for i := range b {
			b[i] = 0x41
		}
		return nil
	})
	if err := securerandom.Verify(); !errors.Is(err, securerandom.ErrUnavailable) {
		t.Errorf("securerandom.Verify() err = %v, want ErrUnavailable", err)
	}
}

func TestVerifyRejectsZeroedSource(t *testing.T) {
	setSource(t, func(b []byte) error {
		for i := range b {
			b[i] = 0
		}
		return nil
	})
	if err := securerandom.Verify(); !errors.Is(err, securerandom.ErrUnavailable) {
		t.Errorf("securerandom.Verify() err = %v, want ErrUnavailable", err)
	}
}

func TestVerifyRejectsLowDiversitySource(t *testing.T) {
	// Distinct samples, but each sample cycles through only four byte
	// values.
	n := byte(0)
	setSource(t, func(b []byte) error {
		n++
		for i := range b {
			b[i] = n<<4 | byte(i&0x03)
		}
		return nil
	})
	if err := securerandom.Verify(); !errors.Is(err, securerandom.ErrUnavailable) {
		t.Errorf("securerandom.Verify() err = %v, want ErrUnavailable", err)
	}
}

func TestBytesWrapsSourceFailure(t *testing.T) {
	setSource(t, func([]byte) error {
		return errors.New("syscall disabled")
	})
	if _, err := securerandom.Bytes(16); !errors.Is(err, securerandom.ErrUnavailable) {
		t.Errorf("securerandom.Bytes(16) err = %v, want ErrUnavailable", err)
	}
}

func TestBindRefusesReplacement(t *testing.T) {
	t.Cleanup(securerandom.ResetForTesting)
	securerandom.Bind()
	if _, err := securerandom.SetSourceForTesting(func(b []byte) error { return nil }); err == nil {
		t.Errorf("SetSourceForTesting() after Bind err = nil, want error")
	}
	// The bound OS source still works.
	if _, err := securerandom.Bytes(8); err != nil {
		t.Errorf("securerandom.Bytes(8) err = %v, want nil", err)
	}
}
