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

package core_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/airgap-tools/osst/core"
)

func TestValidateParameters(t *testing.T) {
	for _, tc := range []struct {
		name      string
		numShares int
		threshold int
		secretLen int
		want      error
	}{
		{name: "minimal", numShares: 2, threshold: 2, secretLen: 1, want: nil},
		{name: "maximal", numShares: 255, threshold: 255, secretLen: 64, want: nil},
		{name: "one of one", numShares: 1, threshold: 1, secretLen: 1, want: core.ErrInvalidParameters},
		{name: "too many shares", numShares: 256, threshold: 2, secretLen: 1, want: core.ErrInvalidParameters},
		{name: "threshold one", numShares: 5, threshold: 1, secretLen: 1, want: core.ErrInvalidParameters},
		{name: "threshold above shares", numShares: 3, threshold: 4, secretLen: 1, want: core.ErrInvalidParameters},
		{name: "empty secret", numShares: 3, threshold: 2, secretLen: 0, want: core.ErrInvalidSecret},
		{name: "over-length secret", numShares: 3, threshold: 2, secretLen: 65, want: core.ErrInvalidSecret},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := core.ValidateParameters(tc.numShares, tc.threshold, tc.secretLen)
			if tc.want == nil {
				if err != nil {
					t.Errorf("core.ValidateParameters() err = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("core.ValidateParameters() err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSplitRejectsBadSecrets(t *testing.T) {
	for _, tc := range []struct {
		name   string
		secret []byte
	}{
		{name: "empty", secret: nil},
		{name: "over-length", secret: []byte(strings.Repeat("a", 65))},
		{name: "embedded NUL", secret: []byte("ab\x00cd")},
		{name: "control character", secret: []byte("ab\x1bcd")},
		{name: "DEL", secret: []byte("ab\x7fcd")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := core.Split(tc.secret, 3, 2); !errors.Is(err, core.ErrInvalidSecret) {
				t.Errorf("core.Split() err = %v, want ErrInvalidSecret", err)
			}
		})
	}
}

func TestSplitAcceptsPermittedWhitespace(t *testing.T) {
	secret := []byte("line one\nline two\ttabbed\r")
	encoded, err := core.Split(secret, 3, 2)
	if err != nil {
		t.Fatalf("core.Split() err = %v, want nil", err)
	}
	got, err := core.Reconstruct(encoded[:2])
	if err != nil {
		t.Fatalf("core.Reconstruct() err = %v, want nil", err)
	}
	if string(got) != string(secret) {
		t.Errorf("reconstructed %q, want %q", got, secret)
	}
}
