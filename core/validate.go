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

package core

import (
	"fmt"

	"github.com/airgap-tools/osst/constants"
)

// ValidateParameters checks a prospective (numShares, threshold, secretLen)
// triple without splitting anything. Share-count problems surface as
// ErrInvalidParameters, secret-length problems as ErrInvalidSecret.
func ValidateParameters(numShares, threshold, secretLen int) error {
	if numShares < constants.MinShares {
		return fmt.Errorf("%w: total shares must be at least %d", ErrInvalidParameters, constants.MinShares)
	}
	if numShares > constants.MaxShares {
		return fmt.Errorf("%w: total shares cannot exceed %d", ErrInvalidParameters, constants.MaxShares)
	}
	if threshold < constants.MinThreshold {
		return fmt.Errorf("%w: threshold must be at least %d", ErrInvalidParameters, constants.MinThreshold)
	}
	if threshold > numShares {
		return fmt.Errorf("%w: threshold cannot exceed total shares", ErrInvalidParameters)
	}
	return validateSecretLen(secretLen)
}

func validateSecretLen(secretLen int) error {
	if secretLen < 1 {
		return fmt.Errorf("%w: secret is empty", ErrInvalidSecret)
	}
	if secretLen > constants.MaxSecretBytes {
		return fmt.Errorf("%w: secret is %d bytes, the ceiling is %d", ErrInvalidSecret, secretLen, constants.MaxSecretBytes)
	}
	return nil
}

// validateSecretBytes enforces the byte-level envelope: no NUL bytes, no
// ASCII control characters other than tab, newline and carriage return. The
// rules are byte-wise, so arbitrary UTF-8 passes untouched.
func validateSecretBytes(secret []byte) error {
	if err := validateSecretLen(len(secret)); err != nil {
		return err
	}
	for _, b := range secret {
		switch {
		case b == 0x00:
			return fmt.Errorf("%w: secret contains a NUL byte", ErrInvalidSecret)
		case b == '\t' || b == '\n' || b == '\r':
		case b < 0x20 || b == 0x7f:
			return fmt.Errorf("%w: secret contains a control character", ErrInvalidSecret)
		}
	}
	return nil
}
