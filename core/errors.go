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

import "errors"

// Categorical error kinds surfaced by the core. Hosts match them with
// errors.Is. Wrapped detail names the offending parameter or share index and
// never contains secret bytes.
var (
	// ErrInvalidParameters reports an (N, K) pair outside the allowed
	// ranges.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrInvalidSecret reports a secret that is empty, over the length
	// ceiling or contains disallowed control characters.
	ErrInvalidSecret = errors.New("invalid secret")

	// ErrRandomnessUnavailable reports a missing or self-check-failing OS
	// CSPRNG. It is fatal: hosts should exit rather than retry.
	ErrRandomnessUnavailable = errors.New("secure randomness unavailable")

	// ErrMalformedShare reports a share line that decodes in neither
	// accepted format.
	ErrMalformedShare = errors.New("malformed share")

	// ErrInconsistentShares reports two shares with the same index but
	// different values.
	ErrInconsistentShares = errors.New("inconsistent shares")

	// ErrInconsistentShareLengths reports shares that decode to different
	// lengths.
	ErrInconsistentShareLengths = errors.New("inconsistent share lengths")

	// ErrInsufficientShares reports fewer than two distinct decodable
	// shares.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrInternal reports an invariant violation inside the core. These are
	// bugs, not caller mistakes.
	ErrInternal = errors.New("internal invariant violation")
)
