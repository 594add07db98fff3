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

// Package constants contains policy limits shared between the core and the
// command line tools.
package constants

const (
	// MaxSecretBytes is the most secret material a single split accepts.
	// This is a policy ceiling of the tool, not a limit of the algorithm.
	MaxSecretBytes = 64

	// MinShares and MaxShares bound the number of shares in one split. The
	// upper bound is the number of distinct non-zero x-coordinates in
	// GF(2^8).
	MinShares = 2
	MaxShares = 255

	// MinThreshold is the smallest reconstruction threshold. A threshold of
	// one would make every share the secret.
	MinThreshold = 2

	// MinEncodedShareChars is the minimum length of an encoded share in the
	// padded Base62 form. Padding every share to a uniform floor hides the
	// secret's length from casual observation of a single share.
	MinEncodedShareChars = 250

	// GeneratedSecretCharset is the alphabet used for generated secrets.
	GeneratedSecretCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
)
