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

// Package secrets contains the types exchanged between the split and
// reconstruct paths. A share is self-describing only through (X, Y); in
// particular it does not carry the threshold, so reconstruction from too few
// shares yields a well-defined but wrong secret.
package secrets

// Share is one share of a split secret. Y holds one polynomial evaluation
// per secret byte, all taken at the same non-zero x-coordinate.
type Share struct {
	X byte
	Y []byte
}

// Params describes a threshold-of-total sharing scheme.
type Params struct {
	NumShares int
	Threshold int
}
