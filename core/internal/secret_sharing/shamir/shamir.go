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

// Package shamir encapsulates the logic needed to perform t-of-n [Shamir
// Secret Sharing] (SSS) on byte-string secrets over GF(2^8). SSS is based on
// the Lagrange interpolation theorem, which states that `k` points are
// enough to uniquely determine a polynomial of degree less than or equal to
// `k - 1`.
//
// Each secret byte gets its own random polynomial with the byte as the
// constant term; a share collects one evaluation per polynomial at a fixed
// non-zero x. Fewer than t shares reveal nothing about the secret beyond its
// length.
//
// This scheme is secure under the following assumptions:
//   - The dealer is trusted with the secret and with generating the shares.
//   - The adversary is passive: it may observe up to t - 1 shares but does
//     not get to contribute a chosen share at reconstruction time.
//
// [Shamir Secret Sharing]: https://web.mit.edu/6.857/OldStuff/Fall03/ref/Shamir-HowToShareAsecrets.pdf
package shamir

import (
	"fmt"
	"sort"

	"github.com/airgap-tools/osst/core/internal/secret_sharing/gf256"
	"github.com/airgap-tools/osst/core/internal/secret_sharing/secrets"
	"github.com/airgap-tools/osst/core/internal/secret_sharing/securerandom"
	"github.com/airgap-tools/osst/core/internal/secret_sharing/sensitive"
)

// MaxShares is the number of distinct non-zero x-coordinates in GF(2^8), the
// most shares one split can produce.
const MaxShares = 255

// Split splits secret into params.NumShares shares, any params.Threshold of
// which reconstruct it. Shares are returned in increasing x order with
// x-coordinates fixed at 1..NumShares, so no metadata beyond the x byte is
// needed to reconstruct.
//
// The polynomial coefficients are drawn from the securerandom gate and are
// overwritten before Split returns.
func Split(secret []byte, params secrets.Params) ([]secrets.Share, error) {
	if err := validateSplitInput(secret, params); err != nil {
		return nil, err
	}
	n, k := params.NumShares, params.Threshold

	shares := make([]secrets.Share, n)
	for i := range shares {
		shares[i].X = byte(i + 1)
		shares[i].Y = make([]byte, len(secret))
	}

	// One random coefficient per secret byte and non-constant degree, drawn
	// in a single batch. Nothing in the batch derives from the secret.
	coefficients, err := securerandom.Bytes(len(secret) * (k - 1))
	if err != nil {
		return nil, err
	}
	sensitive.Register(coefficients)
	defer sensitive.Release(coefficients)

	for i := range secret {
		row := coefficients[i*(k-1) : (i+1)*(k-1)]
		for j := range shares {
			shares[j].Y[i] = evaluate(secret[i], row, shares[j].X)
		}
	}
	return shares, nil
}

// evaluate computes constant + row[0]*x + ... + row[k-2]*x^(k-1) by Horner's
// method.
func evaluate(constant byte, row []byte, x byte) byte {
	var acc byte
	for i := len(row) - 1; i >= 0; i-- {
		acc = gf256.Add(gf256.Mul(acc, x), row[i])
	}
	return gf256.Add(gf256.Mul(acc, x), constant)
}

// Reconstruct interpolates the shares' polynomials at x = 0 and returns the
// recovered secret. Shares may arrive in any order; they are sorted by x
// first so the traversal order is observable and testable.
//
// Reconstruct does not know the original threshold. Given fewer shares than
// the threshold the output is well defined but is not the secret; detecting
// that condition is the caller's operational concern.
func Reconstruct(shares []secrets.Share) ([]byte, error) {
	if err := validateReconstructInput(shares); err != nil {
		return nil, err
	}
	sorted := make([]secrets.Share, len(shares))
	copy(sorted, shares)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	lambda, err := lagrangeCoefficients(sorted)
	if err != nil {
		return nil, err
	}
	secret := make([]byte, len(sorted[0].Y))
	for i := range secret {
		var sum byte
		for j := range sorted {
			sum = gf256.Add(sum, gf256.Mul(sorted[j].Y[i], lambda[j]))
		}
		secret[i] = sum
	}
	return secret, nil
}

// lagrangeCoefficients precomputes λ_j(0) = Π_{k≠j} x_k * (x_k - x_j)^-1 for
// every share. The coefficients depend only on the x values, so they are
// computed once and reused for every byte position.
func lagrangeCoefficients(shares []secrets.Share) ([]byte, error) {
	out := make([]byte, len(shares))
	for j := range shares {
		out[j] = 1
		xj := shares[j].X
		for k := range shares {
			if k == j {
				continue
			}
			xk := shares[k].X
			inv, err := gf256.Inv(gf256.Sub(xk, xj))
			if err != nil {
				return nil, fmt.Errorf("shares %d and %d are the same point", j, k)
			}
			out[j] = gf256.Mul(out[j], gf256.Mul(xk, inv))
		}
	}
	return out, nil
}

func validateSplitInput(secret []byte, params secrets.Params) error {
	if len(secret) == 0 {
		return fmt.Errorf("secret must not be empty")
	}
	if params.NumShares < 2 {
		return fmt.Errorf("numShares must be larger than 1")
	}
	if params.NumShares > MaxShares {
		return fmt.Errorf("numShares must be at most %d", MaxShares)
	}
	if params.Threshold < 2 {
		return fmt.Errorf("threshold must be larger than 1")
	}
	if params.Threshold > params.NumShares {
		return fmt.Errorf("threshold should be smaller than or equal to numShares")
	}
	return nil
}

func validateReconstructInput(shares []secrets.Share) error {
	if len(shares) < 2 {
		return fmt.Errorf("must have at least 2 shares")
	}
	seen := make(map[byte]bool, len(shares))
	for _, s := range shares {
		if s.X == 0 {
			return fmt.Errorf("invalid X value")
		}
		if len(s.Y) == 0 || len(s.Y) != len(shares[0].Y) {
			return fmt.Errorf("shares must all have the same non-zero length")
		}
		if seen[s.X] {
			return fmt.Errorf("all shares should be unique points")
		}
		seen[s.X] = true
	}
	return nil
}
