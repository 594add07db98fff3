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

// Package core implements the cryptographic core of the offline secret
// sharing tool: Shamir splitting over GF(2^8), dual-format share
// serialization, input validation and sensitive-memory hygiene.
//
// Hosts (the CLI, the conformance runner, tests) consume the core through
// Init, Split, Reconstruct and Teardown. The core performs no I/O, reads no
// environment and persists nothing; separate goroutines may call it
// concurrently as long as each call works on disjoint buffers, since the
// randomness gate and the sensitive-buffer registry are the only shared
// state and both are serialized internally.
package core

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/airgap-tools/osst/constants"
	"github.com/airgap-tools/osst/core/internal/secret_sharing/gf256"
	"github.com/airgap-tools/osst/core/internal/secret_sharing/secrets"
	"github.com/airgap-tools/osst/core/internal/secret_sharing/securerandom"
	"github.com/airgap-tools/osst/core/internal/secret_sharing/sensitive"
	"github.com/airgap-tools/osst/core/internal/secret_sharing/shamir"
	"github.com/airgap-tools/osst/core/shares"
	glog "github.com/golang/glog"
)

// Init verifies the field tables, binds the randomness source to the
// operating system CSPRNG and runs the randomness self-check. Hosts call it
// once before the first operation. A RandomnessUnavailable failure is fatal;
// hosts should exit rather than retry.
func Init() error {
	if err := gf256.SelfCheck(); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	securerandom.Bind()
	if err := securerandom.Verify(); err != nil {
		return fmt.Errorf("%w: self-check failed", ErrRandomnessUnavailable)
	}
	glog.Infof("core initialized: field tables verified, randomness self-check passed")
	return nil
}

// Teardown zeroizes every buffer still tracked by the sensitive registry and
// requests a collector pass. Buffers still registered here indicate a missed
// release upstream; the count is logged, never the contents.
func Teardown() {
	if n := sensitive.Registered(); n > 0 {
		glog.Warningf("teardown found %d sensitive buffers still registered", n)
	}
	sensitive.WipeAll()
}

// SetCollectorHook replaces the collector pass requested after registry
// sweeps. A nil hook disables the pass.
func SetCollectorHook(f func()) {
	sensitive.SetCollector(f)
}

// Split splits secret into numShares encoded shares, any threshold of which
// reconstruct it. Shares come back in increasing x order (1..numShares) in
// the padded Base62 form. The randomness self-check runs before every split;
// all intermediate buffers holding secret material are overwritten before
// Split returns.
func Split(secret []byte, numShares, threshold int) ([]string, error) {
	if err := ValidateParameters(numShares, threshold, len(secret)); err != nil {
		return nil, err
	}
	if err := validateSecretBytes(secret); err != nil {
		return nil, err
	}
	if err := securerandom.Verify(); err != nil {
		return nil, fmt.Errorf("%w: self-check failed", ErrRandomnessUnavailable)
	}

	records, err := shamir.Split(secret, secrets.Params{NumShares: numShares, Threshold: threshold})
	if err != nil {
		if errors.Is(err, securerandom.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	for _, r := range records {
		sensitive.Register(r.Y)
	}
	defer func() {
		for _, r := range records {
			sensitive.Release(r.Y)
		}
	}()

	encoded := make([]string, len(records))
	for i, r := range records {
		s, err := shares.Encode(shares.Record{X: r.X, Y: r.Y})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		encoded[i] = s
	}
	return encoded, nil
}

// Reconstruct decodes the given share lines (either accepted format, mixed
// freely), discards exact duplicates and interpolates the secret at x = 0.
// The decoded share values are overwritten before Reconstruct returns; only
// the reconstructed secret is handed out.
//
// Reconstruct does not know the split's threshold. Fewer than threshold
// well-formed shares produce a well-defined byte string that is not the
// original secret; only fewer than two decodable distinct shares is an
// error.
func Reconstruct(lines []string) ([]byte, error) {
	records, err := decodeShareLines(lines)
	if err != nil {
		return nil, err
	}
	defer releaseShares(records)

	secret, err := shamir.Reconstruct(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return secret, nil
}

// ValidateShares structurally validates a batch of share lines without
// reconstructing anything: every line decodes, share indices are distinct
// after dropping exact duplicates, lengths agree, and at least two shares
// remain.
func ValidateShares(lines []string) error {
	records, err := decodeShareLines(lines)
	if err != nil {
		return err
	}
	releaseShares(records)
	return nil
}

// decodeShareLines parses, deduplicates and cross-checks share lines. The
// returned share values are registered sensitive; the caller releases them.
func decodeShareLines(lines []string) ([]secrets.Share, error) {
	var records []secrets.Share
	fail := func(err error) ([]secrets.Share, error) {
		releaseShares(records)
		return nil, err
	}

	lineNo := 0
	for _, raw := range lines {
		token, ok := shares.PreprocessLine(raw)
		if !ok {
			continue
		}
		lineNo++
		rec, err := shares.Decode(token)
		if err != nil {
			return fail(fmt.Errorf("%w: share %d: %v", ErrMalformedShare, lineNo, err))
		}
		sensitive.Register(rec.Y)

		duplicate := false
		for _, prev := range records {
			if prev.X != rec.X {
				continue
			}
			if bytes.Equal(prev.Y, rec.Y) {
				duplicate = true
				break
			}
			sensitive.Release(rec.Y)
			return fail(fmt.Errorf("%w: two shares with index %d disagree", ErrInconsistentShares, rec.X))
		}
		if duplicate {
			sensitive.Release(rec.Y)
			continue
		}
		records = append(records, secrets.Share{X: rec.X, Y: rec.Y})
	}

	for _, r := range records {
		if len(r.Y) != len(records[0].Y) {
			return fail(fmt.Errorf("%w: shares decode to different lengths", ErrInconsistentShareLengths))
		}
	}
	if len(records) < 2 {
		return fail(fmt.Errorf("%w: need at least 2 distinct decodable shares, got %d", ErrInsufficientShares, len(records)))
	}
	return records, nil
}

func releaseShares(records []secrets.Share) {
	for _, r := range records {
		sensitive.Release(r.Y)
	}
}

// GenerateSecret returns a random secret of the given length over the
// generation charset. The result is suitable as input to Split.
func GenerateSecret(length int) (string, error) {
	if length < 1 || length > constants.MaxSecretBytes {
		return "", fmt.Errorf("%w: generated secret length must be 1 to %d", ErrInvalidParameters, constants.MaxSecretBytes)
	}
	if err := securerandom.Verify(); err != nil {
		return "", fmt.Errorf("%w: self-check failed", ErrRandomnessUnavailable)
	}

	charset := constants.GeneratedSecretCharset
	// Rejection sampling below the largest multiple of the charset size, so
	// every character is equally likely.
	limit := byte(256 / len(charset) * len(charset))

	out := make([]byte, 0, length)
	for len(out) < length {
		batch, err := securerandom.Bytes(length)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
		}
		for _, b := range batch {
			if b >= limit || len(out) == length {
				continue
			}
			out = append(out, charset[int(b)%len(charset)])
		}
		sensitive.Zero(batch)
	}
	s := string(out)
	sensitive.Zero(out)
	return s, nil
}
