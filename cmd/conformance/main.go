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

// Binary to validate split/reconstruct conformance end to end through the
// public core surface, including cross-format acceptance. Run it on a new
// machine before trusting it with a real secret.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"flag"
	"github.com/airgap-tools/osst/constants"
	"github.com/airgap-tools/osst/core"
	"github.com/airgap-tools/osst/core/shares"
	"github.com/alecthomas/colour"
)

type conformanceTest struct {
	testName string
	run      func() error
}

// toLegacyLines re-encodes padded shares in the legacy hex form, simulating
// shares written by an older release.
func toLegacyLines(encoded []string) ([]string, error) {
	out := make([]string, len(encoded))
	for i, line := range encoded {
		rec, err := shares.Decode(line)
		if err != nil {
			return nil, err
		}
		legacy, err := shares.EncodeLegacy(rec)
		if err != nil {
			return nil, err
		}
		out[i] = legacy
	}
	return out, nil
}

func runRoundTrip() error {
	secret := []byte("TestSecret123")
	encoded, err := core.Split(secret, 5, 3)
	if err != nil {
		return err
	}
	if len(encoded) != 5 {
		return fmt.Errorf("got %d shares, want 5", len(encoded))
	}
	for i, share := range encoded {
		if len(share) < constants.MinEncodedShareChars {
			return fmt.Errorf("share %d is %d characters, want at least %d", i+1, len(share), constants.MinEncodedShareChars)
		}
	}
	got, err := core.Reconstruct([]string{encoded[0], encoded[2], encoded[4]})
	if err != nil {
		return err
	}
	if !bytes.Equal(got, secret) {
		return fmt.Errorf("reconstructed secret does not match")
	}
	return nil
}

func runLegacyAcceptance() error {
	secret := []byte("MySecretSeedPhrase123")
	encoded, err := core.Split(secret, 3, 2)
	if err != nil {
		return err
	}
	legacy, err := toLegacyLines(encoded)
	if err != nil {
		return err
	}
	got, err := core.Reconstruct(legacy[:2])
	if err != nil {
		return err
	}
	if !bytes.Equal(got, secret) {
		return fmt.Errorf("reconstructed secret does not match")
	}
	return nil
}

func runMixedFormats() error {
	secret := []byte("h\xc3\xa9llo\xf0\x9f\x94\x90")
	encoded, err := core.Split(secret, 4, 2)
	if err != nil {
		return err
	}
	legacy, err := toLegacyLines(encoded)
	if err != nil {
		return err
	}
	got, err := core.Reconstruct([]string{"Share 1: " + encoded[0], legacy[3]})
	if err != nil {
		return err
	}
	if !bytes.Equal(got, secret) {
		return fmt.Errorf("reconstructed secret does not match")
	}
	return nil
}

func runSubThreshold() error {
	secret := []byte("ab")
	encoded, err := core.Split(secret, 2, 2)
	if err != nil {
		return err
	}
	// A single share never reconstructs on its own.
	if _, err := core.Reconstruct(encoded[:1]); !errors.Is(err, core.ErrInsufficientShares) {
		return fmt.Errorf("single share: err = %v, want ErrInsufficientShares", err)
	}
	got, err := core.Reconstruct(encoded)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, secret) {
		return fmt.Errorf("reconstructed secret does not match")
	}
	return nil
}

func runMalformedRejection() error {
	if _, err := core.Reconstruct([]string{"zz-xxxx", "01-6162"}); !errors.Is(err, core.ErrMalformedShare) {
		return fmt.Errorf("err = %v, want ErrMalformedShare", err)
	}
	short := strings.Repeat("A", constants.MinEncodedShareChars-1)
	if _, err := core.Reconstruct([]string{short, short}); !errors.Is(err, core.ErrMalformedShare) {
		return fmt.Errorf("short line: err = %v, want ErrMalformedShare", err)
	}
	return nil
}

func runInconsistentRejection() error {
	encoded, err := core.Split([]byte("conformance"), 3, 2)
	if err != nil {
		return err
	}
	rec, err := shares.Decode(encoded[0])
	if err != nil {
		return err
	}
	rec.Y[0] ^= 0xff
	tampered, err := shares.EncodeLegacy(rec)
	if err != nil {
		return err
	}
	if _, err := core.Reconstruct([]string{encoded[0], encoded[1], tampered}); !errors.Is(err, core.ErrInconsistentShares) {
		return fmt.Errorf("err = %v, want ErrInconsistentShares", err)
	}
	return nil
}

func main() {
	flag.Parse()

	if err := core.Init(); err != nil {
		colour.Printf("^1core init failed: %v^R\n", err)
		os.Exit(1)
	}
	defer core.Teardown()

	fmt.Println("Running split/reconstruct conformance tests...")

	testCases := []conformanceTest{
		{testName: "Round trip with a 3-of-5 share subset", run: runRoundTrip},
		{testName: "Legacy hex shares are accepted", run: runLegacyAcceptance},
		{testName: "Mixed formats and labels reconstruct", run: runMixedFormats},
		{testName: "Threshold lower bound behaves", run: runSubThreshold},
		{testName: "Malformed shares are rejected", run: runMalformedRejection},
		{testName: "Mismatched duplicate indices are rejected", run: runInconsistentRejection},
	}

	failed := 0
	for _, testCase := range testCases {
		if err := testCase.run(); err != nil {
			failed++
			colour.Printf("^1 - %v: %v^R\n", testCase.testName, err)
		} else {
			colour.Printf("^2 - %v^R\n", testCase.testName)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
