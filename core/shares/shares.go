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

// Package shares encodes and decodes share records for transport. Two
// textual forms are accepted on input: the legacy hex form ("xx-hhhh...")
// and the padded Base62 form; the padded form is the canonical output. A
// single batch of input lines may mix formats, and every line is classified
// independently.
package shares

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/airgap-tools/osst/constants"
	"github.com/airgap-tools/osst/core/internal/secret_sharing/sensitive"
	"github.com/google/tink/go/subtle/random"
)

// Record is one share as carried on the wire: the x-coordinate and one byte
// of polynomial evaluation per secret byte. Records carry nothing else; in
// particular no threshold and no integrity tag beyond structural checks.
type Record struct {
	X byte
	Y []byte
}

// Binary layout of the padded form: x, the secret length, the share bytes,
// random padding, and a trailing pad-length byte. The trailer goes after the
// padding so a decoder can find it without knowing the pad length.
const (
	recordHeaderLen  = 2
	recordTrailerLen = 1
)

var (
	legacyPattern = regexp.MustCompile(`^[0-9a-f]{2}-(?:[0-9a-f]{2}){1,64}$`)
	labelPattern  = regexp.MustCompile(`^Share\s+[0-9]+:\s*`)
)

// PreprocessLine trims ASCII whitespace and strips an optional leading
// "Share <digits>:" label. It reports false for blank lines.
func PreprocessLine(line string) (string, bool) {
	line = strings.Trim(line, " \t\r\n\v\f")
	line = labelPattern.ReplaceAllString(line, "")
	if line == "" {
		return "", false
	}
	return line, true
}

// Encode serializes r in the padded Base62 form. The record is padded with
// random bytes so that the encoding is at least
// constants.MinEncodedShareChars characters for every possible content.
func Encode(r Record) (string, error) {
	if err := validateRecord(r); err != nil {
		return "", err
	}
	padLen := paddingFor(len(r.Y))
	buf := make([]byte, 0, recordHeaderLen+len(r.Y)+padLen+recordTrailerLen)
	buf = append(buf, r.X, byte(len(r.Y)))
	buf = append(buf, r.Y...)
	buf = append(buf, random.GetRandomBytes(uint32(padLen))...)
	buf = append(buf, byte(padLen))
	sensitive.Register(buf)
	defer sensitive.Release(buf)
	return encodeBase62(buf), nil
}

// EncodeLegacy serializes r in the legacy hex form. New shares are always
// emitted in the padded form; the hex form is kept for fixtures and for
// round trips against shares written by older releases.
func EncodeLegacy(r Record) (string, error) {
	if err := validateRecord(r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%02x-%s", r.X, hex.EncodeToString(r.Y)), nil
}

func validateRecord(r Record) error {
	if r.X == 0 {
		return fmt.Errorf("share index must not be zero")
	}
	if len(r.Y) < 1 || len(r.Y) > constants.MaxSecretBytes {
		return fmt.Errorf("share value is %d bytes, want 1 to %d", len(r.Y), constants.MaxSecretBytes)
	}
	return nil
}

// paddingFor returns the smallest pad length whose record always encodes to
// at least the minimum share length. The record's leading byte is a non-zero
// share index, so the shortest possible encoding of an n-byte record is the
// Base62 digit count of 2^(8(n-1)); the loop grows the pad until that floor
// clears the minimum.
func paddingFor(secretLen int) int {
	pad := 0
	for minEncodedLen(recordHeaderLen+secretLen+pad+recordTrailerLen) < constants.MinEncodedShareChars {
		pad++
	}
	return pad
}

// minEncodedLen returns the encoded length of the smallest recordLen-byte
// buffer whose leading byte is non-zero.
func minEncodedLen(recordLen int) int {
	lowest := make([]byte, recordLen)
	lowest[0] = 1
	return len(encodeBase62(lowest))
}

// Decode parses a single preprocessed share line in whichever accepted
// format it matches.
func Decode(line string) (Record, error) {
	if legacyPattern.MatchString(line) {
		return decodeLegacy(line)
	}
	return decodePadded(line)
}

func decodeLegacy(line string) (Record, error) {
	raw, err := hex.DecodeString(line[:2] + line[3:])
	if err != nil {
		return Record{}, fmt.Errorf("invalid hex share: %v", err)
	}
	if raw[0] == 0 {
		return Record{}, fmt.Errorf("share index must not be zero")
	}
	return Record{X: raw[0], Y: raw[1:]}, nil
}

func decodePadded(line string) (Record, error) {
	if len(line) < constants.MinEncodedShareChars {
		return Record{}, fmt.Errorf("encoded share is %d characters, want at least %d", len(line), constants.MinEncodedShareChars)
	}
	buf, err := decodeBase62(line)
	if err != nil {
		return Record{}, err
	}
	defer sensitive.Zero(buf)

	if len(buf) < recordHeaderLen+1+recordTrailerLen {
		return Record{}, fmt.Errorf("decoded record is only %d bytes", len(buf))
	}
	padLen := int(buf[len(buf)-1])
	secretLen := int(buf[1])
	if secretLen < 1 || secretLen > constants.MaxSecretBytes {
		return Record{}, fmt.Errorf("declared secret length %d is outside 1 to %d", secretLen, constants.MaxSecretBytes)
	}
	if recordHeaderLen+secretLen+padLen+recordTrailerLen != len(buf) {
		return Record{}, fmt.Errorf("declared lengths do not match the decoded record")
	}
	if buf[0] == 0 {
		return Record{}, fmt.Errorf("share index must not be zero")
	}
	y := make([]byte, secretLen)
	copy(y, buf[recordHeaderLen:recordHeaderLen+secretLen])
	return Record{X: buf[0], Y: y}, nil
}
