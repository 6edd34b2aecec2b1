// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/zeebo/blake3"
)

// fingerprintKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation keeps scenario fingerprints distinct from any other hash
// of the same bytes. The value is the ASCII domain name, zero-padded;
// changing it invalidates every stored fingerprint.
var fingerprintKey = [32]byte{
	'r', 'u', 'n', 'b', 'o', 'o', 'k', '.', 's', 'c', 'e', 'n', 'a', 'r', 'i', 'o',
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Fingerprint returns the hex-encoded BLAKE3 keyed hash of the raw
// scenario definition bytes. The runner stores it alongside the
// progress record and warns when a resumed record was written against
// a different version of the definition (steps may have been added,
// removed, or renamed since).
//
// The hash covers the bytes as authored, not a normalized form:
// comment-only edits change the fingerprint. That is intentional — a
// cautious warning on a cosmetic edit is cheaper than silence on a
// semantic one.
func Fingerprint(data []byte) string {
	// NewKeyed fails only on a key that is not 32 bytes, which the
	// fixed-size array rules out.
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("scenario: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// FingerprintFile reads path and fingerprints its content.
func FingerprintFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s for fingerprinting: %w", path, err)
	}
	return Fingerprint(data), nil
}
