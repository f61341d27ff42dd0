package domain

import "encoding/hex"

// FingerprintSize is the length of a fingerprint in bytes.
const FingerprintSize = 16

// Fingerprint is the content-derived cache key of an operation call. Two
// calls with equal fingerprints are defined to produce byte-identical
// results; that contract is what makes fingerprints safe cache keys and
// single-flight keys.
type Fingerprint [FingerprintSize]byte

// String returns the fingerprint as lowercase hex.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// IsZero reports whether the fingerprint is the zero value.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}
