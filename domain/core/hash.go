package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint is the hash of a serialized analysis result. Two invocations
// over identical input bytes must produce equal fingerprints.
type Fingerprint Hash

// NewFingerprint hashes serialized result data
func NewFingerprint(data []byte) Fingerprint { return Fingerprint(NewHash(data)) }

// String returns the string representation
func (f Fingerprint) String() string { return Hash(f).String() }

// Short returns a truncated form for log lines
func (f Fingerprint) Short() string {
	s := string(f)
	if len(s) > 12 {
		return s[:12]
	}
	return s
}

// Equals checks if two fingerprints are equal
func (f Fingerprint) Equals(other Fingerprint) bool { return f == other }
