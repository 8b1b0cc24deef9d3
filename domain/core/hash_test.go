package core

import (
	"testing"
)

// TestNewFingerprintDeterministic verifies identical bytes hash identically
func TestNewFingerprintDeterministic(t *testing.T) {
	data := []byte("## Deterministic Quantitative Analysis\n")

	a := NewFingerprint(data)
	b := NewFingerprint(data)
	if !a.Equals(b) {
		t.Errorf("Fingerprints differ for identical input: %s vs %s", a, b)
	}

	c := NewFingerprint([]byte("different"))
	if a.Equals(c) {
		t.Error("Different input produced equal fingerprints")
	}
}

func TestFingerprintShort(t *testing.T) {
	f := NewFingerprint([]byte("x"))
	if len(f.Short()) != 12 {
		t.Errorf("Short() length = %d, want 12", len(f.Short()))
	}
	if Fingerprint("abc").Short() != "abc" {
		t.Error("Short() of a short fingerprint should be unchanged")
	}
}

func TestHashIsEmpty(t *testing.T) {
	if !Hash("").IsEmpty() {
		t.Error("Expected empty hash to be empty")
	}
	if NewHash([]byte("data")).IsEmpty() {
		t.Error("Expected computed hash to not be empty")
	}
}
