package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors: the caller supplied something we cannot analyze.
	ErrUnsupportedFormat = errors.New("unsupported or corrupt tabular input")
	ErrEmptySheet        = errors.New("sheet has no data rows")
	ErrInsufficientData  = errors.New("insufficient data for analysis")

	// Determinism errors
	ErrFingerprintMismatch = errors.New("result fingerprint mismatch")

	// Narrative errors
	ErrNarrativeFailed = errors.New("narrative generation failed")
)

// Error constructors with context
func NewEmptySheetError(sheet string) error {
	return fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
}

func NewUnsupportedFormatError(filename string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, filename, cause)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

func NewInsufficientDataError(sheet string) error {
	return fmt.Errorf("%w: sheet %q has no numeric or categorical columns", ErrInsufficientData, sheet)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptySheet) ||
		errors.Is(err, ErrInsufficientData)
}

func IsNarrativeError(err error) bool {
	return errors.Is(err, ErrNarrativeFailed)
}
