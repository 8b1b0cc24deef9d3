package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	base := stderrors.New("disk full")

	wrapped := Wrap(base, "saving report")
	if GetCode(wrapped) != CodeInternalError {
		t.Errorf("code = %q, want %q", GetCode(wrapped), CodeInternalError)
	}
	if !stderrors.Is(wrapped, base) {
		t.Error("wrapped error lost its cause")
	}
	if !strings.Contains(wrapped.Error(), "saving report") {
		t.Errorf("message = %q, want context prefix", wrapped.Error())
	}

	// Wrapping an AppError keeps its code
	coded := WithCode(CodeInvalidInput, base)
	rewrapped := Wrap(coded, "outer context")
	if GetCode(rewrapped) != CodeInvalidInput {
		t.Errorf("rewrapped code = %q, want %q", GetCode(rewrapped), CodeInvalidInput)
	}

	if Wrap(nil, "anything") != nil {
		t.Error("Wrap(nil) must return nil")
	}
}

func TestWrapf(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrapf(base, "sheet %q row %d", "Sales", 7)
	if !strings.Contains(err.Error(), `sheet "Sales" row 7`) {
		t.Errorf("message = %q", err.Error())
	}
	if Wrapf(nil, "x") != nil {
		t.Error("Wrapf(nil) must return nil")
	}
}

func TestWithCode(t *testing.T) {
	base := stderrors.New("no rows")

	err := WithCode(CodeEmptySheet, base)
	if GetCode(err) != CodeEmptySheet {
		t.Errorf("code = %q, want %q", GetCode(err), CodeEmptySheet)
	}
	if !stderrors.Is(err, base) {
		t.Error("WithCode lost the cause")
	}

	// Recoding an AppError replaces the code, not the message
	recoded := WithCode(CodeInsufficientData, err)
	if GetCode(recoded) != CodeInsufficientData {
		t.Errorf("recoded = %q, want %q", GetCode(recoded), CodeInsufficientData)
	}
	if recoded.Error() != err.Error() {
		t.Errorf("message changed: %q vs %q", recoded.Error(), err.Error())
	}

	if WithCode(CodeEmptySheet, nil) != nil {
		t.Error("WithCode(nil) must return nil")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "UNKNOWN" {
		t.Errorf("plain error code = %q, want UNKNOWN", got)
	}
	if got := GetCode(ConfigInvalid("bad workers")); got != CodeConfigInvalid {
		t.Errorf("code = %q, want %q", got, CodeConfigInvalid)
	}
	if got := GetCode(InvalidInput("no such file")); got != CodeInvalidInput {
		t.Errorf("code = %q, want %q", got, CodeInvalidInput)
	}
}

func TestExternalServiceError(t *testing.T) {
	cause := stderrors.New("status 429")
	err := ExternalServiceError("narrative", cause)
	if GetCode(err) != CodeExternalService {
		t.Errorf("code = %q, want %q", GetCode(err), CodeExternalService)
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause not reachable through errors.Is")
	}
	if !strings.Contains(err.Error(), "narrative service error") {
		t.Errorf("message = %q", err.Error())
	}
}
