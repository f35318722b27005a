package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeTokenNotFound, "token %s", "abc"),
			want: "TOKEN_NOT_FOUND: token abc",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeInternal, stderrors.New("boom"), "save failed"),
			want: "INTERNAL_ERROR: save failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeParentNotFound, "no parent")

	if !Is(err, ErrCodeParentNotFound) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeTokenNotFound) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeParentNotFound) {
		t.Error("Is should not match a non-structured error")
	}

	// Matching through wrapping layers.
	wrapped := fmt.Errorf("context: %w", err)
	if !Is(wrapped, ErrCodeParentNotFound) {
		t.Error("Is should unwrap to find the code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidValue, "x")); got != ErrCodeInvalidValue {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInvalidValue)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "node missing")); got != "node missing" {
		t.Errorf("UserMessage = %q, want %q", got, "node missing")
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage = %q, want %q", got, "plain")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("cause")
	err := Wrap(ErrCodeInternal, cause, "wrapped")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}
