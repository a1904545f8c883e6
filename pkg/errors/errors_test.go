package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDuplicateID, "node(id: %s) duplicated", "a")

	if err.Code != ErrCodeDuplicateID {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicateID)
	}

	expected := "node(id: a) duplicated"
	if err.Message != expected {
		t.Errorf("Message = %v, want %v", err.Message, expected)
	}
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "scene out of sync")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if got := err.Error(); got != "scene out of sync: underlying error" {
		t.Errorf("Error() = %q", got)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeSelfLoop, "test"),
			code:     ErrCodeSelfLoop,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeSelfLoop, "test"),
			code:     ErrCodeDuplicateLink,
			expected: false,
		},
		{
			name:     "wrapped by fmt.Errorf",
			err:      fmt.Errorf("add link: %w", New(ErrCodeUnresolvedEndpoint, "inner")),
			code:     ErrCodeUnresolvedEndpoint,
			expected: true,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeInternal, New(ErrCodeDuplicateID, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeNotRendered, "test"),
			expected: ErrCodeNotRendered,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "wrapped Error drops prefix",
			err:      fmt.Errorf("add node: %w", New(ErrCodeDuplicateID, "node(id: 1) duplicated")),
			expected: "node(id: 1) duplicated",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
