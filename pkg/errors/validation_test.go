package errors

import (
	"strings"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	allowed := []string{"json", "svg", "dot"}
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "json", false},
		{"valid upper", "SVG", false},
		{"empty", "", true},
		{"unknown", "pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.input, allowed...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "seed.json", false},
		{"valid absolute", "/tmp/seed.yaml", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type canvas struct {
		Width  float64 `validate:"gt=0"`
		Height float64 `validate:"gt=0"`
		Decay  float64 `validate:"gte=0,lt=1"`
	}

	tests := []struct {
		name    string
		in      canvas
		wantErr string
	}{
		{"valid", canvas{Width: 600, Height: 600}, ""},
		{"zero width", canvas{Height: 600}, "width must be greater than 0"},
		{"two failures", canvas{Width: -1, Height: 10, Decay: 1}, "width must be greater than 0; decay must be less than 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !Is(err, ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}
