package utils

import (
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "error with field",
			err:      ValidationError{Field: "suffix", Message: "cannot be empty"},
			expected: "validation error for field 'suffix': cannot be empty",
		},
		{
			name:     "error without field",
			err:      ValidationError{Message: "invalid format"},
			expected: "validation error: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsCppIdentifier(t *testing.T) {
	validator := IsCppIdentifier("suffix")

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"Bridge", false},
		{"_Impl2", false},
		{"", true},
		{"2Bridge", true},
		{"My-Bridge", true},
		{"Bridge ", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsCppIdentifier(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestIsOneOf(t *testing.T) {
	validator := IsOneOf("naming", "suffix", "strip-prefix")

	if err := validator("suffix"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := validator("camel")
	if err == nil {
		t.Fatal("expected an error for an unknown value")
	}
	if !strings.Contains(err.Error(), "must be one of: [suffix strip-prefix]") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAtLeast(t *testing.T) {
	validator := AtLeast("jobs", 1)
	if err := validator(1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validator(0); err == nil {
		t.Error("expected 0 to be rejected")
	}
}

func TestMaxLength(t *testing.T) {
	validator := MaxLength("marker", 1)
	if err := validator("I"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validator("Ab"); err == nil {
		t.Error("expected two characters to be rejected")
	}
}

func TestValidateFileExtension(t *testing.T) {
	validator := ValidateFileExtension("header_ext")

	for _, ok := range []string{".h", ".hpp", ".c++", ".inl.h"} {
		if err := validator(ok); err != nil {
			t.Errorf("expected %q to be accepted: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "h", ". h", "./h"} {
		if err := validator(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestValidateEach(t *testing.T) {
	validator := ValidateEach("include", NotEmpty("pattern"))

	if err := validator([]string{"**/*.h", "*.hpp"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := validator([]string{"**/*.h", ""})
	if err == nil {
		t.Fatal("expected an error")
	}
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.Field != "include[1]" {
		t.Errorf("expected field include[1], got %q", ve.Field)
	}
	if ve.Message != "cannot be empty" {
		t.Errorf("expected the element message, got %q", ve.Message)
	}
}

func TestIsGlobPattern(t *testing.T) {
	validator := IsGlobPattern("include")
	for _, ok := range []string{"**/*.h", "gfx/**/*.{hh,hpp}", "*.[hc]"} {
		if err := validator(ok); err != nil {
			t.Errorf("expected %q to be accepted: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "include/[abc", "{a,b"} {
		if err := validator(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestSliceNotEmpty(t *testing.T) {
	validator := SliceNotEmpty[string]("inputs")
	if err := validator(nil); err == nil {
		t.Error("expected empty slice to be rejected")
	}
	if err := validator([]string{"a.h"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidatorChainAndConditional(t *testing.T) {
	stripping := true
	chain := NewValidatorChain(NotEmpty("marker")).
		Add(Conditional(func(string) bool { return stripping }, MaxLength("marker", 1)))

	if err := chain.Validate("I"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := chain.Validate("Id"); err == nil {
		t.Error("expected the conditional validator to run")
	}

	stripping = false
	if err := chain.Validate("Id"); err != nil {
		t.Errorf("conditional validator should be skipped: %v", err)
	}
	if err := chain.Validate(""); err == nil {
		t.Error("expected NotEmpty to fail first")
	}
}
