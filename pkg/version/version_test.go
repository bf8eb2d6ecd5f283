package version

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		major uint8
		minor uint8
	}{
		{"0.1", 0, 1},
		{"1.0", 1, 0},
		{"2.15", 2, 15},
		{"255.255", 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major {
				t.Errorf("Major = %d, want %d", v.Major, tt.major)
			}
			if v.Minor != tt.minor {
				t.Errorf("Minor = %d, want %d", v.Minor, tt.minor)
			}
			if v.String() != tt.input {
				t.Errorf("String() = %q, want %q", v.String(), tt.input)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"abc",
		"1.0.0",
		".1",
		"1.",
		"256.0",
		"-1.0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) expected error", input)
			}
		})
	}
}

func TestSupportedMatchesCurrent(t *testing.T) {
	v := Supported()
	if v.String() != Current {
		t.Errorf("Supported() = %s, want %s", v, Current)
	}
	if v.Major != Major {
		t.Errorf("Supported().Major = %d, Major = %d", v.Major, Major)
	}
}

func TestCompatible(t *testing.T) {
	a := FormatVersion{Major: 0, Minor: 1}
	b := FormatVersion{Major: 0, Minor: 7}
	c := FormatVersion{Major: 1, Minor: 1}

	if !a.Compatible(b) {
		t.Error("same major should be compatible")
	}
	if a.Compatible(c) {
		t.Error("different major should not be compatible")
	}
}

func TestCheck(t *testing.T) {
	if err := Check(Major); err != nil {
		t.Errorf("Check(Major) = %v, want nil", err)
	}
	err := Check(Major + 1)
	if !errors.Is(err, ErrIncompatible) {
		t.Errorf("Check(Major+1) = %v, want ErrIncompatible", err)
	}
	if err != nil && !strings.Contains(err.Error(), "supports "+Current) {
		t.Errorf("Check error %q should name the supported version", err)
	}
}
