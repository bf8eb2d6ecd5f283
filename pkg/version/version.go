// Package version provides the bufti wire-format version and the checks used
// by versioned framing.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the format version implemented by this library.
const Current = "0.1"

// supported is Current, parsed.
var supported = mustParse(Current)

// Major is the major format version written in front of versioned
// payloads. Plain payloads carry no version.
var Major = supported.Major

// ErrIncompatible indicates a payload written with a different major version.
var ErrIncompatible = errors.New("incompatible format version")

// FormatVersion represents a parsed "major.minor" format version.
type FormatVersion struct {
	Major uint8
	Minor uint8
}

// Parse parses a "major.minor" version string.
func Parse(s string) (FormatVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return FormatVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil || parts[0] == "" {
		return FormatVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || parts[1] == "" {
		return FormatVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return FormatVersion{Major: uint8(major), Minor: uint8(minor)}, nil
}

func mustParse(s string) FormatVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Supported returns the format version implemented by this library.
func Supported() FormatVersion {
	return supported
}

// String returns the version as "major.minor".
func (v FormatVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v FormatVersion) Compatible(other FormatVersion) bool {
	return v.Major == other.Major
}

// Check returns ErrIncompatible if a payload's major version cannot be read
// by this library.
func Check(major uint8) error {
	if !supported.Compatible(FormatVersion{Major: major}) {
		return fmt.Errorf("%w: payload uses major version %d, this library supports %s",
			ErrIncompatible, major, supported)
	}
	return nil
}
