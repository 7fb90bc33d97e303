package voxel

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrMalformedKey indicates a grid key that does not decode to three integers.
	ErrMalformedKey = errors.New("voxel: malformed grid key")
	// ErrInvalidColor indicates a colour that is not a #RRGGBB hex string.
	ErrInvalidColor = errors.New("voxel: invalid color")
	// ErrUnsupportedVersion indicates a persisted world with a version other than WorldVersion.
	ErrUnsupportedVersion = errors.New("voxel: unsupported world version")
	// ErrMalformedWorld indicates a persisted world that cannot be parsed or is missing fields.
	ErrMalformedWorld = errors.New("voxel: malformed world")
	// ErrWorldNotFound indicates that no world has been saved under the requested name.
	ErrWorldNotFound = errors.New("voxel: world not found")
	// ErrInvalidGridSize indicates a non-positive grid size.
	ErrInvalidGridSize = errors.New("voxel: grid size must be positive")
)

// Clock supplies monotonic millisecond timestamps.
type Clock interface {
	NowMs() int64
}

// Color is a 24-bit RGB colour serialised as "#RRGGBB".
type Color string

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseColor validates s and returns it normalised to upper-case hex.
func ParseColor(s string) (Color, error) {
	if !colorPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q (expected #RRGGBB)", ErrInvalidColor, s)
	}
	return Color(strings.ToUpper(s)), nil
}

// MustParseColor is ParseColor for package-level constants. Panics on invalid input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks that the colour is well formed.
func (c Color) Validate() error {
	_, err := ParseColor(string(c))
	return err
}

// Voxel is the content of an occupied cell.
type Voxel struct {
	Color       Color `json:"color"`
	TimestampMs int64 `json:"timestamp"` // creation time in milliseconds
}

// Record is one exported voxel: its coordinates plus content.
// A zero TimestampMs on import means "stamp with the current time".
type Record struct {
	X           int   `json:"x"`
	Y           int   `json:"y"`
	Z           int   `json:"z"`
	Color       Color `json:"color"`
	TimestampMs int64 `json:"timestamp"`
}

// Cell returns the record's grid cell.
func (r Record) Cell() Cell {
	return Cell{X: r.X, Y: r.Y, Z: r.Z}
}
