// Package mode defines the editing modes a session can be in.
package mode

import "fmt"

// Mode selects what mutating gestures do.
type Mode string

const (
	// Build places voxels (pinch) and clears the world (open palm).
	Build Mode = "build"
	// Delete removes voxels (pinch or fist).
	Delete Mode = "delete"
)

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Delete {
		return Build
	}
	return Delete
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == Build || m == Delete
}

// Parse converts a string to a Mode.
func Parse(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode '%s' (valid: 'build' or 'delete')", s)
	}
	return m, nil
}
