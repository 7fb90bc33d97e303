package voxel

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// WorldVersion is the only persisted world format version this package reads or writes.
const WorldVersion = "1.0"

// World is the persisted form of a voxel store.
//
//	{"version":"1.0","gridSize":16,"voxels":[...],"timestamp":1700000000000}
type World struct {
	Version     string   `json:"version"`
	GridSize    int      `json:"gridSize"`
	Voxels      []Record `json:"voxels"`
	TimestampMs int64    `json:"timestamp"` // when the world was written
}

// NewWorld snapshots a store into a World stamped with nowMs.
func NewWorld(s *Store, nowMs int64) *World {
	return &World{
		Version:     WorldVersion,
		GridSize:    s.GridSize(),
		Voxels:      s.ExportVoxels(),
		TimestampMs: nowMs,
	}
}

// Validate checks the version and every voxel record.
func (w *World) Validate() error {
	if w.Version != WorldVersion {
		return fmt.Errorf("%w: %q (expected %q)", ErrUnsupportedVersion, w.Version, WorldVersion)
	}
	if w.GridSize <= 0 {
		return fmt.Errorf("%w: gridSize must be positive, got %d", ErrMalformedWorld, w.GridSize)
	}
	for i, r := range w.Voxels {
		if err := r.Color.Validate(); err != nil {
			return fmt.Errorf("%w: voxel %d: %v", ErrMalformedWorld, i, err)
		}
	}
	return nil
}

// rawWorld mirrors World with pointer fields so missing keys can be told
// apart from zero values.
type rawWorld struct {
	Version     *string     `json:"version"`
	GridSize    *int        `json:"gridSize"`
	Voxels      *[]rawVoxel `json:"voxels"`
	TimestampMs *int64      `json:"timestamp"`
}

type rawVoxel struct {
	X           *int    `json:"x"`
	Y           *int    `json:"y"`
	Z           *int    `json:"z"`
	Color       *string `json:"color"`
	TimestampMs *int64  `json:"timestamp"`
}

// DecodeWorld parses a persisted world. The version is checked before
// anything else is interpreted. Returns an error wrapping
// ErrUnsupportedVersion or ErrMalformedWorld; a world with an empty voxel
// list is valid.
func DecodeWorld(data []byte) (*World, error) {
	var raw rawWorld
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorld, err)
	}

	if raw.Version == nil {
		return nil, fmt.Errorf("%w: missing version", ErrMalformedWorld)
	}
	if *raw.Version != WorldVersion {
		return nil, fmt.Errorf("%w: %q (expected %q)", ErrUnsupportedVersion, *raw.Version, WorldVersion)
	}
	if raw.GridSize == nil {
		return nil, fmt.Errorf("%w: missing gridSize", ErrMalformedWorld)
	}
	if raw.Voxels == nil {
		return nil, fmt.Errorf("%w: missing voxels", ErrMalformedWorld)
	}

	w := &World{
		Version:  *raw.Version,
		GridSize: *raw.GridSize,
		Voxels:   make([]Record, 0, len(*raw.Voxels)),
	}
	if raw.TimestampMs != nil {
		w.TimestampMs = *raw.TimestampMs
	}

	for i, rv := range *raw.Voxels {
		if rv.X == nil || rv.Y == nil || rv.Z == nil || rv.Color == nil {
			return nil, fmt.Errorf("%w: voxel %d: missing x, y, z or color", ErrMalformedWorld, i)
		}
		r := Record{X: *rv.X, Y: *rv.Y, Z: *rv.Z, Color: Color(*rv.Color)}
		if rv.TimestampMs != nil {
			r.TimestampMs = *rv.TimestampMs
		}
		w.Voxels = append(w.Voxels, r)
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// EncodeWorld serialises a world. indent selects the human-readable two-space
// layout used for exported files.
func EncodeWorld(w *World, indent bool) ([]byte, error) {
	if w.Voxels == nil {
		w.Voxels = []Record{}
	}
	if indent {
		return json.MarshalIndent(w, "", "  ")
	}
	return json.Marshal(w)
}

// ApplyWorld validates w and then replaces the store's content with it in a
// single import. On error the store is unchanged. The store keeps its own
// grid size; the persisted gridSize is informational.
func ApplyWorld(s *Store, w *World) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if err := s.ImportVoxels(w.Voxels); err != nil {
		return fmt.Errorf("failed to import voxels: %w", err)
	}
	return nil
}

// ExportFileName returns the file name used when exporting a world at nowMs.
func ExportFileName(nowMs int64) string {
	return "voxel-world-" + strconv.FormatInt(nowMs, 10) + ".json"
}
