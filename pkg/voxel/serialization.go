package voxel

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Serialization helpers for converting between worlds and Redis hashes.
//
// The world metadata lives in one hash and the voxels in another, one field
// per occupied cell. Voxel content is JSON-encoded into the field value.

// WorldToHashes converts a world into its metadata hash and voxel hash.
func WorldToHashes(w *World) (map[string]interface{}, map[string]interface{}, error) {
	meta := map[string]interface{}{
		"version":   w.Version,
		"grid_size": w.GridSize,
		"timestamp": w.TimestampMs,
	}

	voxels := make(map[string]interface{}, len(w.Voxels))
	for _, r := range w.Voxels {
		value, err := json.Marshal(Voxel{Color: r.Color, TimestampMs: r.TimestampMs})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal voxel %s: %w", r.Cell(), err)
		}
		voxels[string(GridKey(r.X, r.Y, r.Z))] = string(value)
	}

	return meta, voxels, nil
}

// HashesToWorld converts Redis hashes back into a world.
// Any malformed field fails the whole conversion; nothing is partially decoded.
func HashesToWorld(meta map[string]string, voxels map[string]string) (*World, error) {
	version, ok := meta["version"]
	if !ok {
		return nil, fmt.Errorf("%w: missing version", ErrMalformedWorld)
	}
	if version != WorldVersion {
		return nil, fmt.Errorf("%w: %q (expected %q)", ErrUnsupportedVersion, version, WorldVersion)
	}

	gridSize, err := strconv.Atoi(meta["grid_size"])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid grid_size field: %v", ErrMalformedWorld, err)
	}

	// Timestamp is informational; tolerate its absence
	timestamp, _ := strconv.ParseInt(meta["timestamp"], 10, 64)

	records := make([]Record, 0, len(voxels))
	for field, value := range voxels {
		x, y, z, err := ParseKey(Key(field))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedWorld, err)
		}

		var v Voxel
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, fmt.Errorf("%w: voxel %s: %v", ErrMalformedWorld, field, err)
		}

		records = append(records, Record{X: x, Y: y, Z: z, Color: v.Color, TimestampMs: v.TimestampMs})
	}
	SortRecords(records)

	w := &World{
		Version:     version,
		GridSize:    gridSize,
		Voxels:      records,
		TimestampMs: timestamp,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}
