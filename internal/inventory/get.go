package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dyluth/pinch/pkg/voxel"
)

// GetVoxel writes the voxel at key ("x,y,z") as pretty JSON.
// Returns a *VoxelNotFoundError if the cell is empty.
func GetVoxel(ctx context.Context, p voxel.Persister, key string, w io.Writer) error {
	cell, err := voxel.ParseCell(voxel.Key(key))
	if err != nil {
		return fmt.Errorf("invalid cell %q: must be x,y,z", key)
	}

	world, err := p.LoadWorld(ctx)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}

	for _, r := range world.Voxels {
		if r.Cell() != cell {
			continue
		}
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal voxel to JSON: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
		fmt.Fprintln(w)
		return nil
	}

	return &VoxelNotFoundError{Cell: cell}
}

// VoxelNotFoundError reports an empty cell.
type VoxelNotFoundError struct {
	Cell voxel.Cell
}

func (e *VoxelNotFoundError) Error() string {
	return fmt.Sprintf("no voxel at %s", e.Cell.Key())
}

// IsNotFound returns true if err is a *VoxelNotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*VoxelNotFoundError)
	return ok
}
