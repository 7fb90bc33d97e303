package voxel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Key is the canonical map key for a grid cell.
// Pattern: "{x},{y},{z}" in base 10, e.g. "3,0,-5".
type Key string

// Cell is an integer grid coordinate. It is the addressing unit for voxels.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Key returns the grid key for this cell.
func (c Cell) Key() Key {
	return GridKey(c.X, c.Y, c.Z)
}

// In reports whether the cell lies inside a grid of the given size.
func (c Cell) In(gridSize int) bool {
	return InBounds(c.X, c.Y, c.Z, gridSize)
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Vec3 is a point in world space.
type Vec3 struct {
	X, Y, Z float64
}

// GridKey encodes an integer triple as a Key.
func GridKey(x, y, z int) Key {
	return Key(strconv.Itoa(x) + "," + strconv.Itoa(y) + "," + strconv.Itoa(z))
}

// ParseKey is the exact inverse of GridKey.
// Returns an error wrapping ErrMalformedKey if the key does not hold exactly
// three base-10 integers.
func ParseKey(k Key) (x, y, z int, err error) {
	parts := strings.Split(string(k), ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, k)
	}

	coords := [3]int{}
	for i, p := range parts {
		v, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedKey, k, convErr)
		}
		coords[i] = v
	}

	return coords[0], coords[1], coords[2], nil
}

// ParseCell parses a key into a Cell.
func ParseCell(k Key) (Cell, error) {
	x, y, z, err := ParseKey(k)
	if err != nil {
		return Cell{}, err
	}
	return Cell{X: x, Y: y, Z: z}, nil
}

// InBounds reports whether all three coordinates are in [0, gridSize).
func InBounds(x, y, z, gridSize int) bool {
	return x >= 0 && x < gridSize &&
		y >= 0 && y < gridSize &&
		z >= 0 && z < gridSize
}

// ClampToGrid clamps v into [0, gridSize-1].
func ClampToGrid(v, gridSize int) int {
	if v > gridSize-1 {
		v = gridSize - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// WorldToGrid converts a world position to the cell containing it.
// voxelSize <= 0 is treated as 1.
func WorldToGrid(p Vec3, voxelSize float64) Cell {
	if voxelSize <= 0 {
		voxelSize = 1
	}
	return Cell{
		X: int(math.Floor(p.X / voxelSize)),
		Y: int(math.Floor(p.Y / voxelSize)),
		Z: int(math.Floor(p.Z / voxelSize)),
	}
}

// GridToWorld returns the world-space centre of a cell.
// WorldToGrid(GridToWorld(c, s), s) == c for any s > 0.
func GridToWorld(c Cell, voxelSize float64) Vec3 {
	if voxelSize <= 0 {
		voxelSize = 1
	}
	half := voxelSize / 2
	return Vec3{
		X: float64(c.X)*voxelSize + half,
		Y: float64(c.Y)*voxelSize + half,
		Z: float64(c.Z)*voxelSize + half,
	}
}
