package spatial

import (
	"github.com/dyluth/pinch/internal/gesture"
	"github.com/dyluth/pinch/pkg/voxel"
)

// ToNDC converts a normalised screen position ([0,1], y down) to normalised
// device coordinates ([-1,1], y up).
func ToNDC(x, y float64) (ndcX, ndcY float64) {
	return 2*x - 1, -(2*y - 1)
}

// Mapper snaps screen positions to cells on the ground layer of a grid
// centred on the world origin. Each cell spans VoxelSize world units.
type Mapper struct {
	GridSize  int
	VoxelSize float64
}

// NewMapper returns a Mapper for a grid of side gridSize with cells of
// voxelSize world units. voxelSize <= 0 is treated as 1.
func NewMapper(gridSize int, voxelSize float64) *Mapper {
	if voxelSize <= 0 {
		voxelSize = 1
	}
	return &Mapper{GridSize: gridSize, VoxelSize: voxelSize}
}

// Map casts a ray through pos and returns the ground-layer cell it hits.
// Returns false when pos is nil or the ray misses the ground plane. Hits
// outside the grid are clamped onto its edge; y is always 0.
func (m *Mapper) Map(pos *gesture.Landmark, cam RayCaster) (voxel.Cell, bool) {
	if pos == nil || cam == nil {
		return voxel.Cell{}, false
	}

	ndcX, ndcY := ToNDC(pos.X, pos.Y)
	hit, ok := cam.RayFromNDC(ndcX, ndcY).IntersectGround()
	if !ok {
		return voxel.Cell{}, false
	}

	// Shift so the grid's corner sits at the world origin
	half := float64(m.GridSize) * m.VoxelSize / 2
	c := voxel.WorldToGrid(voxel.Vec3{X: hit.X + half, Z: hit.Z + half}, m.VoxelSize)
	return voxel.Cell{
		X: voxel.ClampToGrid(c.X, m.GridSize),
		Y: 0,
		Z: voxel.ClampToGrid(c.Z, m.GridSize),
	}, true
}
