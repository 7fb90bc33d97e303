package spatial

import (
	"testing"

	"github.com/dyluth/pinch/internal/gesture"
	"github.com/dyluth/pinch/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// gridCaster casts straight down from (10*ndcX, 10, -10*ndcY), so NDC maps
// linearly onto the ground plane.
type gridCaster struct {
	lastX, lastY float64
}

func (g *gridCaster) RayFromNDC(ndcX, ndcY float64) Ray {
	g.lastX, g.lastY = ndcX, ndcY
	return Ray{Origin: r3.Vec{X: 10 * ndcX, Y: 10, Z: -10 * ndcY}, Dir: r3.Vec{Y: -1}}
}

// fixedCaster always returns the same ray.
type fixedCaster Ray

func (f fixedCaster) RayFromNDC(float64, float64) Ray { return Ray(f) }

func TestToNDC(t *testing.T) {
	x, y := ToNDC(0, 0)
	assert.Equal(t, -1.0, x)
	assert.Equal(t, 1.0, y)

	x, y = ToNDC(1, 1)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, -1.0, y)

	x, y = ToNDC(0.5, 0.5)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestMapper_Map(t *testing.T) {
	m := NewMapper(16, 1)

	tests := []struct {
		name string
		pos  gesture.Landmark
		want voxel.Cell
	}{
		{"centre", gesture.Landmark{X: 0.5, Y: 0.5}, voxel.Cell{X: 8, Y: 0, Z: 8}},
		{"mid-cell right", gesture.Landmark{X: 0.775, Y: 0.5}, voxel.Cell{X: 13, Y: 0, Z: 8}},
		{"screen down is world +z", gesture.Landmark{X: 0.5, Y: 0.775}, voxel.Cell{X: 8, Y: 0, Z: 13}},
		{"clamped low", gesture.Landmark{X: 0, Y: 0}, voxel.Cell{X: 0, Y: 0, Z: 0}},
		{"clamped high", gesture.Landmark{X: 1, Y: 1}, voxel.Cell{X: 15, Y: 0, Z: 15}},
		{"depth ignored", gesture.Landmark{X: 0.5, Y: 0.5, Z: -0.4}, voxel.Cell{X: 8, Y: 0, Z: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := tt.pos
			cell, ok := m.Map(&pos, &gridCaster{})
			require.True(t, ok)
			assert.Equal(t, tt.want, cell)
			assert.True(t, cell.In(16))
		})
	}
}

func TestMapper_PassesInvertedY(t *testing.T) {
	caster := &gridCaster{}
	NewMapper(16, 1).Map(&gesture.Landmark{X: 0.25, Y: 0.25}, caster)
	assert.Equal(t, -0.5, caster.lastX)
	assert.Equal(t, 0.5, caster.lastY)
}

func TestMapper_NoTarget(t *testing.T) {
	m := NewMapper(16, 1)
	pos := &gesture.Landmark{X: 0.5, Y: 0.5}

	t.Run("absent position", func(t *testing.T) {
		_, ok := m.Map(nil, &gridCaster{})
		assert.False(t, ok)
	})

	t.Run("no camera", func(t *testing.T) {
		_, ok := m.Map(pos, nil)
		assert.False(t, ok)
	})

	t.Run("parallel ray", func(t *testing.T) {
		_, ok := m.Map(pos, fixedCaster{Origin: r3.Vec{Y: 5}, Dir: r3.Vec{X: 1}})
		assert.False(t, ok)
	})

	t.Run("diverging ray", func(t *testing.T) {
		_, ok := m.Map(pos, fixedCaster{Origin: r3.Vec{Y: 5}, Dir: r3.Vec{Y: 1}})
		assert.False(t, ok)
	})
}

func TestMapper_OddGridSize(t *testing.T) {
	// Half of 15 is 7.5: world 0 lands at 7.5 and floors to 7
	cell, ok := NewMapper(15, 1).Map(&gesture.Landmark{X: 0.5, Y: 0.5}, &gridCaster{})
	require.True(t, ok)
	assert.Equal(t, voxel.Cell{X: 7, Y: 0, Z: 7}, cell)
}

func TestMapper_VoxelSize(t *testing.T) {
	// x = 2.5 in world units
	pos := &gesture.Landmark{X: 0.625, Y: 0.5}

	tests := []struct {
		name      string
		voxelSize float64
		want      voxel.Cell
	}{
		{"unit voxels", 1, voxel.Cell{X: 10, Y: 0, Z: 8}},
		{"half voxels", 0.5, voxel.Cell{X: 13, Y: 0, Z: 8}},
		{"double voxels", 2, voxel.Cell{X: 9, Y: 0, Z: 8}},
		{"zero means unit", 0, voxel.Cell{X: 10, Y: 0, Z: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, ok := NewMapper(16, tt.voxelSize).Map(pos, &gridCaster{})
			require.True(t, ok)
			assert.Equal(t, tt.want, cell)
		})
	}

	t.Run("small voxels clamp sooner", func(t *testing.T) {
		// The 16-cell grid spans only [-4, 4) at half-size voxels
		cell, ok := NewMapper(16, 0.5).Map(&gesture.Landmark{X: 0.775, Y: 0.5}, &gridCaster{})
		require.True(t, ok)
		assert.Equal(t, voxel.Cell{X: 15, Y: 0, Z: 8}, cell)
	})
}

func TestMapper_WithCamera(t *testing.T) {
	cam, err := NewCamera(r3.Vec{X: 12, Y: 12, Z: 12}, r3.Vec{}, r3.Vec{Y: 1}, 50, 4.0/3.0)
	require.NoError(t, err)

	cell, ok := NewMapper(16, 1).Map(&gesture.Landmark{X: 0.5, Y: 0.5}, cam)
	require.True(t, ok)
	// The centre ray hits the origin up to rounding, so it lands next to the middle
	assert.InDelta(t, 8, cell.X, 1)
	assert.InDelta(t, 8, cell.Z, 1)
	assert.Equal(t, 0, cell.Y)

	// The top of the screen hits the ground far behind the grid and clamps to its corner
	cell, ok = NewMapper(16, 1).Map(&gesture.Landmark{X: 0.5, Y: 0}, cam)
	require.True(t, ok)
	assert.Equal(t, voxel.Cell{X: 0, Y: 0, Z: 0}, cell)
}
