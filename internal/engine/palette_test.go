package engine

import (
	"testing"

	"github.com/dyluth/pinch/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPalette(t *testing.T) {
	t.Run("empty list uses presets", func(t *testing.T) {
		p, err := NewPalette(nil)
		require.NoError(t, err)
		assert.Equal(t, 10, p.Len())
		assert.Equal(t, Presets, p.Colors())
	})

	t.Run("normalises case", func(t *testing.T) {
		p, err := NewPalette([]voxel.Color{"#abcdef"})
		require.NoError(t, err)
		c, ok := p.At(0)
		require.True(t, ok)
		assert.Equal(t, voxel.Color("#ABCDEF"), c)
	})

	t.Run("rejects bad entry", func(t *testing.T) {
		_, err := NewPalette([]voxel.Color{"#FFFFFF", "blue"})
		require.Error(t, err)
		assert.ErrorIs(t, err, voxel.ErrInvalidColor)
		assert.Contains(t, err.Error(), "palette entry 1")
	})
}

func TestPalette_At(t *testing.T) {
	p, err := NewPalette(nil)
	require.NoError(t, err)

	c, ok := p.At(0)
	assert.True(t, ok)
	assert.Equal(t, DefaultColor, c)

	c, ok = p.At(9)
	assert.True(t, ok)
	assert.Equal(t, voxel.Color("#6366F1"), c)

	_, ok = p.At(10)
	assert.False(t, ok)
	_, ok = p.At(-1)
	assert.False(t, ok)
}

func TestPalette_ColorsIsACopy(t *testing.T) {
	p, err := NewPalette(nil)
	require.NoError(t, err)

	colors := p.Colors()
	colors[0] = "#000000"

	c, _ := p.At(0)
	assert.Equal(t, DefaultColor, c)
}
