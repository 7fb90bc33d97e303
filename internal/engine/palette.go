package engine

import (
	"fmt"

	"github.com/dyluth/pinch/pkg/voxel"
)

// DefaultColor is the colour new sessions paint with.
const DefaultColor voxel.Color = "#4F46E5"

// Presets is the built-in palette, selectable by index.
var Presets = []voxel.Color{
	"#4F46E5", // Indigo
	"#EF4444", // Red
	"#10B981", // Green
	"#F59E0B", // Amber
	"#3B82F6", // Blue
	"#8B5CF6", // Purple
	"#EC4899", // Pink
	"#14B8A6", // Teal
	"#F97316", // Orange
	"#6366F1", // Violet
}

// Palette is an ordered list of preset colours.
type Palette struct {
	colors []voxel.Color
}

// NewPalette validates colors and returns a palette over a copy of them.
// An empty list yields the built-in presets.
func NewPalette(colors []voxel.Color) (*Palette, error) {
	if len(colors) == 0 {
		colors = Presets
	}
	p := &Palette{colors: make([]voxel.Color, 0, len(colors))}
	for i, c := range colors {
		parsed, err := voxel.ParseColor(string(c))
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		p.colors = append(p.colors, parsed)
	}
	return p, nil
}

// Len returns the number of presets.
func (p *Palette) Len() int {
	return len(p.colors)
}

// At returns the preset at index, or false if index is out of range.
func (p *Palette) At(index int) (voxel.Color, bool) {
	if index < 0 || index >= len(p.colors) {
		return "", false
	}
	return p.colors[index], true
}

// Colors returns a copy of the presets.
func (p *Palette) Colors() []voxel.Color {
	return append([]voxel.Color(nil), p.colors...)
}
