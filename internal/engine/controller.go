package engine

import (
	"github.com/dyluth/pinch/internal/debounce"
	"github.com/dyluth/pinch/internal/gesture"
	"github.com/dyluth/pinch/internal/mode"
	"github.com/dyluth/pinch/pkg/voxel"
)

// Controller maps a debounced (mode, gesture) pair onto a store mutation.
//
//	build  + pinch      AddVoxel at the target in the current colour
//	build  + open_palm  ClearAll, only when something is placed
//	delete + pinch|fist RemoveVoxel at the target
//
// Every other pair, including point, does nothing.
type Controller struct {
	store *voxel.Store
	color voxel.Color
}

// NewController creates a controller painting in color.
func NewController(store *voxel.Store, color voxel.Color) *Controller {
	return &Controller{store: store, color: color}
}

// Color returns the colour new voxels are painted with.
func (c *Controller) Color() voxel.Color {
	return c.color
}

// SetColor changes the paint colour.
func (c *Controller) SetColor(color voxel.Color) {
	c.color = color
}

// Dispatch implements debounce.Dispatcher. It reports whether the store was
// asked to change; a remove at an empty cell still counts.
func (c *Controller) Dispatch(ev debounce.Event) bool {
	switch ev.Mode {
	case mode.Build:
		switch ev.Gesture {
		case gesture.Pinch:
			if !c.store.AddVoxel(ev.Cell.X, ev.Cell.Y, ev.Cell.Z, c.color) {
				Logf("[Controller] add at %s rejected: out of bounds", ev.Cell)
			}
			return true
		case gesture.OpenPalm:
			if c.store.Count() == 0 {
				return false
			}
			c.store.ClearAll()
			Logf("[Controller] open palm cleared the world")
			return true
		}
	case mode.Delete:
		switch ev.Gesture {
		case gesture.Pinch, gesture.Fist:
			c.store.RemoveVoxel(ev.Cell.X, ev.Cell.Y, ev.Cell.Z)
			return true
		}
	}
	return false
}
