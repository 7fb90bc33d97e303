// Package spatial maps a normalised screen position onto the voxel grid by
// casting a camera ray onto the ground plane.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// parallelEpsilon is the smallest |dir.Y| treated as crossing the ground plane.
const parallelEpsilon = 1e-9

// Ray is a half-line from Origin along Dir. Dir need not be unit length.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point Origin + t*Dir.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// IntersectGround intersects the ray with the horizontal plane y = 0.
// Returns false if the ray runs parallel to the plane or points away from it.
func (r Ray) IntersectGround() (r3.Vec, bool) {
	if math.Abs(r.Dir.Y) < parallelEpsilon {
		return r3.Vec{}, false
	}

	t := -r.Origin.Y / r.Dir.Y
	if t < 0 {
		return r3.Vec{}, false
	}
	return r.At(t), true
}

// RayCaster builds a world-space ray through a point in normalised device
// coordinates (both axes in [-1, 1], y up). The renderer supplies it; this
// package only needs the ray.
type RayCaster interface {
	RayFromNDC(ndcX, ndcY float64) Ray
}

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Aspect is viewport width / height.
	Aspect float64

	forward, right, up r3.Vec
	tanHalf            float64
}

// NewCamera validates the parameters and precomputes the camera basis.
func NewCamera(position, target, up r3.Vec, fov, aspect float64) (*Camera, error) {
	if fov <= 0 || fov >= 180 {
		return nil, fmt.Errorf("fov must be in (0, 180) degrees, got %v", fov)
	}
	if aspect <= 0 {
		return nil, fmt.Errorf("aspect must be positive, got %v", aspect)
	}

	look := r3.Sub(target, position)
	if r3.Norm(look) == 0 {
		return nil, errors.New("camera target must differ from its position")
	}
	forward := r3.Unit(look)

	side := r3.Cross(forward, up)
	if r3.Norm(side) < parallelEpsilon {
		return nil, errors.New("camera up vector must not be parallel to the view direction")
	}
	right := r3.Unit(side)

	return &Camera{
		Position: position,
		Target:   target,
		Up:       up,
		FOV:      fov,
		Aspect:   aspect,
		forward:  forward,
		right:    right,
		up:       r3.Cross(right, forward),
		tanHalf:  math.Tan(fov * math.Pi / 360),
	}, nil
}

// RayFromNDC implements RayCaster.
func (c *Camera) RayFromNDC(ndcX, ndcY float64) Ray {
	dir := r3.Add(c.forward, r3.Add(
		r3.Scale(ndcX*c.tanHalf*c.Aspect, c.right),
		r3.Scale(ndcY*c.tanHalf, c.up),
	))
	return Ray{Origin: c.Position, Dir: r3.Unit(dir)}
}
