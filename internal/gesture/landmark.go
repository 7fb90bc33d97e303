package gesture

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// LandmarkCount is the number of landmarks in one hand sample.
const LandmarkCount = 21

// Landmark indices, fixed by the hand-tracking model's anatomical convention.
const (
	Wrist     = 0
	ThumbTip  = 4
	IndexTip  = 8
	MiddleTip = 12
	RingTip   = 16
	PinkyTip  = 20
)

// ErrPartialHand indicates a sample that does not have exactly LandmarkCount landmarks.
var ErrPartialHand = errors.New("gesture: hand sample must have exactly 21 landmarks")

// Landmark is one tracked point. X and Y are normalised image coordinates in
// [0,1]; Z is a small signed depth relative to the wrist.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is a complete hand sample. A sample is either fully present or absent
// (a nil *Hand); partial samples are not representable.
type Hand [LandmarkCount]Landmark

// NewHand builds a Hand from a landmark slice.
func NewHand(landmarks []Landmark) (*Hand, error) {
	if len(landmarks) != LandmarkCount {
		return nil, fmt.Errorf("%w: got %d", ErrPartialHand, len(landmarks))
	}
	var h Hand
	copy(h[:], landmarks)
	return &h, nil
}

// Vec returns the landmark as an r3 vector.
func (l Landmark) Vec() r3.Vec {
	return r3.Vec{X: l.X, Y: l.Y, Z: l.Z}
}

// Distance is the unweighted Euclidean distance between two landmarks in 3D.
func Distance(a, b Landmark) float64 {
	return r3.Norm(r3.Sub(a.Vec(), b.Vec()))
}

// reach is the distance from the wrist to landmark i.
func (h *Hand) reach(i int) float64 {
	return Distance(h[Wrist], h[i])
}
