package scene

import (
	"fmt"
	"math"

	"github.com/gazed/tracer/math/lin"
)

// Camera holds the pinhole/thin-lens parameters spec.md §3 names: an
// orthonormal (right, up, view) frame, resolution, the per-pixel
// angular extent derived from vertical FOV and aspect ratio, and the
// optional depth-of-field parameters (aperture radius 0 means pinhole).
type Camera struct {
	Position lin.V3
	View     lin.V3 // unit forward.
	Up       lin.V3 // unit, orthogonal to View.
	Right    lin.V3 // unit, orthogonal to View and Up, right-handed.

	Width, Height int

	// PixelLengthX/Y is the angular width/height of one pixel at unit
	// distance along View, derived from vertical FOV and aspect.
	PixelLengthX, PixelLengthY float64

	Aperture    float64 // lens radius; 0 => pinhole.
	FocalLength float64
}

// NewCamera builds the orthonormal camera frame from an eye position, a
// look-at point, and an approximate up vector, then derives the
// per-pixel angular extent from the vertical field of view (degrees)
// and the resolution's aspect ratio.
//
// Invariant (spec.md §3): {Right, Up, View} is orthonormal and
// right-handed - Up is re-derived from Right x View rather than taken
// directly from worldUp, so an input worldUp that isn't already
// orthogonal to View doesn't violate the invariant.
func NewCamera(eye, lookAt, worldUp lin.V3, fovYDeg float64, width, height int, aperture, focalLength float64) (*Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("scene: camera resolution must be positive, got %dx%d", width, height)
	}
	c := &Camera{Position: eye, Width: width, Height: height, Aperture: aperture, FocalLength: focalLength}

	c.View = lin.V3{X: lookAt.X - eye.X, Y: lookAt.Y - eye.Y, Z: lookAt.Z - eye.Z}
	if c.View.LenSqr() < lin.Epsilon {
		return nil, fmt.Errorf("scene: camera eye and look-at coincide")
	}
	c.View.Unit()

	var right lin.V3
	right.Cross(&c.View, &worldUp)
	if right.LenSqr() < lin.Epsilon {
		return nil, fmt.Errorf("scene: camera up vector is parallel to view direction")
	}
	right.Unit()
	c.Right = right

	var up lin.V3
	up.Cross(&c.Right, &c.View)
	up.Unit()
	c.Up = up

	yScaled := math.Tan(fovYDeg * lin.DegRad * 0.5)
	xScaled := yScaled * float64(width) / float64(height)
	c.PixelLengthX = 2 * xScaled / float64(width)
	c.PixelLengthY = 2 * yScaled / float64(height)
	return c, nil
}
