package scene

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
)

func TestNewCameraOrthonormalFrame(t *testing.T) {
	eye := lin.V3{X: 0, Y: 0, Z: 5}
	lookAt := lin.V3{X: 0, Y: 0, Z: 0}
	up := lin.V3{X: 0, Y: 1, Z: 0}
	cam, err := NewCamera(eye, lookAt, up, 45, 800, 600, 0, 0)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	if !lin.Aeq(cam.Right.Dot(&cam.Up), 0) {
		t.Errorf("right.up = %v, want 0", cam.Right.Dot(&cam.Up))
	}
	if !lin.Aeq(cam.Right.Dot(&cam.View), 0) {
		t.Errorf("right.view = %v, want 0", cam.Right.Dot(&cam.View))
	}
	if !lin.Aeq(cam.Up.Dot(&cam.View), 0) {
		t.Errorf("up.view = %v, want 0", cam.Up.Dot(&cam.View))
	}
	for _, v := range []lin.V3{cam.Right, cam.Up, cam.View} {
		if !lin.Aeq(v.Len(), 1) {
			t.Errorf("%+v is not unit length", v)
		}
	}
}

func TestNewCameraRejectsDegenerateInput(t *testing.T) {
	eye := lin.V3{X: 0, Y: 0, Z: 0}
	if _, err := NewCamera(eye, eye, lin.V3{Y: 1}, 45, 10, 10, 0, 0); err == nil {
		t.Error("expected an error when eye == lookAt")
	}

	eye2 := lin.V3{X: 0, Y: 0, Z: 5}
	lookAt := lin.V3{X: 0, Y: 0, Z: 0}
	parallelUp := lin.V3{X: 0, Y: 0, Z: 1} // parallel to view direction.
	if _, err := NewCamera(eye2, lookAt, parallelUp, 45, 10, 10, 0, 0); err == nil {
		t.Error("expected an error when up is parallel to view")
	}

	if _, err := NewCamera(eye2, lookAt, lin.V3{Y: 1}, 45, 0, 10, 0, 0); err == nil {
		t.Error("expected an error for non-positive resolution")
	}
}

func TestNewCameraPixelLengthIsSquare(t *testing.T) {
	// Deriving PixelLengthX from vertical FOV scaled by the aspect ratio
	// (rather than from a separate horizontal FOV) always yields square
	// pixels, regardless of aspect ratio.
	cam, err := NewCamera(lin.V3{Z: 5}, lin.V3{}, lin.V3{Y: 1}, 90, 200, 100, 0, 0)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	if !lin.Aeq(cam.PixelLengthX, cam.PixelLengthY) {
		t.Errorf("PixelLengthX = %v, PixelLengthY = %v, want equal", cam.PixelLengthX, cam.PixelLengthY)
	}
}
