package render

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
	"github.com/gazed/tracer/trace"
)

func testCamera(t *testing.T, width, height int, aperture, focal float64) *scene.Camera {
	t.Helper()
	cam, err := scene.NewCamera(lin.V3{Z: 5}, lin.V3{}, lin.V3{Y: 1}, 60, width, height, aperture, focal)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	return cam
}

func TestGenerateFillsEveryPixelRowMajor(t *testing.T) {
	cam := testCamera(t, 4, 3, 0, 0)
	dst := make([]trace.Ray, cam.Width*cam.Height)
	Generate(dst, cam, func(pixelIndex int) *lin.RNG { return lin.NewRNG(1, pixelIndex, 0) }, true)

	for y := 0; y < cam.Height; y++ {
		for x := 0; x < cam.Width; x++ {
			idx := y*cam.Width + x
			if !lin.Aeq(dst[idx].Direction.Len(), 1) {
				t.Errorf("pixel (%d,%d): direction %+v is not unit length", x, y, dst[idx].Direction)
			}
		}
	}
}

func TestGeneratePinholeOriginatesAtCamera(t *testing.T) {
	cam := testCamera(t, 4, 4, 0, 0)
	dst := make([]trace.Ray, cam.Width*cam.Height)
	Generate(dst, cam, func(pixelIndex int) *lin.RNG { return lin.NewRNG(1, pixelIndex, 0) }, true)

	for i, r := range dst {
		if !r.Origin.Aeq(&cam.Position) {
			t.Errorf("pixel %d: origin %+v, want camera position %+v", i, r.Origin, cam.Position)
		}
	}
}

func TestGenerateDepthOfFieldJittersOrigin(t *testing.T) {
	cam := testCamera(t, 2, 2, 0.5, 3)
	dst := make([]trace.Ray, cam.Width*cam.Height)
	Generate(dst, cam, func(pixelIndex int) *lin.RNG { return lin.NewRNG(1, pixelIndex, 0) }, true)

	for i, r := range dst {
		if r.Origin.Aeq(&cam.Position) {
			t.Errorf("pixel %d: expected a lens-offset origin with aperture > 0, got the pinhole origin", i)
		}
	}
}

func TestGenerateIsDeterministicPerIteration(t *testing.T) {
	cam := testCamera(t, 4, 4, 0, 0)
	a := make([]trace.Ray, cam.Width*cam.Height)
	b := make([]trace.Ray, cam.Width*cam.Height)
	Generate(a, cam, func(pixelIndex int) *lin.RNG { return lin.NewRNG(3, pixelIndex, 0) }, true)
	Generate(b, cam, func(pixelIndex int) *lin.RNG { return lin.NewRNG(3, pixelIndex, 0) }, true)

	for i := range a {
		if !a[i].Origin.Aeq(&b[i].Origin) || !a[i].Direction.Aeq(&b[i].Direction) {
			t.Errorf("pixel %d: rays diverged across identical (iteration, pixel) keys", i)
		}
	}
}

// TestGenerateNoJitterIgnoresIterationAndAperture is spec.md §8 property
// 6: with jitter disabled (CACHE_FIRST_INTERSECTION on), every iteration
// must produce the exact same primary ray per pixel, pinhole or not,
// so a cached bounce-0 intersection stays valid against later iterations'
// rays.
func TestGenerateNoJitterIgnoresIterationAndAperture(t *testing.T) {
	cam := testCamera(t, 4, 4, 0.5, 3)
	a := make([]trace.Ray, cam.Width*cam.Height)
	b := make([]trace.Ray, cam.Width*cam.Height)
	Generate(a, cam, func(pixelIndex int) *lin.RNG { return lin.NewRNG(1, pixelIndex, 0) }, false)
	Generate(b, cam, func(pixelIndex int) *lin.RNG { return lin.NewRNG(7, pixelIndex, 0) }, false)

	for i := range a {
		if !a[i].Origin.Aeq(&b[i].Origin) || !a[i].Direction.Aeq(&b[i].Direction) {
			t.Errorf("pixel %d: rays diverged across iterations with jitter disabled", i)
		}
		if !a[i].Origin.Aeq(&cam.Position) {
			t.Errorf("pixel %d: expected the pinhole origin with jitter disabled, got %+v", i, a[i].Origin)
		}
	}
}
