// Package render generates the primary rays the path tracer casts, one
// per pixel per iteration. It is split out of trace so the ray
// generation stage (spec.md §4.E) can be swapped or benchmarked
// independently of intersection/shading, the way df07 separates
// geometry.Camera from its renderer package.
package render

import (
	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
	"github.com/gazed/tracer/trace"
)

// Generate fills dst (one Ray per pixel, row-major, dst[y*cam.Width+x])
// with this iteration's primary rays. rngFor is called once per pixel to
// get that pixel's deterministically-seeded RNG (spec.md §4.I): callers
// pass a closure over lin.NewRNG(iteration, pixelIndex, 0) so ray jitter
// and later bounces draw from independently-seeded streams. jitter must
// be false whenever CACHE_FIRST_INTERSECTION is active (spec.md §8
// property 6): the cached bounce-0 intersection is only valid against an
// identical camera ray, so every iteration's primary ray must collapse
// to the same deterministic pixel-center, no-DOF ray once caching is on.
func Generate(dst []trace.Ray, cam *scene.Camera, rngFor func(pixelIndex int) *lin.RNG, jitter bool) {
	for y := 0; y < cam.Height; y++ {
		for x := 0; x < cam.Width; x++ {
			idx := y*cam.Width + x
			dst[idx] = primaryRay(cam, x, y, rngFor(idx), jitter)
		}
	}
}

// primaryRay builds one pixel's ray: an anti-alias jittered pinhole ray
// through the pixel, then - if the camera has a non-zero aperture - a
// thin-lens depth-of-field perturbation (spec.md §4.E): offset the
// origin across a concentric-sampled lens disk and retarget the
// direction at the point the unperturbed ray would have hit at
// FocalLength. With jitter false the ray is pinned to the pixel center
// and the lens perturbation is skipped entirely, so the same camera ray
// comes out on every call regardless of aperture.
func primaryRay(cam *scene.Camera, x, y int, rng *lin.RNG, jitter bool) trace.Ray {
	jx, jy := 0.5, 0.5
	if jitter {
		jx, jy = rng.Float64x2()
	}
	px := float64(x) + jx
	py := float64(y) + jy

	// Offset of this pixel from the image center, in pixels, scaled by
	// the per-pixel angular extent PixelLengthX/Y derived at camera
	// construction (scene.NewCamera) from vertical FOV and aspect.
	offX := px - float64(cam.Width)/2
	offY := float64(cam.Height)/2 - py

	dir := lin.V3{
		X: cam.View.X + offX*cam.PixelLengthX*cam.Right.X + offY*cam.PixelLengthY*cam.Up.X,
		Y: cam.View.Y + offX*cam.PixelLengthX*cam.Right.Y + offY*cam.PixelLengthY*cam.Up.Y,
		Z: cam.View.Z + offX*cam.PixelLengthX*cam.Right.Z + offY*cam.PixelLengthY*cam.Up.Z,
	}
	dir.Unit()

	origin := cam.Position
	if !jitter || cam.Aperture <= 0 {
		return trace.Ray{Origin: origin, Direction: dir}
	}

	focalPoint := lin.V3{
		X: origin.X + dir.X*cam.FocalLength,
		Y: origin.Y + dir.Y*cam.FocalLength,
		Z: origin.Z + dir.Z*cam.FocalLength,
	}

	lu, lv := rng.Float64x2()
	lx, ly := lin.ConcentricSampleDisk(lu, lv)
	lx *= cam.Aperture
	ly *= cam.Aperture

	lensOrigin := lin.V3{
		X: origin.X + lx*cam.Right.X + ly*cam.Up.X,
		Y: origin.Y + lx*cam.Right.Y + ly*cam.Up.Y,
		Z: origin.Z + lx*cam.Right.Z + ly*cam.Up.Z,
	}

	lensDir := lin.V3{
		X: focalPoint.X - lensOrigin.X,
		Y: focalPoint.Y - lensOrigin.Y,
		Z: focalPoint.Z - lensOrigin.Z,
	}
	lensDir.Unit()

	return trace.Ray{Origin: lensOrigin, Direction: lensDir}
}
