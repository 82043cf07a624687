// Package accum implements spec.md §4.H's progressive image accumulator:
// a running per-pixel mean of every iteration's traced color, plus the
// optional Reinhard tone map and gamma correction applied only when an
// 8-bit preview is requested. It is new code, grounded on df07's
// renderer.PixelStats/RenderPass accumulator pair (see DESIGN.md).
package accum

import (
	"math"

	"github.com/gazed/tracer/math/lin"
)

// Image is the progressive accumulator for one render: one running-mean
// radiance value per pixel, updated once per iteration.
type Image struct {
	Width, Height int
	Iteration     int // number of iterations folded in so far.

	radiance []lin.V3
	stats    []PixelStats
}

// PixelStats carries the luminance moment accumulators df07's
// renderer.PixelStats keeps for adaptive sampling. Nothing in this
// codebase drives sampling decisions from Variance yet (adaptive
// sampling is out of scope, see SPEC_FULL.md), but the struct is kept
// populated so a future per-pixel stopping criterion has the data it
// needs without touching the accumulate hot path again.
type PixelStats struct {
	Mean     float64
	M2       float64 // sum of squared deviations from Mean (Welford's algorithm).
	Samples  int
}

// NewImage allocates a zeroed accumulator for a width x height render.
func NewImage(width, height int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		radiance: make([]lin.V3, width*height),
		stats:    make([]PixelStats, width*height),
	}
}

// Accumulate folds one iteration's per-pixel colors into the running
// mean: image[p] <- lerp(image[p], color, 1/iteration), per spec.md
// §4.H. colors must be row-major, one entry per pixel, same order
// render.Generate produced the rays in.
func (img *Image) Accumulate(colors []lin.V3) {
	img.Iteration++
	weight := 1.0 / float64(img.Iteration)
	for i, c := range colors {
		img.radiance[i].Lerp(&img.radiance[i], &c, weight)
		img.stats[i].observe(luminance(&c))
	}
}

// observe updates a Welford running mean/variance of luminance samples.
func (s *PixelStats) observe(x float64) {
	s.Samples++
	delta := x - s.Mean
	s.Mean += delta / float64(s.Samples)
	delta2 := x - s.Mean
	s.M2 += delta * delta2
}

// Variance returns the sample variance of this pixel's luminance across
// iterations so far, 0 if fewer than 2 samples have been observed.
func (s *PixelStats) Variance() float64 {
	if s.Samples < 2 {
		return 0
	}
	return s.M2 / float64(s.Samples-1)
}

// Stats returns the accumulated PixelStats for pixel index p.
func (img *Image) Stats(p int) PixelStats { return img.stats[p] }

// Radiance returns the current running-mean linear radiance for pixel
// index p, unclamped and ungamma-corrected.
func (img *Image) Radiance(p int) lin.V3 { return img.radiance[p] }

func luminance(c *lin.V3) float64 { return 0.2126*c.X + 0.7152*c.Y + 0.0722*c.Z }

// ToneMapConfig selects the spec.md §4.H post-process applied when
// quantizing to 8 bits: Reinhard tone mapping (color/(1+color)) and/or
// gamma 1/2.2 correction, independently toggleable the way
// ENABLE_HDR_GAMMA_CORRECTION gates only the gamma step in spec.md §6.
type ToneMapConfig struct {
	Reinhard bool
	Gamma    bool
}

// quantizeChannel clamps x to [0,1] and scales to a byte.
func quantizeChannel(x float64) uint8 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return uint8(math.Round(x * 255))
}

// RGB is an 8-bit-per-channel quantized pixel, the output ReadImage
// exposes to callers (spec.md §6).
type RGB struct{ R, G, B uint8 }

// Quantize converts the current accumulated radiance into 8-bit RGB
// pixels, applying cfg's tone map / gamma steps per channel before
// clamping and rounding.
func (img *Image) Quantize(cfg ToneMapConfig) []RGB {
	out := make([]RGB, len(img.radiance))
	for i, c := range img.radiance {
		x, y, z := c.X, c.Y, c.Z
		if cfg.Reinhard {
			x, y, z = x/(1+x), y/(1+y), z/(1+z)
		}
		if cfg.Gamma {
			x = math.Pow(x, 1/2.2)
			y = math.Pow(y, 1/2.2)
			z = math.Pow(z, 1/2.2)
		}
		out[i] = RGB{R: quantizeChannel(x), G: quantizeChannel(y), B: quantizeChannel(z)}
	}
	return out
}
