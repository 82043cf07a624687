package accum

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
)

func TestImageAccumulateRunningMean(t *testing.T) {
	img := NewImage(1, 1)
	img.Accumulate([]lin.V3{{X: 1, Y: 0, Z: 0}})
	img.Accumulate([]lin.V3{{X: 0, Y: 0, Z: 0}})

	want := lin.V3{X: 0.5, Y: 0, Z: 0}
	got := img.Radiance(0)
	if !got.Aeq(&want) {
		t.Errorf("got %+v want %+v", got, want)
	}
	if img.Iteration != 2 {
		t.Errorf("Iteration = %d, want 2", img.Iteration)
	}
}

func TestImageAccumulateConvergesToConstant(t *testing.T) {
	img := NewImage(1, 1)
	c := lin.V3{X: 0.3, Y: 0.6, Z: 0.9}
	for i := 0; i < 50; i++ {
		img.Accumulate([]lin.V3{c})
	}
	got := img.Radiance(0)
	if !got.Aeq(&c) {
		t.Errorf("got %+v want %+v", got, c)
	}
}

func TestPixelStatsVarianceRequiresTwoSamples(t *testing.T) {
	var s PixelStats
	if v := s.Variance(); v != 0 {
		t.Errorf("Variance with 0 samples = %v, want 0", v)
	}
	s.observe(1)
	if v := s.Variance(); v != 0 {
		t.Errorf("Variance with 1 sample = %v, want 0", v)
	}
	s.observe(3)
	if v := s.Variance(); v <= 0 {
		t.Errorf("Variance with 2 differing samples = %v, want > 0", v)
	}
}

func TestQuantizeClampsAndRounds(t *testing.T) {
	img := NewImage(1, 1)
	img.Accumulate([]lin.V3{{X: 2, Y: -1, Z: 0.5}})

	out := img.Quantize(ToneMapConfig{})
	if out[0].R != 255 {
		t.Errorf("R = %d, want 255 (clamped from 2.0)", out[0].R)
	}
	if out[0].G != 0 {
		t.Errorf("G = %d, want 0 (clamped from -1.0)", out[0].G)
	}
	if out[0].B != 128 {
		t.Errorf("B = %d, want 128 (round(0.5*255))", out[0].B)
	}
}

func TestQuantizeReinhardCompressesHighDynamicRange(t *testing.T) {
	img := NewImage(1, 1)
	img.Accumulate([]lin.V3{{X: 9, Y: 9, Z: 9}}) // reinhard: 9/(1+9) = 0.9

	out := img.Quantize(ToneMapConfig{Reinhard: true})
	want := uint8(230) // round(0.9*255) = 229.5 -> 230
	if out[0].R != want {
		t.Errorf("R = %d, want %d", out[0].R, want)
	}
}

func TestQuantizeGammaBrightensMidtones(t *testing.T) {
	img := NewImage(1, 1)
	img.Accumulate([]lin.V3{{X: 0.25, Y: 0.25, Z: 0.25}})

	withoutGamma := img.Quantize(ToneMapConfig{})
	withGamma := img.Quantize(ToneMapConfig{Gamma: true})
	if withGamma[0].R <= withoutGamma[0].R {
		t.Errorf("gamma-corrected R = %d, want > ungamma-corrected R = %d", withGamma[0].R, withoutGamma[0].R)
	}
}
