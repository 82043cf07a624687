package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/render"
	"github.com/gazed/tracer/scene"
	"github.com/gazed/tracer/trace"
	"github.com/gazed/tracer/trace/accum"
)

// ErrConfig marks a malformed scene or impossible camera (spec.md §7's
// ConfigError): wrap with fmt.Errorf("...: %w", ErrConfig) so callers can
// errors.Is against it.
var ErrConfig = errors.New("engine: config error")

// ErrResource marks a pool allocation failure (spec.md §7's
// ResourceError). Init is the only place it can occur, since every pool
// is sized once at init and never grows.
var ErrResource = errors.New("engine: resource error")

// Handle owns every pool the renderer needs for one scene: the read-only
// scene itself, the reusable ray/path pool, and the progressive image
// accumulator. All of it is allocated once by Init and sized to W*H,
// matching spec.md §5's "no per-iteration allocation" memory model.
type Handle struct {
	scene *scene.Scene
	cfg   Config

	rays  []trace.Ray
	pool  *trace.Pool
	image *accum.Image

	iteration int
	freed     bool
}

// Init allocates pools sized to sc's camera resolution and validates sc,
// implementing spec.md §6's init(scene) -> handle. Validation failures
// are wrapped in ErrConfig and fatal - no render begins.
func Init(sc *scene.Scene, cfg Config) (*Handle, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: nil scene", ErrConfig)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if sc.MaxDepth <= 0 {
		return nil, fmt.Errorf("%w: camera depth must be positive, got %d", ErrConfig, sc.MaxDepth)
	}

	pixelCount := sc.Camera.Width * sc.Camera.Height
	h := &Handle{
		scene: sc,
		cfg:   cfg,
		rays:  make([]trace.Ray, pixelCount),
		pool:  trace.NewPool(pixelCount, sc.MaxDepth),
		image: accum.NewImage(sc.Camera.Width, sc.Camera.Height),
	}
	slog.Debug("engine.Init", "width", sc.Camera.Width, "height", sc.Camera.Height,
		"geoms", len(sc.Geoms), "triangles", len(sc.Triangles), "iterations", sc.IterationCount)
	return h, nil
}

// RenderIteration runs one full iteration (spec.md §6's
// render_iteration(handle, iter)): generate this iteration's primary
// rays, run the bounce pipeline to completion, and fold the resulting
// per-pixel colors into the running image. iter is 1-based, matching
// spec.md §4.G's `i ∈ [1, ITERATIONS]` and feeding CACHE_FIRST_INTERSECTION's
// `i > 1` test.
func (h *Handle) RenderIteration(iter int) error {
	if h.freed {
		return fmt.Errorf("engine: render_iteration on freed handle")
	}

	render.Generate(h.rays, h.scene.Camera, func(pixelIndex int) *lin.RNG {
		return lin.NewRNG(iter, pixelIndex, 0)
	}, !h.cfg.CacheFirstIntersection)
	h.pool.Reset(h.rays, h.scene.MaxDepth)

	trace.RunIteration(h.pool, h.scene, iter, h.scene.MaxDepth, trace.Config{
		EnableBVH:              h.cfg.EnableBVH,
		SortByMaterial:         h.cfg.SortByMaterial,
		StreamCompact:          h.cfg.StreamCompact,
		CacheFirstIntersection: h.cfg.CacheFirstIntersection,
		EnableRussianRoulette:  h.cfg.EnableRussianRoulette,
	})

	colors := make([]lin.V3, len(h.pool.Segments))
	for i := range h.pool.Segments {
		colors[i] = h.pool.Segments[i].Color
	}
	h.image.Accumulate(colors)
	return nil
}

// Render drives every iteration of sc.IterationCount, checking ctx for
// cancellation only between iterations (spec.md §5/§7:
// "cooperative between iterations; returns cleanly with the
// partially-converged image intact" - mid-iteration cancellation is not
// supported).
func (h *Handle) Render(ctx context.Context) error {
	for i := 1; i <= h.scene.IterationCount; i++ {
		select {
		case <-ctx.Done():
			slog.Info("engine.Render: cancelled", "completed", i-1, "requested", h.scene.IterationCount)
			return ctx.Err()
		default:
		}
		if err := h.RenderIteration(i); err != nil {
			return err
		}
	}
	return nil
}

// ReadImage reads back the current linear HDR image, one lin.V3 per
// pixel in row-major order - spec.md §6's read_image(handle) ->
// RGB[W*H], kept in linear space ("the canonical image stored in memory
// remains linear HDR", spec.md §4.H).
func (h *Handle) ReadImage() []lin.V3 {
	out := make([]lin.V3, h.scene.Camera.Width*h.scene.Camera.Height)
	for i := range out {
		out[i] = h.image.Radiance(i)
	}
	return out
}

// Present tone-maps the current image to 8-bit RGB and writes it into
// dst, implementing spec.md §6's present(handle, pixel_buffer). dst must
// have length >= width*height; Present only ever writes the first
// width*height entries; any further entries of dst are left unchanged.
func (h *Handle) Present(dst []accum.RGB) error {
	quantized := h.image.Quantize(accum.ToneMapConfig{Reinhard: true, Gamma: h.cfg.EnableHDRGammaCorrection})
	if len(dst) < len(quantized) {
		return fmt.Errorf("engine: present buffer too small: have %d, need %d", len(dst), len(quantized))
	}
	copy(dst, quantized)
	return nil
}

// Free releases the handle's pools. With Go's GC this only needs to drop
// the references and mark the handle unusable; it exists to keep the
// lifecycle explicit and symmetric with Init, matching spec.md §6's
// free(handle) and the teacher's Eng.Shutdown pairing with vu.New.
func (h *Handle) Free() {
	h.rays = nil
	h.pool = nil
	h.image = nil
	h.freed = true
}

// Scene returns the handle's underlying scene, read-only.
func (h *Handle) Scene() *scene.Scene { return h.scene }

// Width and Height report the image dimensions the handle was sized to.
func (h *Handle) Width() int  { return h.scene.Camera.Width }
func (h *Handle) Height() int { return h.scene.Camera.Height }
