// Command tracer is the demo CLI that drives engine against a scene
// file, the idiomatic Go replacement for the teacher's eg [example name]
// registry (cmd/tracer's single "scene file in, PNG out" flow has no
// need for eg's multi-example dispatch table, so it drops straight to
// flag-parsed config instead).
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gazed/tracer/engine"
	"github.com/gazed/tracer/load"
	"github.com/gazed/tracer/scene"
	"github.com/gazed/tracer/trace"
	"github.com/gazed/tracer/trace/accum"
)

// buildBVH adapts trace.BuildMeshBVH to load.BVHBuilder's signature so
// load never has to import trace directly (see load/scene.go).
func buildBVH(tris []scene.Triangle, triBegin, triEnd int, nodes []scene.BVHNode) ([]scene.BVHNode, int) {
	return trace.BuildMeshBVH(tris, triBegin, triEnd, nodes)
}

func main() {
	var (
		scenePath  = flag.String("scene", "", "path to a scene description file (required)")
		configPath = flag.String("config", "", "optional YAML sidecar overriding the scene's toggles")
		outPath    = flag.String("out", "render.png", "output PNG path")

		sortByMaterial = flag.Bool("sort-by-material", false, "SORT_BY_MATERIAL")
		streamCompact  = flag.Bool("stream-compact", false, "STREAM_COMPACT")
		cacheFirst     = flag.Bool("cache-first-intersection", false, "CACHE_FIRST_INTERSECTION")
		enableBVH      = flag.Bool("enable-bvh", true, "ENABLE_BVH")
		enableRR       = flag.Bool("enable-russian-roulette", true, "ENABLE_RUSSIAN_ROULETTE")
		enableGamma    = flag.Bool("enable-hdr-gamma-correction", true, "ENABLE_HDR_GAMMA_CORRECTION")
	)
	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "usage: tracer -scene <file> [-out render.png]")
		os.Exit(2)
	}

	if err := run(*scenePath, *configPath, *outPath, engine.Config{
		SortByMaterial:           *sortByMaterial,
		StreamCompact:            *streamCompact,
		CacheFirstIntersection:   *cacheFirst,
		EnableBVH:                *enableBVH,
		EnableRussianRoulette:    *enableRR,
		EnableHDRGammaCorrection: *enableGamma,
	}); err != nil {
		slog.Error("tracer", "err", err)
		os.Exit(1)
	}
}

func run(scenePath, configPath, outPath string, cfg engine.Config) error {
	f, err := os.Open(scenePath)
	if err != nil {
		return fmt.Errorf("tracer: open scene %q: %w", scenePath, err)
	}
	defer f.Close()

	sc, err := load.ParseScene(f, buildBVH)
	if err != nil {
		return fmt.Errorf("tracer: parse scene: %w", err)
	}

	if configPath != "" {
		override, err := engine.LoadConfigOverride(configPath)
		if err != nil {
			return err
		}
		cfg = override
	}

	h, err := engine.Init(sc, cfg)
	if err != nil {
		return err
	}
	defer h.Free()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := h.Render(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tracer: render: %w", err)
	}
	slog.Info("tracer: render done", "iterations", sc.IterationCount, "elapsed", time.Since(start))

	return writePNG(outPath, h)
}

func writePNG(path string, h *engine.Handle) error {
	pixels := make([]accum.RGB, h.Width()*h.Height())
	if err := h.Present(pixels); err != nil {
		return fmt.Errorf("tracer: present: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, h.Width(), h.Height()))
	for y := 0; y < h.Height(); y++ {
		for x := 0; x < h.Width(); x++ {
			p := pixels[y*h.Width()+x]
			img.Set(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tracer: create %q: %w", path, err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("tracer: encode png: %w", err)
	}
	slog.Info("tracer: wrote image", "path", path)
	return nil
}
