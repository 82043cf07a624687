// Package engine wires scene, render, trace, and trace/accum together
// behind the init/render_iteration/read_image/present/free lifecycle
// spec.md §6 names, the way eng.go's Eng wraps the teacher's renderer,
// physics, audio and device subsystems behind a single entry point.
package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the runtime toggles spec.md §6 names plus the HDR
// gamma toggle, defaulting to the simplest correct pipeline (every
// optional behavior off) the way trace.Config does.
type Config struct {
	SortByMaterial           bool `yaml:"sort_by_material"`
	StreamCompact            bool `yaml:"stream_compact"`
	CacheFirstIntersection   bool `yaml:"cache_first_intersection"`
	EnableBVH                bool `yaml:"enable_bvh"`
	EnableRussianRoulette    bool `yaml:"enable_russian_roulette"`
	EnableHDRGammaCorrection bool `yaml:"enable_hdr_gamma_correction"`
}

// LoadConfigOverride reads an optional YAML sidecar (e.g. tracer.yaml)
// overriding a scene file's toggles, the way the teacher's shader loader
// (load/shd.go) reads a yaml-shaped manifest over a raw asset. Missing
// files are not an error - the sidecar is optional; only malformed YAML
// for an existing file is.
func LoadConfigOverride(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("engine: read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("engine: parse config %q: %w", path, err)
	}
	return cfg, nil
}
