// Package scene holds the read-only, scene-wide description the path
// tracer renders against: camera, geometry instances, triangle meshes,
// and materials. Everything here is built once at load time and only
// read during rendering - see trace.Pool for the mutable per-iteration
// state.
package scene

import "github.com/gazed/tracer/math/lin"

// Kind distinguishes the semantics a Material exposes to the BSDF
// sampler. It is derived from the parsed flags, not stored directly -
// the flags form is a scene-file parsing artifact (see load.ParseScene),
// not something the renderer should branch on repeatedly.
type Kind int

const (
	Diffuse Kind = iota
	Mirror
	Dielectric
	Emissive
)

// Material is a tagged union over the four BSDF kinds the renderer
// supports. Every field is populated from the scene file's MATERIAL
// block; Kind is derived once at load time by Classify.
type Material struct {
	Kind Kind

	Color     lin.V3 // base/albedo color.
	Specular  lin.V3 // specular/reflective tint.
	SpecExp   float64
	IOR       float64 // index of refraction, dielectric only.
	Emittance float64 // > 0 marks Kind == Emissive.

	// Reflective/Refractive mirror the scene file's REFL/REFR flags so
	// Classify can be re-run if a material is edited after parsing.
	Reflective bool
	Refractive bool
}

// Classify derives m.Kind from the reflective/refractive flags and
// emittance, per spec: emittance > 0 is always terminal regardless of
// the other flags, then reflective&&refractive is dielectric,
// reflective-only is a perfect mirror, and anything else is diffuse.
func (m *Material) Classify() {
	switch {
	case m.Emittance > 0:
		m.Kind = Emissive
	case m.Reflective && m.Refractive:
		m.Kind = Dielectric
	case m.Reflective:
		m.Kind = Mirror
	default:
		m.Kind = Diffuse
	}
}
