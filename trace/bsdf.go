package trace

import (
	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
)

// bsdf.go implements spec.md §4.F: per-bounce material sampling for the
// four material kinds, plus Russian roulette termination. Shade mutates
// path in place - new origin/direction, updated throughput, and, for
// emissive hits or misses, a dropped Remaining that ends the path.

// shadowBias offsets a new ray's origin along the surface normal so the
// next intersection test doesn't immediately re-hit the same surface
// due to floating point error.
const shadowBias = Epsilon

// Shade applies one bounce of BSDF sampling to path, given it intersected
// isect and isect.MaterialID names mat. rng must be seeded per
// (iteration, pixel, depth) - see lin.NewRNG - so sampling is
// deterministic regardless of goroutine scheduling. enableRR gates the
// ENABLE_RUSSIAN_ROULETTE toggle (spec.md §6); with it false, paths only
// terminate by hitting emissive/miss or exhausting Remaining.
func Shade(path *PathSegment, isect *Intersection, mat *scene.Material, rng *lin.RNG, enableRR bool) {
	switch mat.Kind {
	case scene.Emissive:
		path.Color.X += path.Throughput.X * mat.Color.X * mat.Emittance
		path.Color.Y += path.Throughput.Y * mat.Color.Y * mat.Emittance
		path.Color.Z += path.Throughput.Z * mat.Color.Z * mat.Emittance
		path.Remaining = 0
		return
	case scene.Mirror:
		shadeMirror(path, isect, mat)
	case scene.Dielectric:
		shadeDielectric(path, isect, mat, rng)
	default:
		shadeDiffuse(path, isect, mat, rng)
	}

	path.Remaining--
	path.Depth++
	if enableRR && path.Remaining > 0 {
		russianRoulette(path, rng)
	}
}

// ShadeMiss terminates a path that escaped the scene with no environment
// contribution (spec.md §4.F: a miss adds no radiance and ends the path).
func ShadeMiss(path *PathSegment) { path.Remaining = 0 }

func shadeDiffuse(path *PathSegment, isect *Intersection, mat *scene.Material, rng *lin.RNG) {
	n := isect.Normal
	t, b := lin.Basis(&n)

	u, v := rng.Float64x2()
	lx, ly, lz := lin.CosineSampleHemisphere(u, v)

	dir := lin.V3{
		X: lx*t.X + ly*b.X + lz*n.X,
		Y: lx*t.Y + ly*b.Y + lz*n.Y,
		Z: lx*t.Z + ly*b.Z + lz*n.Z,
	}
	dir.Unit()

	origin := path.Ray.PointAt(isect.T)
	offsetOrigin(&origin, &n)
	path.Ray = Ray{Origin: origin, Direction: dir}

	// Cosine-weighted hemisphere sampling gives pdf = cos(theta)/pi, which
	// cancels the Lambertian BRDF's cos(theta)/pi term exactly, leaving
	// only the albedo.
	path.Throughput.Mult(&path.Throughput, &mat.Color)
}

func shadeMirror(path *PathSegment, isect *Intersection, mat *scene.Material) {
	n := isect.Normal
	var dir lin.V3
	dir.Reflect(&path.Ray.Direction, &n)
	dir.Unit()

	origin := path.Ray.PointAt(isect.T)
	offsetOrigin(&origin, &n)
	path.Ray = Ray{Origin: origin, Direction: dir}

	path.Throughput.Mult(&path.Throughput, &mat.Specular)
}

func shadeDielectric(path *PathSegment, isect *Intersection, mat *scene.Material, rng *lin.RNG) {
	n := isect.Normal
	incoming := path.Ray.Direction

	entering := incoming.Dot(&n) < 0
	etaI, etaT := 1.0, mat.IOR
	faceN := n
	if !entering {
		etaI, etaT = mat.IOR, 1.0
		faceN = lin.V3{X: -n.X, Y: -n.Y, Z: -n.Z}
	}
	eta := etaI / etaT

	cosI := -incoming.Dot(&faceN)
	reflectProb := schlick(cosI, etaI, etaT)

	var dir lin.V3
	var refracted bool
	if rng.Float64() >= reflectProb {
		refracted = dir.Refract(&incoming, &faceN, eta)
	}
	if !refracted {
		dir.Reflect(&incoming, &faceN)
	}
	dir.Unit()

	origin := path.Ray.PointAt(isect.T)
	bias := faceN
	if refracted {
		bias = lin.V3{X: -faceN.X, Y: -faceN.Y, Z: -faceN.Z}
	}
	offsetOrigin(&origin, &bias)
	path.Ray = Ray{Origin: origin, Direction: dir}

	// Both the reflected and refracted branch are tinted by the
	// material's specular color - see SPEC_FULL.md's decision on this
	// (spec.md leaves the tint point open).
	path.Throughput.Mult(&path.Throughput, &mat.Specular)
}

// schlick is the Schlick approximation to the Fresnel reflectance at
// normal-adjusted incidence angle cosI, crossing from index etaI to etaT.
func schlick(cosI, etaI, etaT float64) float64 {
	r0 := (etaI - etaT) / (etaI + etaT)
	r0 *= r0
	x := 1 - cosI
	return r0 + (1-r0)*x*x*x*x*x
}

// russianRoulette probabilistically terminates low-throughput paths once
// they've taken at least minBounces bounces, per spec.md §4.F's explicit
// pin: the survival probability is the throughput's max channel (not
// luminance), and surviving paths are reweighted by 1/q to stay unbiased.
func russianRoulette(path *PathSegment, rng *lin.RNG) {
	const minBounces = 3
	if path.Depth < minBounces {
		return
	}
	q := lin.Clamp01(path.Throughput.MaxComponent())
	if q <= 0 {
		path.Remaining = 0
		return
	}
	if rng.Float64() > q {
		path.Remaining = 0
		return
	}
	path.Throughput.Scale(&path.Throughput, 1/q)
}

func offsetOrigin(p *lin.V3, n *lin.V3) {
	p.X += n.X * shadowBias
	p.Y += n.Y * shadowBias
	p.Z += n.Z * shadowBias
}
