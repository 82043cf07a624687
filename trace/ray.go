// Package trace implements the rendering core: primitive intersection,
// BVH traversal, BSDF sampling, and the per-iteration path pipeline that
// ties them together into a progressively converging image. Everything
// in this package operates over scene.Scene's read-only arrays plus the
// mutable Pool owned by the pipeline (spec.md §3, §5).
package trace

import "github.com/gazed/tracer/math/lin"

// Ray is a parametric line: point(t) = Origin + t*Direction. Direction
// is expected to be unit length everywhere in this package.
type Ray struct {
	Origin    lin.V3
	Direction lin.V3
}

// PointAt returns the point Origin + t*Direction.
func (r *Ray) PointAt(t float64) lin.V3 {
	return lin.V3{
		X: r.Origin.X + t*r.Direction.X,
		Y: r.Origin.Y + t*r.Direction.Y,
		Z: r.Origin.Z + t*r.Direction.Z,
	}
}

// Epsilon is the single tolerance spec.md §4.B asks for: degenerate
// tie-breaks in the primitive intersectors, and the offset applied to a
// new ray's origin along the surface normal to avoid self-intersection.
const Epsilon = 1e-5

// Intersection is the result of one ray-scene query: a parametric
// distance (T < 0 means miss), the world-space surface normal, and the
// hit material. It is overwritten every bounce - see Pool.
type Intersection struct {
	T          float64
	Normal     lin.V3
	MaterialID int
}

// Miss is the zero-value-equivalent "no hit" intersection.
var Miss = Intersection{T: -1}
