package trace

import (
	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
)

// intersect.go implements spec.md §4.D: the scene-wide nearest-hit query
// that the pipeline calls once per active path per bounce. It dispatches
// each Geom through IntersectGeom, routing MESH geoms to either the BVH
// (bvh.go's Traverse) or the linear scan fallback depending on the
// ENABLE_BVH toggle, and keeps the closest positive hit.

// IntersectScene finds the nearest hit of r against every geom in sc,
// breaking distance ties by the lower geom index so the result is
// independent of goroutine scheduling order. useBVH selects between
// Traverse and TraverseLinear for MESH geoms - spec.md §8 invariant 1
// requires both give the same answer.
func IntersectScene(r *Ray, sc *scene.Scene, useBVH bool) (Intersection, bool) {
	best := Miss
	bestGeom := -1

	for i := range sc.Geoms {
		g := &sc.Geoms[i]
		t, n, hit := IntersectGeom(r, g, func(objRay Ray, g *scene.Geom) (float64, lin.V3, bool) {
			if useBVH {
				t, n, _, hit := Traverse(&objRay, sc.BVHNodes, g.BVHRoot, sc.Triangles)
				return t, n, hit
			}
			t, n, _, hit := TraverseLinear(&objRay, sc.Triangles, g.TriBegin, g.TriEnd)
			return t, n, hit
		})
		if hit && t > 0 && (bestGeom < 0 || t < best.T) {
			best = Intersection{T: t, Normal: n, MaterialID: g.MaterialID}
			bestGeom = i
		}
	}

	if bestGeom < 0 {
		return Miss, false
	}
	return best, true
}
