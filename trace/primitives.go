package trace

import (
	"math"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
)

// primitives.go implements spec.md §4.B: ray-vs-{unit cube, unit sphere,
// triangle} intersection, each invoked in the primitive's object space
// and returning a parametric distance along the world-space ray. The
// object-space transform/detransform bracketing is the same pattern
// physics.castRaySphere/castRayPlane use in the teacher engine, just
// against a Transform that also carries scale.

// IntersectGeom dispatches a world-space ray to the intersector for g's
// kind, doing the object-space transform/detransform spec.md §4.B
// describes. meshHit is used only when g.Kind == scene.Mesh (the BVH/
// linear-scan traversal over the scene's triangle array); see bvh.go.
func IntersectGeom(r *Ray, g *scene.Geom, meshHit func(objRay Ray, g *scene.Geom) (t float64, n lin.V3, hit bool)) (hitT float64, normal lin.V3, hit bool) {
	objOrigin := g.Transform.ToObject(&r.Origin)
	objDir := g.Transform.ToObjectDir(&r.Direction)
	objDir.Unit() // intersectors assume a unit-length object-space direction.
	objRay := Ray{Origin: objOrigin, Direction: objDir}

	var t float64
	var n lin.V3
	switch g.Kind {
	case scene.Cube:
		t, n, hit = intersectUnitCube(&objRay)
	case scene.Sphere:
		t, n, hit = intersectUnitSphere(&objRay)
	case scene.Mesh:
		t, n, hit = meshHit(objRay, g)
	default:
		return -1, lin.V3{}, false
	}
	if !hit {
		return -1, lin.V3{}, false
	}

	// Map the object-space hit point back to world space and recover the
	// world-space parametric distance as the distance from the original
	// ray origin, rather than rescaling t directly - this stays correct
	// under non-uniform scale, where object- and world-space t do not
	// scale by a single constant.
	objHit := objRay.PointAt(t)
	worldHit := g.Transform.ToWorld(&objHit)
	diff := lin.V3{X: worldHit.X - r.Origin.X, Y: worldHit.Y - r.Origin.Y, Z: worldHit.Z - r.Origin.Z}
	worldT := math.Sqrt(diff.Dot(&diff))
	if diff.Dot(&r.Direction) < 0 {
		worldT = -worldT
	}

	worldNormal := g.Transform.NormalToWorld(&n)
	return worldT, worldNormal, true
}

// intersectUnitCube performs the slab test against [-0.5,0.5]^3 in
// object space and returns the entry face's axis-aligned normal.
func intersectUnitCube(r *Ray) (t float64, normal lin.V3, hit bool) {
	tEnter, tExit := -math.MaxFloat64, math.MaxFloat64
	enterAxis, enterSign := -1, 1.0

	axes := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dirs := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	for axis := 0; axis < 3; axis++ {
		d := dirs[axis]
		if math.Abs(d) < Epsilon {
			if axes[axis] < -0.5 || axes[axis] > 0.5 {
				return -1, lin.V3{}, false // ray parallel to slab and outside it.
			}
			continue
		}
		invD := 1.0 / d
		t1 := (-0.5 - axes[axis]) * invD
		t2 := (0.5 - axes[axis]) * invD
		sign := -1.0
		if invD < 0 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tEnter {
			tEnter = t1
			enterAxis = axis
			enterSign = sign
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEnter > tExit {
			return -1, lin.V3{}, false
		}
	}
	if enterAxis < 0 || tExit < 0 {
		return -1, lin.V3{}, false
	}
	chosen := tEnter
	if chosen <= Epsilon {
		chosen = tExit
		if chosen <= Epsilon {
			return -1, lin.V3{}, false
		}
	}
	switch enterAxis {
	case 0:
		normal = lin.V3{X: enterSign}
	case 1:
		normal = lin.V3{Y: enterSign}
	case 2:
		normal = lin.V3{Z: enterSign}
	}
	return chosen, normal, true
}

// intersectUnitSphere solves the analytic quadratic for a radius-0.5
// sphere centered at the object-space origin, choosing the smaller
// positive root.
func intersectUnitSphere(r *Ray) (t float64, normal lin.V3, hit bool) {
	const radius = 0.5
	a := r.Direction.Dot(&r.Direction)
	b := 2 * r.Origin.Dot(&r.Direction)
	c := r.Origin.Dot(&r.Origin) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return -1, lin.V3{}, false
	}
	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	chosen := t0
	if chosen <= Epsilon {
		chosen = t1
		if chosen <= Epsilon {
			return -1, lin.V3{}, false // both roots behind the ray origin.
		}
	}
	hitPoint := r.PointAt(chosen)
	normal = hitPoint
	normal.Unit()
	return chosen, normal, true
}

// IntersectTriangle is the Möller-Trumbore test, run directly in object
// space (triangle vertices are already stored object-space in
// scene.Triangle). It rejects barycentrics outside [0,1] and hits at or
// behind Epsilon, and interpolates per-vertex normals.
func IntersectTriangle(r *Ray, tri *scene.Triangle) (t float64, normal lin.V3, hit bool) {
	e1 := lin.V3{X: tri.P1.X - tri.P0.X, Y: tri.P1.Y - tri.P0.Y, Z: tri.P1.Z - tri.P0.Z}
	e2 := lin.V3{X: tri.P2.X - tri.P0.X, Y: tri.P2.Y - tri.P0.Y, Z: tri.P2.Z - tri.P0.Z}

	var pvec lin.V3
	pvec.Cross(&r.Direction, &e2)
	det := e1.Dot(&pvec)
	if math.Abs(det) < Epsilon {
		return -1, lin.V3{}, false // ray parallel to the triangle's plane.
	}
	invDet := 1.0 / det

	tvec := lin.V3{X: r.Origin.X - tri.P0.X, Y: r.Origin.Y - tri.P0.Y, Z: r.Origin.Z - tri.P0.Z}
	u := tvec.Dot(&pvec) * invDet
	if u < 0 || u > 1 {
		return -1, lin.V3{}, false
	}

	var qvec lin.V3
	qvec.Cross(&tvec, &e1)
	v := r.Direction.Dot(&qvec) * invDet
	if v < 0 || u+v > 1 {
		return -1, lin.V3{}, false
	}

	dist := e2.Dot(&qvec) * invDet
	if dist <= Epsilon {
		return -1, lin.V3{}, false
	}

	w := 1 - u - v
	normal = lin.V3{
		X: w*tri.N0.X + u*tri.N1.X + v*tri.N2.X,
		Y: w*tri.N0.Y + u*tri.N1.Y + v*tri.N2.Y,
		Z: w*tri.N0.Z + u*tri.N1.Z + v*tri.N2.Z,
	}
	normal.Unit()
	return dist, normal, true
}
