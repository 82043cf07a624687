package trace

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
)

func TestIntersectUnitCubeFrontFace(t *testing.T) {
	r := Ray{Origin: lin.V3{X: 0, Y: 0, Z: -5}, Direction: lin.V3{X: 0, Y: 0, Z: 1}}
	tHit, n, hit := intersectUnitCube(&r)
	if !hit {
		t.Fatal("expected a hit")
	}
	if !lin.Aeq(tHit, 4.5) {
		t.Errorf("t = %v, want 4.5", tHit)
	}
	want := lin.V3{X: 0, Y: 0, Z: -1}
	if !n.Aeq(&want) {
		t.Errorf("normal = %+v, want %+v", n, want)
	}
}

func TestIntersectUnitCubeMiss(t *testing.T) {
	r := Ray{Origin: lin.V3{X: 5, Y: 5, Z: -5}, Direction: lin.V3{X: 0, Y: 0, Z: 1}}
	if _, _, hit := intersectUnitCube(&r); hit {
		t.Error("expected a miss")
	}
}

func TestIntersectUnitSphereFrontFace(t *testing.T) {
	r := Ray{Origin: lin.V3{X: 0, Y: 0, Z: -5}, Direction: lin.V3{X: 0, Y: 0, Z: 1}}
	tHit, n, hit := intersectUnitSphere(&r)
	if !hit {
		t.Fatal("expected a hit")
	}
	if !lin.Aeq(tHit, 4.5) {
		t.Errorf("t = %v, want 4.5", tHit)
	}
	want := lin.V3{X: 0, Y: 0, Z: -1}
	if !n.Aeq(&want) {
		t.Errorf("normal = %+v, want %+v", n, want)
	}
}

func TestIntersectUnitSphereFromInside(t *testing.T) {
	// The origin is inside the sphere: the near root is behind the ray
	// (negative t), so the intersector must fall through to the far root.
	r := Ray{Origin: lin.V3{}, Direction: lin.V3{X: 0, Y: 0, Z: 1}}
	tHit, _, hit := intersectUnitSphere(&r)
	if !hit {
		t.Fatal("expected a hit")
	}
	if !lin.Aeq(tHit, 0.5) {
		t.Errorf("t = %v, want 0.5", tHit)
	}
}

func TestIntersectTriangleBarycentricRejection(t *testing.T) {
	tri := scene.Triangle{
		P0: lin.V3{X: 0, Y: 0, Z: 0},
		P1: lin.V3{X: 1, Y: 0, Z: 0},
		P2: lin.V3{X: 0, Y: 1, Z: 0},
	}
	tri.N0, tri.N1, tri.N2 = lin.V3{Z: 1}, lin.V3{Z: 1}, lin.V3{Z: 1}

	hitR := Ray{Origin: lin.V3{X: 0.2, Y: 0.2, Z: -1}, Direction: lin.V3{X: 0, Y: 0, Z: 1}}
	if _, _, hit := IntersectTriangle(&hitR, &tri); !hit {
		t.Error("expected a hit inside the triangle")
	}

	missR := Ray{Origin: lin.V3{X: 0.9, Y: 0.9, Z: -1}, Direction: lin.V3{X: 0, Y: 0, Z: 1}}
	if _, _, hit := IntersectTriangle(&missR, &tri); hit {
		t.Error("expected a miss outside the triangle (u+v>1)")
	}
}

func TestIntersectTriangleInterpolatesNormals(t *testing.T) {
	tri := scene.Triangle{
		P0: lin.V3{X: 0, Y: 0, Z: 0},
		P1: lin.V3{X: 1, Y: 0, Z: 0},
		P2: lin.V3{X: 0, Y: 1, Z: 0},
		N0: lin.V3{X: -1, Y: 0, Z: 0},
		N1: lin.V3{X: 1, Y: 0, Z: 0},
		N2: lin.V3{X: 1, Y: 0, Z: 0},
	}
	r := Ray{Origin: lin.V3{X: 0.9, Y: 0.05, Z: -1}, Direction: lin.V3{X: 0, Y: 0, Z: 1}}
	_, n, hit := IntersectTriangle(&r, &tri)
	if !hit {
		t.Fatal("expected a hit")
	}
	if n.X <= 0 {
		t.Errorf("expected a normal interpolated toward N1/N2 (+X), got %+v", n)
	}
}

func TestIntersectGeomAppliesTransform(t *testing.T) {
	g := scene.Geom{
		Kind: scene.Sphere,
		Transform: scene.Transform{
			Translate: lin.V3{X: 0, Y: 0, Z: 10},
			Scale:     lin.V3{X: 2, Y: 2, Z: 2},
		},
	}
	g.Transform.Build()

	r := &Ray{Origin: lin.V3{X: 0, Y: 0, Z: 0}, Direction: lin.V3{X: 0, Y: 0, Z: 1}}
	tHit, n, hit := IntersectGeom(r, &g, func(objRay Ray, g *scene.Geom) (float64, lin.V3, bool) {
		return intersectUnitSphere(&objRay)
	})
	if !hit {
		t.Fatal("expected a hit")
	}
	// Scaled radius 1 sphere centered at world z=10, ray starts at z=0: hit
	// at world z=9.
	if !lin.Aeq(tHit, 9) {
		t.Errorf("t = %v, want 9", tHit)
	}
	want := lin.V3{X: 0, Y: 0, Z: -1}
	if !n.Aeq(&want) {
		t.Errorf("normal = %+v, want %+v", n, want)
	}
}
