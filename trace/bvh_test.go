package trace

import (
	"math/rand"
	"testing"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
)

// gridTriangles builds n*n axis-aligned triangle pairs (covering unit
// quads) tiled across the XY plane at z=0, enough to force BuildMeshBVH
// past LeafTriangleLimit and exercise internal nodes.
func gridTriangles(n int) []scene.Triangle {
	tris := make([]scene.Triangle, 0, n*n*2)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			fx, fy := float64(x), float64(y)
			a := scene.Triangle{
				P0: lin.V3{X: fx, Y: fy, Z: 0},
				P1: lin.V3{X: fx + 1, Y: fy, Z: 0},
				P2: lin.V3{X: fx, Y: fy + 1, Z: 0},
				N0: lin.V3{Z: 1}, N1: lin.V3{Z: 1}, N2: lin.V3{Z: 1},
			}
			a.ComputeBounds()
			b := scene.Triangle{
				P0: lin.V3{X: fx + 1, Y: fy, Z: 0},
				P1: lin.V3{X: fx + 1, Y: fy + 1, Z: 0},
				P2: lin.V3{X: fx, Y: fy + 1, Z: 0},
				N0: lin.V3{Z: 1}, N1: lin.V3{Z: 1}, N2: lin.V3{Z: 1},
			}
			b.ComputeBounds()
			tris = append(tris, a, b)
		}
	}
	return tris
}

func TestBuildMeshBVHLeafThreshold(t *testing.T) {
	tris := gridTriangles(1) // 2 triangles, at or below LeafTriangleLimit.
	nodes, root := BuildMeshBVH(tris, 0, len(tris), nil)
	if !nodes[root].IsLeaf() {
		t.Error("expected a single leaf node for a triangle count at the leaf limit")
	}
	if nodes[root].TriCount != len(tris) {
		t.Errorf("leaf TriCount = %d, want %d", nodes[root].TriCount, len(tris))
	}
}

func TestBuildMeshBVHSplitsLargeMeshes(t *testing.T) {
	tris := gridTriangles(6) // 72 triangles, well past LeafTriangleLimit.
	nodes, root := BuildMeshBVH(tris, 0, len(tris), nil)
	if nodes[root].IsLeaf() {
		t.Fatal("expected an internal root for a large mesh")
	}
	var countLeafTris func(idx int) int
	countLeafTris = func(idx int) int {
		n := &nodes[idx]
		if n.IsLeaf() {
			return n.TriCount
		}
		return countLeafTris(n.Left) + countLeafTris(n.Right)
	}
	if got := countLeafTris(root); got != len(tris) {
		t.Errorf("leaves cover %d triangles, want %d", got, len(tris))
	}
}

// TestTraverseMatchesLinearScan is spec.md §8 invariant 1: BVH traversal
// and the linear-scan fallback must agree on the nearest hit for every
// ray, regardless of ENABLE_BVH.
func TestTraverseMatchesLinearScan(t *testing.T) {
	tris := gridTriangles(8)
	nodes, root := BuildMeshBVH(tris, 0, len(tris), nil)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		origin := lin.V3{X: rng.Float64()*10 - 1, Y: rng.Float64()*10 - 1, Z: -5}
		dir := lin.V3{X: 0, Y: 0, Z: 1}
		r := &Ray{Origin: origin, Direction: dir}

		bvhT, bvhN, bvhTri, bvhHit := Traverse(r, nodes, root, tris)
		linT, linN, linTri, linHit := TraverseLinear(r, tris, 0, len(tris))

		if bvhHit != linHit {
			t.Fatalf("ray %d: hit mismatch: bvh=%v linear=%v", i, bvhHit, linHit)
		}
		if !bvhHit {
			continue
		}
		if !lin.Aeq(bvhT, linT) {
			t.Errorf("ray %d: t mismatch: bvh=%v linear=%v", i, bvhT, linT)
		}
		if !bvhN.Aeq(&linN) {
			t.Errorf("ray %d: normal mismatch: bvh=%+v linear=%+v", i, bvhN, linN)
		}
		if bvhTri != linTri {
			t.Errorf("ray %d: triangle index mismatch: bvh=%d linear=%d", i, bvhTri, linTri)
		}
	}
}

func TestTraverseMiss(t *testing.T) {
	tris := gridTriangles(4)
	nodes, root := BuildMeshBVH(tris, 0, len(tris), nil)
	r := &Ray{Origin: lin.V3{X: 100, Y: 100, Z: -5}, Direction: lin.V3{X: 0, Y: 0, Z: 1}}
	if _, _, _, hit := Traverse(r, nodes, root, tris); hit {
		t.Error("expected a miss for a ray well outside the mesh bounds")
	}
}
