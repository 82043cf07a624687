package trace

import (
	"sort"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
)

// bvh.go implements spec.md §4.C: a one-shot, per-mesh BVH build at
// scene load time (median-of-largest-axis split, flat DFS array, leaf
// threshold K) and an iterative traversal with an explicit stack.

// LeafTriangleLimit (K in spec.md §4.C) is the triangle count at or
// below which a build stops splitting and emits a leaf.
const LeafTriangleLimit = 4

// stackCapacity bounds the explicit traversal stack. A balanced BVH over
// N triangles needs O(log N) depth; 64 covers meshes far larger than any
// practical scene. If it is ever exceeded, Traverse does not push the
// child branches that no longer fit and does not report it (see Traverse).
const stackCapacity = 64

// BuildMeshBVH builds the BVH for one mesh's triangle range
// [triBegin, triEnd) and appends its nodes to nodes, returning the
// updated node slice and the index of the subtree's root. Triangles are
// reordered in place within [triBegin, triEnd) as the build partitions
// them - callers must not rely on original triangle order within a mesh.
func BuildMeshBVH(tris []scene.Triangle, triBegin, triEnd int, nodes []scene.BVHNode) (out []scene.BVHNode, root int) {
	root = len(nodes)
	nodes = append(nodes, scene.BVHNode{}) // reserve this node's slot.
	nodes = buildRange(tris, triBegin, triEnd, nodes, root)
	return nodes, root
}

// buildRange recursively splits tris[triStart:triStart+triCount] along
// the axis of largest extent at the median centroid, stopping at
// LeafTriangleLimit. nodes[nodeIdx] is filled in place; children (if
// any) are appended after it, depth-first.
func buildRange(tris []scene.Triangle, triStart, triEndExcl int, nodes []scene.BVHNode, nodeIdx int) []scene.BVHNode {
	triCount := triEndExcl - triStart
	bounds := scene.EmptyAABB()
	for i := triStart; i < triEndExcl; i++ {
		bounds.ExpandBox(&tris[i].Bounds)
	}

	if triCount <= LeafTriangleLimit {
		nodes[nodeIdx] = scene.BVHNode{
			Bounds:   bounds,
			Left:     scene.NullNode,
			TriStart: triStart,
			TriCount: triCount,
		}
		return nodes
	}

	axis := bounds.LargestAxis()
	slice := tris[triStart:triEndExcl]
	sort.Slice(slice, func(i, j int) bool {
		return axisValue(slice[i].Centroid(), axis) < axisValue(slice[j].Centroid(), axis)
	})
	mid := triStart + triCount/2

	leftIdx := len(nodes)
	nodes = append(nodes, scene.BVHNode{})
	nodes = buildRange(tris, triStart, mid, nodes, leftIdx)

	rightIdx := len(nodes)
	nodes = append(nodes, scene.BVHNode{})
	nodes = buildRange(tris, mid, triEndExcl, nodes, rightIdx)

	nodes[nodeIdx] = scene.BVHNode{Bounds: bounds, Left: leftIdx, Right: rightIdx}
	return nodes
}

func axisValue(v lin.V3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// stackFrame is one entry of Traverse's explicit node stack.
type stackFrame struct {
	node  int
	tMin  float64
}

// Traverse walks the BVH rooted at root, following spec.md §4.C: at
// each node, test the ray against its AABB and prune if the entry
// distance is beyond the current best hit; for internal nodes push the
// farther child first so the nearer one is visited first; for leaves
// test every triangle in range. tris is the scene-wide triangle array
// the node range [TriStart, TriStart+TriCount) indexes into.
//
// r is expected in the same (object) space the mesh's triangles and
// BVH were built in.
func Traverse(r *Ray, nodes []scene.BVHNode, root int, tris []scene.Triangle) (t float64, normal lin.V3, hitTri int, hit bool) {
	invDir := lin.V3{X: safeInv(r.Direction.X), Y: safeInv(r.Direction.Y), Z: safeInv(r.Direction.Z)}

	best := Miss
	bestTri := -1
	var stack [stackCapacity]stackFrame
	sp := 0
	stack[sp] = stackFrame{node: root, tMin: 0}
	sp++

	for sp > 0 {
		sp--
		frame := stack[sp]
		if bestTri >= 0 && frame.tMin >= best.T {
			continue
		}
		n := &nodes[frame.node]
		tEnter, tExit := n.Bounds.Hit(&r.Origin, &invDir)
		if tExit < 0 || tEnter > tExit {
			continue
		}
		if bestTri >= 0 && tEnter >= best.T {
			continue
		}

		if n.IsLeaf() {
			for i := n.TriStart; i < n.TriStart+n.TriCount; i++ {
				ht, hn, ok := IntersectTriangle(r, &tris[i])
				if ok && (bestTri < 0 || ht < best.T) {
					best = Intersection{T: ht, Normal: hn}
					bestTri = i
				}
			}
			continue
		}

		left, right := &nodes[n.Left], &nodes[n.Right]
		lEnter, lExit := left.Bounds.Hit(&r.Origin, &invDir)
		rEnter, rExit := right.Bounds.Hit(&r.Origin, &invDir)
		lHit := lExit >= 0 && lEnter <= lExit
		rHit := rExit >= 0 && rEnter <= rExit

		// Push the farther child first so the nearer one pops (and is
		// traversed) first.
		if lHit && rHit {
			if sp+2 > stackCapacity {
				continue // traversal stack exhausted; drop the farther branch.
			}
			if lEnter <= rEnter {
				stack[sp] = stackFrame{node: n.Right, tMin: rEnter}
				sp++
				stack[sp] = stackFrame{node: n.Left, tMin: lEnter}
				sp++
			} else {
				stack[sp] = stackFrame{node: n.Left, tMin: lEnter}
				sp++
				stack[sp] = stackFrame{node: n.Right, tMin: rEnter}
				sp++
			}
		} else if lHit {
			if sp < stackCapacity {
				stack[sp] = stackFrame{node: n.Left, tMin: lEnter}
				sp++
			}
		} else if rHit {
			if sp < stackCapacity {
				stack[sp] = stackFrame{node: n.Right, tMin: rEnter}
				sp++
			}
		}
	}

	if bestTri < 0 {
		return -1, lin.V3{}, -1, false
	}
	return best.T, best.Normal, bestTri, true
}

// TraverseLinear is the BVH-disabled fallback (spec.md §4.C, ENABLE_BVH
// toggle): a linear scan over every triangle in [triStart, triEnd). It
// must produce the identical nearest hit Traverse does - this equality
// is spec.md §8 invariant 1 and is exercised in bvh_test.go.
func TraverseLinear(r *Ray, tris []scene.Triangle, triStart, triEnd int) (t float64, normal lin.V3, hitTri int, hit bool) {
	bestTri := -1
	var best Intersection
	for i := triStart; i < triEnd; i++ {
		ht, hn, ok := IntersectTriangle(r, &tris[i])
		if ok && (bestTri < 0 || ht < best.T) {
			best = Intersection{T: ht, Normal: hn}
			bestTri = i
		}
	}
	if bestTri < 0 {
		return -1, lin.V3{}, -1, false
	}
	return best.T, best.Normal, bestTri, true
}

func safeInv(x float64) float64 {
	if x == 0 {
		if 1/x > 0 {
			return 1e30
		}
		return -1e30
	}
	return 1 / x
}
