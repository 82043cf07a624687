package scene

// NullNode is the sentinel child index marking "no child" - used to tell
// leaves (which have no children) apart from internals at traversal time
// without a separate IsLeaf flag.
const NullNode = -1

// BVHNode is one node of a mesh's bounding-volume hierarchy, stored
// contiguously in Scene.BVHNodes in depth-first order (spec.md §3). A
// node is a leaf iff Left == NullNode, in which case
// [TriStart, TriStart+TriCount) indexes Scene.Triangles; otherwise Left
// and Right index other entries of the same mesh's node range.
//
// Invariant: a node's Bounds encloses both children's Bounds (internal)
// or every triangle in its range (leaf).
type BVHNode struct {
	Bounds AABB

	Left, Right int // child node indices; Left == NullNode marks a leaf.

	TriStart, TriCount int // leaf-only: range into Scene.Triangles.
}

func (n *BVHNode) IsLeaf() bool { return n.Left == NullNode }
