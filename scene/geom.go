package scene

import "github.com/gazed/tracer/math/lin"

// PrimitiveKind enumerates the primitive shapes a Geom instance can wrap.
type PrimitiveKind int

const (
	Cube PrimitiveKind = iota
	Sphere
	Mesh
)

// Triangle is a single mesh triangle in object space: three vertex
// positions and three vertex normals (all equal to the face normal when
// the source mesh had no per-vertex normals), plus a cached object-space
// AABB used by the BVH builder.
type Triangle struct {
	P0, P1, P2 lin.V3
	N0, N1, N2 lin.V3
	Bounds     AABB
}

// ComputeBounds fills t.Bounds from the triangle's three vertices. Called
// once per triangle when a mesh is loaded.
func (t *Triangle) ComputeBounds() {
	t.Bounds = AABB{Min: t.P0, Max: t.P0}
	t.Bounds.ExpandPoint(&t.P1)
	t.Bounds.ExpandPoint(&t.P2)
}

// Centroid returns the triangle's centroid, used by the BVH build's
// median/SAH split.
func (t *Triangle) Centroid() lin.V3 {
	return lin.V3{
		X: (t.P0.X + t.P1.X + t.P2.X) / 3,
		Y: (t.P0.Y + t.P1.Y + t.P2.Y) / 3,
		Z: (t.P0.Z + t.P1.Z + t.P2.Z) / 3,
	}
}

// Geom is one instance of a primitive placed in the scene: a kind, a
// material reference, and an object<->world Transform. MESH geoms index
// into the scene-wide flat triangle array and name the root of their own
// BVH subtree (BVHRoot indexes into the scene-wide flat BVH node array).
type Geom struct {
	Kind       PrimitiveKind
	MaterialID int
	Transform  Transform

	// MESH-only fields.
	TriBegin, TriEnd int // [TriBegin, TriEnd) into Scene.Triangles.
	BVHRoot          int // index into Scene.BVHNodes, -1 if kind != Mesh.
}
