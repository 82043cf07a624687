package scene

import "fmt"

// Scene is the complete, read-only-after-load description the path
// tracer renders against (spec.md §3). Geoms, Triangles, BVHNodes and
// Materials are built once by load.ParseScene and never mutated during
// rendering; only trace.Pool's per-iteration state changes per bounce.
type Scene struct {
	Camera *Camera

	Geoms     []Geom
	Triangles []Triangle // flat, shared across all MESH geoms.
	BVHNodes  []BVHNode  // flat, shared across all MESH geoms.
	Materials []Material

	IterationCount int // CAMERA ITERATIONS from the scene file.
	MaxDepth       int // CAMERA DEPTH from the scene file.
}

// Validate checks the cross-references a scene file can get wrong:
// out-of-range material ids and a missing camera. It does not re-derive
// geometry - load.ParseScene is expected to have already built valid
// Transform and BVH data.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("scene: no camera defined")
	}
	if s.Camera.Width <= 0 || s.Camera.Height <= 0 {
		return fmt.Errorf("scene: camera resolution must be positive")
	}
	for i := range s.Geoms {
		g := &s.Geoms[i]
		if g.MaterialID < 0 || g.MaterialID >= len(s.Materials) {
			return fmt.Errorf("scene: geom %d references unknown material %d", i, g.MaterialID)
		}
		if g.Kind == Mesh {
			if g.TriBegin < 0 || g.TriEnd > len(s.Triangles) || g.TriBegin > g.TriEnd {
				return fmt.Errorf("scene: geom %d has invalid triangle range [%d,%d)", i, g.TriBegin, g.TriEnd)
			}
			if g.BVHRoot < 0 || g.BVHRoot >= len(s.BVHNodes) {
				return fmt.Errorf("scene: geom %d has invalid BVH root %d", i, g.BVHRoot)
			}
		}
	}
	return nil
}
