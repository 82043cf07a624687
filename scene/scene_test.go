package scene

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
)

func newTestCamera(t *testing.T) *Camera {
	t.Helper()
	cam, err := NewCamera(lin.V3{Z: 5}, lin.V3{}, lin.V3{Y: 1}, 45, 10, 10, 0, 0)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	return cam
}

func TestSceneValidateRejectsMissingCamera(t *testing.T) {
	s := &Scene{}
	if err := s.Validate(); err == nil {
		t.Error("expected an error for a nil camera")
	}
}

func TestSceneValidateRejectsUnknownMaterial(t *testing.T) {
	s := &Scene{
		Camera:    newTestCamera(t),
		Materials: []Material{{}},
		Geoms:     []Geom{{Kind: Sphere, MaterialID: 1}},
	}
	if err := s.Validate(); err == nil {
		t.Error("expected an error for an out-of-range material id")
	}
}

func TestSceneValidateRejectsBadMeshRange(t *testing.T) {
	s := &Scene{
		Camera:    newTestCamera(t),
		Materials: []Material{{}},
		Geoms:     []Geom{{Kind: Mesh, MaterialID: 0, TriBegin: 0, TriEnd: 3, BVHRoot: 0}},
	}
	if err := s.Validate(); err == nil {
		t.Error("expected an error for a triangle range beyond len(Triangles)")
	}
}

func TestSceneValidateAccepts(t *testing.T) {
	s := &Scene{
		Camera:    newTestCamera(t),
		Materials: []Material{{}},
		Geoms:     []Geom{{Kind: Sphere, MaterialID: 0}},
	}
	if err := s.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
