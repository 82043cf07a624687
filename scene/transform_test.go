package scene

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
)

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{
		Translate: lin.V3{X: 1, Y: 2, Z: 3},
		Rotate:    lin.V3{X: 0, Y: 45, Z: 0},
		Scale:     lin.V3{X: 2, Y: 1, Z: 0.5},
	}
	tr.Build()

	p := lin.V3{X: 0.3, Y: -0.2, Z: 0.1}
	obj := tr.ToObject(&p)
	world := tr.ToWorld(&obj)
	if !world.Aeq(&p) {
		t.Errorf("round trip: got %+v want %+v", world, p)
	}
}

func TestTransformIdentityIsNoop(t *testing.T) {
	tr := Transform{Scale: lin.V3{X: 1, Y: 1, Z: 1}}
	tr.Build()

	p := lin.V3{X: 1, Y: 2, Z: 3}
	obj := tr.ToObject(&p)
	if !obj.Aeq(&p) {
		t.Errorf("identity ToObject: got %+v want %+v", obj, p)
	}
}

func TestTransformNormalToWorldUnderNonUniformScale(t *testing.T) {
	// A normal carried through a non-uniform scale by the naive linear
	// part (rather than inverse-transpose) would no longer be
	// perpendicular to the scaled surface. Check against a known case:
	// scaling X by 2 tilts a +X-facing normal's inverse-transpose
	// treatment back to axis-aligned (scaling the normal space by 1/2 on
	// X), which after renormalization is still exactly +X.
	tr := Transform{Scale: lin.V3{X: 2, Y: 1, Z: 1}}
	tr.Build()

	n := lin.V3{X: 1, Y: 0, Z: 0}
	world := tr.NormalToWorld(&n)
	want := lin.V3{X: 1, Y: 0, Z: 0}
	if !world.Aeq(&want) {
		t.Errorf("got %+v want %+v", world, want)
	}
	if !lin.Aeq(world.Len(), 1) {
		t.Errorf("expected unit length, got %v", world.Len())
	}
}

func TestTransformToObjectDirIgnoresTranslation(t *testing.T) {
	tr := Transform{
		Translate: lin.V3{X: 100, Y: -50, Z: 7},
		Scale:     lin.V3{X: 1, Y: 1, Z: 1},
	}
	tr.Build()

	d := lin.V3{X: 0, Y: 0, Z: 1}
	got := tr.ToObjectDir(&d)
	if !got.Aeq(&d) {
		t.Errorf("got %+v want %+v (translation should not affect a direction)", got, d)
	}
}
