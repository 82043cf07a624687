package scene

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
)

func TestAABBExpandPoint(t *testing.T) {
	b := EmptyAABB()
	b.ExpandPoint(&lin.V3{X: 1, Y: -2, Z: 3})
	b.ExpandPoint(&lin.V3{X: -1, Y: 2, Z: 0})
	want := AABB{Min: lin.V3{X: -1, Y: -2, Z: 0}, Max: lin.V3{X: 1, Y: 2, Z: 3}}
	if !b.Min.Aeq(&want.Min) || !b.Max.Aeq(&want.Max) {
		t.Errorf("got %+v want %+v", b, want)
	}
}

func TestAABBExpandBox(t *testing.T) {
	a := AABB{Min: lin.V3{X: 0, Y: 0, Z: 0}, Max: lin.V3{X: 1, Y: 1, Z: 1}}
	b := AABB{Min: lin.V3{X: -1, Y: 0, Z: 0}, Max: lin.V3{X: 0.5, Y: 2, Z: 1}}
	a.ExpandBox(&b)
	want := AABB{Min: lin.V3{X: -1, Y: 0, Z: 0}, Max: lin.V3{X: 1, Y: 2, Z: 1}}
	if !a.Min.Aeq(&want.Min) || !a.Max.Aeq(&want.Max) {
		t.Errorf("got %+v want %+v", a, want)
	}
}

func TestAABBCentroidAndExtent(t *testing.T) {
	b := AABB{Min: lin.V3{X: -1, Y: -1, Z: -1}, Max: lin.V3{X: 3, Y: 1, Z: 1}}
	c := b.Centroid()
	want := lin.V3{X: 1, Y: 0, Z: 0}
	if !c.Aeq(&want) {
		t.Errorf("centroid: got %+v want %+v", c, want)
	}
	e := b.Extent()
	wantE := lin.V3{X: 4, Y: 2, Z: 2}
	if !e.Aeq(&wantE) {
		t.Errorf("extent: got %+v want %+v", e, wantE)
	}
}

func TestAABBLargestAxis(t *testing.T) {
	cases := []struct {
		box  AABB
		axis int
	}{
		{AABB{Min: lin.V3{}, Max: lin.V3{X: 5, Y: 1, Z: 1}}, 0},
		{AABB{Min: lin.V3{}, Max: lin.V3{X: 1, Y: 5, Z: 1}}, 1},
		{AABB{Min: lin.V3{}, Max: lin.V3{X: 1, Y: 1, Z: 5}}, 2},
	}
	for _, c := range cases {
		if got := c.box.LargestAxis(); got != c.axis {
			t.Errorf("box %+v: got axis %d want %d", c.box, got, c.axis)
		}
	}
}

func TestAABBHit(t *testing.T) {
	b := AABB{Min: lin.V3{X: -1, Y: -1, Z: -1}, Max: lin.V3{X: 1, Y: 1, Z: 1}}
	origin := lin.V3{X: -5, Y: 0, Z: 0}
	dir := lin.V3{X: 1, Y: 0, Z: 0}
	invDir := lin.V3{X: 1 / dir.X, Y: 1e30, Z: 1e30}
	tEnter, tExit := b.Hit(&origin, &invDir)
	if !lin.Aeq(tEnter, 4) || !lin.Aeq(tExit, 6) {
		t.Errorf("got enter=%v exit=%v want enter=4 exit=6", tEnter, tExit)
	}
}

func TestAABBHitMiss(t *testing.T) {
	b := AABB{Min: lin.V3{X: -1, Y: -1, Z: -1}, Max: lin.V3{X: 1, Y: 1, Z: 1}}
	origin := lin.V3{X: -5, Y: 5, Z: 0}
	dir := lin.V3{X: 1, Y: 0, Z: 0}
	invDir := lin.V3{X: 1 / dir.X, Y: 1e30, Z: 1e30}
	tEnter, tExit := b.Hit(&origin, &invDir)
	if tExit >= tEnter {
		t.Errorf("expected a miss (tExit < tEnter), got enter=%v exit=%v", tEnter, tExit)
	}
}
