package trace

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
)

func TestNewPoolInitialState(t *testing.T) {
	p := NewPool(4, 3)
	if len(p.Segments) != 4 || len(p.Intersections) != 4 || len(p.Active) != 4 {
		t.Fatalf("expected every slice sized 4, got segments=%d intersections=%d active=%d",
			len(p.Segments), len(p.Intersections), len(p.Active))
	}
	for i, seg := range p.Segments {
		want := lin.V3{X: 1, Y: 1, Z: 1}
		if !seg.Throughput.Aeq(&want) {
			t.Errorf("segment %d: Throughput = %+v, want %+v", i, seg.Throughput, want)
		}
		if seg.Remaining != 3 {
			t.Errorf("segment %d: Remaining = %d, want 3", i, seg.Remaining)
		}
		if seg.PixelIndex != i {
			t.Errorf("segment %d: PixelIndex = %d, want %d", i, seg.PixelIndex, i)
		}
		if p.Active[i] != i {
			t.Errorf("Active[%d] = %d, want %d", i, p.Active[i], i)
		}
	}
}

func TestPathSegmentAlive(t *testing.T) {
	seg := PathSegment{Remaining: 1}
	if !seg.Alive() {
		t.Error("expected Alive() true with Remaining > 0")
	}
	seg.Remaining = 0
	if seg.Alive() {
		t.Error("expected Alive() false with Remaining == 0")
	}
}

func TestPoolResetReusesSlices(t *testing.T) {
	p := NewPool(3, 2)
	segPtr := &p.Segments[0]
	p.Segments[0].Color = lin.V3{X: 1, Y: 1, Z: 1}
	p.Segments[0].Remaining = 0
	p.Active = p.Active[:1] // simulate a prior iteration that compacted Active down.

	rays := []Ray{
		{Direction: lin.V3{X: 1}},
		{Direction: lin.V3{X: 2}},
		{Direction: lin.V3{X: 3}},
	}
	p.Reset(rays, 5)

	if &p.Segments[0] != segPtr {
		t.Fatal("Reset must not reallocate the Segments slice")
	}
	if len(p.Active) != 3 {
		t.Fatalf("expected Active restored to every index, got len=%d", len(p.Active))
	}
	for i := range p.Segments {
		seg := &p.Segments[i]
		if seg.Remaining != 5 {
			t.Errorf("segment %d: Remaining = %d, want 5", i, seg.Remaining)
		}
		zero := lin.V3{}
		if !seg.Color.Aeq(&zero) {
			t.Errorf("segment %d: Color = %+v, want zero", i, seg.Color)
		}
		if !seg.Ray.Direction.Aeq(&rays[i].Direction) {
			t.Errorf("segment %d: Ray = %+v, want %+v", i, seg.Ray, rays[i])
		}
	}
}

func TestPoolCompactDropsDeadPaths(t *testing.T) {
	p := NewPool(4, 1)
	p.Segments[1].Remaining = 0
	p.Segments[3].Remaining = 0
	p.Compact()

	want := []int{0, 2}
	if len(p.Active) != len(want) {
		t.Fatalf("Active = %v, want %v", p.Active, want)
	}
	for i, idx := range want {
		if p.Active[i] != idx {
			t.Errorf("Active[%d] = %d, want %d", i, p.Active[i], idx)
		}
	}
}
