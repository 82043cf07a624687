package trace

import "github.com/gazed/tracer/math/lin"

// pool.go implements spec.md §3/§5's mutable per-iteration state: one
// PathSegment per pixel, carried across bounces, plus the Pool that owns
// the parallel path/intersection arrays the pipeline works over. Pool is
// allocated once per Handle and reset in place every iteration (see
// Reset); FirstBounce is the one field that deliberately survives a
// Reset, since CACHE_FIRST_INTERSECTION reuses it across iterations.

// PathSegment is one pixel's in-flight path. Ray is the next bounce's
// ray to cast; Throughput is the running product of BSDF*cosine/pdf
// terms so far (starts at (1,1,1)); Color accumulates emitted radiance
// along the path; Remaining counts bounces left before forced
// termination; Depth counts bounces already taken, used to gate Russian
// roulette (spec.md §4.F) independent of MaxDepth. A path with
// Remaining == 0 is dead and skipped by every later pipeline stage.
type PathSegment struct {
	Ray        Ray
	Throughput lin.V3
	Color      lin.V3
	PixelIndex int
	Remaining  int
	Depth      int
}

// Alive reports whether the path should still be traced this iteration.
func (p *PathSegment) Alive() bool { return p.Remaining > 0 }

// Pool owns one iteration's path segments and the matching intersection
// results, index-aligned by pixel. NewPool always allocates pixelCount
// segments; STREAM_COMPACT (spec.md §6) operates on Active instead of
// reslicing Segments, so dead paths' slots are simply skipped rather
// than removed.
type Pool struct {
	Segments      []PathSegment
	Intersections []Intersection

	// Active holds indices into Segments/Intersections that are still
	// alive; the pipeline filters it at the end of every bounce (Compact
	// with STREAM_COMPACT on, liveIndices with it off), and Reset
	// restores it to [0, len(Segments)).
	Active []int

	// FirstBounce holds bounce-0's intersection per pixel, populated the
	// first time CACHE_FIRST_INTERSECTION runs and reused on every later
	// iteration instead of re-tracing bounce 0 - the camera ray through a
	// given pixel probes the same static scene every iteration, so only
	// its antialiasing jitter changes, and that jitter is deliberately
	// ignored once caching is on. Left nil and unused with the toggle off.
	FirstBounce    []Intersection
	FirstBounceSet bool
}

// NewPool allocates a fresh Pool for pixelCount pixels, with every path
// starting at full throughput, zero accumulated color, and maxDepth
// bounces remaining.
func NewPool(pixelCount, maxDepth int) *Pool {
	p := &Pool{
		Segments:      make([]PathSegment, pixelCount),
		Intersections: make([]Intersection, pixelCount),
		Active:        make([]int, pixelCount),
	}
	for i := range p.Segments {
		p.Segments[i] = PathSegment{
			Throughput: lin.V3{X: 1, Y: 1, Z: 1},
			PixelIndex: i,
			Remaining:  maxDepth,
		}
		p.Active[i] = i
	}
	return p
}

// Reset reinitializes every segment to a fresh path (full throughput,
// zero color, maxDepth bounces remaining) and restores Active to every
// index, without reallocating the underlying slices - the per-iteration
// reuse spec.md §5 asks for ("all pools allocated once at init ... no
// per-iteration allocation"). rays supplies this iteration's primary ray
// per pixel (see render.Generate); it must have the same length as
// p.Segments.
func (p *Pool) Reset(rays []Ray, maxDepth int) {
	if cap(p.Active) >= len(p.Segments) {
		p.Active = p.Active[:len(p.Segments)]
	} else {
		p.Active = make([]int, len(p.Segments))
	}
	for i := range p.Segments {
		p.Segments[i] = PathSegment{
			Ray:        rays[i],
			Throughput: lin.V3{X: 1, Y: 1, Z: 1},
			PixelIndex: i,
			Remaining:  maxDepth,
		}
		p.Active[i] = i
	}
}

// Compact rebuilds p.Active to list only the indices of still-alive
// segments, preserving order - the STREAM_COMPACT toggle's effect
// (spec.md §6). With it disabled the pipeline does not call Compact;
// it drops dead segments from Active with liveIndices instead.
func (p *Pool) Compact() {
	out := p.Active[:0]
	for _, idx := range p.Active {
		if p.Segments[idx].Alive() {
			out = append(out, idx)
		}
	}
	p.Active = out
}
