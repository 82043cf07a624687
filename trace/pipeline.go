package trace

import (
	"runtime"
	"sort"
	"sync"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
)

// pipeline.go implements spec.md §4.G: the per-iteration bounce loop -
// generate (caller's job, see render.Generate), intersect, shade,
// optionally sort/compact, repeat until every path is dead or MaxDepth
// bounces have run. Work is split across a goroutine pool the way the
// teacher engine's frame update fans out per-entity work, with a
// sync.WaitGroup barrier between pipeline stages standing in for the
// original's bulk-synchronous GPU kernel launches.

// Config toggles the optional pipeline behaviors spec.md §6 names. All
// default false/zero to the simplest correct pipeline; callers (engine)
// turn them on explicitly.
type Config struct {
	EnableBVH              bool // route MESH intersection through the BVH instead of a linear scan.
	SortByMaterial         bool // sort active paths by hit material between intersect and shade.
	StreamCompact          bool // compact dead paths out of Active after every bounce.
	CacheFirstIntersection bool // after the first iteration, reuse bounce-0's intersection instead of re-tracing it.
	EnableRussianRoulette  bool // probabilistically terminate low-throughput paths past depth 3.
}

// workers is the goroutine fan-out width for a single pipeline stage.
// Bounded by GOMAXPROCS the way the teacher's simulation update splits
// entity batches across runtime.NumCPU goroutines.
func workers() int {
	if n := runtime.GOMAXPROCS(0); n > 1 {
		return n
	}
	return 1
}

// forEachActive runs fn(idx) for every index in active across workers()
// goroutines, blocking until all have finished - the per-stage barrier
// spec.md §5 describes.
func forEachActive(active []int, fn func(idx int)) {
	n := len(active)
	if n == 0 {
		return
	}
	w := workers()
	if w > n {
		w = n
	}
	chunk := (n + w - 1) / w

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for _, idx := range active[lo:hi] {
				fn(idx)
			}
		}(start, end)
	}
	wg.Wait()
}

// RunIteration drives one full iteration's bounce loop over pool, whose
// Segments must already hold this iteration's primary rays (see
// render.Generate) and whose Active must list every pixel index.
// iteration and maxDepth feed lin.NewRNG's deterministic per-bounce
// seeding (spec.md §4.I); sc is the read-only scene being rendered.
func RunIteration(pool *Pool, sc *scene.Scene, iteration, maxDepth int, cfg Config) {
	if cfg.CacheFirstIntersection && pool.FirstBounce == nil {
		pool.FirstBounce = make([]Intersection, len(pool.Segments))
	}

	for depth := 0; depth < maxDepth; depth++ {
		if len(pool.Active) == 0 {
			break
		}

		useCache := cfg.CacheFirstIntersection && depth == 0 && pool.FirstBounceSet
		forEachActive(pool.Active, func(idx int) {
			seg := &pool.Segments[idx]
			if useCache {
				pool.Intersections[idx] = pool.FirstBounce[idx]
				return
			}
			isect, hit := IntersectScene(&seg.Ray, sc, cfg.EnableBVH)
			if !hit {
				isect = Miss
			}
			pool.Intersections[idx] = isect
			if cfg.CacheFirstIntersection && depth == 0 {
				pool.FirstBounce[idx] = isect
			}
		})
		if depth == 0 && cfg.CacheFirstIntersection {
			pool.FirstBounceSet = true
		}

		if cfg.SortByMaterial {
			sortActiveByMaterial(pool)
		}

		forEachActive(pool.Active, func(idx int) {
			seg := &pool.Segments[idx]
			isect := &pool.Intersections[idx]
			rng := lin.NewRNG(iteration, seg.PixelIndex, depth)
			if isect.T <= 0 {
				ShadeMiss(seg)
				return
			}
			mat := &sc.Materials[isect.MaterialID]
			Shade(seg, isect, mat, rng, cfg.EnableRussianRoulette)
		})

		if cfg.StreamCompact {
			pool.Compact()
		} else {
			pool.Active = liveIndices(pool.Active, pool.Segments)
		}
	}
}

// liveIndices is the non-STREAM_COMPACT path's equivalent filtering: it
// still must drop dead paths from Active so later bounces don't keep
// tracing them, just without the toggle's explicit "compaction pass"
// framing. It filters active in place, reusing its backing array, so no
// bounce allocates and Active keeps its full capacity for the next Reset.
func liveIndices(active []int, segs []PathSegment) []int {
	out := active[:0]
	for _, idx := range active {
		if segs[idx].Alive() {
			out = append(out, idx)
		}
	}
	return out
}

// sortActiveByMaterial reorders Active by the hit material id of each
// active path's current Intersection, grouping same-material paths
// together so goroutines processing adjacent Active entries branch the
// same way in Shade - a throughput optimization with no effect on the
// final image (spec.md §8 invariant: SORT_BY_MATERIAL toggling must not
// change results, only their order of computation).
func sortActiveByMaterial(pool *Pool) {
	sort.Slice(pool.Active, func(i, j int) bool {
		return pool.Intersections[pool.Active[i]].MaterialID < pool.Intersections[pool.Active[j]].MaterialID
	})
}
