package scene

import "github.com/gazed/tracer/math/lin"

// AABB is an axis aligned bounding box, kept as distinct min/max corners
// the way physics.Abox does in the teacher engine - same shape, renamed
// for this package's domain.
type AABB struct {
	Min, Max lin.V3
}

// EmptyAABB returns an AABB that ExpandPoint/ExpandBox can safely grow
// from; Min starts above Max so the first expansion always wins.
func EmptyAABB() AABB {
	const inf = 1e30
	return AABB{
		Min: lin.V3{X: inf, Y: inf, Z: inf},
		Max: lin.V3{X: -inf, Y: -inf, Z: -inf},
	}
}

// ExpandPoint grows the box to include p.
func (b *AABB) ExpandPoint(p *lin.V3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// ExpandBox grows the box to include a.
func (b *AABB) ExpandBox(a *AABB) {
	b.ExpandPoint(&a.Min)
	b.ExpandPoint(&a.Max)
}

// Centroid returns the box's center point.
func (b *AABB) Centroid() lin.V3 {
	return lin.V3{
		X: (b.Min.X + b.Max.X) * 0.5,
		Y: (b.Min.Y + b.Max.Y) * 0.5,
		Z: (b.Min.Z + b.Max.Z) * 0.5,
	}
}

// Extent returns the box's size along each axis.
func (b *AABB) Extent() lin.V3 {
	return lin.V3{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// LargestAxis returns 0, 1, or 2 for the axis (X, Y, Z) along which the
// box is largest - used by the BVH builder's median split.
func (b *AABB) LargestAxis() int {
	e := b.Extent()
	axis := 0
	largest := e.X
	if e.Y > largest {
		axis, largest = 1, e.Y
	}
	if e.Z > largest {
		axis = 2
	}
	return axis
}

// Hit is the branchless slab test of spec.md §4.B: it returns the entry
// and exit parametric distances along the ray; the ray hits the box iff
// tEnter <= tExit && tExit >= 0. invDir must be the componentwise
// reciprocal of the ray direction (callers precompute this once per ray
// and reuse it across many AABB tests).
func (b *AABB) Hit(origin, invDir *lin.V3) (tEnter, tExit float64) {
	tx1 := (b.Min.X - origin.X) * invDir.X
	tx2 := (b.Max.X - origin.X) * invDir.X
	tEnter, tExit = minMax(tx1, tx2)

	ty1 := (b.Min.Y - origin.Y) * invDir.Y
	ty2 := (b.Max.Y - origin.Y) * invDir.Y
	tyMin, tyMax := minMax(ty1, ty2)
	tEnter = maxF(tEnter, tyMin)
	tExit = minF(tExit, tyMax)

	tz1 := (b.Min.Z - origin.Z) * invDir.Z
	tz2 := (b.Max.Z - origin.Z) * invDir.Z
	tzMin, tzMax := minMax(tz1, tz2)
	tEnter = maxF(tEnter, tzMin)
	tExit = minF(tExit, tzMax)

	return tEnter, tExit
}

func minMax(a, b float64) (lo, hi float64) {
	if a < b {
		return a, b
	}
	return b, a
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
