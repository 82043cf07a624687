package scene

import "github.com/gazed/tracer/math/lin"

// Transform is a Geom's object-to-world placement: translation, an Euler
// XYZ rotation (degrees, applied in X then Y then Z order), and a
// non-uniform scale. It keeps its own precomputed 3x3 linear part
// (rather than a quaternion) since ToWorld/ToObject need to carry scale
// through, not just rotation.
type Transform struct {
	Translate lin.V3
	Rotate    lin.V3 // degrees, Euler XYZ.
	Scale     lin.V3

	linear    lin.M3 // Rotate * Scale, precomputed.
	inverse   lin.M3 // linear^-1, precomputed.
	invTransp lin.M3 // (linear^-1)^T, precomputed, used to carry normals.
}

// Build precomputes the transform's linear part and its inverses.
// Must be called once after Translate/Rotate/Scale are set and whenever
// they change; intersection routines assume the cached matrices are
// current.
func (t *Transform) Build() {
	rx := lin.NewM3().SetAa(1, 0, 0, t.Rotate.X*lin.DegRad)
	ry := lin.NewM3().SetAa(0, 1, 0, t.Rotate.Y*lin.DegRad)
	rz := lin.NewM3().SetAa(0, 0, 1, t.Rotate.Z*lin.DegRad)

	rot := lin.NewM3().Mult(rz, lin.NewM3().Mult(ry, rx))
	scale := lin.NewM3I().ScaleS(t.Scale.X, t.Scale.Y, t.Scale.Z)
	t.linear.Mult(rot, scale)
	t.inverse.Inv(&t.linear)
	t.invTransp.Transpose(&t.inverse)
}

// ToObject transforms a world-space point into object space.
func (t *Transform) ToObject(p *lin.V3) lin.V3 {
	local := lin.V3{X: p.X - t.Translate.X, Y: p.Y - t.Translate.Y, Z: p.Z - t.Translate.Z}
	var out lin.V3
	out.MultMv(&t.inverse, &local)
	return out
}

// ToObjectDir transforms a world-space direction (no translation) into
// object space.
func (t *Transform) ToObjectDir(d *lin.V3) lin.V3 {
	var out lin.V3
	out.MultMv(&t.inverse, d)
	return out
}

// ToWorld transforms an object-space point into world space.
func (t *Transform) ToWorld(p *lin.V3) lin.V3 {
	var out lin.V3
	out.MultMv(&t.linear, p)
	out.X += t.Translate.X
	out.Y += t.Translate.Y
	out.Z += t.Translate.Z
	return out
}

// NormalToWorld carries an object-space normal into world space using the
// inverse-transpose of the linear part, then renormalizes - the standard
// treatment for normals under non-uniform scale.
func (t *Transform) NormalToWorld(n *lin.V3) lin.V3 {
	var out lin.V3
	out.MultMv(&t.invTransp, n)
	out.Unit()
	return out
}
