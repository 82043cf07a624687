package lin

// rng.go provides the deterministic pseudo-random stream and the sampling
// routines the path tracer core needs: a hash-seeded per-(iteration, pixel,
// depth) stream (so re-running a scene reproduces the same image bit for
// bit) and the Shirley-Chiu concentric disk mapping used for cosine-weighted
// hemisphere sampling and thin-lens aperture sampling.

import "math"

// RNG is a small, fast, deterministic pseudo-random stream. It is not
// suitable for anything security sensitive - it exists purely so that
// identical (iteration, pixelIndex, depth) keys reproduce identical
// sample sequences across runs and across goroutines.
type RNG struct {
	state uint32
}

// NewRNG builds the stream for one bounce of one pixel of one iteration.
// The seed hides no shared state: two RNGs built from the same three
// integers always emit the same sequence, regardless of which goroutine,
// core, or launch order constructed them.
func NewRNG(iteration, pixelIndex, depth int) *RNG {
	key := uint32(depth<<22) | (1 << 31) | uint32(iteration)
	seed := hash32(uint32(pixelIndex)) ^ hash32(key)
	if seed == 0 {
		seed = 0x9e3779b9 // xorshift32 cannot recover from a zero state.
	}
	return &RNG{state: seed}
}

// hash32 is Thomas Wang's 32 bit integer hash. Fixed, non-cryptographic,
// portable across platforms - the only property that matters here.
func hash32(x uint32) uint32 {
	x = (x ^ 61) ^ (x >> 16)
	x += x << 3
	x ^= x >> 4
	x *= 0x27d4eb2d
	x ^= x >> 15
	return x
}

// Float64 advances the stream and returns the next sample in [0,1).
func (r *RNG) Float64() float64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return float64(x) / 4294967296.0 // / 2^32
}

// Float64x2 draws two independent-looking samples from the stream.
func (r *RNG) Float64x2() (u, v float64) { return r.Float64(), r.Float64() }

// ConcentricSampleDisk maps (u,v) in [0,1)^2 onto the unit disk with
// uniform area density using the Shirley-Chiu concentric mapping. The
// degenerate center input (0.5,0.5) maps to the disk origin; keeping that branch is
// vestigial at double precision but matches the mapping's usual form.
func ConcentricSampleDisk(u, v float64) (x, y float64) {
	sx, sy := 2*u-1, 2*v-1
	if sx == 0 && sy == 0 {
		return 0, 0
	}
	var r, theta float64
	if sx*sx > sy*sy {
		r = sx
		theta = (PI / 4) * (sy / sx)
	} else {
		r = sy
		theta = HalfPi - (PI/4)*(sx/sy)
	}
	return r * math.Cos(theta), r * math.Sin(theta)
}

// CosineSampleHemisphere draws a direction over the unit hemisphere about
// +Z with probability density proportional to the cosine of the polar
// angle - the distribution a Lambertian BSDF wants.
func CosineSampleHemisphere(u, v float64) (x, y, z float64) {
	x, y = ConcentricSampleDisk(u, v)
	z = math.Sqrt(math.Max(0, 1-x*x-y*y))
	return x, y, z
}

// Basis builds an orthonormal (t, b) tangent/bitangent pair for the unit
// vector n, following Duff et al.'s branchless construction. Together
// (t, b, n) form a right-handed frame usable to rotate a local-space
// sample (e.g. from CosineSampleHemisphere) into world space.
func Basis(n *V3) (t, b *V3) {
	sign := math.Copysign(1, n.Z)
	a := -1 / (sign + n.Z)
	c := n.X * n.Y * a
	t = &V3{1 + sign*n.X*n.X*a, sign * c, -sign * n.X}
	b = &V3{c, sign + n.Y*n.Y*a, -n.Y}
	return t, b
}

// Reflect sets v to the reflection of unit direction d about unit normal
// n and returns v.
func (v *V3) Reflect(d, n *V3) *V3 {
	dn := d.Dot(n)
	v.X = d.X - 2*dn*n.X
	v.Y = d.Y - 2*dn*n.Y
	v.Z = d.Z - 2*dn*n.Z
	return v
}

// Refract sets v to the refraction of unit incident direction d through
// unit normal n (pointing against d, i.e. on the incident side) given the
// ratio eta = etaIncident/etaTransmitted. It returns false, leaving v
// unchanged, on total internal reflection.
func (v *V3) Refract(d, n *V3, eta float64) bool {
	cosI := -d.Dot(n)
	sin2T := eta * eta * math.Max(0, 1-cosI*cosI)
	if sin2T > 1 {
		return false
	}
	cosT := math.Sqrt(1 - sin2T)
	v.X = eta*d.X + (eta*cosI-cosT)*n.X
	v.Y = eta*d.Y + (eta*cosI-cosT)*n.Y
	v.Z = eta*d.Z + (eta*cosI-cosT)*n.Z
	return true
}

// MaxComponent returns the largest of v's three channels.
func (v *V3) MaxComponent() float64 { return math.Max(v.X, math.Max(v.Y, v.Z)) }

// NonNegative reports whether every channel of v is >= 0 and finite.
func (v *V3) NonNegative() bool {
	return v.X >= 0 && v.Y >= 0 && v.Z >= 0 &&
		!math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// Clamp01 clamps x to [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
