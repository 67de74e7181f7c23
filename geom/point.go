package geom

import (
	"fmt"
	"math"
)

// P is an immutable 2D point (or vector).
type P struct {
	X, Y float64
}

// PFromPolar creates a cartesian point from a magnitude and an angle in
// radians.
func PFromPolar(r, angle float64) P {
	return P{r * math.Cos(angle), r * math.Sin(angle)}
}

// IsZero returns true if this point is within Epsilon distance of (0, 0).
func (p P) IsZero() bool {
	return p.Length2() < epsilon2
}

// AlmostEqual compares two points for geometric equality: true if the
// distance between them is less than tolerance. A tolerance of zero means
// Epsilon.
func (p P) AlmostEqual(other P, tolerance float64) bool {
	if tolerance == 0 {
		tolerance = Epsilon
	}
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx+dy*dy < tolerance*tolerance
}

// Equal is AlmostEqual at the default tolerance.
func (p P) Equal(other P) bool {
	return p.AlmostEqual(other, 0)
}

func (p P) Add(other P) P      { return P{p.X + other.X, p.Y + other.Y} }
func (p P) Sub(other P) P      { return P{p.X - other.X, p.Y - other.Y} }
func (p P) Mul(n float64) P    { return P{p.X * n, p.Y * n} }
func (p P) Div(n float64) P    { return P{p.X / n, p.Y / n} }
func (p P) Neg() P             { return P{-p.X, -p.Y} }
func (p P) Length() float64    { return math.Hypot(p.X, p.Y) }
func (p P) Length2() float64   { return p.X*p.X + p.Y*p.Y }
func (p P) Angle() float64     { return math.Atan2(p.Y, p.X) }
func (p P) Dot(o P) float64    { return p.X*o.X + p.Y*o.Y }

// Cross is the 2D cross product (perp-dot product). Its sign gives the
// winding direction of p->o.
func (p P) Cross(o P) float64 { return p.X*o.Y - o.X*p.Y }

// Unit returns the vector scaled to unit length, or a null vector if this
// vector's length is effectively zero.
func (p P) Unit() P {
	l2 := p.Length2()
	if l2 > epsilon2 {
		l := math.Sqrt(l2)
		return P{p.X / l, p.Y / l}
	}
	return P{}
}

// Normal returns a vector perpendicular to this one, to the left if left is
// true otherwise to the right.
func (p P) Normal(left bool) P {
	if left {
		return P{-p.Y, p.X}
	}
	return P{p.Y, -p.X}
}

// Distance returns the euclidean distance to another point.
func (p P) Distance(other P) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Distance2 returns the squared distance, for comparisons that can avoid the
// sqrt.
func (p P) Distance2(other P) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Angle2 returns the angle formed by p1->p->p2, negative if p1 is to the left
// of p2, in [-Pi, Pi]. Returns 0 if the spoke vectors are coincident.
func (p P) Angle2(p1, p2 P) float64 {
	v1 := p1.Sub(p)
	v2 := p2.Sub(p)
	if v1.Equal(v2) {
		return 0
	}
	// atan2 of cross/dot behaves better than acos for angles near 0 or Pi.
	return math.Atan2(v1.Cross(v2), v1.Dot(v2))
}

// CCWAngle2 returns the counterclockwise angle formed by p1->p->p2, in
// [0, 2*Pi).
func (p P) CCWAngle2(p1, p2 P) float64 {
	return NormalizeAngle(p.Angle2(p1, p2), math.Pi)
}

// NormalProjection returns the unit distance from the origin corresponding to
// the projection of point o onto the line described by this vector.
func (p P) NormalProjection(o P) float64 {
	l2 := p.Length2()
	if l2 < epsilon2 {
		return 0
	}
	return o.Dot(p) / l2
}

// Transform returns a copy of this point with the affine transform applied.
func (p P) Transform(m Matrix) P {
	x, y := m.TransformPoint(p.X, p.Y)
	return P{x, y}
}

// Hash computes a spatial hash for the point. Coordinates are rounded to the
// Epsilon precision first, so points that differ only by sub-tolerance jitter
// hash to the same bucket and vertex maps stay robust against floating point
// noise.
func (p P) Hash() uint32 {
	scale := math.Pow(10, float64(epsilonPrecision))
	a := int64(math.Round(p.X*scale)) * 73856093
	b := int64(math.Round(p.Y*scale)) * 83492791
	// Modulo the largest 32 bit Mersenne prime for a slightly better
	// distribution over the 32 bit range.
	h := (a ^ b) % 2147483647
	if h < 0 {
		h = -h
	}
	return uint32(h)
}

func (p P) String() string {
	return fmt.Sprintf("P(%.*f, %.*f)", epsilonPrecision, p.X, epsilonPrecision, p.Y)
}
