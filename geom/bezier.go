package geom

import (
	"fmt"
	"math"
)

// CubicBezier is an immutable cubic bezier curve defined by a start point,
// two control points, and an end point.
//
// For background on bezier curves see https://pomax.github.io/bezierinfo
type CubicBezier struct {
	p1, c1, c2, p2 P

	// Arc length is expensive to compute, so it is memoized behind a
	// pointer that survives value copies of the curve.
	alen *arcLengthCache
}

type arcLengthCache struct {
	length float64
	valid  bool
}

// NewCubicBezier creates a cubic bezier curve.
func NewCubicBezier(p1, c1, c2, p2 P) CubicBezier {
	return CubicBezier{p1, c1, c2, p2, &arcLengthCache{}}
}

// CubicBezierFromQuadratic creates a CubicBezier from the control points of a
// quadratic bezier curve.
func CubicBezierFromQuadratic(qp1, qp2, qp3 P) CubicBezier {
	c1 := qp1.Add(qp2.Sub(qp1).Mul(2.0 / 3.0))
	c2 := qp3.Add(qp2.Sub(qp3).Mul(2.0 / 3.0))
	return NewCubicBezier(qp1, c1, c2, qp3)
}

func (b CubicBezier) P1() P { return b.p1 }
func (b CubicBezier) C1() P { return b.c1 }
func (b CubicBezier) C2() P { return b.c2 }
func (b CubicBezier) P2() P { return b.p2 }

// Transform returns a copy of this curve with the transform applied.
func (b CubicBezier) Transform(m Matrix) Segment {
	return NewCubicBezier(
		b.p1.Transform(m), b.c1.Transform(m),
		b.c2.Transform(m), b.p2.Transform(m))
}

// Reversed returns a copy of this curve with its direction reversed.
func (b CubicBezier) Reversed() Segment {
	return NewCubicBezier(b.p2, b.c2, b.c1, b.p1)
}

// PointAt returns the point on the curve at parameter t in [0, 1].
func (b CubicBezier) PointAt(t float64) P {
	if IsZero(t) {
		return b.p1
	}
	if FloatEq(t, 1) {
		return b.p2
	}
	mt := 1 - t
	return b.p1.Mul(mt * mt * mt).
		Add(b.c1.Mul(3 * t * mt * mt)).
		Add(b.c2.Mul(3 * t * t * mt)).
		Add(b.p2.Mul(t * t * t))
}

// Midpoint returns the point at t=0.5.
func (b CubicBezier) Midpoint() P {
	return b.PointAt(0.5)
}

// TangentAt returns the tangent vector at parameter t. The endpoint cases
// fall back to the opposite control point when a control point is coincident
// with its endpoint, which would otherwise give a null tangent.
func (b CubicBezier) TangentAt(t float64) P {
	if IsZero(t) {
		if b.c1.Equal(b.p1) {
			return b.c2.Sub(b.p1)
		}
		return b.c1.Sub(b.p1)
	}
	if FloatEq(t, 1) {
		if b.c2.Equal(b.p2) {
			return b.c2.Sub(b.p1)
		}
		return b.c2.Sub(b.p2)
	}
	mt := 1 - t
	return b.c1.Sub(b.p1).Mul(3 * mt * mt).
		Add(b.c2.Sub(b.c1).Mul(6 * t * mt)).
		Add(b.p2.Sub(b.c2).Mul(3 * t * t))
}

// StartTangentAngle returns the tangent direction at the start point, in
// [-Pi, Pi).
func (b CubicBezier) StartTangentAngle() float64 {
	return b.TangentAt(0).Angle()
}

// EndTangentAngle returns the tangent direction at the end point.
func (b CubicBezier) EndTangentAngle() float64 {
	return NormalizeAngle(b.TangentAt(1).Angle()+math.Pi, 0)
}

// Flatness returns the maximum distance of the control points from the chord
// between the endpoints. This convex hull flatness is robust with degenerate
// curves.
func (b CubicBezier) Flatness() float64 {
	chord := NewLine(b.p1, b.p2)
	d1 := chord.DistanceToPoint(b.c1, true)
	d2 := chord.DistanceToPoint(b.c2, true)
	return math.Max(d1, d2)
}

// IsStraightLine returns true if the curve is essentially a straight line
// within the given flatness tolerance. A flatness of zero means Epsilon.
func (b CubicBezier) IsStraightLine(flatness float64) bool {
	if flatness == 0 {
		flatness = Epsilon
	}
	if b.p1.Equal(b.c1) && b.p2.Equal(b.c2) {
		return true
	}
	return b.Flatness() < flatness
}

// Derivative1 returns the first derivative at t.
func (b CubicBezier) Derivative1(t float64) P {
	t2 := t * t
	return b.p1.Mul((2*t - t2 - 1) * 3).
		Add(b.c1.Mul((3*t2 - 4*t + 1) * 3)).
		Add(b.c2.Mul(t * (2 - 3*t) * 3)).
		Add(b.p2.Mul(t2 * 3))
}

// Derivative2 returns the second derivative at t.
func (b CubicBezier) Derivative2(t float64) P {
	return b.p1.Mul(1 - t).
		Add(b.c1.Mul(3*t - 2)).
		Add(b.c2.Mul(1 - 3*t)).
		Add(b.p2.Mul(t)).
		Mul(6)
}

// Curvature returns the signed curvature at t: negative when curving right,
// positive when curving left as t increases.
func (b CubicBezier) Curvature(t float64) float64 {
	d1 := b.Derivative1(t)
	d2 := b.Derivative2(t)
	return (d1.X*d2.Y - d1.Y*d2.X) / math.Pow(d1.X*d1.X+d1.Y*d1.Y, 1.5)
}

// controlPointsAt runs De Casteljau's algorithm at t, returning the split
// point and the control points of the two halves: (c0, c1, p, c2, c3) where
// curve1 = (p1, c0, c1, p) and curve2 = (p, c2, c3, p2).
func (b CubicBezier) controlPointsAt(t float64) (P, P, P, P, P) {
	d01 := b.p1.Mul(1 - t).Add(b.c1.Mul(t))
	d12 := b.c1.Mul(1 - t).Add(b.c2.Mul(t))
	d23 := b.c2.Mul(1 - t).Add(b.p2.Mul(t))
	d012 := d01.Mul(1 - t).Add(d12.Mul(t))
	d123 := d12.Mul(1 - t).Add(d23.Mul(t))
	d0123 := d012.Mul(1 - t).Add(d123.Mul(t))
	return d01, d012, d0123, d123, d23
}

// Subdivide splits this curve at parameter t into two curves. If t is at or
// beyond either end the original curve is returned alone.
func (b CubicBezier) Subdivide(t float64) []CubicBezier {
	if t <= Epsilon || t >= 1 {
		return []CubicBezier{b}
	}
	cp0, cp1, p, cp2, cp3 := b.controlPointsAt(t)
	return []CubicBezier{
		NewCubicBezier(b.p1, cp0, cp1, p),
		NewCubicBezier(p, cp2, cp3, b.p2),
	}
}

// FindInflections finds the parameter values where the curve changes
// convexity (roots of cross(P', P'')). There may be none, one, or two; a
// zero value means no inflection at that slot.
func (b CubicBezier) FindInflections() (float64, float64) {
	v1 := b.c1.Sub(b.p1)

	// A curve that is exactly symmetrical along the chord axis inflects at
	// the midpoint, which the quadratic below misses.
	if v1.Equal(b.c2.Sub(b.p2).Neg()) {
		return 0.5, 0
	}

	v2 := b.c2.Sub(b.c1).Sub(v1)
	v3 := b.p2.Sub(b.c2).Sub(v1).Sub(v2.Mul(2))

	// Quadratic coefficients of cross(P', P'') = 0.
	qa := v2.X*v3.Y - v2.Y*v3.X
	qb := v1.X*v3.Y - v1.Y*v3.X
	qc := v1.X*v2.Y - v1.Y*v2.X

	t1 := 0.0
	t2 := 0.0
	if aa := 2 * qa; math.Abs(aa) > 0 {
		dis := math.Sqrt(math.Abs(qb*qb - 4*qa*qc))
		t1 = (-qb - dis) / aa
		t2 = (-qb + dis) / aa
		if t1 < Epsilon || t1 >= 1-Epsilon {
			t1 = 0
		}
		if t2 < Epsilon || t2 >= 1-Epsilon {
			t2 = 0
		}
	}
	return t1, t2
}

// SubdivideInflections splits this curve at its inflection points, if any,
// so each piece has monotone curvature. Returns one to three curves.
func (b CubicBezier) SubdivideInflections() []CubicBezier {
	t1, t2 := b.FindInflections()
	switch {
	case t1 > 0 && t2 == 0:
		return b.Subdivide(t1)
	case t1 == 0 && t2 > 0:
		return b.Subdivide(t2)
	case t1 > 0 && t2 > 0:
		halves := b.Subdivide(t1)
		if len(halves) < 2 {
			return halves
		}
		curve1, curve2 := halves[0], halves[1]
		// The second inflection lands in one of the halves; find and split.
		if s1, s2 := curve1.FindInflections(); math.Max(s1, s2) > 0 {
			return append(curve1.Subdivide(math.Max(s1, s2)), curve2)
		}
		if s1, s2 := curve2.FindInflections(); math.Max(s1, s2) > 0 {
			return append([]CubicBezier{curve1}, curve2.Subdivide(math.Max(s1, s2))...)
		}
		return []CubicBezier{curve1, curve2}
	}
	return []CubicBezier{b}
}

// Length returns the approximate arc length of the curve, computed with
// Gravesen's control polygon method and memoized.
func (b CubicBezier) Length() float64 {
	if b.alen != nil && b.alen.valid {
		return b.alen.length
	}
	length := b.arcLength(Epsilon)
	if b.alen != nil {
		b.alen.length = length
		b.alen.valid = true
	}
	return length
}

// arcLength recursively estimates arc length: the average of the chord
// length and the control polygon length is a good approximation, and their
// difference bounds the error.
func (b CubicBezier) arcLength(tolerance float64) float64 {
	l1 := b.p1.Distance(b.c1) + b.c1.Distance(b.c2) + b.c2.Distance(b.p2)
	l0 := b.p1.Distance(b.p2)
	if l1-l0 > tolerance {
		halves := b.Subdivide(0.5)
		if len(halves) == 2 {
			return halves[0].arcLength(tolerance) + halves[1].arcLength(tolerance)
		}
	}
	return 0.5*l0 + 0.5*l1
}

func (b CubicBezier) String() string {
	return fmt.Sprintf("CubicBezier(%v, %v, %v, %v)", b.p1, b.c1, b.c2, b.p2)
}
