package geom

import "fmt"

// Line is an immutable 2D line segment defined by two points.
type Line struct {
	p1, p2 P
}

// NewLine creates a line segment from p1 to p2.
func NewLine(p1, p2 P) Line {
	return Line{p1, p2}
}

// LineFromPolar creates a line given a start point, length, and direction
// angle.
func LineFromPolar(start P, length, angle float64) Line {
	return Line{start, start.Add(PFromPolar(length, angle))}
}

func (l Line) P1() P { return l.p1 }
func (l Line) P2() P { return l.p2 }

// Length returns the length of the segment.
func (l Line) Length() float64 {
	return l.p2.Sub(l.p1).Length()
}

// Angle returns the direction of the segment in radians.
func (l Line) Angle() float64 {
	return l.p2.Sub(l.p1).Angle()
}

// StartTangentAngle returns the direction at the start point. For lines the
// start and end tangent angles are the same.
func (l Line) StartTangentAngle() float64 { return l.Angle() }

// EndTangentAngle returns the direction at the end point.
func (l Line) EndTangentAngle() float64 { return l.Angle() }

// Transform returns a copy of this line with the transform applied.
func (l Line) Transform(m Matrix) Segment {
	return Line{l.p1.Transform(m), l.p2.Transform(m)}
}

// Reversed returns this segment with start and end points swapped.
func (l Line) Reversed() Segment {
	return Line{l.p2, l.p1}
}

// Midpoint returns the point halfway between the two endpoints.
func (l Line) Midpoint() P {
	return l.p1.Add(l.p2).Mul(0.5)
}

// Bisector returns the perpendicular bisector of this segment: a line
// perpendicular to and passing through the midpoint. Essentially this
// segment rotated 90 degrees about its midpoint.
func (l Line) Bisector() Line {
	midp := l.Midpoint()
	d1 := l.p1.Sub(midp)
	d2 := l.p2.Sub(midp)
	return Line{midp.Add(P{d1.Y, -d1.X}), midp.Add(P{d2.Y, -d2.X})}
}

// PointAt returns the point at unit distance mu from p1, where p1 is at
// mu=0 and p2 at mu=1.
func (l Line) PointAt(mu float64) P {
	return l.p1.Add(l.p2.Sub(l.p1).Mul(mu))
}

// Mu returns the unit distance from p1 to the given collinear point. The
// point is assumed collinear; this is not checked.
func (l Line) Mu(p P) float64 {
	return l.p1.Distance(p) / l.Length()
}

// Subdivide splits this segment at unit distance mu into two lines.
func (l Line) Subdivide(mu float64) (Line, Line) {
	p := l.PointAt(mu)
	return Line{l.p1, p}, Line{p, l.p2}
}

// Offset returns a segment parallel to this one at the given perpendicular
// distance: to the left if distance is positive, otherwise to the right. A
// zero distance or zero-length segment returns the receiver.
func (l Line) Offset(distance float64) Line {
	length := l.Length()
	if IsZero(distance) || IsZero(length) {
		return l
	}
	u := distance / length
	v1 := l.p2.Sub(l.p1).Mul(u)
	v2 := l.p1.Sub(l.p2).Mul(u)
	return Line{v1.Normal(true).Add(l.p1), v2.Normal(false).Add(l.p2)}
}

// Extend returns a segment lengthened (or shortened, for negative amounts)
// by amount. If fromMidpoint is true both ends move by amount/2.
func (l Line) Extend(amount float64, fromMidpoint bool) Line {
	if fromMidpoint {
		amount /= 2
	}
	dxdy := l.p2.Sub(l.p1).Mul(amount / l.Length())
	if fromMidpoint {
		return Line{l.p1.Sub(dxdy), l.p2.Add(dxdy)}
	}
	return Line{l.p1, l.p2.Add(dxdy)}
}

// Shift slides this segment forward along its own direction by amount
// (backwards if negative).
func (l Line) Shift(amount float64) Line {
	dxdy := l.p2.Sub(l.p1).Mul(amount / l.Length())
	return Line{l.p1.Add(dxdy), l.p2.Add(dxdy)}
}

// NormalProjection returns the unit distance from p1 corresponding to the
// projection of p onto this line. The value is < 0 if the projection falls
// before p1 and > 1 if it falls past p2.
func (l Line) NormalProjection(p P) float64 {
	v1 := l.p2.Sub(l.p1)
	return v1.NormalProjection(p.Sub(l.p1))
}

// NormalProjectionPoint returns the point on this line corresponding to the
// projection of p. If segment is true and the projection falls outside the
// endpoints, the closest endpoint is returned.
func (l Line) NormalProjectionPoint(p P, segment bool) P {
	v1 := l.p2.Sub(l.p1)
	u := v1.NormalProjection(p.Sub(l.p1))
	if segment {
		if u <= 0 {
			return l.p1
		}
		if u >= 1 {
			return l.p2
		}
	}
	return l.p1.Add(v1.Mul(u))
}

// DistanceToPoint returns the distance from p to its normal projection on
// this line. If segment is true and the projection falls outside the
// endpoints, the distance to the nearest endpoint is returned instead.
func (l Line) DistanceToPoint(p P, segment bool) float64 {
	return l.NormalProjectionPoint(p, segment).Distance(p)
}

// WhichSide determines which side of this line the point lies on: 1 if to
// the left, -1 if to the right. If inline is true and the point is on the
// line, 0.
func (l Line) WhichSide(p P, inline bool) int {
	cp := l.p2.Sub(l.p1).Cross(p.Sub(l.p1))
	if inline && IsZero(cp) {
		return 0
	}
	if cp >= 0 {
		return 1
	}
	return -1
}

// WhichSideAngle determines which side of this line a unit vector from p2
// with the given direction angle points to.
func (l Line) WhichSideAngle(angle float64, inline bool) int {
	return l.WhichSide(PFromPolar(1, angle).Add(l.p2), inline)
}

// PointOnLine returns true if p lies on the infinite line defined by this
// segment.
func (l Line) PointOnLine(p P) bool {
	return IsZero(l.p2.Sub(l.p1).Cross(p.Sub(l.p1)))
}

// Coincident compares two segments geometrically, ignoring direction: a line
// equals its reverse.
func (l Line) Coincident(other Line) bool {
	return (l.p1.Equal(other.p1) && l.p2.Equal(other.p2)) ||
		(l.p1.Equal(other.p2) && l.p2.Equal(other.p1))
}

// Intersection returns the intersection point of this line and another, or
// ok=false if they do not intersect. Parallel lines have no intersection;
// coincident lines report the midpoint of this segment. If segA is true the
// intersection must lie within this segment's endpoints; segB likewise for
// the other line.
func (l Line) Intersection(other Line, segA, segB bool) (P, bool) {
	x1, y1 := l.p1.X, l.p1.Y
	x2, y2 := l.p2.X, l.p2.Y
	x3, y3 := other.p1.X, other.p1.Y
	x4, y4 := other.p2.X, other.p2.Y

	a := (x4-x3)*(y1-y3) - (y4-y3)*(x1-x3)
	b := (x2-x1)*(y1-y3) - (y2-y1)*(x1-x3)
	denom := (y4-y3)*(x2-x1) - (x4-x3)*(y2-y1)

	if IsZero(denom) {
		// Parallel. Coincident lines get an arbitrary but stable answer.
		if IsZero(a) && IsZero(b) {
			return l.Midpoint(), true
		}
		return P{}, false
	}
	muA := a / denom
	muB := b / denom
	muMin := -Epsilon
	muMax := 1 + Epsilon
	if (segA && (muA < muMin || muA > muMax)) ||
		(segB && (muB < muMin || muB > muMax)) {
		return P{}, false
	}
	return P{x1 + muA*(x2-x1), y1 + muA*(y2-y1)}, true
}

func (l Line) String() string {
	return fmt.Sprintf("Line(%v, %v)", l.p1, l.p2)
}
