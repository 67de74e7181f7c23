package geom

import (
	"fmt"
	"math"
)

// Arc is an immutable circular arc segment. The sweep angle is signed:
// positive sweeps counterclockwise, negative clockwise.
type Arc struct {
	p1, p2 P
	radius float64
	angle  float64
	center P
}

// NewArc creates an arc from two endpoints, a radius, and a signed sweep
// angle. The center is derived using the chord midpoint method.
func NewArc(p1, p2 P, radius, angle float64) Arc {
	return Arc{p1, p2, radius, angle, arcCenter(p1, p2, radius, angle)}
}

// NewArcWithCenter creates an arc with a precomputed center. The center is
// trusted, not rederived; it must be equidistant from both endpoints.
func NewArcWithCenter(p1, p2 P, radius, angle float64, center P) Arc {
	return Arc{p1, p2, radius, angle, center}
}

// ArcFromTwoPointsAndCenter creates an arc given two endpoints and the center
// point. Since that alone is ambiguous, largeArc hints which way around:
// true for the major arc (sweep > Pi).
func ArcFromTwoPointsAndCenter(p1, p2, center P, largeArc bool) Arc {
	radius := p1.Distance(center)
	angle := center.Angle2(p1, p2)
	if largeArc {
		if angle < 0 {
			angle = -Tau - angle
		} else {
			angle = Tau - angle
		}
	}
	return Arc{p1, p2, radius, angle, center}
}

// ArcFromTwoPointsAndTangent creates an arc from p1 to p2 that is tangent to
// the vector p1->ptan at p1. Returns ok=false for degenerate parameters
// (coincident endpoints, or tangent coincident with the start point). If
// reverse is true the resulting arc runs p2->p1.
func ArcFromTwoPointsAndTangent(p1, ptan, p2 P, reverse bool) (Arc, bool) {
	if p1.Equal(p2) || p1.Equal(p1.Add(ptan)) {
		return Arc{}, false
	}
	// The arc angle is twice the angle between the tangent and the secant.
	angle := 2 * p1.Angle2(ptan, p2)
	chordLen := p1.Distance(p2)
	radius := math.Abs(chordLen / (2 * math.Sin(angle/2)))
	if reverse {
		return NewArc(p2, p1, radius, -angle), true
	}
	return NewArc(p1, p2, radius, angle), true
}

// arcCenter computes the center of an arc given two endpoints, the radius,
// and the signed sweep angle. Coincident endpoints map to p1.
func arcCenter(p1, p2 P, radius, angle float64) P {
	if p1.Equal(p2) {
		return p1
	}
	chord := NewLine(p1, p2)
	chordLen := chord.Length()
	sign := 1.0
	if angle < 0 {
		sign = -1.0
	}
	if math.Abs(angle) > math.Pi {
		// Major arcs bulge past the half circle; the center sits on the far
		// side of the chord.
		sign = -sign
	}
	midp := chord.Midpoint()
	// Distance from the chord midpoint to the center.
	c2m := math.Sqrt(math.Max(0, radius*radius-chordLen*chordLen/4))
	return P{
		midp.X - sign*c2m*((p2.Y-p1.Y)/chordLen),
		midp.Y + sign*c2m*((p2.X-p1.X)/chordLen),
	}
}

func (a Arc) P1() P           { return a.p1 }
func (a Arc) P2() P           { return a.p2 }
func (a Arc) Radius() float64 { return a.radius }
func (a Arc) Angle() float64  { return a.angle }
func (a Arc) Center() P       { return a.center }

// Length returns the arc length.
func (a Arc) Length() float64 {
	return math.Abs(a.radius * a.angle)
}

// IsClockwise returns true if the arc sweeps clockwise from p1 to p2.
func (a Arc) IsClockwise() bool {
	return a.angle < 0
}

// StartTangentAngle returns the direction of travel at the start point, in
// [-Pi, Pi).
func (a Arc) StartTangentAngle() float64 {
	var v P
	if a.IsClockwise() {
		v = a.center.Sub(a.p1)
	} else {
		v = a.p1.Sub(a.center)
	}
	return NormalizeAngle(v.Angle()+math.Pi/2, 0)
}

// EndTangentAngle returns the direction of travel at the end point.
func (a Arc) EndTangentAngle() float64 {
	var v P
	if a.IsClockwise() {
		v = a.center.Sub(a.p2)
	} else {
		v = a.p2.Sub(a.center)
	}
	return NormalizeAngle(v.Angle()+math.Pi/2, 0)
}

// Transform returns a copy of this arc with the transform applied. The
// transform must be conformal (|sx| == |sy|) so the result stays circular; a
// mirroring transform flips the sweep direction.
func (a Arc) Transform(m Matrix) Segment {
	newP1 := a.p1.Transform(m)
	newP2 := a.p2.Transform(m)
	angle := a.angle
	if m.XX*m.YY-m.XY*m.YX < 0 {
		angle = -angle
	}
	chordLen := a.p1.Distance(a.p2)
	newChordLen := newP1.Distance(newP2)
	radius := a.radius
	if !IsZero(chordLen) {
		radius *= newChordLen / chordLen
	}
	return NewArc(newP1, newP2, radius, angle)
}

// Reversed returns a copy of this arc with its direction reversed.
func (a Arc) Reversed() Segment {
	return Arc{a.p2, a.p1, a.radius, -a.angle, a.center}
}

// Offset returns a parallel arc at the given radial distance: away from the
// center if distance is positive, towards it if negative. The center and
// signed sweep angle are preserved; the endpoints move along the center
// spokes.
func (a Arc) Offset(distance float64) Arc {
	l1 := NewLine(a.center, a.p1).Extend(distance, false)
	l2 := NewLine(a.center, a.p2).Extend(distance, false)
	return Arc{l1.P2(), l2.P2(), a.radius + distance, a.angle, a.center}
}

// Midpoint returns the point at the middle of the arc segment.
func (a Arc) Midpoint() P {
	return a.PointAt(0.5)
}

// Mu returns the unit distance from p1 to the given point on the arc. May
// fall outside [0, 1] if the point is not on the segment.
func (a Arc) Mu(p P) float64 {
	return a.center.Angle2(a.p1, p) / a.angle
}

// PointAt returns the point at unit distance mu along the arc from p1.
func (a Arc) PointAt(mu float64) P {
	p, _ := a.PointAtAngle(math.Abs(a.angle)*mu, false)
	return p
}

// PointAtAngle returns the point at the given positive central angle from the
// start point. If segment is true and the angle falls outside the sweep,
// ok=false. Otherwise out-of-range angles clamp to the endpoints.
func (a Arc) PointAtAngle(angle float64, segment bool) (P, bool) {
	if segment && (angle < 0 || angle > math.Abs(a.angle)) {
		return P{}, false
	}
	if angle <= 0 {
		return a.p1, true
	}
	if angle >= math.Abs(a.angle) {
		return a.p2, true
	}
	p1Angle := a.p1.Sub(a.center).Angle()
	if a.angle < 0 {
		angle = p1Angle - angle
	} else {
		angle = p1Angle + angle
	}
	return P{
		a.center.X + a.radius*math.Cos(angle),
		a.center.Y + a.radius*math.Sin(angle),
	}, true
}

// Subdivide splits this arc at unit distance mu from the start point into
// one or two arcs.
func (a Arc) Subdivide(mu float64) []Arc {
	if mu < Epsilon || mu >= 1 {
		return []Arc{a}
	}
	return a.SubdivideAtAngle(math.Abs(a.angle) * mu)
}

// SubdivideAtAngle splits this arc at the given positive central angle from
// the start point.
func (a Arc) SubdivideAtAngle(angle float64) []Arc {
	if angle < Epsilon || angle >= math.Abs(a.angle) {
		return []Arc{a}
	}
	angle2 := math.Abs(a.angle) - angle
	p, _ := a.PointAtAngle(angle, false)
	if a.angle < 0 {
		angle = -angle
		angle2 = -angle2
	}
	return []Arc{
		{a.p1, p, a.radius, angle, a.center},
		{p, a.p2, a.radius, angle2, a.center},
	}
}

// PointOnArc determines whether p lies on this arc segment.
func (a Arc) PointOnArc(p P) bool {
	if !FloatEq(a.radius, a.center.Distance(p)) {
		return false
	}
	// On the circle; now check that the central angle from p1 to the point
	// falls within the sweep.
	phi := a.center.CCWAngle2(a.p1, p)
	if a.angle < 0 {
		return IsZero(phi) || phi >= Tau+a.angle-Epsilon
	}
	return phi <= a.angle+Epsilon
}

// WhichSideAngle determines which side of the tangent line at this arc's end
// point a vector with the given direction angle points to.
func (a Arc) WhichSideAngle(angle float64, inline bool) int {
	v1 := PFromPolar(1, a.EndTangentAngle()).Add(a.p2)
	v2 := PFromPolar(1, angle).Add(a.p2)
	return NewLine(a.p2, v1).WhichSide(v2, inline)
}

// DistanceToPoint returns the minimum distance from this arc segment to p,
// or -1 if segment is true and the normal projection of p does not fall on
// the arc segment.
func (a Arc) DistanceToPoint(p P, segment bool) float64 {
	if a.radius < Epsilon || a.p1.Equal(a.p2) {
		return a.p1.Distance(p)
	}
	var insideArc bool
	absAngle := math.Abs(a.angle)
	switch {
	case FloatEq(absAngle, math.Pi):
		side := NewLine(a.p1, a.p2).WhichSide(p, false)
		insideArc = (side == 1 && a.angle < 0) || (side == -1 && a.angle > 0)
	case absAngle > math.Pi:
		phi := a.center.CCWAngle2(a.p1, p)
		if a.angle < 0 {
			phi = Tau - phi
		}
		insideArc = absAngle-math.Abs(phi) > 0
	default:
		// Barycentric test against the pie wedge.
		v1 := a.p1.Sub(a.center)
		v2 := a.p2.Sub(a.center)
		v3 := p.Sub(a.center)
		det := v1.Cross(v2)
		s := v1.Cross(v3) / det
		t := v3.Cross(v2) / det
		insideArc = s >= 0 && t >= 0
	}
	if insideArc {
		return math.Abs(a.center.Distance(p) - a.radius)
	}
	if segment {
		return -1
	}
	return math.Min(a.p1.Distance(p), a.p2.Distance(p))
}

// IntersectLine finds the intersections (zero, one, or two points) of this
// arc and a line. If onArc is true the intersections must lie on the arc
// segment; if onLine is true they must lie on the infinite line through the
// given segment. A tangent line yields a single intersection.
func (a Arc) IntersectLine(line Line, onArc, onLine bool) []P {
	lp1 := line.P1().Sub(a.center)
	lp2 := line.P2().Sub(a.center)
	dx := lp2.X - lp1.X
	dy := lp2.Y - lp1.Y
	dr2 := dx*dx + dy*dy
	det := lp1.Cross(lp2)
	dsc := a.radius*a.radius*dr2 - det*det
	var intersections []P
	if IsZero(dsc) {
		intersections = append(intersections, line.NormalProjectionPoint(a.center, false))
	} else if dsc > 0 {
		sgn := 1.0
		if dy < 0 {
			sgn = -1.0
		}
		dscr := math.Sqrt(dsc)
		p1 := P{(det*dy + sgn*dx*dscr) / dr2, (-det*dx + math.Abs(dy)*dscr) / dr2}.Add(a.center)
		p2 := P{(det*dy - sgn*dx*dscr) / dr2, (-det*dx - math.Abs(dy)*dscr) / dr2}.Add(a.center)
		for _, p := range []P{p1, p2} {
			if (!onArc || a.PointOnArc(p)) && (!onLine || line.PointOnLine(p)) {
				intersections = append(intersections, p)
			}
		}
	}
	return intersections
}

// IntersectArc finds the intersections of this arc and another arc. If onArc
// is true the intersections must lie on both arc segments, otherwise the
// arcs are treated as full circles.
func (a Arc) IntersectArc(other Arc, onArc bool) []P {
	intersections := intersectCircles(a.center, a.radius, other.center, other.radius)
	if !onArc {
		return intersections
	}
	onBoth := intersections[:0]
	for _, p := range intersections {
		if a.PointOnArc(p) && other.PointOnArc(p) {
			onBoth = append(onBoth, p)
		}
	}
	return onBoth
}

// intersectCircles returns the intersections of two circles: two points if
// they cross, one if they touch, none if they are disjoint or coincident
// (coincident circles have infinite intersections, reported as none).
func intersectCircles(c1 P, r1 float64, c2 P, r2 float64) []P {
	dist := c1.Distance(c2)
	if dist > r1+r2 {
		return nil
	}
	if IsZero(dist) {
		return nil
	}
	if FloatEq(dist, r1+r2) {
		return []P{NewLine(c1, c2).PointAt(r1 / dist)}
	}
	// Distance along the center line from c1 to the radical line, and half
	// the radical chord length.
	dRad := (dist*dist - r2*r2 + r1*r1) / (2 * dist)
	halfChord2 := r1*r1 - dRad*dRad
	if halfChord2 < 0 {
		// One circle is inside the other without touching.
		return nil
	}
	halfChord := math.Sqrt(halfChord2)
	u := c2.Sub(c1).Div(dist)
	v := u.Normal(true)
	mid := c1.Add(u.Mul(dRad))
	if IsZero(halfChord) {
		return []P{mid}
	}
	return []P{mid.Add(v.Mul(halfChord)), mid.Sub(v.Mul(halfChord))}
}

func (a Arc) String() string {
	return fmt.Sprintf("Arc(%v, %v, r=%g, a=%g, c=%v)", a.p1, a.p2, a.radius, a.angle, a.center)
}
