package geom

import "math"

// BiarcApproximation approximates this curve with a sequence of G1-connected
// arcs and lines.
//
// The curve is recursively subdivided until the Hausdorff distance between
// each biarc and its sub-curve is within tolerance, or maxDepth subdivisions
// have been made. Pieces flatter than lineFlatness become straight lines
// instead of arcs with enormous radii; this should stay small (<= 0.01) to
// avoid path distortion.
//
// Returns an empty slice if the curve is degenerate (coincident endpoints).
func (b CubicBezier) BiarcApproximation(tolerance float64, maxDepth int, lineFlatness float64) []Segment {
	return b.biarcRecurs(tolerance, maxDepth, lineFlatness, 0)
}

func (b CubicBezier) biarcRecurs(tolerance float64, maxDepth int, lineFlatness float64, depth int) []Segment {
	if b.p1.Equal(b.p2) {
		return nil
	}
	if b.IsStraightLine(lineFlatness) {
		return []Segment{NewLine(b.p1, b.p2)}
	}

	if depth == 0 {
		// Split at inflection points first so every sub-curve has monotone
		// curvature. This only needs to happen at the top level.
		curves := b.SubdivideInflections()
		if len(curves) > 1 {
			var biarcs []Segment
			for _, curve := range curves {
				biarcs = append(biarcs,
					curve.biarcRecurs(tolerance, maxDepth, lineFlatness, depth+1)...)
			}
			return biarcs
		}
	}

	// The joint arc passes through both curve endpoints and contains the set
	// of possible biarc joints.
	jarc, ok := b.biarcJointArc()
	if !ok || jarc.radius < Epsilon || jarc.Length() < Epsilon {
		return nil
	}

	// The biarc joint J is where the spoke through the curve midpoint (t=0.5)
	// crosses the joint arc. Finding the true curve/arc intersection (see
	// A. Riskus, 2006) would be more accurate, but this is close and cheap.
	p := b.PointAt(0.5)
	v := p.Sub(jarc.center)
	pjoint := v.Mul(jarc.radius / v.Length()).Add(jarc.center)

	// Build the two arcs of the biarc. If a control point is coincident with
	// its endpoint a single arc suffices.
	var arc1, arc2 Arc
	var haveArc2 bool
	switch {
	case b.p1.Equal(b.c1):
		arc1, ok = ArcFromTwoPointsAndTangent(b.p2, b.c2, b.p1, true)
	case b.p2.Equal(b.c2):
		arc1, ok = ArcFromTwoPointsAndTangent(b.p1, b.c1, b.p2, false)
	default:
		arc1, ok = ArcFromTwoPointsAndTangent(b.p1, b.c1, pjoint, false)
		if ok {
			arc2, haveArc2 = ArcFromTwoPointsAndTangent(b.p2, b.c2, pjoint, true)
			ok = haveArc2
		}
	}
	if !ok {
		return nil
	}

	if depth < maxDepth {
		hd := b.distanceToArc(arc1)
		if haveArc2 {
			hd = math.Max(hd, b.distanceToArc(arc2))
		}
		if hd > tolerance {
			halves := b.Subdivide(0.5)
			if len(halves) == 2 {
				biarcs := halves[0].biarcRecurs(tolerance, maxDepth, lineFlatness, depth+1)
				return append(biarcs,
					halves[1].biarcRecurs(tolerance, maxDepth, lineFlatness, depth+1)...)
			}
		}
	}
	if haveArc2 {
		return []Segment{arc1, arc2}
	}
	return []Segment{arc1}
}

// biarcJointArc computes the arc that passes through both endpoints of this
// curve and contains the set of possible biarc joints. Its center is the
// intersection of the perpendicular bisectors of the chord P1->P2 and the
// segment (P1+unit(C1-P1))->(P2-unit(C2-P2)).
func (b CubicBezier) biarcJointArc() (Arc, bool) {
	chord := NewLine(b.p1, b.p2)
	u1 := b.c1.Sub(b.p1).Unit()
	u2 := b.c2.Sub(b.p2).Unit()
	useg := NewLine(b.p1.Add(u1), b.p2.Sub(u2))
	center, ok := chord.Bisector().Intersection(useg.Bisector(), false, false)
	if !ok {
		return Arc{}, false
	}
	radius := center.Distance(b.p1)
	angle := center.Angle2(b.p1, b.p2)
	return NewArcWithCenter(b.p1, b.p2, radius, angle, center), true
}

// distanceToArc approximates the normal distance between this curve and an
// arc by sampling the curve at ndiv+1 points and taking the maximum.
func (b CubicBezier) distanceToArc(arc Arc) float64 {
	const ndiv = 9
	dmax := 0.0
	for i := 0; i <= ndiv; i++ {
		t := float64(i) / ndiv
		// Skip samples whose spoke misses the arc segment.
		if d := arc.DistanceToPoint(b.PointAt(t), true); d > dmax {
			dmax = d
		}
	}
	return dmax
}

// BezierFromArc creates a cubic bezier approximation of a circular arc. The
// arc should sweep less than Pi/2 radians.
func BezierFromArc(arc Arc) CubicBezier {
	// Standard circular arc approximation: control points along the endpoint
	// tangents at 4/3*tan(angle/4) of the radius. See
	// http://hansmuller-flex.blogspot.com/2011/04/approximating-circular-arc-with-cubic.html
	// The sign of alpha follows the sweep, so the left normals point along the
	// direction of travel at p1 and against it at p2 for either winding.
	alpha := 4 * math.Tan(arc.angle/4) / 3
	v1 := arc.p1.Sub(arc.center)
	v2 := arc.p2.Sub(arc.center)
	c1 := arc.p1.Add(v1.Normal(true).Mul(alpha))
	c2 := arc.p2.Sub(v2.Normal(true).Mul(alpha))
	return NewCubicBezier(arc.p1, c1, c2, arc.p2)
}

// Control point magnitude adjustments for SmoothingCurve.
const (
	// Arc to bezier control point magnitude. See
	// http://hansmuller-flex.blogspot.com/2011/04/approximating-circular-arc-with-cubic.html
	smoothKArc = 0.5522847498308
	// Control point scale adjustments for arc cusps.
	smoothKP1 = 1.5
	smoothKP2 = 0.5
)

// SmoothingCurve creates a bezier curve that smoothly replaces seg1 when seg1
// and seg2 are not G1 continuous. The returned curve connects the endpoints
// of seg1; the second return value is the first control point for the next
// invocation, which should be threaded through repeated calls along a path.
//
// If cp1 is nil the curve starts a path and the first endpoint is used as the
// initial control point. If seg2 is nil, seg1 is the last segment on a path
// and a terminating curve is created. Smoothness in (0, 1] scales the control
// point magnitudes; matchArcs adjusts control points to better hug arc
// segments.
//
// See Maxim Shemanarev,
// http://www.antigrain.com/agg_research/bezier_interpolation.html
func SmoothingCurve(seg1, seg2 Segment, cp1 *P, smoothness float64, matchArcs bool) (CubicBezier, P) {
	k := 1.2 * smoothness

	p1 := seg1.P1()
	p2 := seg1.P2()
	startOfPath := cp1 == nil
	if cp1 == nil {
		cp1 = &p1
	}
	if seg2 == nil {
		return CubicBezierFromQuadratic(p1, *cp1, p2), p2
	}

	seg1Len := seg1.Length()
	segRatio := seg1Len / (seg1Len + seg2.Length())
	// Line connecting the midpoints of the two segments sets the tangent
	// direction at the shared point.
	lineMidp := NewLine(segmentMidpoint(seg1), segmentMidpoint(seg2))

	adjCp1 := *cp1
	var cp2Mag float64
	if arc1, isArc := seg1.(Arc); matchArcs && isArc {
		cp2Mag = arc1.Radius() * math.Tan(math.Abs(arc1.Angle())/2) * smoothKArc
		// Winding change at the joint means a cusp.
		lineP1P3 := NewLine(p1, seg2.P2())
		side := lineP1P3.WhichSide(p2, false)
		if (arc1.IsClockwise() && side < 0) || (!arc1.IsClockwise() && side > 0) {
			adjCp1 = p1.Add(adjCp1.Sub(p1).Mul(smoothKP1))
			cp2Mag *= smoothKP2
		}
	} else {
		cp2Mag = segRatio * lineMidp.Length() * k
	}
	var cp1NextMag float64
	if arc2, isArc := seg2.(Arc); matchArcs && isArc {
		cp1NextMag = arc2.Radius() * math.Tan(math.Abs(arc2.Angle())/2) * smoothKArc
	} else {
		cp1NextMag = (1 - segRatio) * lineMidp.Length() * k
	}

	cpAngle := lineMidp.Angle()
	cp2 := p2.Add(PFromPolar(cp2Mag, cpAngle+math.Pi))
	cp1Next := p2.Add(PFromPolar(cp1NextMag, cpAngle))

	var curve CubicBezier
	if startOfPath {
		if arc1, isArc := seg1.(Arc); isArc {
			arcCurve := BezierFromArc(arc1)
			curve = NewCubicBezier(p1, arcCurve.C1(), cp2, p2)
		} else {
			curve = CubicBezierFromQuadratic(p1, cp2, p2)
		}
	} else {
		curve = NewCubicBezier(p1, adjCp1, cp2, p2)
	}
	return curve, cp1Next
}

// segmentMidpoint returns the geometric midpoint of a line, arc, or curve.
func segmentMidpoint(seg Segment) P {
	switch s := seg.(type) {
	case Line:
		return s.Midpoint()
	case Arc:
		return s.Midpoint()
	case CubicBezier:
		return s.Midpoint()
	}
	return seg.P1()
}
