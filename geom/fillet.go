package geom

import "math"

// FilletPath inserts circular fillet arcs of the given radius between
// adjacent path segments. Only lines and arcs participate; other segment
// types pass through untouched. If filletClose is true and the path is
// closed, a terminating fillet joins the last and first segments.
//
// If no fillets can be created the original path is returned unchanged.
func FilletPath(path []Segment, radius float64, filletClose bool) []Segment {
	if radius < Epsilon || len(path) < 2 {
		return path
	}
	newPath := make([]Segment, 0, len(path))
	seg1 := path[0]
	for _, seg2 := range path[1:] {
		if newSeg1, farc, newSeg2, ok := InsertFillet(seg1, seg2, radius); ok {
			newPath = append(newPath, newSeg1, farc)
			seg2 = newSeg2
		} else {
			newPath = append(newPath, seg1)
		}
		seg1 = seg2
	}
	newPath = append(newPath, seg1)
	if filletClose && len(path) > 2 && path[0].P1().Equal(path[len(path)-1].P2()) {
		last := len(newPath) - 1
		if newSeg1, farc, newSeg2, ok := InsertFillet(newPath[last], newPath[0], radius); ok {
			newPath[last] = newSeg1
			newPath = append(newPath, farc)
			newPath[0] = newSeg2
		}
	}
	if len(newPath) > len(path) {
		return newPath
	}
	return path
}

// FilletPolygon creates a path of lines connected by fillet arcs from a list
// of polygon vertices.
func FilletPolygon(poly []P, radius float64, filletClose bool) []Segment {
	if len(poly) < 2 {
		return nil
	}
	var seg1 Segment = NewLine(poly[0], poly[1])
	if len(poly) == 2 {
		return []Segment{seg1}
	}
	var path []Segment
	for _, p := range poly[2:] {
		var seg2 Segment = NewLine(seg1.P2(), p)
		if newSeg1, farc, newSeg2, ok := InsertFillet(seg1, seg2, radius); ok {
			path = append(path, newSeg1, farc)
			seg1 = newSeg2
		} else {
			path = append(path, seg1)
			seg1 = seg2
		}
	}
	path = append(path, seg1)
	if filletClose && len(path) > 2 && path[0].P1().Equal(path[len(path)-1].P2()) {
		last := len(path) - 1
		if newSeg1, farc, newSeg2, ok := InsertFillet(path[last], path[0], radius); ok {
			path[last] = newSeg1
			path = append(path, farc)
			path[0] = newSeg2
		}
	}
	return path
}

// InsertFillet tries to create a fillet arc between two connected segments,
// returning the trimmed segments and the fillet between them. Returns
// ok=false if the segments cannot be connected with a fillet of this radius
// (too short, already G1 continuous, or degenerate).
func InsertFillet(seg1, seg2 Segment, radius float64) (Segment, Arc, Segment, bool) {
	farc, ok := CreateFilletArc(seg1, seg2, radius)
	if !ok {
		return nil, Arc{}, nil, false
	}
	newSeg1, newSeg2 := ConnectFillet(seg1, farc, seg2)
	return newSeg1, farc, newSeg2, true
}

// ConnectFillet trims two segments to meet the endpoints of a fillet arc
// between them.
func ConnectFillet(seg1 Segment, farc Arc, seg2 Segment) (Segment, Segment) {
	var newSeg1, newSeg2 Segment
	switch s1 := seg1.(type) {
	case Line:
		newSeg1 = NewLine(s1.P1(), farc.P1())
	case Arc:
		newAngle := s1.Angle() - s1.Center().Angle2(farc.P1(), s1.P2())
		newSeg1 = NewArcWithCenter(s1.P1(), farc.P1(), s1.Radius(), newAngle, s1.Center())
	default:
		newSeg1 = seg1
	}
	switch s2 := seg2.(type) {
	case Line:
		newSeg2 = NewLine(farc.P2(), s2.P2())
	case Arc:
		newAngle := s2.Angle() - s2.Center().Angle2(s2.P1(), farc.P2())
		newSeg2 = NewArcWithCenter(farc.P2(), s2.P2(), s2.Radius(), newAngle, s2.Center())
	default:
		newSeg2 = seg2
	}
	return newSeg1, newSeg2
}

// CreateFilletArc computes a fillet arc of the given radius tangent to both
// segments. Dispatches on the line/arc combination; curves are not filleted.
func CreateFilletArc(seg1, seg2 Segment, radius float64) (Arc, bool) {
	switch s1 := seg1.(type) {
	case Line:
		switch s2 := seg2.(type) {
		case Line:
			return filletLineLine(s1, s2, radius)
		case Arc:
			return filletLineArc(s1, s2, radius)
		}
	case Arc:
		switch s2 := seg2.(type) {
		case Line:
			return filletLineArc(s2, s1, radius)
		case Arc:
			return filletArcArc(s1, s2, radius)
		}
	}
	return Arc{}, false
}

// filletLineLine creates a fillet arc between two connected line segments.
// The fillet center is the intersection of the two lines offset towards the
// inside of the corner by the fillet radius.
func filletLineLine(line1, line2 Line, filletRadius float64) (Arc, bool) {
	lineSide := line1.WhichSide(line2.P2(), false)
	offset := filletRadius * float64(lineSide)
	offsetLine1 := line1.Offset(offset)
	offsetLine2 := line2.Offset(offset)
	filletCenter, ok := offsetLine1.Intersection(offsetLine2, false, false)
	if !ok {
		return Arc{}, false
	}
	fp1 := line1.NormalProjectionPoint(filletCenter, true)
	fp2 := line2.NormalProjectionPoint(filletCenter, true)
	// The projections land exactly radius away only when the fillet fits
	// within both segments.
	if fp1.Equal(fp2) ||
		!FloatEq(fp1.Distance(filletCenter), filletRadius) ||
		!FloatEq(fp2.Distance(filletCenter), filletRadius) {
		return Arc{}, false
	}
	return ArcFromTwoPointsAndCenter(fp1, fp2, filletCenter, false), true
}

// filletArcArc creates a fillet arc between two connected arcs. The fillet
// center is the intersection of the two arcs offset radially by the fillet
// radius towards the joint's inside.
func filletArcArc(arc1, arc2 Arc, filletRadius float64) (Arc, bool) {
	arc2Side := float64(arc1.WhichSideAngle(arc2.StartTangentAngle(), false))
	cw1 := -1.0
	if arc1.IsClockwise() {
		cw1 = 1.0
	}
	cw2 := -1.0
	if arc2.IsClockwise() {
		cw2 = 1.0
	}
	oarc1 := arc1.Offset(filletRadius * arc2Side * cw1)
	oarc2 := arc2.Offset(filletRadius * arc2Side * cw2)
	ix := oarc1.IntersectArc(oarc2, true)
	if len(ix) == 0 {
		return Arc{}, false
	}
	filletCenter := ix[0]
	// Points on each arc nearest the fillet center, along the spokes through
	// the arc centers.
	fline1 := NewLine(filletCenter, arc1.Center())
	fline2 := NewLine(filletCenter, arc2.Center())
	ix1 := arc1.IntersectLine(fline1, true, false)
	ix2 := arc2.IntersectLine(fline2, true, false)
	if len(ix1) == 0 || len(ix2) == 0 {
		return Arc{}, false
	}
	return ArcFromTwoPointsAndCenter(ix1[0], ix2[0], filletCenter, false), true
}

// filletLineArc creates a fillet arc between a line segment and a connected
// arc. The fillet arc endpoint order matches the line->arc order.
func filletLineArc(line Line, arc Arc, filletRadius float64) (Arc, bool) {
	// If the direction is arc->line, reverse both to simplify the cases.
	reversed := false
	if arc.P2().Equal(line.P1()) {
		line = line.Reversed().(Line)
		arc = arc.Reversed().(Arc)
		reversed = true
	}

	// The fillet center lies at distance h from the arc center and distance
	// filletRadius from the line: a right triangle with the projection of
	// the arc center onto the offset line.
	arcSide := line.WhichSideAngle(arc.StartTangentAngle(), false)
	var h, alpha1 float64
	if (arcSide > 0 && arc.IsClockwise()) || (arcSide < 0 && !arc.IsClockwise()) {
		h = arc.Radius() + filletRadius
		alpha1 = line.Angle() + math.Pi
	} else {
		h = arc.Radius() - filletRadius
		alpha1 = line.Angle()
	}
	line3 := line.Offset(filletRadius * float64(arcSide))
	p5 := line3.NormalProjectionPoint(arc.Center(), false)
	b := p5.Distance(arc.Center())
	a2 := h*h - b*b
	if a2 < 0 {
		return Arc{}, false
	}
	line4 := LineFromPolar(p5, math.Sqrt(a2), alpha1)
	filletCenter := line4.P2()
	alpha2 := math.Abs(arc.Center().Angle2(arc.P1(), filletCenter))
	fp1 := line.NormalProjectionPoint(filletCenter, true)
	fp2, ok := arc.PointAtAngle(alpha2, true)
	if !ok || fp1.Equal(fp2) ||
		!FloatEq(filletCenter.Distance(fp1), filletCenter.Distance(fp2)) {
		return Arc{}, false
	}
	if reversed {
		return ArcFromTwoPointsAndCenter(fp2, fp1, filletCenter, false), true
	}
	return ArcFromTwoPointsAndCenter(fp1, fp2, filletCenter, false), true
}
