package cam

import "github.com/utlco/tancam/geom"

// FilletPath inserts circular arcs of the given radius to blend adjacent
// steps that meet with position but not tangent continuity. Rendering hints
// on the blended steps are preserved.
//
// If adjustRotation is true, the A axis rotation hints are adjusted to
// compensate for the length trimmed off by each fillet. If markFillet is
// true, fillet arcs get the IgnoreG1 hint so later smoothing passes skip
// them. If no fillets are created the original path is returned unchanged.
func FilletPath(path Path, radius float64, filletClose, adjustRotation, markFillet bool) Path {
	if radius < geom.Epsilon || len(path) < 2 {
		return path
	}
	newPath := make(Path, 0, len(path))
	step1 := path[0]
	for _, step2 := range path[1:] {
		if s1, farc, s2, ok := createAdjustedFillet(step1, step2, radius, adjustRotation, markFillet); ok {
			newPath = append(newPath, s1, farc)
			step2 = s2
		} else {
			newPath = append(newPath, step1)
		}
		step1 = step2
	}
	newPath = append(newPath, step1)
	if filletClose && len(path) > 2 && path[0].Seg.P1().Equal(path[len(path)-1].Seg.P2()) {
		last := len(newPath) - 1
		if s1, farc, s2, ok := createAdjustedFillet(newPath[last], newPath[0], radius, adjustRotation, markFillet); ok {
			newPath[last] = s1
			newPath = append(newPath, farc)
			newPath[0] = s2
		}
	}
	if len(newPath) > len(path) {
		return newPath
	}
	return path
}

// createAdjustedFillet tries to blend two steps with a fillet arc, trimming
// the steps to meet it. Returns ok=false if the steps are already tangent or
// no fillet of this radius fits.
func createAdjustedFillet(step1, step2 Step, radius float64, adjustRotation, markFillet bool) (Step, Step, Step, bool) {
	if geom.SegmentsAreG1(step1.Seg, step2.Seg, 0) {
		return Step{}, Step{}, Step{}, false
	}
	farc, ok := geom.CreateFilletArc(step1.Seg, step2.Seg, radius)
	if !ok {
		return Step{}, Step{}, Step{}, false
	}
	filletStep := Step{Seg: farc}
	filletStep.Hints.IgnoreG1 = markFillet
	if adjustRotation {
		adjustFilletRotationHints(&step1, &filletStep, &step2, farc)
	}
	newSeg1, newSeg2 := geom.ConnectFillet(step1.Seg, farc, step2.Seg)
	// Trimming preserves each step's hints.
	return Step{Seg: newSeg1, Hints: step1.Hints}, filletStep,
		Step{Seg: newSeg2, Hints: step2.Hints}, true
}

// adjustFilletRotationHints compensates the A axis rotation hints for the
// path length removed by a fillet arc: the rotation that would have happened
// over the trimmed-off tail of step1 (and head of step2) is moved onto the
// fillet itself.
func adjustFilletRotationHints(step1, filletStep, step2 *Step, farc geom.Arc) {
	a1 := step1.StartAngle()
	a2 := step1.EndAngle()
	mu := 1 - segmentMu(step1.Seg, farc.P1())
	offsetAngle := geom.CalcRotation(a1, a2) * mu
	if !geom.IsZero(offsetAngle) {
		step1.Hints.SetEndAngle(a2 - offsetAngle)
		filletStep.Hints.SetStartAngle(a2 - offsetAngle)
	} else {
		filletStep.Hints.SetStartAngle(a2)
	}

	a1 = step2.StartAngle()
	a2 = step2.EndAngle()
	mu = segmentMu(step2.Seg, farc.P2())
	offsetAngle = geom.CalcRotation(a1, a2) * mu
	if !geom.IsZero(offsetAngle) {
		step2.Hints.SetStartAngle(a1 + offsetAngle)
		filletStep.Hints.SetEndAngle(a1 + offsetAngle)
	} else {
		filletStep.Hints.SetEndAngle(a1)
	}
}

// segmentMu returns the unit distance of p along a line or arc segment.
func segmentMu(seg geom.Segment, p geom.P) float64 {
	switch s := seg.(type) {
	case geom.Line:
		return s.Mu(p)
	case geom.Arc:
		return s.Mu(p)
	}
	return 0
}
