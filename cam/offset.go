package cam

import (
	"math"

	"github.com/pkg/errors"
	"github.com/utlco/tancam/geom"
)

// OffsetPath recalculates a path to compensate for a trailing tangential tool
// offset. Every segment is shifted forward by offset; arcs are recomputed to
// correct for the shift. Joints that open up are repaired with a connector
// line (when still tangent) or a pivot arc around the original vertex, so the
// tool rotates in place the way the pre-offset corner intended.
//
// Vertices that were tangent before offsetting but are not after get a G1
// hint for FixG1Path. g1Tolerance of zero means the geometry Epsilon.
//
// Zero length segments are dropped. Returns an error if the path still
// contains curve segments; those must be converted to biarcs first.
func OffsetPath(path Path, offset, g1Tolerance float64) (Path, error) {
	if geom.IsZero(offset) || len(path) == 0 {
		return path, nil
	}
	result := make(Path, 0, len(path))
	havePrev := false
	var prev Step
	for _, step := range path {
		if step.Seg.P1().Equal(step.Seg.P2()) {
			continue
		}
		var offsetStep Step
		switch seg := step.Seg.(type) {
		case geom.Line:
			offsetStep = Step{Seg: seg.Shift(offset), Hints: step.Hints}
		case geom.Arc:
			offsetStep = offsetArc(step, seg, offset)
		default:
			return nil, errors.Errorf("cannot offset path segment type %T", step.Seg)
		}
		if havePrev {
			prevOffset := &result[len(result)-1]
			if !prevOffset.Seg.P2().Equal(offsetStep.Seg.P1()) {
				result = append(result, connectorStep(prev, *prevOffset, step, offsetStep, offset))
			} else if geom.SegmentsAreG1(prev.Seg, step.Seg, g1Tolerance) &&
				!prev.Hints.IgnoreG1 && !step.Hints.IgnoreG1 {
				// Tangent before the offset broke it; hint for smoothing.
				prevOffset.Hints.G1 = true
			}
		}
		prev = step
		havePrev = true
		result = append(result, offsetStep)
	}
	if len(result) == 0 {
		return result, nil
	}
	// The tool trails behind the start point, so the initial A angle points
	// from the original start to the offset one.
	startAngle := result[0].Seg.P1().Sub(path[0].Seg.P1()).Angle()
	result[0].Hints.SetStartAngle(startAngle)
	return result, nil
}

// offsetArc computes the parallel arc for a trailing tool offset: endpoints
// move along the endpoint tangents, the center stays, and the radius grows to
// the hypotenuse of the offset and the original radius.
func offsetArc(step Step, arc geom.Arc, offset float64) Step {
	startAngle := arc.StartTangentAngle()
	endAngle := arc.EndTangentAngle()
	p1 := arc.P1().Add(geom.PFromPolar(offset, startAngle))
	p2 := arc.P2().Add(geom.PFromPolar(offset, endAngle))
	radius := math.Hypot(offset, arc.Radius())
	offsetStep := Step{
		Seg:   geom.NewArcWithCenter(p1, p2, radius, arc.Angle(), arc.Center()),
		Hints: step.Hints,
	}
	// The tool heading still follows the original arc tangents.
	offsetStep.Hints.SetStartAngle(startAngle)
	offsetStep.Hints.SetEndAngle(endAngle)
	return offsetStep
}

// connectorStep builds the joint repair segment between two offset steps
// whose endpoints no longer meet.
func connectorStep(prev, prevOffset, next, nextOffset Step, offset float64) Step {
	p1 := prevOffset.Seg.P2()
	p2 := nextOffset.Seg.P1()
	var connector Step
	if geom.IsZero(geom.CalcRotation(prevOffset.Seg.EndTangentAngle(), nextOffset.Seg.StartTangentAngle())) {
		// Still tangent across the gap; a straight connector suffices.
		connector = Step{Seg: geom.NewLine(p1, p2)}
	} else {
		// Pivot the tool about the original vertex: an arc with radius equal
		// to the trail offset, swept by the original turn at the corner.
		pivot := prev.Seg.P2()
		angle := pivot.Angle2(p1, p2)
		connector = Step{Seg: geom.NewArcWithCenter(p1, p2, offset, angle, pivot)}
	}
	connector.Hints.SetStartAngle(prev.Seg.EndTangentAngle())
	connector.Hints.SetEndAngle(next.Seg.StartTangentAngle())
	return connector
}

// FixG1Path rebuilds joints that lost their tangency during offsetting.
// Steps flagged with the G1 hint are replaced by smoothing biarcs so that
// downstream tool rotation does not see a spurious direction change.
func FixG1Path(path Path, tolerance, lineFlatness float64) Path {
	if len(path) < 2 {
		return path
	}
	newPath := make(Path, 0, len(path))
	var cp *geom.P
	step1 := path[0]
	for _, step2 := range path[1:] {
		if step1.Hints.G1 {
			var steps []Step
			steps, cp = smoothingArcs(step1, &step2, cp, tolerance, lineFlatness)
			newPath = append(newPath, steps...)
		} else {
			cp = nil
			newPath = append(newPath, step1)
		}
		step1 = step2
	}
	if step1.Hints.G1 {
		steps, _ := smoothingArcs(step1, nil, cp, tolerance, lineFlatness)
		newPath = append(newPath, steps...)
	} else {
		newPath = append(newPath, step1)
	}
	return newPath
}

// smoothingArcs replaces step1 with circular smoothing biarcs leading into
// step2 (nil if step1 ends the path). The A axis rotation hints of step1 are
// swept across the new arcs in proportion to arc length. Returns the
// replacement steps and the control point for the next invocation.
func smoothingArcs(step1 Step, step2 *Step, cp *geom.P, tolerance, lineFlatness float64) ([]Step, *geom.P) {
	var seg2 geom.Segment
	if step2 != nil {
		seg2 = step2.Seg
	}
	curve, cpNext := geom.SmoothingCurve(step1.Seg, seg2, cp, 0.5, true)
	biarcs := curve.BiarcApproximation(tolerance, 1, lineFlatness)
	if len(biarcs) == 0 {
		p2 := step1.Seg.P2()
		return []Step{step1}, &p2
	}
	length := 0.0
	for _, seg := range biarcs {
		length += seg.Length()
	}
	aStart := step1.StartAngle()
	sweep := geom.NormalizeAngle(step1.EndAngle()-aStart, 0)
	sweepScale := sweep / length
	steps := make([]Step, 0, len(biarcs))
	for _, seg := range biarcs {
		aEnd := aStart + seg.Length()*sweepScale
		step := Step{Seg: seg}
		step.Hints.SetStartAngle(aStart)
		step.Hints.SetEndAngle(aEnd)
		steps = append(steps, step)
		aStart = aEnd
	}
	return steps, &cpNext
}
