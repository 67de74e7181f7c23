// Package cam converts 2D vector paths into motion programs for a 3.5 axis
// machine: X, Y, and Z plus a tangential rotary A axis that tracks the
// direction of travel (a knife or a brush).
//
// The pipeline runs fixed passes over each path: biarc conversion, tool-width
// fillets, cusp splitting, tool-trail offsetting, G1 repair, and smoothing
// fillets, then walks the annotated result emitting G-code.
package cam

import (
	"github.com/pkg/errors"
	"github.com/utlco/tancam/geom"
)

// Hints carry per-step rendering annotations produced by the fillet and
// offset passes and consumed by the driver and G-code generator. Each
// optional field has an explicit set flag; the zero value means "no hints".
type Hints struct {
	// StartAngle and EndAngle override the A axis angle at the step
	// endpoints when a pass has locally perturbed the geometry but the
	// intended tool rotation differs from the geometric tangent.
	StartAngle    float64
	HasStartAngle bool
	EndAngle      float64
	HasEndAngle   bool

	// Z forces the Z axis depth at the end of this step (soft landings).
	Z    float64
	HasZ bool

	// IgnoreA suppresses tangential rotation for the length of this step.
	IgnoreA bool

	// IgnoreG1 marks a step that connects two non-tangent segments on
	// purpose (a tool-width fillet); smoothing passes leave it alone.
	IgnoreG1 bool

	// G1 marks a step whose joint with the next step was tangent before
	// offsetting; the G1 repair pass smooths it.
	G1 bool
}

// SetStartAngle sets the start angle override.
func (h *Hints) SetStartAngle(a float64) {
	h.StartAngle = a
	h.HasStartAngle = true
}

// SetEndAngle sets the end angle override.
func (h *Hints) SetEndAngle(a float64) {
	h.EndAngle = a
	h.HasEndAngle = true
}

// SetZ sets the forced Z depth.
func (h *Hints) SetZ(z float64) {
	h.Z = z
	h.HasZ = true
}

// Step is one segment of a toolpath along with its rendering hints.
type Step struct {
	Seg   geom.Segment
	Hints Hints
}

// StartAngle returns the A axis angle at the start of this step: the start
// angle hint if set, otherwise the segment's tangent direction.
func (s Step) StartAngle() float64 {
	if s.Hints.HasStartAngle {
		return s.Hints.StartAngle
	}
	return s.Seg.StartTangentAngle()
}

// EndAngle returns the A axis angle at the end of this step.
func (s Step) EndAngle() float64 {
	if s.Hints.HasEndAngle {
		return s.Hints.EndAngle
	}
	return s.Seg.EndTangentAngle()
}

// Path is an ordered sequence of annotated toolpath steps.
type Path []Step

// NewPath converts bare segments into an unannotated path, expanding cubic
// bezier curves into biarcs. Returns an error for any segment kind the
// machine cannot follow.
func NewPath(segments []geom.Segment, tolerance float64, maxDepth int, lineFlatness float64) (Path, error) {
	path := make(Path, 0, len(segments))
	for _, seg := range segments {
		switch s := seg.(type) {
		case geom.Line, geom.Arc:
			path = append(path, Step{Seg: seg})
		case geom.CubicBezier:
			for _, biarc := range s.BiarcApproximation(tolerance, maxDepth, lineFlatness) {
				path = append(path, Step{Seg: biarc})
			}
		default:
			return nil, errors.Errorf("unsupported path segment type %T", seg)
		}
	}
	return path, nil
}

// VerifyContinuity reports whether the path has point (C0) continuity.
func (p Path) VerifyContinuity() bool {
	for i := 1; i < len(p); i++ {
		if !p[i-1].Seg.P2().Equal(p[i].Seg.P1()) {
			return false
		}
	}
	return true
}

// IsClosed reports whether the path forms a closed polygon.
func (p Path) IsClosed() bool {
	return len(p) > 2 && p[0].Seg.P1().Equal(p[len(p)-1].Seg.P2())
}

// Reversed returns a copy of the path with segment order and directions
// reversed. Angle hints swap ends.
func (p Path) Reversed() Path {
	rev := make(Path, len(p))
	for i, step := range p {
		hints := step.Hints
		hints.StartAngle, hints.EndAngle = step.Hints.EndAngle, step.Hints.StartAngle
		hints.HasStartAngle, hints.HasEndAngle = step.Hints.HasEndAngle, step.Hints.HasStartAngle
		rev[len(p)-1-i] = Step{Seg: step.Seg.Reversed(), Hints: hints}
	}
	return rev
}

// SplitAtCusps splits the path at vertices that connect non-tangential
// segments, returning one or more sub-paths. Steps marked IgnoreG1 always
// split from their successor.
func (p Path) SplitAtCusps() []Path {
	if len(p) == 0 {
		return nil
	}
	var paths []Path
	var cur Path
	for i, step := range p {
		cur = append(cur, step)
		if i+1 >= len(p) {
			break
		}
		next := p[i+1]
		rotation := geom.CalcRotation(step.Seg.EndTangentAngle(), next.Seg.StartTangentAngle())
		if !geom.IsZero(rotation) || step.Hints.IgnoreG1 || next.Hints.IgnoreG1 {
			paths = append(paths, cur)
			cur = nil
		}
	}
	return append(paths, cur)
}
