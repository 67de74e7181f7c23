// Package geom provides the 2D geometry used to build tangential toolpaths:
// points, line segments, circular arcs, and cubic bezier curves, along with
// biarc approximation and fillet construction.
//
// All comparisons are tolerance based. Floating point geometry accumulates
// jitter at every transformation, and exact equality would shave off absurdly
// thin fillets and break vertex matching on nearly coincident points.
package geom

import "math"

// Tau is 2*Pi. Arc sweep angles are constrained to (-Tau, Tau).
const Tau = 2 * math.Pi

// Epsilon is the maximum distance between two floating point values for them
// to be considered equal. It must be set (via SetEpsilon) at most once, before
// any geometry is constructed. Changing it after geometry exists invalidates
// hashes and equality of values built with the previous tolerance, so the
// behavior of doing that is undefined.
var (
	Epsilon          = 1e-9
	epsilon2         = Epsilon * Epsilon
	epsilonPrecision = 9
)

// SetEpsilon sets the process-wide comparison tolerance and the matching
// rounding precision used for spatial hashing. Useful values are in the range
// 1e-09 to 1e-05 depending on the magnitude of the coordinates in play.
func SetEpsilon(value float64) {
	Epsilon = value
	epsilon2 = value * value
	epsilonPrecision = int(math.Max(0, math.Round(math.Abs(math.Log10(value)))))
}

// FloatEq returns true if the two values are within Epsilon of each other.
func FloatEq(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// IsZero is shorthand for FloatEq(value, 0).
func IsZero(value float64) bool {
	return -Epsilon < value && value < Epsilon
}

// NormalizeAngle normalizes an angle (radians) onto a 2*Pi interval centered
// at center. Use center=Pi for a [0, 2*Pi) result and center=0 for
// [-Pi, Pi).
func NormalizeAngle(angle, center float64) float64 {
	return angle - Tau*math.Floor((angle+math.Pi-center)/Tau)
}

// CalcRotation returns the minimal rotation that takes startAngle to
// endAngle. The result is in [-Pi, Pi]; its sign is the direction of
// rotation.
func CalcRotation(startAngle, endAngle float64) float64 {
	if FloatEq(startAngle, endAngle) {
		return 0
	}
	rotation := NormalizeAngle(endAngle, 0) - NormalizeAngle(startAngle, 0)
	if rotation < -math.Pi {
		rotation += Tau
	} else if rotation > math.Pi {
		rotation -= Tau
	}
	return rotation
}

// SegmentsAreG1 determines whether two segments are tangentially connected:
// they share an endpoint and the tangent direction at that endpoint. G1
// implies G0. A tolerance of zero means Epsilon.
func SegmentsAreG1(seg1, seg2 Segment, tolerance float64) bool {
	if tolerance == 0 {
		tolerance = Epsilon
	}
	if !seg1.P2().AlmostEqual(seg2.P1(), tolerance) {
		return false
	}
	// Compare as a rotation so the -Pi/Pi seam doesn't read as a U-turn: a
	// westbound line has tangent Pi while an arc ending westbound reports -Pi.
	td := CalcRotation(seg1.EndTangentAngle(), seg2.StartTangentAngle())
	return math.Abs(td) < tolerance
}

// Segment is the capability shared by the closed set of path segment kinds:
// Line, Arc, and CubicBezier. Pipeline stages switch exhaustively on the
// concrete type; anything else reaching a consumer is a bug in the caller.
type Segment interface {
	P1() P
	P2() P
	Length() float64
	StartTangentAngle() float64
	EndTangentAngle() float64
	Transform(m Matrix) Segment
	Reversed() Segment

	// segment restricts implementations to this package.
	segment()
}

func (Line) segment()        {}
func (Arc) segment()         {}
func (CubicBezier) segment() {}
