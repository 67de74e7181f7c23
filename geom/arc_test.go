package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quarterCCW is a unit quarter circle from (1,0) to (0,1) centered on the
// origin, sweeping counterclockwise.
func quarterCCW() Arc {
	return NewArc(P{1, 0}, P{0, 1}, 1, math.Pi/2)
}

func TestArcCenter(t *testing.T) {
	arc := quarterCCW()
	assert.True(t, arc.Center().Equal(P{0, 0}), "got %v", arc.Center())

	cw := NewArc(P{0, 1}, P{1, 0}, 1, -math.Pi/2)
	assert.True(t, cw.Center().Equal(P{0, 0}), "got %v", cw.Center())
	assert.True(t, cw.IsClockwise())

	// Major arcs bulge past the half circle; the center lies on the other
	// side of the chord than for the minor arc with the same endpoints.
	major := NewArc(P{0, 1}, P{1, 0}, 1, 3*math.Pi/2)
	assert.True(t, major.Center().Equal(P{0, 0}), "got %v", major.Center())
	majorCW := NewArc(P{1, 0}, P{0, 1}, 1, -3*math.Pi/2)
	assert.True(t, majorCW.Center().Equal(P{0, 0}), "got %v", majorCW.Center())
}

func TestArcBasics(t *testing.T) {
	arc := quarterCCW()
	assert.InDelta(t, math.Pi/2, arc.Length(), Epsilon)
	assert.False(t, arc.IsClockwise())
	assert.InDelta(t, math.Pi/2, arc.StartTangentAngle(), Epsilon)
	assert.InDelta(t, -math.Pi, arc.EndTangentAngle(), Epsilon)

	mid := arc.Midpoint()
	assert.True(t, mid.Equal(PFromPolar(1, math.Pi/4)), "got %v", mid)
	assert.InDelta(t, 0.5, arc.Mu(mid), Epsilon)
}

func TestArcReversed(t *testing.T) {
	arc := quarterCCW()
	rev := arc.Reversed().(Arc)
	assert.True(t, rev.P1().Equal(arc.P2()))
	assert.True(t, rev.P2().Equal(arc.P1()))
	assert.InDelta(t, -arc.Angle(), rev.Angle(), Epsilon)
	assert.True(t, rev.Center().Equal(arc.Center()))
	// Travel direction at the shared point flips by Pi.
	d := math.Abs(CalcRotation(arc.EndTangentAngle(), rev.StartTangentAngle()))
	assert.InDelta(t, math.Pi, d, Epsilon)
}

func TestArcOffset(t *testing.T) {
	arc := quarterCCW()
	out := arc.Offset(0.5)
	assert.InDelta(t, 1.5, out.Radius(), Epsilon)
	assert.True(t, out.Center().Equal(arc.Center()))
	assert.True(t, out.P1().Equal(P{1.5, 0}), "got %v", out.P1())
	assert.True(t, out.P2().Equal(P{0, 1.5}), "got %v", out.P2())
	assert.InDelta(t, arc.Angle(), out.Angle(), Epsilon)

	in := arc.Offset(-0.5)
	assert.InDelta(t, 0.5, in.Radius(), Epsilon)
}

func TestArcPointAtAngle(t *testing.T) {
	arc := quarterCCW()
	p, ok := arc.PointAtAngle(math.Pi/4, true)
	require.True(t, ok)
	assert.True(t, p.Equal(PFromPolar(1, math.Pi/4)))
	// Outside the sweep in segment mode.
	_, ok = arc.PointAtAngle(math.Pi, true)
	assert.False(t, ok)
	// Clamps when not in segment mode.
	p, ok = arc.PointAtAngle(math.Pi, false)
	require.True(t, ok)
	assert.True(t, p.Equal(arc.P2()))
}

func TestArcSubdivide(t *testing.T) {
	arc := quarterCCW()
	arcs := arc.Subdivide(0.5)
	require.Len(t, arcs, 2)
	assert.True(t, arcs[0].P1().Equal(arc.P1()))
	assert.True(t, arcs[0].P2().Equal(arcs[1].P1()))
	assert.True(t, arcs[1].P2().Equal(arc.P2()))
	assert.InDelta(t, arc.Angle(), arcs[0].Angle()+arcs[1].Angle(), Epsilon)
	assert.True(t, SegmentsAreG1(arcs[0], arcs[1], 0))
}

func TestArcPointOnArc(t *testing.T) {
	arc := quarterCCW()
	assert.True(t, arc.PointOnArc(PFromPolar(1, math.Pi/4)))
	// On the circle but outside the segment.
	assert.False(t, arc.PointOnArc(PFromPolar(1, -math.Pi/2)))
	// Off the circle.
	assert.False(t, arc.PointOnArc(P{0.5, 0.5}))

	// Major arc: the complement of the quarter.
	major := NewArc(P{0, 1}, P{1, 0}, 1, 3*math.Pi/2)
	assert.True(t, major.PointOnArc(PFromPolar(1, -math.Pi/2)))
	assert.False(t, major.PointOnArc(PFromPolar(1, math.Pi/4)))
}

func TestArcDistanceToPoint(t *testing.T) {
	arc := quarterCCW()
	assert.InDelta(t, 1.0, arc.DistanceToPoint(PFromPolar(2, math.Pi/4), false), Epsilon)
	assert.InDelta(t, 0.5, arc.DistanceToPoint(PFromPolar(0.5, math.Pi/4), false), Epsilon)
	// Outside the wedge in segment mode.
	assert.Equal(t, -1.0, arc.DistanceToPoint(PFromPolar(1, -math.Pi/2), true))
}

func TestArcIntersectLine(t *testing.T) {
	arc := quarterCCW()
	t.Run("Secant", func(t *testing.T) {
		// The diagonal crosses the arc at 45 degrees.
		line := NewLine(P{0, 0}, P{2, 2})
		ix := arc.IntersectLine(line, true, true)
		require.Len(t, ix, 1)
		assert.True(t, ix[0].Equal(PFromPolar(1, math.Pi/4)), "got %v", ix[0])
	})
	t.Run("Tangent", func(t *testing.T) {
		line := NewLine(P{-2, 1}, P{2, 1})
		ix := arc.IntersectLine(line, true, true)
		require.Len(t, ix, 1)
		assert.True(t, ix[0].Equal(P{0, 1}), "got %v", ix[0])
	})
	t.Run("Miss", func(t *testing.T) {
		line := NewLine(P{-2, 2}, P{2, 2})
		assert.Empty(t, arc.IntersectLine(line, true, true))
	})
	t.Run("Off segment", func(t *testing.T) {
		// Crosses the circle below the x axis, outside the arc sweep.
		line := NewLine(P{0, 0}, P{2, -2})
		assert.Empty(t, arc.IntersectLine(line, true, true))
	})
}

func TestArcIntersectArc(t *testing.T) {
	a1 := NewArcWithCenter(P{1, 0}, P{-1, 0}, 1, math.Pi, P{0, 0})
	// Same radius, center one unit to the right.
	a2 := NewArcWithCenter(P{2, 0}, P{0, 0}, 1, math.Pi, P{1, 0})
	ix := a1.IntersectArc(a2, true)
	require.NotEmpty(t, ix)
	for _, p := range ix {
		assert.InDelta(t, 1.0, p.Distance(P{0, 0}), Epsilon)
		assert.InDelta(t, 1.0, p.Distance(P{1, 0}), Epsilon)
	}
}

func TestArcFromTwoPointsAndTangent(t *testing.T) {
	// Tangent pointing straight up at (1,0) with end point (0,1) describes
	// the CCW unit quarter circle.
	arc, ok := ArcFromTwoPointsAndTangent(P{1, 0}, P{1, 1}, P{0, 1}, false)
	require.True(t, ok)
	assert.InDelta(t, 1.0, arc.Radius(), Epsilon)
	assert.InDelta(t, math.Pi/2, arc.Angle(), Epsilon)
	assert.True(t, arc.Center().Equal(P{0, 0}), "got %v", arc.Center())

	rev, ok := ArcFromTwoPointsAndTangent(P{1, 0}, P{1, 1}, P{0, 1}, true)
	require.True(t, ok)
	assert.True(t, rev.P1().Equal(P{0, 1}))
	assert.True(t, rev.P2().Equal(P{1, 0}))
	assert.InDelta(t, -math.Pi/2, rev.Angle(), Epsilon)

	_, ok = ArcFromTwoPointsAndTangent(P{1, 0}, P{1, 1}, P{1, 0}, false)
	assert.False(t, ok)
}

func TestArcTransform(t *testing.T) {
	arc := quarterCCW()
	moved := arc.Transform(Translate(2, 0)).(Arc)
	assert.True(t, moved.P1().Equal(P{3, 0}))
	assert.True(t, moved.Center().Equal(P{2, 0}), "got %v", moved.Center())
	assert.InDelta(t, arc.Angle(), moved.Angle(), Epsilon)

	// Mirroring flips the sweep direction.
	mirrored := arc.Transform(Scale(-1, 1)).(Arc)
	assert.InDelta(t, -arc.Angle(), mirrored.Angle(), Epsilon)

	scaled := arc.Transform(Scale(2, 2)).(Arc)
	assert.InDelta(t, 2.0, scaled.Radius(), Epsilon)
}
