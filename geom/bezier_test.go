package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// arch is a symmetric arch-shaped curve with monotone curvature.
func arch() CubicBezier {
	return NewCubicBezier(P{0, 0}, P{1, 2}, P{3, 2}, P{4, 0})
}

func TestBezierPointAt(t *testing.T) {
	b := arch()
	assert.True(t, b.PointAt(0).Equal(b.P1()))
	assert.True(t, b.PointAt(1).Equal(b.P2()))
	// Symmetric curve: the midpoint is on the axis of symmetry.
	mid := b.PointAt(0.5)
	assert.InDelta(t, 2.0, mid.X, Epsilon)
	assert.InDelta(t, 1.5, mid.Y, Epsilon)
}

func TestBezierTangents(t *testing.T) {
	b := arch()
	assert.InDelta(t, math.Atan2(2, 1), b.StartTangentAngle(), Epsilon)
	assert.InDelta(t, math.Atan2(-2, 1), b.EndTangentAngle(), Epsilon)

	t.Run("Degenerate control points", func(t *testing.T) {
		// c1 on p1: the tangent falls back to c2.
		b := NewCubicBezier(P{0, 0}, P{0, 0}, P{1, 1}, P{2, 0})
		assert.InDelta(t, math.Pi/4, b.StartTangentAngle(), Epsilon)
	})
}

func TestBezierFromQuadratic(t *testing.T) {
	b := CubicBezierFromQuadratic(P{0, 0}, P{1, 2}, P{2, 0})
	assert.True(t, b.P1().Equal(P{0, 0}))
	assert.True(t, b.P2().Equal(P{2, 0}))
	// A degree-elevated quadratic evaluates identically.
	// Quadratic at t=0.5: 0.25*p1 + 0.5*c + 0.25*p2 = (1, 1)
	assert.True(t, b.PointAt(0.5).Equal(P{1, 1}), "got %v", b.PointAt(0.5))
}

func TestBezierFlatness(t *testing.T) {
	flat := NewCubicBezier(P{0, 0}, P{1, 1e-5}, P{2, -1e-5}, P{3, 0})
	assert.True(t, flat.IsStraightLine(0.01))
	assert.False(t, arch().IsStraightLine(0.01))
	// Coincident control points are a straight line by definition.
	degen := NewCubicBezier(P{0, 0}, P{0, 0}, P{3, 0}, P{3, 0})
	assert.True(t, degen.IsStraightLine(0))
}

func TestBezierSubdivide(t *testing.T) {
	b := arch()
	halves := b.Subdivide(0.5)
	require.Len(t, halves, 2)
	b1, b2 := halves[0], halves[1]
	assert.True(t, b1.P1().Equal(b.P1()))
	assert.True(t, b1.P2().Equal(b2.P1()))
	assert.True(t, b2.P2().Equal(b.P2()))
	// The halves trace the same curve.
	assert.True(t, b1.PointAt(0.5).Equal(b.PointAt(0.25)))
	assert.True(t, b2.PointAt(0.5).Equal(b.PointAt(0.75)))
	// Subdivision preserves tangency at the split.
	assert.True(t, SegmentsAreG1(b1, b2, 1e-6))

	// Degenerate parameter returns the original.
	assert.Len(t, b.Subdivide(0), 1)
	assert.Len(t, b.Subdivide(1), 1)
}

func TestBezierInflections(t *testing.T) {
	t.Run("No inflections", func(t *testing.T) {
		t1, t2 := arch().FindInflections()
		assert.Equal(t, 0.0, t1)
		assert.Equal(t, 0.0, t2)
		assert.Len(t, arch().SubdivideInflections(), 1)
	})
	t.Run("Symmetric S curve", func(t *testing.T) {
		// Point-symmetric curve inflects exactly at the middle.
		s := NewCubicBezier(P{0, 0}, P{0, 2}, P{4, -2}, P{4, 0})
		t1, t2 := s.FindInflections()
		assert.InDelta(t, 0.5, t1, Epsilon)
		assert.Equal(t, 0.0, t2)
		curves := s.SubdivideInflections()
		require.Len(t, curves, 2)
		assert.True(t, curves[0].P2().Equal(s.PointAt(0.5)))
	})
	t.Run("Asymmetric S curve", func(t *testing.T) {
		s := NewCubicBezier(P{0, 0}, P{1, 3}, P{4, -2}, P{6, 2})
		t1, t2 := s.FindInflections()
		ti := math.Max(t1, t2)
		require.True(t, ti > 0)
		// Curvature changes sign across the inflection.
		k1 := s.Curvature(ti - 0.05)
		k2 := s.Curvature(ti + 0.05)
		assert.True(t, k1*k2 < 0, "curvature %g and %g should differ in sign", k1, k2)
	})
}

func TestBezierLength(t *testing.T) {
	// Near-degenerate straight curve has chord length.
	straight := NewCubicBezier(P{0, 0}, P{1, 0}, P{2, 0}, P{3, 0})
	assert.InDelta(t, 3.0, straight.Length(), 1e-6)

	// A quarter circle approximation has length close to Pi/2.
	k := 0.5522847498308
	quarter := NewCubicBezier(P{1, 0}, P{1, k}, P{k, 1}, P{0, 1})
	assert.InDelta(t, math.Pi/2, quarter.Length(), 1e-3)

	// Memoized: same answer twice.
	assert.Equal(t, quarter.Length(), quarter.Length())
}

func TestBezierReversed(t *testing.T) {
	b := arch()
	rev := b.Reversed().(CubicBezier)
	assert.True(t, rev.P1().Equal(b.P2()))
	assert.True(t, rev.P2().Equal(b.P1()))
	assert.True(t, rev.PointAt(0.25).Equal(b.PointAt(0.75)))
}
