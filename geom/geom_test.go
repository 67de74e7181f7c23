package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	// center=Pi gives [0, 2*Pi)
	assert.InDelta(t, 0.0, NormalizeAngle(Tau, math.Pi), Epsilon)
	assert.InDelta(t, math.Pi/2, NormalizeAngle(math.Pi/2+3*Tau, math.Pi), Epsilon)
	assert.InDelta(t, 3*math.Pi/2, NormalizeAngle(-math.Pi/2, math.Pi), Epsilon)
	// center=0 gives [-Pi, Pi)
	assert.InDelta(t, -math.Pi, NormalizeAngle(math.Pi, 0), Epsilon)
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2, 0), Epsilon)
	assert.InDelta(t, 0.0, NormalizeAngle(-Tau, 0), Epsilon)
}

func TestCalcRotation(t *testing.T) {
	assert.Equal(t, 0.0, CalcRotation(1.0, 1.0))
	assert.InDelta(t, math.Pi/2, CalcRotation(0, math.Pi/2), Epsilon)
	assert.InDelta(t, -math.Pi/2, CalcRotation(math.Pi/2, 0), Epsilon)
	// Crossing the -Pi/Pi seam takes the short way around.
	assert.InDelta(t, math.Pi/2, CalcRotation(3*math.Pi/4, -3*math.Pi/4), Epsilon)
	assert.InDelta(t, -math.Pi/2, CalcRotation(-3*math.Pi/4, 3*math.Pi/4), Epsilon)
	// A U-turn is never more than Pi.
	assert.InDelta(t, math.Pi, math.Abs(CalcRotation(0, math.Pi)), Epsilon)
}

func TestSegmentsAreG1(t *testing.T) {
	t.Run("Collinear lines", func(t *testing.T) {
		line1 := NewLine(P{0, 0}, P{1, 1})
		line2 := NewLine(P{1, 1}, P{2, 2})
		assert.True(t, SegmentsAreG1(line1, line2, 0))
	})
	t.Run("Corner", func(t *testing.T) {
		line1 := NewLine(P{0, 0}, P{1, 0})
		line2 := NewLine(P{1, 0}, P{1, 1})
		assert.False(t, SegmentsAreG1(line1, line2, 0))
	})
	t.Run("Disconnected", func(t *testing.T) {
		line1 := NewLine(P{0, 0}, P{1, 0})
		line2 := NewLine(P{2, 0}, P{3, 0})
		assert.False(t, SegmentsAreG1(line1, line2, 0))
	})
	t.Run("Line to tangent arc", func(t *testing.T) {
		line := NewLine(P{-1, 0}, P{0, 0})
		// CCW quarter circle centered at (0, 1) starting at (0, 0) heading +x.
		arc := NewArcWithCenter(P{0, 0}, P{1, 1}, 1, math.Pi/2, P{0, 1})
		assert.True(t, SegmentsAreG1(line, arc, 0))
	})
	t.Run("Westbound across the angle seam", func(t *testing.T) {
		// The arc's normalized end tangent is -Pi while the line's direction
		// is atan2's +Pi; the joint is still tangent.
		arc := NewArcWithCenter(P{10, 9}, P{9, 10}, 1, math.Pi/2, P{9, 9})
		line := NewLine(P{9, 10}, P{0, 10})
		assert.True(t, SegmentsAreG1(arc, line, 0))
		assert.True(t, SegmentsAreG1(line.Reversed(), arc.Reversed(), 0))
	})
}
