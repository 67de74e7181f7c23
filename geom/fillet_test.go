package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilletLineLine(t *testing.T) {
	//           (10,10)
	//              |
	//       radius-2 fillet tangent at (8,0) and (10,2)
	//              |
	// (0,0)-----(10,0)
	line1 := NewLine(P{0, 0}, P{10, 0})
	line2 := NewLine(P{10, 0}, P{10, 10})

	farc, ok := CreateFilletArc(line1, line2, 2)
	require.True(t, ok)
	assert.True(t, farc.P1().Equal(P{8, 0}), "got %v", farc.P1())
	assert.True(t, farc.P2().Equal(P{10, 2}), "got %v", farc.P2())
	assert.True(t, farc.Center().Equal(P{8, 2}), "got %v", farc.Center())
	assert.InDelta(t, 2.0, farc.Radius(), Epsilon)
	assert.InDelta(t, math.Pi/2, math.Abs(farc.Angle()), Epsilon)
}

func TestFilletTooLarge(t *testing.T) {
	line1 := NewLine(P{0, 0}, P{3, 0})
	line2 := NewLine(P{3, 0}, P{3, 3})
	// Radius exceeds both segment lengths; the tangent points would fall
	// off the ends.
	_, ok := CreateFilletArc(line1, line2, 5)
	assert.False(t, ok)
}

func TestFilletCollinear(t *testing.T) {
	line1 := NewLine(P{0, 0}, P{5, 0})
	line2 := NewLine(P{5, 0}, P{10, 0})
	// Already G1; the offset lines never intersect.
	_, ok := CreateFilletArc(line1, line2, 1)
	assert.False(t, ok)
}

func TestInsertFillet(t *testing.T) {
	line1 := NewLine(P{0, 0}, P{10, 0})
	line2 := NewLine(P{10, 0}, P{10, 10})
	seg1, farc, seg2, ok := InsertFillet(line1, line2, 2)
	require.True(t, ok)

	// The trimmed segments meet the fillet arc exactly.
	assert.True(t, seg1.P1().Equal(line1.P1()))
	assert.True(t, seg1.P2().Equal(farc.P1()))
	assert.True(t, seg2.P1().Equal(farc.P2()))
	assert.True(t, seg2.P2().Equal(line2.P2()))
	// And tangentially.
	assert.True(t, SegmentsAreG1(seg1, farc, 1e-6))
	assert.True(t, SegmentsAreG1(farc, seg2, 1e-6))
}

func TestFilletLineArc(t *testing.T) {
	// Horizontal approach into a CCW quarter turn that starts perpendicular
	// to the line, forming a corner at (10,0).
	line := NewLine(P{0, 0}, P{10, 0})
	arc := NewArcWithCenter(P{10, 0}, P{14, 4}, 4, -math.Pi/2, P{14, 0})

	seg1, farc, seg2, ok := InsertFillet(line, arc, 1)
	require.True(t, ok)
	assert.True(t, SegmentsAreG1(seg1, farc, 1e-6), "%v -> %v", seg1, farc)
	assert.True(t, SegmentsAreG1(farc, seg2, 1e-6), "%v -> %v", farc, seg2)
	assert.InDelta(t, 1.0, farc.Radius(), 1e-6)
}

func TestFilletArcArc(t *testing.T) {
	// Two scallop bumps meeting at a cusp: the first arrives at the origin
	// heading straight down, the second departs heading straight up.
	arc1 := NewArcWithCenter(P{-4, 0}, P{0, 0}, 2, -math.Pi, P{-2, 0})
	arc2 := NewArcWithCenter(P{0, 0}, P{4, 0}, 2, -math.Pi, P{2, 0})

	seg1, farc, seg2, ok := InsertFillet(arc1, arc2, 0.5)
	require.True(t, ok)
	assert.True(t, SegmentsAreG1(seg1, farc, 1e-6), "%v -> %v", seg1, farc)
	assert.True(t, SegmentsAreG1(farc, seg2, 1e-6), "%v -> %v", farc, seg2)
}

func TestFilletPath(t *testing.T) {
	t.Run("Open rectangle corner path", func(t *testing.T) {
		path := []Segment{
			NewLine(P{0, 0}, P{10, 0}),
			NewLine(P{10, 0}, P{10, 10}),
			NewLine(P{10, 10}, P{0, 10}),
		}
		filleted := FilletPath(path, 1, false)
		require.Len(t, filleted, 5)
		for i := 1; i < len(filleted); i++ {
			assert.True(t, SegmentsAreG1(filleted[i-1], filleted[i], 1e-6),
				"segments %d and %d not G1", i-1, i)
		}
	})

	t.Run("Closed square", func(t *testing.T) {
		path := []Segment{
			NewLine(P{0, 0}, P{10, 0}),
			NewLine(P{10, 0}, P{10, 10}),
			NewLine(P{10, 10}, P{0, 10}),
			NewLine(P{0, 10}, P{0, 0}),
		}
		filleted := FilletPath(path, 1, true)
		// Four lines plus four fillets.
		require.Len(t, filleted, 8)
		for i := 1; i < len(filleted); i++ {
			assert.True(t, SegmentsAreG1(filleted[i-1], filleted[i], 1e-6),
				"segments %d and %d not G1", i-1, i)
		}
		// Closure fillet joins the end back to the start.
		assert.True(t, SegmentsAreG1(filleted[len(filleted)-1], filleted[0], 1e-6))
	})

	t.Run("No fillets possible returns original", func(t *testing.T) {
		path := []Segment{
			NewLine(P{0, 0}, P{5, 0}),
			NewLine(P{5, 0}, P{10, 0}),
		}
		filleted := FilletPath(path, 1, false)
		assert.Equal(t, len(path), len(filleted))
	})

	t.Run("Zero radius returns original", func(t *testing.T) {
		path := []Segment{
			NewLine(P{0, 0}, P{10, 0}),
			NewLine(P{10, 0}, P{10, 10}),
		}
		filleted := FilletPath(path, 0, false)
		assert.Equal(t, len(path), len(filleted))
	})
}

func TestFilletPolygon(t *testing.T) {
	poly := []P{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	path := FilletPolygon(poly, 1, false)
	require.NotEmpty(t, path)
	for i := 1; i < len(path); i++ {
		assert.True(t, SegmentsAreG1(path[i-1], path[i], 1e-6),
			"segments %d and %d not G1", i-1, i)
	}
}
