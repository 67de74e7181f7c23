package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlco/tancam/geom"
)

func TestParsePathData(t *testing.T) {
	t.Run("Lines and closepath", func(t *testing.T) {
		paths, err := ParsePathData("M 0 0 L 10 0 L 10 10 Z")
		require.NoError(t, err)
		require.Len(t, paths, 1)
		require.Len(t, paths[0], 3)
		assert.True(t, paths[0][2].P2().Equal(geom.P{X: 0, Y: 0}))
	})

	t.Run("Implicit lineto after moveto", func(t *testing.T) {
		paths, err := ParsePathData("M0,0 10,0 20,10")
		require.NoError(t, err)
		require.Len(t, paths, 1)
		require.Len(t, paths[0], 2)
		assert.True(t, paths[0][1].P2().Equal(geom.P{X: 20, Y: 10}))
	})

	t.Run("Relative commands", func(t *testing.T) {
		paths, err := ParsePathData("m 5 5 l 10 0 v 5 h -10 z")
		require.NoError(t, err)
		require.Len(t, paths, 1)
		require.Len(t, paths[0], 4)
		assert.True(t, paths[0][0].P1().Equal(geom.P{X: 5, Y: 5}))
		assert.True(t, paths[0][1].P2().Equal(geom.P{X: 15, Y: 10}))
		assert.True(t, paths[0][3].P2().Equal(geom.P{X: 5, Y: 5}))
	})

	t.Run("Cubic curve", func(t *testing.T) {
		paths, err := ParsePathData("M0 0 C 1 2 3 2 4 0")
		require.NoError(t, err)
		require.Len(t, paths, 1)
		require.Len(t, paths[0], 1)
		curve, ok := paths[0][0].(geom.CubicBezier)
		require.True(t, ok, "got %T", paths[0][0])
		assert.True(t, curve.C1().Equal(geom.P{X: 1, Y: 2}))
		assert.True(t, curve.P2().Equal(geom.P{X: 4, Y: 0}))
	})

	t.Run("Smooth curve reflects the control point", func(t *testing.T) {
		paths, err := ParsePathData("M0 0 C 1 2 3 2 4 0 S 7 -2 8 0")
		require.NoError(t, err)
		require.Len(t, paths[0], 2)
		curve := paths[0][1].(geom.CubicBezier)
		assert.True(t, curve.C1().Equal(geom.P{X: 5, Y: -2}), "got %v", curve.C1())
	})

	t.Run("Quadratic becomes cubic", func(t *testing.T) {
		paths, err := ParsePathData("M0 0 Q 2 4 4 0")
		require.NoError(t, err)
		require.Len(t, paths[0], 1)
		_, ok := paths[0][0].(geom.CubicBezier)
		assert.True(t, ok)
	})

	t.Run("Multiple subpaths", func(t *testing.T) {
		paths, err := ParsePathData("M0 0 L1 0 M5 5 L6 5")
		require.NoError(t, err)
		require.Len(t, paths, 2)
	})

	t.Run("Scientific notation", func(t *testing.T) {
		paths, err := ParsePathData("M0 0 L 1e1 -2.5e-1")
		require.NoError(t, err)
		assert.True(t, paths[0][0].P2().Equal(geom.P{X: 10, Y: -0.25}))
	})

	t.Run("Elliptical arcs are unsupported", func(t *testing.T) {
		_, err := ParsePathData("M0 0 A 5 5 0 0 1 10 0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported path command")
	})

	t.Run("Missing coordinates", func(t *testing.T) {
		_, err := ParsePathData("M0 0 L 10")
		assert.Error(t, err)
	})

	t.Run("Empty data", func(t *testing.T) {
		paths, err := ParsePathData("")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}

func TestParsePoints(t *testing.T) {
	points, err := ParsePoints("0,0 10,0 10,10")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.True(t, points[2].Equal(geom.P{X: 10, Y: 10}))

	_, err = ParsePoints("0,0 10")
	assert.Error(t, err)
}

func TestPathsFromSVG(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<g>
			<path d="M0 0 L10 0 C 12 0 14 2 14 4"/>
			<line x1="0" y1="5" x2="10" y2="5"/>
			<polygon points="0,0 4,0 4,4"/>
			<polyline points="0,10 5,10"/>
		</g>
	</svg>`

	paths, err := PathsFromSVG(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, paths, 4)

	// Path: line plus curve.
	require.Len(t, paths[0], 2)
	_, isCurve := paths[0][1].(geom.CubicBezier)
	assert.True(t, isCurve)
	// Line element.
	require.Len(t, paths[1], 1)
	// Polygon closes back to its first point.
	require.Len(t, paths[2], 3)
	assert.True(t, paths[2][2].P2().Equal(paths[2][0].P1()))
	// Polyline stays open.
	require.Len(t, paths[3], 1)
}
