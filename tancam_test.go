package tancam

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlco/tancam/geom"
)

func squarePath() []geom.Segment {
	return []geom.Segment{
		geom.NewLine(geom.P{X: 0, Y: 0}, geom.P{X: 2, Y: 0}),
		geom.NewLine(geom.P{X: 2, Y: 0}, geom.P{X: 2, Y: 2}),
		geom.NewLine(geom.P{X: 2, Y: 2}, geom.P{X: 0, Y: 2}),
		geom.NewLine(geom.P{X: 0, Y: 2}, geom.P{X: 0, Y: 0}),
	}
}

func TestCompile(t *testing.T) {
	opts := DefaultOptions()
	opts.ZDepth = -0.1
	opts.HeaderComments = []string{"test job"}

	gcode, err := Compile([][]geom.Segment{squarePath()}, opts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gcode, "%\n"))
	assert.Contains(t, gcode, "(test job)")
	assert.Contains(t, gcode, "G20")
	assert.Contains(t, gcode, "G00")
	assert.Contains(t, gcode, "G01")
	assert.Contains(t, gcode, "Z-0.100000")
	assert.Contains(t, gcode, "M2")
}

func TestCompileFullPipeline(t *testing.T) {
	opts := DefaultOptions()
	opts.ZDepth = -0.05
	opts.ToolWidth = 0.2
	opts.ToolTrailOffset = 0.1
	opts.ToolFillet = true
	opts.ToolOffset = true
	opts.PreserveG1 = true
	opts.SmoothFillet = true
	opts.SortMethod = "y+"

	path := []geom.Segment{
		geom.NewLine(geom.P{X: 0, Y: 0}, geom.P{X: 3, Y: 0}),
		geom.NewCubicBezier(geom.P{X: 3, Y: 0}, geom.P{X: 4, Y: 0}, geom.P{X: 5, Y: 1}, geom.P{X: 5, Y: 2}),
		geom.NewLine(geom.P{X: 5, Y: 2}, geom.P{X: 5, Y: 4}),
	}
	gcode, err := Compile([][]geom.Segment{path}, opts)
	require.NoError(t, err)
	// Biarc conversion must produce arc feeds somewhere in the program.
	assert.True(t, strings.Contains(gcode, "G02") || strings.Contains(gcode, "G03"),
		"expected arc feeds in output")
	assert.Contains(t, gcode, "M2")
}

func TestCompileBadInput(t *testing.T) {
	_, err := Compile([][]geom.Segment{{nil}}, DefaultOptions())
	require.Error(t, err)
}

func TestCompileMillimeters(t *testing.T) {
	opts := DefaultOptions()
	opts.Units = "mm"
	opts.UnitScale = 25.4
	opts.ZDepth = -1

	gcode, err := Compile([][]geom.Segment{squarePath()}, opts)
	require.NoError(t, err)
	assert.Contains(t, gcode, "G21")

	opts.Units = "cubits"
	_, err = Compile(nil, opts)
	assert.Error(t, err)
}
