// Package tancam compiles 2D vector paths into G-code motion programs for
// 2.5 axis machines with an optional tangential rotary axis, such as drag
// knives and wide brushes.
//
// Input paths may contain lines, circular arcs, and cubic bezier curves.
// Curves are approximated with tangentially connected arcs, corners are
// blended to compensate for tool width, and paths are offset to compensate
// for the tool's trailing contact point before G-code is emitted.
package tancam

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/utlco/tancam/cam"
	"github.com/utlco/tancam/geom"
)

// Options configure a compilation run. Set them up front; a compile never
// mutates them.
type Options struct {
	// Units is the G-code output unit, "in" or "mm". UnitScale converts
	// input coordinates to machine units.
	Units     string
	UnitScale float64

	// Feed rates in machine units per minute. ZFeed and AFeed fall back
	// to XYFeed when zero.
	XYFeed float64
	ZFeed  float64
	AFeed  float64

	// ZSafe is the safe height for rapid moves. ZDepth is the final
	// cutting depth and ZStep the per-pass increment toward it.
	ZSafe  float64
	ZDepth float64
	ZStep  float64

	// Tangential tool geometry.
	ToolWidth       float64
	ToolTrailOffset float64

	// Curve conversion parameters.
	BiarcTolerance float64
	BiarcMaxDepth  int
	LineFlatness   float64

	// Pipeline pass toggles.
	ToolFillet    bool
	ToolOffset    bool
	PreserveG1    bool
	SplitCusps    bool
	ClosePolygons bool
	SmoothFillet  bool
	SmoothRadius  float64

	// DisableTangent turns off A axis rotation entirely.
	DisableTangent bool

	// SortMethod reorders paths to reduce rapid travel: "flip",
	// "optimize", "y+", "y-", "x+", or "x-". Empty keeps input order.
	SortMethod   string
	HomeWhenDone bool

	// Spindle control.
	SpindleSpeed     float64
	SpindleClockwise bool
	SpindleAuto      bool

	// BlendMode selects the trajectory planning directive: "blend" (G64)
	// or "exact" (G61). BlendTolerance is the G64 P value when positive.
	BlendMode      string
	BlendTolerance float64

	// Output decoration.
	LineNumbers      bool
	SuppressComments bool
	HeaderComments   []string

	// Plotter receives motion callbacks for preview rendering. Nil means
	// no preview.
	Plotter cam.PreviewPlotter
}

// DefaultOptions returns a usable configuration for inch-based machines.
func DefaultOptions() Options {
	return Options{
		Units:            "in",
		UnitScale:        1.0,
		XYFeed:           400,
		ZSafe:            1.0,
		BiarcTolerance:   0.01,
		BiarcMaxDepth:    4,
		LineFlatness:     0.001,
		SmoothRadius:     0.01,
		SpindleClockwise: true,
	}
}

// Compile runs the full pipeline over the given drawing paths and returns
// the G-code program text. Each path is a sequential list of lines, arcs,
// and cubic beziers.
//
// The deep geometry passes assume well-formed input; any internal panic on
// degenerate data is recovered here and converted to an error.
func Compile(pathList [][]geom.Segment, opts Options) (gcode string, err error) {
	defer func() {
		if r := recover(); r != nil {
			gcode = ""
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "compiling toolpaths")
			} else {
				err = errors.Errorf("compiling toolpaths: %v", r)
			}
		}
	}()

	var buf bytes.Buffer
	gen := cam.NewGCodeGenerator(&buf, opts.XYFeed, opts.ZSafe)
	if opts.Units != "" {
		scale := opts.UnitScale
		if scale == 0 {
			scale = 1
		}
		if err := gen.SetUnits(opts.Units, scale); err != nil {
			return "", err
		}
	}
	gen.ZFeed = opts.ZFeed
	gen.AFeed = opts.AFeed
	gen.ShowLineNumbers = opts.LineNumbers
	gen.ShowComments = !opts.SuppressComments
	gen.SetSpindleDefaults(opts.SpindleSpeed, opts.SpindleClockwise, 0, 0, opts.SpindleAuto)
	if opts.BlendMode != "" {
		var tolerance *float64
		if opts.BlendTolerance > 0 {
			tolerance = &opts.BlendTolerance
		}
		gen.SetPathBlending(opts.BlendMode, tolerance, nil)
	}
	gen.AddHeaderComment(opts.HeaderComments...)
	if opts.Plotter != nil {
		gen.Plotter = opts.Plotter
	}

	c := cam.NewSimpleCAM(gen)
	c.ZDepth = opts.ZDepth
	c.ZStep = opts.ZStep
	c.ToolWidth = opts.ToolWidth
	c.ToolTrailOffset = opts.ToolTrailOffset
	if opts.BiarcTolerance > 0 {
		c.BiarcTolerance = opts.BiarcTolerance
	}
	if opts.BiarcMaxDepth > 0 {
		c.BiarcMaxDepth = opts.BiarcMaxDepth
	}
	if opts.LineFlatness > 0 {
		c.LineFlatness = opts.LineFlatness
	}
	c.EnableTangent = !opts.DisableTangent
	c.PathToolFillet = opts.ToolFillet
	c.PathToolOffset = opts.ToolOffset
	c.PathPreserveG1 = opts.PreserveG1
	c.PathSplitCusps = opts.SplitCusps
	c.PathClosePolygons = opts.ClosePolygons
	c.PathSmoothFillet = opts.SmoothFillet
	if opts.SmoothRadius > 0 {
		c.PathSmoothRadius = opts.SmoothRadius
	}
	c.PathSortMethod = opts.SortMethod
	c.HomeWhenDone = opts.HomeWhenDone

	if err := c.GenerateGCode(pathList); err != nil {
		return "", err
	}
	return buf.String(), nil
}
