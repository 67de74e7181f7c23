package cam

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/utlco/tancam/geom"
)

// SimpleCAM converts 2D line/arc/bezier path geometry into G-code for a
// straightforward 2.5 axis machine with an optional fourth rotational axis
// (A) that stays tangent to the direction of XY travel, such as a tangential
// knife or a brush.
//
// Since the input geometry is two dimensional, Z and A values are derived:
// Z from the current plunge depth and A from the segment tangents, unless a
// step carries hints that override them.
type SimpleCAM struct {
	gen *GCodeGenerator

	// HomeWhenDone rapids back to the XYA origin after the last path.
	HomeWhenDone bool
	// PathSortMethod optimizes rapid travel between paths. One of
	// "flip", "optimize", "y+", "y-", "x+", "x-"; empty keeps input order.
	PathSortMethod string
	// ZStep is the depth increment per pass (negative, toward ZDepth).
	// Zero means cut to final depth in one pass.
	ZStep float64
	// ZDepth is the final cutting depth (usually negative).
	ZDepth float64
	// ToolWidth is the tangential tool width in machine units.
	ToolWidth float64
	// ToolTrailOffset is the distance the tool contact point trails
	// behind the XY position, as with a drag knife.
	ToolTrailOffset float64
	// Biarc approximation parameters for bezier segments.
	BiarcTolerance float64
	BiarcMaxDepth  int
	LineFlatness   float64
	// EnableTangent rotates the A axis to follow the path tangent.
	EnableTangent bool
	// PathToolFillet inserts corner fillets compensating for tool width.
	PathToolFillet bool
	// PathToolOffset offsets paths to compensate for the trail offset.
	PathToolOffset bool
	// PathPreserveG1 repairs tangent continuity broken by offsetting.
	PathPreserveG1 bool
	// PathSplitCusps splits paths at vertices that are not tangent.
	PathSplitCusps bool
	// PathClosePolygons fillets the closing vertex of closed paths too.
	PathClosePolygons bool
	// PathSmoothFillet adds small smoothing fillets at remaining cusps.
	PathSmoothFillet bool
	PathSmoothRadius float64
	// PathCountStart suppresses output until this path number is
	// reached. Useful to restart an interrupted job.
	PathCountStart int

	feedDistance   float64
	currentAngle   float64
	toolFlipToggle float64
}

// NewSimpleCAM creates a CAM processor that emits through gen.
func NewSimpleCAM(gen *GCodeGenerator) *SimpleCAM {
	return &SimpleCAM{
		gen:              gen,
		BiarcTolerance:   0.01,
		BiarcMaxDepth:    4,
		LineFlatness:     0.001,
		EnableTangent:    true,
		PathSmoothRadius: 0.01,
		PathCountStart:   1,
		toolFlipToggle:   -1,
	}
}

// FeedDistance returns the cumulative tool travel during feeds, in machine
// units.
func (c *SimpleCAM) FeedDistance() float64 { return c.feedDistance }

// GenerateGCode converts a list of drawing paths, each a sequential
// collection of line, arc, and cubic bezier segments, into a complete
// G-code program. If ZStep does not reach ZDepth in one pass the paths are
// repeated at increasing depths, with the final pass landing exactly on
// ZDepth.
func (c *SimpleCAM) GenerateGCode(pathList [][]geom.Segment) error {
	if geom.IsZero(c.ZStep) {
		c.ZStep = c.ZDepth
	}
	paths, err := c.preprocessPaths(pathList)
	if err != nil {
		return err
	}
	if c.PathSortMethod != "" {
		c.sortPaths(paths)
	}
	c.gen.AddHeaderComment("", fmt.Sprintf("Path count: %d", len(paths)))
	c.gen.Header()
	c.gen.ToolUp()

	// If the final depth is above the work surface the step value is
	// irrelevant since the tool never reaches the surface.
	toolDepth := c.ZDepth
	if c.ZDepth <= 0 && c.ZStep < 0 && c.ZStep > c.ZDepth {
		toolDepth = c.ZStep
	}
	for depthPass := 1; ; depthPass++ {
		for pathCount, path := range paths {
			if len(path) == 0 || pathCount+1 < c.PathCountStart {
				continue
			}
			c.gen.Comment()
			c.gen.Comment(fmt.Sprintf("Path: %d, pass: %d, depth: %g%s",
				pathCount+1, depthPass, toolDepth*c.gen.UnitScale, c.gen.Units()))
			if err := c.generateRapidMove(path); err != nil {
				return err
			}
			c.plunge(toolDepth, path)
			c.gen.Comment("Start tool path")
			for _, step := range path {
				if err := c.generateStepGCode(step, toolDepth); err != nil {
					return err
				}
			}
		}
		if math.Abs(c.ZDepth-toolDepth) < c.gen.Tolerance() {
			break
		}
		toolDepth += c.ZStep
		if toolDepth < c.ZDepth {
			// Land the last pass exactly on the final depth.
			toolDepth = c.ZDepth
		}
	}
	c.gen.ToolUp()
	if c.HomeWhenDone {
		if err := c.gen.RapidMove(AxisValues{X: Num(0), Y: Num(0), A: Num(0)}, "Home"); err != nil {
			return err
		}
		c.currentAngle = 0
	}
	c.gen.Footer()
	return c.gen.Err()
}

// preprocessPaths runs the fixed transformation passes over every path:
// biarc conversion and tool-width fillets, optional cusp splitting, then
// trail offsetting with G1 repair, then smoothing fillets. Each pass works
// on the output of the previous one, so splitting happens before the passes
// that can extend the path list.
func (c *SimpleCAM) preprocessPaths(pathList [][]geom.Segment) ([]Path, error) {
	var paths []Path
	for _, segments := range pathList {
		path, err := NewPath(segments, c.BiarcTolerance, c.BiarcMaxDepth, c.LineFlatness)
		if err != nil {
			return nil, err
		}
		if c.PathToolFillet && c.ToolWidth > 0 {
			path = FilletPath(path, c.ToolWidth/2, c.PathClosePolygons, false, true)
		}
		if c.PathSplitCusps {
			paths = append(paths, path.SplitAtCusps()...)
		} else {
			paths = append(paths, path)
		}
	}
	if c.PathToolOffset && c.ToolTrailOffset > 0 {
		for i, path := range paths {
			offsetPath, err := OffsetPath(path, c.ToolTrailOffset, c.LineFlatness)
			if err != nil {
				return nil, err
			}
			if c.PathPreserveG1 {
				offsetPath = FixG1Path(offsetPath, c.BiarcTolerance, c.LineFlatness)
			}
			paths[i] = offsetPath
		}
	}
	if c.PathSmoothFillet && c.PathSmoothRadius > 0 {
		for i, path := range paths {
			paths[i] = FilletPath(path, c.PathSmoothRadius, c.PathClosePolygons, true, false)
		}
	}
	return paths, nil
}

// sortPaths reorders or reverses paths to minimize rapid travel between the
// end of one path and the start of the next.
func (c *SimpleCAM) sortPaths(paths []Path) {
	switch c.PathSortMethod {
	case "flip":
		c.flipPaths(paths)
	case "optimize", "y+", "y-":
		// Sort bottom to top, left to right. Only the first point of each
		// path is used as the sort key.
		sort.SliceStable(paths, func(i, j int) bool {
			pi, pj := paths[i][0].Seg.P1(), paths[j][0].Seg.P1()
			less := pi.Y < pj.Y || (pi.Y == pj.Y && pi.X < pj.X)
			if c.PathSortMethod == "y-" {
				return !less
			}
			return less
		})
	case "x+", "x-":
		sort.SliceStable(paths, func(i, j int) bool {
			pi, pj := paths[i][0].Seg.P1(), paths[j][0].Seg.P1()
			less := pi.X < pj.X || (pi.X == pj.X && pi.Y < pj.Y)
			if c.PathSortMethod == "x-" {
				return !less
			}
			return less
		})
	}
}

// flipPaths preserves path order but reverses path directions where that
// shortens the rapid from the previous path's end point.
func (c *SimpleCAM) flipPaths(paths []Path) {
	if len(paths) == 0 {
		return
	}
	endp := paths[0][len(paths[0])-1].Seg.P2()
	for i, path := range paths {
		d1 := endp.Distance(path[0].Seg.P1())
		d2 := endp.Distance(path[len(path)-1].Seg.P2())
		if d2 < d1 {
			paths[i] = path.Reversed()
			path = paths[i]
		}
		endp = path[len(path)-1].Seg.P2()
	}
}

// generateRapidMove rapids to the beginning of a tool path, rotating the A
// axis to the path's start tangent on the way.
func (c *SimpleCAM) generateRapidMove(path Path) error {
	if c.EnableTangent {
		rotation := geom.CalcRotation(c.currentAngle, path[0].StartAngle())
		c.currentAngle += rotation
	}
	first := path[0].Seg.P1()
	return c.gen.RapidMove(AxisValues{
		X: Num(first.X), Y: Num(first.Y), A: Num(c.currentAngle)}, "")
}

// plunge brings the tool down to the working depth. If the first step has a
// Z hint the path performs a soft landing, so the tool only goes to the
// work surface here.
func (c *SimpleCAM) plunge(depth float64, path Path) {
	if path[0].Hints.HasZ {
		depth = 0
	}
	c.gen.ToolDown(depth, "")
}

// generateStepGCode emits the feed moves for one path step.
func (c *SimpleCAM) generateStepGCode(step Step, depth float64) error {
	c.feedDistance += step.Seg.Length()
	if step.Hints.HasZ {
		depth = step.Hints.Z
	}
	var endAngle float64
	if step.Hints.IgnoreA || !c.EnableTangent {
		endAngle = c.currentAngle
	} else {
		// Rotate the A axis to the step's start angle before moving.
		rotation := geom.CalcRotation(c.currentAngle, step.StartAngle())
		if !geom.IsZero(rotation) {
			c.currentAngle += rotation
			if err := c.gen.Feed(AxisValues{A: Num(c.currentAngle)}, ""); err != nil {
				return err
			}
		}
		// The rotation sign determines the direction of travel to the
		// end angle.
		rotation = geom.CalcRotation(c.currentAngle, step.EndAngle())
		endAngle = c.currentAngle + rotation
	}

	var err error
	switch seg := step.Seg.(type) {
	case geom.Line:
		err = c.gen.Feed(AxisValues{
			X: Num(seg.P2().X), Y: Num(seg.P2().Y),
			Z: Num(depth), A: Num(endAngle)}, "")
	case geom.Arc:
		cur, ok := c.gen.CurrentXY()
		if ok && geom.FloatEq(seg.Center().Distance(cur), seg.Radius()) {
			arcv := seg.Center().Sub(seg.P1())
			err = c.gen.FeedArc(seg.IsClockwise(),
				seg.P2().X, seg.P2().Y, arcv.X, arcv.Y,
				AxisValues{Z: Num(depth), A: Num(endAngle)}, "")
		} else {
			// The tracked position drifted off the arc; feed the chord
			// instead of emitting an invalid arc.
			err = c.gen.Feed(AxisValues{
				X: Num(seg.P2().X), Y: Num(seg.P2().Y),
				Z: Num(depth), A: Num(endAngle)}, "degenerate arc")
		}
	default:
		err = errors.Errorf("unsupported toolpath segment type %T", step.Seg)
	}
	if err != nil {
		return err
	}
	c.currentAngle = endAngle
	return nil
}

// FlipTool offsets the tangential tool rotation by 180 degrees. Useful for
// brush-type or double sided tools to even out wear.
func (c *SimpleCAM) FlipTool() {
	c.toolFlipToggle *= -1
	c.gen.SetAxisOffset('A', c.gen.AxisOffset('A')+c.toolFlipToggle*math.Pi)
}
