package dbg

import (
	"math"
	"os"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"

	"github.com/utlco/tancam/cam"
	"github.com/utlco/tancam/geom"
)

// This is for debugging purposes only

// Padding around the geometry so out-of-bounds excursions are obvious
const dbgDrawPadding = 40

var pathColors = [][3]float64{
	{0, 1, 1},
	{1, 0.5, 0},
	{0.5, 1, 0},
	{1, 0, 1},
}

// DrawPaths draws a set of toolpaths and prints them in the terminal (iTerm
// only), one color per path, labeled with a readable name at each path
// start. Handy for eyeballing what a pipeline pass did to the geometry.
func DrawPaths(paths []cam.Path, scale float64) {
	var minX, minY, maxX, maxY float64
	minX = math.Inf(1)
	minY = math.Inf(1)
	maxX = math.Inf(-1)
	maxY = math.Inf(-1)
	for _, path := range paths {
		for _, step := range path {
			for _, p := range []geom.P{step.Seg.P1(), step.Seg.P2()} {
				minX = math.Min(minX, p.X)
				minY = math.Min(minY, p.Y)
				maxX = math.Max(maxX, p.X)
				maxY = math.Max(maxY, p.Y)
			}
		}
	}

	// Set up the context
	width := int(scale*(maxX-minX)) + dbgDrawPadding*2
	height := int(scale*(maxY-minY)) + dbgDrawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)

	// Translate for padding
	c.Translate(dbgDrawPadding, dbgDrawPadding)
	// Scale
	c.Scale(scale, scale)
	// Translate to min
	c.Translate(-minX, -minY)

	c.SetLineWidth(2 / scale)
	for i, path := range paths {
		if len(path) == 0 {
			continue
		}
		color := pathColors[i%len(pathColors)]
		c.SetRGB(color[0], color[1], color[2])
		for _, step := range path {
			drawSegment(c, step.Seg)
		}
		c.Stroke()
		labelPath(c, &path[0])
	}

	c.SavePNG("/tmp/toolpaths.png")
	imgcat.CatFile("/tmp/toolpaths.png", os.Stdout)
}

func drawSegment(c *gg.Context, seg geom.Segment) {
	switch s := seg.(type) {
	case geom.Arc:
		a1 := s.P1().Sub(s.Center()).Angle()
		c.MoveTo(s.P1().X, s.P1().Y)
		c.DrawArc(s.Center().X, s.Center().Y, s.Radius(), a1, a1+s.Angle())
	default:
		c.MoveTo(seg.P1().X, seg.P1().Y)
		c.LineTo(seg.P2().X, seg.P2().Y)
	}
}

func labelPath(c *gg.Context, first *cam.Step) {
	p := first.Seg.P1()
	// We have to go back to identity to draw the text, so get the point in
	// native coordinates first.
	x, y := c.TransformPoint(p.X, p.Y)
	c.Push()
	c.Identity()
	c.SetRGB(1, 1, 1)
	c.DrawStringAnchored(Name(first), x, y, 0.5, 1.5)
	c.Pop()
}
