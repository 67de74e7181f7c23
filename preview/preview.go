// Package preview renders emitted machine motion into a raster image so a
// job can be inspected before it is run. It implements cam.PreviewPlotter:
// rapid moves are drawn as thin dashed lines, feeds and arcs as solid
// strokes, with the tangential tool heading ticked at feed endpoints.
package preview

import (
	"math"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/utlco/tancam/cam"
	"github.com/utlco/tancam/geom"
)

const drawPadding = 20

type opKind int

const (
	opMove opKind = iota
	opFeed
	opArc
)

type op struct {
	kind      opKind
	from, to  cam.Endpoint
	center    geom.P
	clockwise bool
}

// Plotter records motion callbacks and renders them on demand. The zero
// value is not usable; call New.
type Plotter struct {
	ops     []op
	cur     cam.Endpoint
	started bool
	// ShowTangent draws a tool heading tick at each feed endpoint.
	ShowTangent bool
}

// New creates an empty preview plotter.
func New() *Plotter {
	return &Plotter{ShowTangent: true}
}

// PlotMove records a rapid move.
func (p *Plotter) PlotMove(endp cam.Endpoint) { p.record(opMove, endp) }

// PlotFeed records a linear feed.
func (p *Plotter) PlotFeed(endp cam.Endpoint) { p.record(opFeed, endp) }

// PlotArc records a circular feed about an absolute center.
func (p *Plotter) PlotArc(center geom.P, endp cam.Endpoint, clockwise bool) {
	p.ops = append(p.ops, op{
		kind: opArc, from: p.cur, to: endp,
		center: center, clockwise: clockwise,
	})
	p.cur = endp
	p.started = true
}

func (p *Plotter) record(kind opKind, endp cam.Endpoint) {
	p.ops = append(p.ops, op{kind: kind, from: p.cur, to: endp})
	p.cur = endp
	p.started = true
}

// SavePNG renders the recorded motion at the given scale (pixels per
// machine unit) and writes it to filename.
func (p *Plotter) SavePNG(filename string, scale float64) error {
	c, err := p.render(scale)
	if err != nil {
		return err
	}
	return errors.Wrap(c.SavePNG(filename), "writing preview image")
}

func (p *Plotter) render(scale float64) (*gg.Context, error) {
	if len(p.ops) == 0 {
		return nil, errors.New("no motion to preview")
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	for _, o := range p.ops {
		extend(o.from.X, o.from.Y)
		extend(o.to.X, o.to.Y)
		if o.kind == opArc {
			r := o.center.Distance(o.from.XY())
			extend(o.center.X-r, o.center.Y-r)
			extend(o.center.X+r, o.center.Y+r)
		}
	}

	width := int(scale*(maxX-minX)) + drawPadding*2
	height := int(scale*(maxY-minY)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(1, 1, 1)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left.
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	for _, o := range p.ops {
		switch o.kind {
		case opMove:
			c.SetDash(4/scale, 4/scale)
			c.SetLineWidth(1 / scale)
			c.SetRGB(0.6, 0.6, 0.6)
			c.DrawLine(o.from.X, o.from.Y, o.to.X, o.to.Y)
			c.Stroke()
			c.SetDash()
		case opFeed:
			c.SetLineWidth(2 / scale)
			c.SetRGB(0, 0.4, 0.8)
			c.DrawLine(o.from.X, o.from.Y, o.to.X, o.to.Y)
			c.Stroke()
			p.drawTangent(c, o.to, scale)
		case opArc:
			r := o.center.Distance(o.from.XY())
			a1 := o.from.XY().Sub(o.center).Angle()
			a2 := o.to.XY().Sub(o.center).Angle()
			// gg sweeps from a1 to a2; unwrap so the sweep direction
			// matches the commanded one.
			if o.clockwise && a2 >= a1 {
				a2 -= geom.Tau
			} else if !o.clockwise && a2 <= a1 {
				a2 += geom.Tau
			}
			c.SetLineWidth(2 / scale)
			c.SetRGB(0, 0.4, 0.8)
			c.DrawArc(o.center.X, o.center.Y, r, a1, a2)
			c.Stroke()
			p.drawTangent(c, o.to, scale)
		}
	}
	return c, nil
}

// drawTangent draws a short tick showing the A axis heading at an endpoint.
func (p *Plotter) drawTangent(c *gg.Context, endp cam.Endpoint, scale float64) {
	if !p.ShowTangent {
		return
	}
	tick := 6 / scale
	c.SetLineWidth(1 / scale)
	c.SetRGB(0.9, 0.3, 0.1)
	c.DrawLine(endp.X, endp.Y,
		endp.X+tick*math.Cos(endp.A), endp.Y+tick*math.Sin(endp.A))
	c.Stroke()
}
