package cam

import "github.com/utlco/tancam/geom"

// Endpoint is the resolved position of all four axes after a motion
// command, with unspecified axes filled in from the tracked machine state.
type Endpoint struct {
	X, Y, Z, A float64
}

// XY returns the endpoint position on the XY plane.
func (e Endpoint) XY() geom.P { return geom.P{X: e.X, Y: e.Y} }

// PreviewPlotter receives one callback per emitted motion command so a
// preview image can be drawn alongside the G-code output.
type PreviewPlotter interface {
	// PlotMove is called for rapid moves.
	PlotMove(endp Endpoint)
	// PlotFeed is called for linear feeds.
	PlotFeed(endp Endpoint)
	// PlotArc is called for circular feeds, with the absolute arc center.
	PlotArc(center geom.P, endp Endpoint, clockwise bool)
}

// NopPlotter is a PreviewPlotter that draws nothing.
type NopPlotter struct{}

func (NopPlotter) PlotMove(Endpoint)              {}
func (NopPlotter) PlotFeed(Endpoint)              {}
func (NopPlotter) PlotArc(geom.P, Endpoint, bool) {}
