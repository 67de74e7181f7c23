package cam

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/utlco/tancam/geom"
)

// Order in which parameters are arranged in a line of G-code.
const gcodeOrderedParams = "XYZUVWABCIJKRDHLPQSF"

const (
	defaultGCodeTolerance = 1e-6
	maxGCodePrecision     = 15
	minGCodePrecision     = 2
)

// Non-modal G codes (LinuxCNC): always emitted even with unchanged values.
var gcodeNonModalGroup = map[string]bool{
	"G04": true, "G10": true, "G28": true,
	"G30": true, "G53": true, "G92": true,
}

// G codes that change the position of the tool. Also the modal motion set:
// suppressed entirely when no parameter value changed.
var gcodeMotion = map[string]bool{
	"G00": true, "G01": true, "G02": true, "G03": true,
}

// AxisValues are optional axis targets for a motion command. Nil fields are
// omitted from the emitted command.
type AxisValues struct {
	X, Y, Z, A, F *float64
}

// Num is shorthand for taking the address of an axis value.
func Num(v float64) *float64 { return &v }

type paramValue struct {
	key   byte
	value float64
}

// GCodeGenerator emits a G-code motion program for a two to four axis (XYZA)
// machine. The output is compatible with LinuxCNC.
//
// Angles are always specified in radians and output as degrees. Linear axis
// values are specified in user/world coordinates and output in machine units
// using UnitScale as the scaling factor.
//
// A parameter is written only when its value differs from the last written
// value by more than the governing tolerance, unless the command is
// non-modal or the parameter is force-listed. Configuration fields must be
// set before emission starts and left alone afterwards.
type GCodeGenerator struct {
	// XYFeed is the default feed rate along the X and Y axes, in machine
	// units per minute. ZFeed and AFeed default to XYFeed when zero.
	XYFeed float64
	ZFeed  float64
	AFeed  float64
	// ZSafe is the safe Z height for rapid moves.
	ZSafe float64
	// UnitScale converts user/world units to machine units.
	UnitScale float64
	// ToolWaitDown and ToolWaitUp are dwell times in milliseconds after
	// tool down/up, for actuators that take time to extend or retract.
	ToolWaitDown float64
	ToolWaitUp   float64
	// AltToolUp and AltToolDown override the Z axis moves with custom
	// G-code (for machines with pneumatic or solenoid tool control).
	AltToolUp   string
	AltToolDown string
	// Spindle defaults. SpindleAuto cycles the spindle on tool down/up.
	SpindleSpeed     float64
	SpindleClockwise bool
	SpindleWaitOn    float64
	SpindleWaitOff   float64
	SpindleAuto      bool
	// WrapAngles emits angular axis values modulo 360 degrees.
	WrapAngles bool
	// ShowComments and ShowLineNumbers control output decoration.
	ShowComments    bool
	ShowLineNumbers bool
	// Plotter receives one callback per emitted motion command.
	Plotter PreviewPlotter

	units          string
	tolerance      float64
	angleTolerance float64
	fmtPrecision   int
	blendMode      string
	blendTolerance *float64
	blendQTol      *float64
	headerComments []string

	out        io.Writer
	err        error
	lineNumber int
	lastVal    map[byte]float64
	isToolUp   bool
	axisScale  map[byte]float64
	axisOffset map[byte]float64
	axisMap    map[byte]byte
	// Set when a G92 rotary unwind was emitted; the footer then resets
	// axis offsets with G92.1.
	axisOffsetReset bool
}

// NewGCodeGenerator creates a generator writing to out. xyFeed is the
// default XY feed rate and zSafe the safe Z height for rapid moves.
func NewGCodeGenerator(out io.Writer, xyFeed, zSafe float64) *GCodeGenerator {
	g := &GCodeGenerator{
		XYFeed:           xyFeed,
		ZSafe:            zSafe,
		out:              out,
		UnitScale:        1.0,
		SpindleClockwise: true,
		ShowComments:     true,
		Plotter:          NopPlotter{},
		units:            "in",
		lineNumber:       1,
		tolerance:        defaultGCodeTolerance,
		angleTolerance:   defaultGCodeTolerance,
		lastVal:          make(map[byte]float64),
		axisScale:        make(map[byte]float64),
		axisOffset:       make(map[byte]float64),
		axisMap:          make(map[byte]byte),
	}
	g.SetOutputPrecision(int(math.Round(math.Abs(math.Log10(defaultGCodeTolerance)))))
	return g
}

// SetUnits sets the G-code output units ("in" or "mm") and the scale factor
// from user/world units to machine units.
func (g *GCodeGenerator) SetUnits(units string, unitScale float64) error {
	if units != "in" && units != "mm" {
		return errors.Errorf("units must be \"in\" or \"mm\", got %q", units)
	}
	g.units = units
	g.UnitScale = unitScale
	return nil
}

// Units returns the current G-code output units.
func (g *GCodeGenerator) Units() string { return g.units }

// SetTolerance sets the tolerances for suppressing unchanged parameter
// values: one for scalar values and one for angles. An angleTolerance of
// zero means tolerance.
func (g *GCodeGenerator) SetTolerance(tolerance, angleTolerance float64) {
	g.tolerance = tolerance
	if angleTolerance == 0 {
		angleTolerance = tolerance
	}
	g.angleTolerance = angleTolerance
}

// Tolerance returns the scalar comparison tolerance.
func (g *GCodeGenerator) Tolerance() float64 { return g.tolerance }

// SetOutputPrecision sets the number of digits after the decimal point for
// numeric output. This can differ from the precision implied by the
// tolerance value.
func (g *GCodeGenerator) SetOutputPrecision(precision int) {
	if precision > maxGCodePrecision {
		precision = maxGCodePrecision
	}
	if precision < minGCodePrecision {
		precision = minGCodePrecision
	}
	g.fmtPrecision = precision
}

// SetSpindleDefaults sets spindle speed (RPM), direction, spin-up/down dwell
// times in milliseconds, and whether the spindle cycles automatically on
// tool down/up.
func (g *GCodeGenerator) SetSpindleDefaults(speed float64, clockwise bool, waitOn, waitOff float64, auto bool) {
	g.SpindleSpeed = speed
	g.SpindleClockwise = clockwise
	g.SpindleWaitOn = waitOn
	g.SpindleWaitOff = waitOff
	g.SpindleAuto = auto
}

// SetPathBlending sets the trajectory blending mode: "blend" (G64) or
// "exact" (G61); "G64"/"G61" are accepted as aliases. In blend mode,
// tolerance is the G64 P value and qTolerance the naive cam detector Q
// value; pass nil to omit either. Unknown modes are ignored.
func (g *GCodeGenerator) SetPathBlending(mode string, tolerance, qTolerance *float64) {
	switch strings.ToUpper(mode) {
	case "G61":
		mode = "exact"
	case "G64":
		mode = "blend"
	}
	if mode == "exact" || mode == "blend" {
		g.blendMode = mode
		g.blendTolerance = tolerance
		g.blendQTol = qTolerance
	}
}

// SetAxisOffset sets a soft offset for an axis, added to values at emission
// time. Offsets are in machine units; angular offsets in radians.
func (g *GCodeGenerator) SetAxisOffset(axis byte, offset float64) {
	g.axisOffset[upperAxis(axis)] = offset
}

// AxisOffset returns the current soft offset for an axis.
func (g *GCodeGenerator) AxisOffset(axis byte) float64 {
	return g.axisOffset[upperAxis(axis)]
}

// SetAxisScale sets a scaling factor for an axis, applied before the
// world/machine unit scaling.
func (g *GCodeGenerator) SetAxisScale(axis byte, scale float64) {
	g.axisScale[upperAxis(axis)] = scale
}

// MapAxis maps a canonical axis name to a different output name, for
// machines that expect C instead of A or UVW instead of XYZ.
func (g *GCodeGenerator) MapAxis(canonical, output byte) {
	g.axisMap[upperAxis(canonical)] = upperAxis(output)
}

// AddHeaderComment appends comment lines to the header section.
func (g *GCodeGenerator) AddHeaderComment(lines ...string) {
	g.headerComments = append(g.headerComments, lines...)
}

// Position returns the last known value of the named axis.
func (g *GCodeGenerator) Position(axis byte) (float64, bool) {
	v, ok := g.lastVal[upperAxis(axis)]
	return v, ok
}

// CurrentXY returns the last known tool position on the XY plane.
func (g *GCodeGenerator) CurrentXY() (geom.P, bool) {
	x, okx := g.lastVal['X']
	y, oky := g.lastVal['Y']
	return geom.P{X: x, Y: y}, okx && oky
}

// Err returns the first output write error encountered, if any.
func (g *GCodeGenerator) Err() error { return g.err }

// Comment writes comment lines, each enclosed in parentheses on its own
// line. With no arguments a blank line is written.
func (g *GCodeGenerator) Comment(lines ...string) {
	if len(lines) == 0 {
		g.write("\n")
		return
	}
	if !g.ShowComments {
		return
	}
	for _, line := range lines {
		g.write(fmt.Sprintf("(%s)\n", line))
	}
}

// Header writes the standard program header: info comments, plane and unit
// selection, absolute positioning, compensation cancels, the optional path
// blending directive, and the default feed rate.
func (g *GCodeGenerator) Header(comments ...string) {
	g.write("%\n")
	bar := strings.Repeat("-", 56)
	g.Comment(bar)
	g.Comment("Creation date: " + time.Now().Format("2006-01-02 15:04:05"))
	g.Comment("Target machine: LinuxCNC, version 2.4+")
	g.Comment(g.headerComments...)
	g.Comment(comments...)
	g.Comment(bar)
	g.write("\n")
	g.writeLine("G17", "XY plane")
	if g.units == "mm" {
		g.writeLine("G21", "Units are in millimeters")
	} else {
		g.writeLine("G20", "Units are in inches")
	}
	g.writeLine("G90", "Use absolute positioning")
	g.writeLine("G40", "Cancel tool diameter compensation")
	g.writeLine("G49", "Cancel tool length compensation")
	switch g.blendMode {
	case "blend":
		switch {
		case g.blendTolerance == nil:
			g.writeLine("G64", "Blend with highest speed")
		case g.blendQTol != nil:
			g.writeLine(fmt.Sprintf("G64 P%s Q%s",
				g.fmtFloat(*g.blendTolerance), g.fmtFloat(*g.blendQTol)),
				"Blend with tolerances")
		default:
			g.writeLine("G64 P"+g.fmtFloat(*g.blendTolerance), "Blend with tolerance")
		}
	case "exact":
		g.writeLine("G61", "Exact path mode")
	}
	g.write("\n")
	g.Comment("Default feed rate")
	g.FeedRate(g.XYFeed)
	g.write("\n\n")
}

// Footer writes the program footer: an axis offset reset if a rotary unwind
// was emitted, and the program end code.
func (g *GCodeGenerator) Footer() {
	g.write("\n")
	if g.axisOffsetReset {
		g.command("G92.1", nil, "", "Reset axis offsets to zero")
	}
	g.writeLine("M2", "End program.")
	g.write("%\n")
}

// FeedRate writes an F directive if the feed rate has changed since the
// last feed value.
func (g *GCodeGenerator) FeedRate(rate float64) {
	if last, ok := g.lastVal['F']; !ok || math.Abs(rate-last) > g.tolerance {
		g.writeLine("F"+g.fmtFloat(rate), "")
		g.lastVal['F'] = rate
	}
}

// Pause writes an M0 (or conditional M1) interpreter pause.
func (g *GCodeGenerator) Pause(conditional bool, comment string) {
	mcode := "M0"
	if conditional {
		mcode = "M1"
	}
	if comment == "" {
		comment = "Pause"
	}
	g.command(mcode, nil, "", comment)
}

// Dwell pauses the tool for the given number of milliseconds. LinuxCNC
// takes the P parameter in seconds.
func (g *GCodeGenerator) Dwell(milliseconds float64, comment string) {
	if milliseconds > 0 {
		seconds := milliseconds / 1000.0
		if comment == "" {
			comment = fmt.Sprintf("Pause tool for %.4f seconds", seconds)
		}
		g.writeLine(fmt.Sprintf("G04 P%.4f", seconds), comment)
	}
}

// ToolUp moves the tool to the safe Z height. The move is always emitted
// regardless of tracked state so the tool is forced to a known height. Shuts
// off the spindle first if SpindleAuto is set.
func (g *GCodeGenerator) ToolUp() {
	if g.AltToolUp != "" {
		g.command(g.AltToolUp, nil, "", "")
	} else {
		g.command("G00", []paramValue{{'Z', g.ZSafe}}, "Z", "")
	}
	if g.SpindleAuto {
		g.SpindleOff("")
	}
	g.Dwell(g.ToolWaitUp, "")
	g.isToolUp = true
}

// ToolDown feeds the tool down on the Z axis to the given height, turning
// on the spindle first if SpindleAuto is set.
func (g *GCodeGenerator) ToolDown(z float64, comment string) {
	if g.SpindleAuto {
		g.SpindleOn("")
	}
	if g.AltToolDown != "" {
		g.command(g.AltToolDown, nil, "", comment)
	} else {
		g.command("G01", []paramValue{{'Z', z}, {'F', g.zFeed()}}, "", comment)
	}
	g.isToolUp = false
	g.Dwell(g.ToolWaitDown, "")
}

// SpindleOn starts the spindle at the default speed and direction, then
// dwells for the spin-up time.
func (g *GCodeGenerator) SpindleOn(comment string) {
	mcode := "M3"
	if !g.SpindleClockwise {
		mcode = "M4"
	}
	g.writeLine(fmt.Sprintf("%s S%d", mcode, int(g.SpindleSpeed)), comment)
	g.Dwell(g.SpindleWaitOn, "")
}

// SpindleOff stops the spindle, then dwells for the spin-down time.
func (g *GCodeGenerator) SpindleOff(comment string) {
	g.writeLine("M5", comment)
	g.Dwell(g.SpindleWaitOff, "")
}

// NormalizeAxisAngle unwinds a rotational axis with a G92 offset so that the
// tracked angle is back within one revolution. Useful after cutting large
// spirals with a tangent knife, to avoid long unwinding moves between paths.
func (g *GCodeGenerator) NormalizeAxisAngle(axis byte) error {
	axis = upperAxis(axis)
	if axis != 'A' && axis != 'B' && axis != 'C' {
		return errors.Errorf("cannot normalize non-rotational axis %q", string(axis))
	}
	angle, ok := g.lastVal[axis]
	if ok && math.Abs(angle) > geom.Tau {
		angle -= geom.Tau * math.Floor(angle/geom.Tau)
		g.writeLine(fmt.Sprintf("G92 %c%s", axis, g.fmtFloat(degrees(angle))),
			"Normalize axis angle")
		g.lastVal[axis] = angle
		g.axisOffsetReset = true
	}
	return nil
}

// RapidMove performs a G0 rapid move. If the tracked Z position is unknown
// or below the safe height, the tool is raised first. The Z target is
// clamped to no lower than the safe height.
func (g *GCodeGenerator) RapidMove(v AxisValues, comment string) error {
	if z, ok := g.Position('Z'); !ok || z < g.ZSafe || g.isToolUp {
		g.ToolUp()
	}
	z := g.ZSafe
	if v.Z != nil && *v.Z > z {
		z = *v.Z
	}
	params := motionParams(v)
	params = append(params, paramValue{'Z', z})
	if err := g.command("G00", params, "", comment); err != nil {
		return err
	}
	g.Plotter.PlotMove(g.endPoint(v.X, v.Y, &z, v.A))
	return nil
}

// Feed performs a G1 linear feed to the given location. At least one axis
// should be specified; the default feed rate is chosen for the most
// significant axis moved unless v.F overrides it.
func (g *GCodeGenerator) Feed(v AxisValues, comment string) error {
	feed := v.F
	if feed == nil {
		switch {
		case v.X != nil || v.Y != nil:
			feed = &g.XYFeed
		case v.Z != nil:
			feed = Num(g.zFeed())
		case v.A != nil:
			feed = Num(g.aFeed())
		default:
			return nil
		}
	}
	params := motionParams(v)
	params = append(params, paramValue{'F', *feed})
	if err := g.command("G01", params, "", comment); err != nil {
		return err
	}
	g.Plotter.PlotFeed(g.endPoint(v.X, v.Y, v.Z, v.A))
	return nil
}

// FeedArc performs a G2/G3 circular feed to (x, y), around the center at
// (arcX, arcY) relative to the current position. Returns an error without
// emitting anything if either endpoint does not lie on the arc, since that
// indicates an upstream geometry bug.
func (g *GCodeGenerator) FeedArc(clockwise bool, x, y, arcX, arcY float64, v AxisValues, comment string) error {
	cur, ok := g.CurrentXY()
	if !ok {
		return errors.New("arc feed from unknown position")
	}
	center := cur.Add(geom.P{X: arcX, Y: arcY})
	startRadius := math.Hypot(arcX, arcY)
	endRadius := center.Distance(geom.P{X: x, Y: y})
	if math.Abs(startRadius-endRadius) > g.tolerance {
		return errors.Errorf(
			"mismatching arc radii: start=%f end=%f", startRadius, endRadius)
	}
	gcode := "G03"
	if clockwise {
		gcode = "G02"
	}
	feed := g.XYFeed
	if v.F != nil {
		feed = *v.F
	}
	params := []paramValue{{'X', x}, {'Y', y}}
	if v.Z != nil {
		params = append(params, paramValue{'Z', *v.Z})
	}
	params = append(params, paramValue{'I', arcX}, paramValue{'J', arcY})
	if v.A != nil {
		params = append(params, paramValue{'A', *v.A})
	}
	params = append(params, paramValue{'F', feed})
	if err := g.command(gcode, params, "IJ", comment); err != nil {
		return err
	}
	g.Plotter.PlotArc(center, g.endPoint(&x, &y, v.Z, v.A), clockwise)
	return nil
}

// Command writes an arbitrary G-code command with an opaque parameter
// string. Returns an error for motion commands, whose parameters must go
// through the tracked interfaces so position state stays consistent.
func (g *GCodeGenerator) Command(cmd, params, comment string) error {
	cmd = canonicalCmd(cmd)
	if gcodeMotion[cmd] && params != "" {
		return errors.Errorf("motion command %s with opaque parameters", cmd)
	}
	line := cmd
	if params != "" {
		line += " " + params
	}
	g.writeLine(line, comment)
	return nil
}

// command emits one line of G-code, applying the modal suppression rules:
// a parameter is included only if its value changed beyond tolerance, is
// force-listed, or the command is non-modal. Axis transforms (scale, offset,
// angle wrap/degrees, unit scale) apply only to values actually emitted.
func (g *GCodeGenerator) command(cmd string, params []paramValue, force, comment string) error {
	if cmd == "" {
		return nil
	}
	cmd = canonicalCmd(cmd)
	baseCmd := cmd
	if i := strings.IndexByte(cmd, '.'); i >= 0 {
		baseCmd = cmd[:i]
	}
	nonModal := gcodeNonModalGroup[baseCmd]
	emit := make(map[byte]float64)
	for _, pv := range params {
		k, value := pv.key, pv.value
		tolerance := g.tolerance
		if isAngular(k) {
			tolerance = g.angleTolerance
			if g.WrapAngles {
				value = math.Mod(value, geom.Tau)
			}
		}
		last, seen := g.lastVal[k]
		changed := !seen || math.Abs(value-last) > tolerance
		if !changed && !nonModal && !strings.ContainsRune(force, rune(k)) {
			continue
		}
		g.lastVal[k] = value
		// Transform for output.
		if s, ok := g.axisScale[k]; ok {
			value *= s
		}
		value += g.axisOffset[k]
		if isAngular(k) {
			value = degrees(value)
		} else if strings.IndexByte("XYZIJ", k) >= 0 {
			if k == 'Z' && g.isToolUp && value < g.ZSafe {
				g.isToolUp = false
			}
			value *= g.UnitScale
		}
		emit[k] = value
	}

	if len(emit) > 0 {
		// A feedrate-only motion line is redundant; FeedRate handles those.
		if _, fOnly := emit['F']; fOnly && len(emit) == 1 {
			return nil
		}
		parts := []string{cmd}
		for i := 0; i < len(gcodeOrderedParams); i++ {
			k := gcodeOrderedParams[i]
			value, ok := emit[k]
			if !ok {
				continue
			}
			name := k
			if mapped, ok := g.axisMap[k]; ok {
				name = mapped
			}
			parts = append(parts, fmt.Sprintf("%c%s", name, g.fmtFloat(value)))
		}
		g.writeLine(strings.Join(parts, " "), comment)
	} else if !gcodeMotion[baseCmd] {
		// Modal motion with nothing changed is suppressed entirely.
		g.writeLine(cmd, comment)
	}
	return nil
}

// writeLine writes an optionally numbered line followed by an optional
// bracketed comment. Empty and comment-only lines are not numbered.
func (g *GCodeGenerator) writeLine(line, comment string) {
	if line != "" {
		if g.ShowLineNumbers {
			g.write(fmt.Sprintf("N%d ", g.lineNumber))
			g.lineNumber++
		}
		g.write(line)
	}
	if g.ShowComments && comment != "" {
		if line != "" {
			g.write(" ")
		}
		g.write("(" + comment + ")")
	}
	g.write("\n")
}

func (g *GCodeGenerator) write(text string) {
	if g.err != nil {
		return
	}
	if _, err := io.WriteString(g.out, text); err != nil {
		g.err = errors.Wrap(err, "writing G-code output")
	}
}

func (g *GCodeGenerator) fmtFloat(value float64) string {
	return fmt.Sprintf("%.*f", g.fmtPrecision, value)
}

func (g *GCodeGenerator) zFeed() float64 {
	if g.ZFeed != 0 {
		return g.ZFeed
	}
	return g.XYFeed
}

func (g *GCodeGenerator) aFeed() float64 {
	if g.AFeed != 0 {
		return g.AFeed
	}
	return g.XYFeed
}

// endPoint resolves the post-move position of all four axes, filling
// unspecified axes from the tracked state.
func (g *GCodeGenerator) endPoint(x, y, z, a *float64) Endpoint {
	resolve := func(v *float64, axis byte) float64 {
		if v != nil {
			return *v
		}
		return g.lastVal[axis]
	}
	return Endpoint{
		X: resolve(x, 'X'),
		Y: resolve(y, 'Y'),
		Z: resolve(z, 'Z'),
		A: resolve(a, 'A'),
	}
}

func motionParams(v AxisValues) []paramValue {
	var params []paramValue
	if v.X != nil {
		params = append(params, paramValue{'X', *v.X})
	}
	if v.Y != nil {
		params = append(params, paramValue{'Y', *v.Y})
	}
	if v.Z != nil {
		params = append(params, paramValue{'Z', *v.Z})
	}
	if v.A != nil {
		params = append(params, paramValue{'A', *v.A})
	}
	return params
}

// canonicalCmd converts to upper case and expands shorthand (G1 to G01).
func canonicalCmd(cmd string) string {
	cmd = strings.ToUpper(cmd)
	if len(cmd) == 2 && cmd[0] == 'G' && cmd[1] >= '0' && cmd[1] <= '9' {
		cmd = cmd[:1] + "0" + cmd[1:]
	}
	return cmd
}

func isAngular(k byte) bool {
	return k == 'A' || k == 'B' || k == 'C'
}

func upperAxis(axis byte) byte {
	if axis >= 'a' && axis <= 'z' {
		return axis - 'a' + 'A'
	}
	return axis
}

func degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}
