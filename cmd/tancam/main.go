package main

import (
	"fmt"
	"log"
	"os"

	"github.com/logrusorgru/aurora"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/utlco/tancam"
	"github.com/utlco/tancam/preview"
	"github.com/utlco/tancam/svg"
)

// Compiles SVG drawings into G-code for tangential-tool machines. Reads
// path, line, polyline, and polygon elements from the input file and writes
// the compiled program to stdout or a file, optionally with a PNG preview
// of the resulting motion.

var (
	app    = kingpin.New("tancam", "Compile SVG drawings into tangential tool G-code.")
	input  = app.Arg("svg", "Input SVG file.").Required().File()
	output = app.Flag("out", "Output G-code file. Default is stdout.").Short('o').String()

	units     = app.Flag("units", "G-code output units.").Default("in").Enum("in", "mm")
	unitScale = app.Flag("unit-scale", "Input to machine unit scale factor.").Default("1").Float64()
	xyFeed    = app.Flag("xy-feed", "XY feed rate in units/minute.").Default("400").Float64()
	zFeed     = app.Flag("z-feed", "Z feed rate. Default is the XY feed rate.").Float64()
	aFeed     = app.Flag("a-feed", "A feed rate. Default is the XY feed rate.").Float64()
	zSafe     = app.Flag("z-safe", "Safe Z height for rapid moves.").Default("1").Float64()
	zDepth    = app.Flag("z-depth", "Final cutting depth.").Default("0").Float64()
	zStep     = app.Flag("z-step", "Depth per pass.").Default("0").Float64()

	toolWidth   = app.Flag("tool-width", "Tangential tool width.").Default("0").Float64()
	trailOffset = app.Flag("trail-offset", "Tool trail offset.").Default("0").Float64()

	biarcTolerance = app.Flag("biarc-tolerance", "Curve approximation tolerance.").Default("0.01").Float64()
	lineFlatness   = app.Flag("line-flatness", "Curve flatness treated as a line.").Default("0.001").Float64()

	toolFillet   = app.Flag("tool-fillet", "Fillet corners to compensate for tool width.").Bool()
	toolOffset   = app.Flag("tool-offset", "Offset paths to compensate for tool trail.").Bool()
	preserveG1   = app.Flag("preserve-g1", "Repair tangent continuity broken by offsetting.").Bool()
	splitCusps   = app.Flag("split-cusps", "Split paths at non-tangent vertices.").Bool()
	closePaths   = app.Flag("close-polygons", "Fillet the closing vertex of closed paths.").Bool()
	smoothFillet = app.Flag("smooth", "Add smoothing fillets at remaining cusps.").Bool()
	smoothRadius = app.Flag("smooth-radius", "Smoothing fillet radius.").Default("0.01").Float64()

	noTangent   = app.Flag("no-tangent", "Disable tangential A axis rotation.").Bool()
	sortMethod  = app.Flag("sort", "Path sort method: flip, optimize, y+, y-, x+, x-.").String()
	homeDone    = app.Flag("home", "Rapid home when done.").Bool()
	lineNumbers = app.Flag("line-numbers", "Number output lines.").Bool()

	previewFile  = app.Flag("preview", "Write a PNG preview of the motion to this file.").String()
	previewScale = app.Flag("preview-scale", "Preview pixels per unit.").Default("20").Float64()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))
	defer (*input).Close()

	paths, err := svg.PathsFromSVG(*input)
	if err != nil {
		log.Fatalf("%s %v", aurora.Red("error:"), err)
	}
	if len(paths) == 0 {
		log.Fatalf("%s no drawable paths in %s", aurora.Red("error:"), (*input).Name())
	}

	opts := tancam.DefaultOptions()
	opts.Units = *units
	opts.UnitScale = *unitScale
	opts.XYFeed = *xyFeed
	opts.ZFeed = *zFeed
	opts.AFeed = *aFeed
	opts.ZSafe = *zSafe
	opts.ZDepth = *zDepth
	opts.ZStep = *zStep
	opts.ToolWidth = *toolWidth
	opts.ToolTrailOffset = *trailOffset
	opts.BiarcTolerance = *biarcTolerance
	opts.LineFlatness = *lineFlatness
	opts.ToolFillet = *toolFillet
	opts.ToolOffset = *toolOffset
	opts.PreserveG1 = *preserveG1
	opts.SplitCusps = *splitCusps
	opts.ClosePolygons = *closePaths
	opts.SmoothFillet = *smoothFillet
	opts.SmoothRadius = *smoothRadius
	opts.DisableTangent = *noTangent
	opts.SortMethod = *sortMethod
	opts.HomeWhenDone = *homeDone
	opts.LineNumbers = *lineNumbers
	opts.HeaderComments = []string{"Source: " + (*input).Name()}

	var plotter *preview.Plotter
	if *previewFile != "" {
		plotter = preview.New()
		opts.Plotter = plotter
	}

	gcode, err := tancam.Compile(paths, opts)
	if err != nil {
		log.Fatalf("%s %v", aurora.Red("error:"), err)
	}

	out := os.Stdout
	if *output != "" {
		out, err = os.Create(*output)
		if err != nil {
			log.Fatalf("%s %v", aurora.Red("error:"), err)
		}
		defer out.Close()
	}
	if _, err := out.WriteString(gcode); err != nil {
		log.Fatalf("%s %v", aurora.Red("error:"), err)
	}

	if plotter != nil {
		if err := plotter.SavePNG(*previewFile, *previewScale); err != nil {
			log.Fatalf("%s %v", aurora.Red("error:"), err)
		}
	}

	fmt.Fprintf(os.Stderr, "%s %s paths, %s bytes of G-code\n",
		aurora.Green("compiled:"),
		aurora.Bold(len(paths)), aurora.Bold(len(gcode)))
}
