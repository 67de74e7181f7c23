// Package svg converts SVG shape elements into geometry segment lists
// suitable for toolpath compilation. It is not a general SVG renderer: it
// understands path, line, polyline, and polygon elements and ignores
// styling, transforms, and everything else.
package svg

import (
	"io"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/pkg/errors"

	"github.com/utlco/tancam/geom"
)

// PathsFromSVG parses an SVG document and extracts every path, line,
// polyline, and polygon element as a list of segment lists. A path element
// with multiple subpaths contributes one list per subpath. Document order
// is preserved.
func PathsFromSVG(r io.Reader) ([][]geom.Segment, error) {
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parsing SVG")
	}
	var paths [][]geom.Segment
	if err := walk(root, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func walk(el *svgparser.Element, paths *[][]geom.Segment) error {
	switch el.Name {
	case "path":
		subpaths, err := ParsePathData(el.Attributes["d"])
		if err != nil {
			return err
		}
		*paths = append(*paths, subpaths...)
	case "line":
		segments, err := lineSegments(el.Attributes)
		if err != nil {
			return err
		}
		*paths = append(*paths, segments)
	case "polyline", "polygon":
		points, err := ParsePoints(el.Attributes["points"])
		if err != nil {
			return err
		}
		if el.Name == "polygon" && len(points) > 2 {
			points = append(points, points[0])
		}
		if len(points) > 1 {
			segments := make([]geom.Segment, 0, len(points)-1)
			for i := 1; i < len(points); i++ {
				segments = append(segments, geom.NewLine(points[i-1], points[i]))
			}
			*paths = append(*paths, segments)
		}
	}
	for _, child := range el.Children {
		if err := walk(child, paths); err != nil {
			return err
		}
	}
	return nil
}

func lineSegments(attrs map[string]string) ([]geom.Segment, error) {
	var vals [4]float64
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(attrs[name]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line attribute %s", name)
		}
		vals[i] = v
	}
	p1 := geom.P{X: vals[0], Y: vals[1]}
	p2 := geom.P{X: vals[2], Y: vals[3]}
	return []geom.Segment{geom.NewLine(p1, p2)}, nil
}

// ParsePoints parses a polyline/polygon points attribute.
func ParsePoints(s string) ([]geom.P, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates in points list")
	}
	points := make([]geom.P, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "point coordinate %q", fields[i])
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "point coordinate %q", fields[i+1])
		}
		points = append(points, geom.P{X: x, Y: y})
	}
	return points, nil
}
