package svg

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/utlco/tancam/geom"
)

// ParsePathData parses an SVG path "d" attribute into one segment list per
// subpath. Supported commands are M, L, H, V, C, S, Q, T, and Z in both
// absolute and relative forms. Elliptical arcs (A) are not supported;
// exporters targeting this pipeline should emit curves instead.
func ParsePathData(d string) ([][]geom.Segment, error) {
	s := &pathScanner{data: d}
	var (
		result   [][]geom.Segment
		subpath  []geom.Segment
		cur      geom.P
		start    geom.P
		prevCtrl geom.P
		started  bool
		lastCmd  byte
	)
	flush := func() {
		if len(subpath) > 0 {
			result = append(result, subpath)
			subpath = nil
		}
	}
	lineTo := func(p geom.P) {
		if !cur.Equal(p) {
			subpath = append(subpath, geom.NewLine(cur, p))
		}
		cur = p
	}
	curveTo := func(c1, c2, p geom.P) {
		subpath = append(subpath, geom.NewCubicBezier(cur, c1, c2, p))
		prevCtrl = c2
		cur = p
	}

	for {
		cmd, ok := s.nextCommand()
		if !ok {
			if !s.atEnd() {
				// A coordinate with no preceding command repeats the last
				// one; an initial bare coordinate is invalid.
				if lastCmd == 0 {
					return nil, errors.Errorf("path data must start with a command: %q", d)
				}
				cmd = repeatCommand(lastCmd)
				if upper(cmd) == 'Z' {
					return nil, errors.Errorf("coordinates after closepath in %q", d)
				}
			} else {
				break
			}
		}
		rel := cmd >= 'a'
		abs := func(p geom.P) geom.P {
			if rel {
				return cur.Add(p)
			}
			return p
		}
		switch upper(cmd) {
		case 'M':
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			flush()
			if !started {
				// A relative moveto at the very start is absolute.
				cur = p
			} else {
				cur = abs(p)
			}
			start = cur
			started = true
		case 'L':
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			lineTo(abs(p))
		case 'H':
			x, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
			}
			lineTo(geom.P{X: x, Y: cur.Y})
		case 'V':
			y, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += cur.Y
			}
			lineTo(geom.P{X: cur.X, Y: y})
		case 'C':
			c1, err := s.point()
			if err != nil {
				return nil, err
			}
			c2, err := s.point()
			if err != nil {
				return nil, err
			}
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			curveTo(abs(c1), abs(c2), abs(p))
		case 'S':
			c2, err := s.point()
			if err != nil {
				return nil, err
			}
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			c1 := cur
			if isCurveCmd(lastCmd) {
				c1 = reflect(prevCtrl, cur)
			}
			curveTo(c1, abs(c2), abs(p))
		case 'Q':
			qc, err := s.point()
			if err != nil {
				return nil, err
			}
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			curve := geom.CubicBezierFromQuadratic(cur, abs(qc), abs(p))
			subpath = append(subpath, curve)
			prevCtrl = abs(qc)
			cur = abs(p)
		case 'T':
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			qc := cur
			if isQuadCmd(lastCmd) {
				qc = reflect(prevCtrl, cur)
			}
			curve := geom.CubicBezierFromQuadratic(cur, qc, abs(p))
			subpath = append(subpath, curve)
			prevCtrl = qc
			cur = abs(p)
		case 'Z':
			lineTo(start)
		default:
			return nil, errors.Errorf("unsupported path command %q", string(cmd))
		}
		lastCmd = cmd
	}
	flush()
	return result, nil
}

// repeatCommand maps a command to the one implied by a bare coordinate pair
// following it. A moveto's extra pairs are implicit linetos.
func repeatCommand(cmd byte) byte {
	switch cmd {
	case 'M':
		return 'L'
	case 'm':
		return 'l'
	}
	return cmd
}

// reflect mirrors a control point across an anchor, per the SVG smooth
// curve rules.
func reflect(ctrl, anchor geom.P) geom.P {
	return geom.P{X: 2*anchor.X - ctrl.X, Y: 2*anchor.Y - ctrl.Y}
}

func isCurveCmd(cmd byte) bool {
	switch upper(cmd) {
	case 'C', 'S':
		return true
	}
	return false
}

func isQuadCmd(cmd byte) bool {
	switch upper(cmd) {
	case 'Q', 'T':
		return true
	}
	return false
}

func upper(cmd byte) byte {
	if cmd >= 'a' && cmd <= 'z' {
		return cmd - 'a' + 'A'
	}
	return cmd
}

type pathScanner struct {
	data string
	pos  int
}

func (s *pathScanner) skipSeparators() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', ',', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *pathScanner) atEnd() bool {
	s.skipSeparators()
	return s.pos >= len(s.data)
}

// nextCommand consumes a command letter if one is next.
func (s *pathScanner) nextCommand() (byte, bool) {
	s.skipSeparators()
	if s.pos >= len(s.data) {
		return 0, false
	}
	c := s.data[s.pos]
	if (c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') && c != 'e' && c != 'E' {
		s.pos++
		return c, true
	}
	return 0, false
}

// number consumes one floating point number.
func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	begin := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	digits := func() {
		for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
			s.pos++
		}
	}
	digits()
	if s.pos < len(s.data) && s.data[s.pos] == '.' {
		s.pos++
		digits()
	}
	if s.pos < len(s.data) && (s.data[s.pos] == 'e' || s.data[s.pos] == 'E') {
		s.pos++
		if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
			s.pos++
		}
		digits()
	}
	if s.pos == begin {
		return 0, errors.Errorf("expected number at offset %d in path data", begin)
	}
	v, err := strconv.ParseFloat(s.data[begin:s.pos], 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad number %q in path data", s.data[begin:s.pos])
	}
	return v, nil
}

func (s *pathScanner) point() (geom.P, error) {
	x, err := s.number()
	if err != nil {
		return geom.P{}, err
	}
	y, err := s.number()
	if err != nil {
		return geom.P{}, err
	}
	return geom.P{X: x, Y: y}, nil
}
