package geom

import "math"

// Matrix is a 2D affine transform:
//
//	| XX XY X0 |
//	| YX YY Y0 |
//	|  0  0  1 |
type Matrix struct {
	XX, YX, XY, YY, X0, Y0 float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{XX: 1, YY: 1}
}

// Translate returns a translation transform.
func Translate(x, y float64) Matrix {
	return Matrix{XX: 1, YY: 1, X0: x, Y0: y}
}

// Scale returns a scaling transform.
func Scale(x, y float64) Matrix {
	return Matrix{XX: x, YY: y}
}

// Rotate returns a rotation transform about the origin, angle in radians.
func Rotate(angle float64) Matrix {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix{XX: c, YX: s, XY: -s, YY: c}
}

// Multiply composes two transforms: the result applies m first, then b.
func (m Matrix) Multiply(b Matrix) Matrix {
	return Matrix{
		XX: m.XX*b.XX + m.YX*b.XY,
		YX: m.XX*b.YX + m.YX*b.YY,
		XY: m.XY*b.XX + m.YY*b.XY,
		YY: m.XY*b.YX + m.YY*b.YY,
		X0: m.X0*b.XX + m.Y0*b.XY + b.X0,
		Y0: m.X0*b.YX + m.Y0*b.YY + b.Y0,
	}
}

// TransformPoint applies the transform to the point (x, y).
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.XX*x + m.XY*y + m.X0, m.YX*x + m.YY*y + m.Y0
}
