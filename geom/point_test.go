package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointBasics(t *testing.T) {
	p := PFromPolar(2, math.Pi/2)
	assert.InDelta(t, 0.0, p.X, Epsilon)
	assert.InDelta(t, 2.0, p.Y, Epsilon)
	assert.InDelta(t, 2.0, p.Length(), Epsilon)
	assert.InDelta(t, math.Pi/2, p.Angle(), Epsilon)

	assert.Equal(t, P{4, 6}, P{1, 2}.Add(P{3, 4}))
	assert.Equal(t, P{-2, -2}, P{1, 2}.Sub(P{3, 4}))
	assert.InDelta(t, 5.0, P{3, 4}.Distance(P{0, 0}), Epsilon)
	assert.InDelta(t, 25.0, P{3, 4}.Distance2(P{0, 0}), Epsilon)
	assert.InDelta(t, 11.0, P{1, 2}.Dot(P{3, 4}), Epsilon)
	assert.InDelta(t, -2.0, P{1, 2}.Cross(P{3, 4}), Epsilon)
}

func TestPointEquality(t *testing.T) {
	p := P{1, 1}
	assert.True(t, p.Equal(P{1 + Epsilon/10, 1 - Epsilon/10}))
	assert.False(t, p.Equal(P{1 + Epsilon*10, 1}))
	assert.True(t, p.AlmostEqual(P{1.005, 1}, 0.01))
	assert.True(t, P{Epsilon / 10, -Epsilon / 10}.IsZero())
}

func TestPointUnitAndNormal(t *testing.T) {
	u := P{3, 4}.Unit()
	assert.InDelta(t, 1.0, u.Length(), Epsilon)
	assert.True(t, P{}.Unit().IsZero())
	assert.Equal(t, P{-1, 0}, P{0, 1}.Normal(true))
	assert.Equal(t, P{1, 0}, P{0, 1}.Normal(false))
}

func TestPointAngle2(t *testing.T) {
	origin := P{0, 0}
	// 90 degree CCW elbow.
	assert.InDelta(t, math.Pi/2, origin.Angle2(P{1, 0}, P{0, 1}), Epsilon)
	assert.InDelta(t, -math.Pi/2, origin.Angle2(P{0, 1}, P{1, 0}), Epsilon)
	assert.InDelta(t, 3*math.Pi/2, origin.CCWAngle2(P{0, 1}, P{1, 0}), Epsilon)
	// Coincident spokes.
	assert.Equal(t, 0.0, origin.Angle2(P{1, 1}, P{1, 1}))
}

func TestPointNormalProjection(t *testing.T) {
	v := P{10, 0}
	assert.InDelta(t, 0.5, v.NormalProjection(P{5, 3}), Epsilon)
	assert.InDelta(t, -0.1, v.NormalProjection(P{-1, 7}), Epsilon)
	assert.InDelta(t, 1.2, v.NormalProjection(P{12, -2}), Epsilon)
}

func TestPointHash(t *testing.T) {
	p := P{1.5, -2.25}
	// Sub-tolerance jitter hashes to the same bucket.
	q := P{1.5 + Epsilon/100, -2.25 - Epsilon/100}
	assert.Equal(t, p.Hash(), q.Hash())
	assert.NotEqual(t, p.Hash(), P{1.5, -2.26}.Hash())
}

func TestPointTransform(t *testing.T) {
	m := Translate(1, 2).Multiply(Scale(2, 2))
	p := P{1, 1}.Transform(m)
	assert.True(t, p.Equal(P{4, 6}), "got %v", p)

	r := P{1, 0}.Transform(Rotate(math.Pi / 2))
	assert.True(t, r.Equal(P{0, 1}), "got %v", r)
}
