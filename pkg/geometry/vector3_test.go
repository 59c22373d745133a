package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a := NewVector3(1, 2, 3)
	b := NewVector3(2, 0, -1)

	assert.Equal(t, NewVector3(3, 2, 2), a.Add(b))
	assert.Equal(t, NewVector3(-1, 2, 4), a.Sub(b))
	assert.Equal(t, NewVector3(2, 0, -3), a.Scale(b))
	assert.Equal(t, NewVector3(0.5, 1, 1.5), a.Mul(0.5))
	assert.Equal(t, -1.0, a.Dot(b))
	assert.Equal(t, NewVector3(1, 0, -1), a.Min(b))
	assert.Equal(t, NewVector3(2, 2, 3), a.Max(b))
}

func TestCrossFollowsRightHandRule(t *testing.T) {
	x := NewVector3(1, 0, 0)
	y := NewVector3(0, 1, 0)

	assert.Equal(t, NewVector3(0, 0, 1), x.Cross(y))
	assert.Equal(t, NewVector3(0, 0, -1), y.Cross(x))
}

func TestNormalizeZeroVector(t *testing.T) {
	assert.Equal(t, Vector3{}, Vector3{}.Normalize())

	n := NewVector3(0, 3, 4).Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)
	assert.True(t, n.ApproxEqual(NewVector3(0, 0.6, 0.8), 1e-12))
}

func TestProjectOntoAxis(t *testing.T) {
	v := NewVector3(3, 4, -2)

	assert.Equal(t, NewVector3(3, 0, 0), v.Project(NewVector3(1, 0, 0)))
	assert.Equal(t, NewVector3(0, 0, -2), v.Project(NewVector3(0, 0, 1)))

	// The remainder is perpendicular to the axis.
	axis := NewVector3(1, 1, 0).Normalize()
	rest := v.Sub(v.Project(axis))
	assert.InDelta(t, 0, rest.Dot(axis), 1e-12)
}

func TestLerp(t *testing.T) {
	a := NewVector3(0, 0, 0)
	b := NewVector3(2, 4, 6)

	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, NewVector3(0.5, 1, 1.5), a.Lerp(b, 0.25))
}

func TestAngle(t *testing.T) {
	x := NewVector3(1, 0, 0)

	assert.InDelta(t, math.Pi/2, x.Angle(NewVector3(0, 5, 0)), 1e-12)
	assert.InDelta(t, 0, x.Angle(NewVector3(2, 0, 0)), 1e-12)
	assert.InDelta(t, math.Pi, x.Angle(NewVector3(-3, 0, 0)), 1e-12)
	assert.Equal(t, 0.0, x.Angle(Vector3{}))
}

func TestApproxEqual(t *testing.T) {
	a := NewVector3(1, 1, 1)

	assert.True(t, a.ApproxEqual(NewVector3(1.0005, 0.9995, 1), 1e-3))
	assert.False(t, a.ApproxEqual(NewVector3(1, 1, 1.01), 1e-3))
}

func TestCentroid(t *testing.T) {
	square := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 0, 0),
		NewVector3(2, 2, 0),
		NewVector3(0, 2, 0),
	}

	assert.Equal(t, NewVector3(1, 1, 0), Centroid(square))
	assert.Equal(t, Vector3{}, Centroid(nil))
}

func TestPolygonNormal(t *testing.T) {
	square := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 0, 0),
		NewVector3(2, 2, 0),
		NewVector3(0, 2, 0),
	}
	assert.Equal(t, NewVector3(0, 0, 1), PolygonNormal(square))

	reversed := []Vector3{square[3], square[2], square[1], square[0]}
	assert.Equal(t, NewVector3(0, 0, -1), PolygonNormal(reversed))

	side := []Vector3{
		NewVector3(1, 0, 0),
		NewVector3(1, 1, 0),
		NewVector3(1, 1, 1),
		NewVector3(1, 0, 1),
	}
	assert.True(t, PolygonNormal(side).ApproxEqual(NewVector3(1, 0, 0), 1e-12))

	line := []Vector3{NewVector3(0, 0, 0), NewVector3(1, 0, 0), NewVector3(2, 0, 0)}
	assert.Equal(t, Vector3{}, PolygonNormal(line))
}
