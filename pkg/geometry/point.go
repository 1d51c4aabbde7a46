package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// Point is a location or a vector in world coordinates.
type Point = r3.Vector

// Axis identifies one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns "x", "y" or "z".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "invalid"
	}
}

// precision is the number of decimals derived values are rounded to.
const precision = 5

var roundScale = math.Pow(10, precision)

// halfTolerance is how close a scaled fraction must be to 0.5 to count as
// a half. Decimal halves such as 1.000005 are not exact in binary.
const halfTolerance = 1e-7

// Round rounds v to five decimals, halves rounding away from zero.
func Round(v float64) float64 {
	s := v * roundScale
	i, frac := math.Modf(s)
	if math.Abs(math.Abs(frac)-0.5) < halfTolerance {
		return (i + math.Copysign(1, s)) / roundScale
	}
	return math.Round(s) / roundScale
}

// RoundPoint rounds every component of p with [Round].
func RoundPoint(p Point) Point {
	return Point{X: Round(p.X), Y: Round(p.Y), Z: Round(p.Z)}
}

// Component returns the coordinate of p along axis a.
func Component(p Point, a Axis) float64 {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

// WithComponent returns a copy of p with the coordinate along a replaced by v.
func WithComponent(p Point, a Axis, v float64) Point {
	switch a {
	case AxisX:
		p.X = v
	case AxisY:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

// UnitVector returns the unit vector along a, scaled by sign (+1 or -1).
func UnitVector(a Axis, sign float64) Point {
	return WithComponent(Point{}, a, sign)
}
