package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAABB is returned by [NewAABB] when the corners are not strictly
// ordered on every axis.
var ErrInvalidAABB = errors.New("invalid AABB: low must be strictly less than high on every axis")

// AABB is an axis-aligned bounding box. Construct it with [NewAABB]; the zero
// value is degenerate and rejected everywhere an AABB is validated.
type AABB struct {
	Low  Point `json:"low"`
	High Point `json:"high"`
}

// NewAABB returns the box spanned by low and high, or ErrInvalidAABB if
// low[i] >= high[i] on any axis.
func NewAABB(low, high Point) (AABB, error) {
	b := AABB{Low: low, High: high}
	if err := b.Validate(); err != nil {
		return AABB{}, err
	}
	return b, nil
}

// Validate reports whether the corners are strictly ordered on every axis.
func (b AABB) Validate() error {
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		lo, hi := Component(b.Low, a), Component(b.High, a)
		if math.IsNaN(lo) || math.IsNaN(hi) || lo >= hi {
			return fmt.Errorf("%w: %s axis [%g, %g]", ErrInvalidAABB, a, lo, hi)
		}
	}
	return nil
}

// Center returns the midpoint of the box, rounded to five decimals.
func (b AABB) Center() Point {
	return RoundPoint(b.Low.Add(b.High).Mul(0.5))
}

// HalfExtents returns half the size of the box on each axis, rounded.
func (b AABB) HalfExtents() Point {
	return RoundPoint(b.High.Sub(b.Low).Mul(0.5))
}

// Radius returns the largest per-axis half extent (Chebyshev radius),
// rounded to five decimals.
func (b AABB) Radius() float64 {
	h := b.HalfExtents()
	return math.Max(h.X, math.Max(h.Y, h.Z))
}

// Min returns the low coordinate along a.
func (b AABB) Min(a Axis) float64 { return Component(b.Low, a) }

// Max returns the high coordinate along a.
func (b AABB) Max(a Axis) float64 { return Component(b.High, a) }

// Vertices returns the eight corners. Bit i of the index selects High over
// Low on axis i (bit 0 = x, bit 1 = y, bit 2 = z).
func (b AABB) Vertices() [8]Point {
	var vs [8]Point
	for i := range vs {
		p := b.Low
		if i&1 != 0 {
			p.X = b.High.X
		}
		if i&2 != 0 {
			p.Y = b.High.Y
		}
		if i&4 != 0 {
			p.Z = b.High.Z
		}
		vs[i] = p
	}
	return vs
}

// Contains reports whether p lies inside or on the boundary of b.
func (b AABB) Contains(p Point) bool {
	return p.X >= b.Low.X && p.X <= b.High.X &&
		p.Y >= b.Low.Y && p.Y <= b.High.Y &&
		p.Z >= b.Low.Z && p.Z <= b.High.Z
}

// Intersects reports whether b and o overlap or touch.
func (b AABB) Intersects(o AABB) bool {
	return b.Low.X <= o.High.X && b.High.X >= o.Low.X &&
		b.Low.Y <= o.High.Y && b.High.Y >= o.Low.Y &&
		b.Low.Z <= o.High.Z && b.High.Z >= o.Low.Z
}

// Overlaps reports whether b and o share interior volume. Touching faces do
// not count.
func (b AABB) Overlaps(o AABB) bool {
	return b.Low.X < o.High.X && b.High.X > o.Low.X &&
		b.Low.Y < o.High.Y && b.High.Y > o.Low.Y &&
		b.Low.Z < o.High.Z && b.High.Z > o.Low.Z
}

// FacePlane returns the plane of the face d names. The anchor is the centre
// of the face. The normal points out of the box unless inward is set.
func (b AABB) FacePlane(d Direction, inward bool) Plane {
	axis := d.Axis()
	coord := b.Min(axis)
	if d.Sign() > 0 {
		coord = b.Max(axis)
	}
	normal := d.Vector()
	if inward {
		normal = normal.Mul(-1)
	}
	return Plane{
		Anchor: WithComponent(b.Center(), axis, coord),
		Normal: normal,
	}
}

// String formats the box as "[low → high]".
func (b AABB) String() string {
	return fmt.Sprintf("[(%g, %g, %g) → (%g, %g, %g)]",
		b.Low.X, b.Low.Y, b.Low.Z, b.High.X, b.High.Y, b.High.Z)
}
