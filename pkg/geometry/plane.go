package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroNormal is returned by [NewPlane] for a zero-length normal.
	ErrZeroNormal = errors.New("plane normal must not be zero")

	// ErrParallelPlanes is returned by [IntersectPlanes] when the three
	// planes do not meet in a single point.
	ErrParallelPlanes = errors.New("planes do not intersect in a single point")
)

// Epsilon is the tolerance used when comparing signed distances to zero.
const Epsilon = 1e-9

// Plane is an oriented plane through Anchor with unit Normal. Points with a
// positive signed distance lie on the side the normal points to.
type Plane struct {
	Anchor Point `json:"anchor"`
	Normal Point `json:"normal"`
}

// NewPlane returns a plane through anchor whose normal is normal scaled to
// unit length.
func NewPlane(anchor, normal Point) (Plane, error) {
	if normal.Norm() < Epsilon {
		return Plane{}, ErrZeroNormal
	}
	return Plane{Anchor: anchor, Normal: normal.Normalize()}, nil
}

// Offset returns d in the plane equation n·x = d.
func (p Plane) Offset() float64 {
	return p.Normal.Dot(p.Anchor)
}

// SignedDistance returns the distance of q from the plane, positive on the
// normal's side.
func (p Plane) SignedDistance(q Point) float64 {
	return p.Normal.Dot(q.Sub(p.Anchor))
}

// Flip returns the same plane with the normal reversed.
func (p Plane) Flip() Plane {
	return Plane{Anchor: p.Anchor, Normal: p.Normal.Mul(-1)}
}

// Translate moves the plane by dist along its normal.
func (p Plane) Translate(dist float64) Plane {
	return Plane{Anchor: p.Anchor.Add(p.Normal.Mul(dist)), Normal: p.Normal}
}

// IntersectPlanes returns the single point shared by a, b and c, solved with
// Cramer's rule.
func IntersectPlanes(a, b, c Plane) (Point, error) {
	bc := b.Normal.Cross(c.Normal)
	det := a.Normal.Dot(bc)
	if math.Abs(det) < Epsilon {
		return Point{}, fmt.Errorf("%w: normals %v %v %v", ErrParallelPlanes, a.Normal, b.Normal, c.Normal)
	}
	ca := c.Normal.Cross(a.Normal)
	ab := a.Normal.Cross(b.Normal)
	sum := bc.Mul(a.Offset()).Add(ca.Mul(b.Offset())).Add(ab.Mul(c.Offset()))
	return sum.Mul(1 / det), nil
}
