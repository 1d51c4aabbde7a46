// Package frustum classifies boxes against a convex region bounded by six
// planes.
//
// A [Frustum] is built from three pairs of opposing planes whose normals all
// point into the region. Construction checks this by intersecting the planes
// into the region's eight corners and verifying that every corner lies on
// the inner side of every plane it is not on.
//
// [Frustum.Classify] uses the p-vertex / n-vertex test: for each plane, the
// box corner furthest along the normal (p) and the one furthest against it
// (n) decide whether the box is outside, inside, or straddling that plane.
// The result is exact for axis-aligned boxes and costs at most six pairs of
// dot products.
package frustum

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/stackplan/pkg/geometry"
)

var (
	// ErrOutwardNormal is returned by [New] when a plane's normal does not
	// point into the region.
	ErrOutwardNormal = errors.New("frustum plane normal points outward")

	// ErrDegenerate is returned by [New] when the planes do not bound a
	// region with eight distinct corners.
	ErrDegenerate = errors.New("frustum planes are degenerate")
)

// Plane slots. Planes are passed as three opposing pairs.
const (
	Near = iota
	Far
	LeftSide
	RightSide
	BottomSide
	TopSide
)

// tolerance absorbs floating error when deciding whether a corner lies on a
// plane during validation.
const tolerance = 1e-7

// Visibility is the result of classifying a box against a frustum.
type Visibility int

const (
	NotVisible Visibility = iota
	PartlyVisible
	FullyVisible
)

// String returns the upper-case visibility name.
func (v Visibility) String() string {
	switch v {
	case FullyVisible:
		return "FULLY_VISIBLE"
	case PartlyVisible:
		return "PARTLY_VISIBLE"
	case NotVisible:
		return "NOT_VISIBLE"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// Visible reports whether any part of the box is inside the region.
func (v Visibility) Visible() bool { return v == FullyVisible || v == PartlyVisible }

// Frustum is a convex region bounded by six inward-facing planes.
type Frustum struct {
	planes  [6]geometry.Plane
	corners [8]geometry.Point
}

// New validates planes and returns the frustum they bound. Planes must be
// ordered near, far, left, right, bottom, top so that slots (0,1), (2,3) and
// (4,5) are opposing pairs.
func New(planes [6]geometry.Plane) (*Frustum, error) {
	f := &Frustum{planes: planes}
	for i := range f.corners {
		c, err := geometry.IntersectPlanes(
			planes[Near+(i&1)],
			planes[LeftSide+((i>>1)&1)],
			planes[BottomSide+((i>>2)&1)],
		)
		if err != nil {
			return nil, fmt.Errorf("%w: corner %d: %v", ErrDegenerate, i, err)
		}
		f.corners[i] = c
	}
	for pi, p := range planes {
		inside := 0
		for _, c := range f.corners {
			d := p.SignedDistance(c)
			if math.Abs(d) <= tolerance {
				continue
			}
			if d < 0 {
				return nil, fmt.Errorf("%w: plane %d (normal %v)", ErrOutwardNormal, pi, p.Normal)
			}
			inside++
		}
		if inside == 0 {
			return nil, fmt.Errorf("%w: plane %d has no corner on its inner side", ErrDegenerate, pi)
		}
	}
	return f, nil
}

// Planes returns the six bounding planes.
func (f *Frustum) Planes() [6]geometry.Plane { return f.planes }

// Corners returns the eight corners of the region.
func (f *Frustum) Corners() [8]geometry.Point { return f.corners }

// Bounds returns the axis-aligned box enclosing the region's corners.
func (f *Frustum) Bounds() geometry.AABB {
	lo, hi := f.corners[0], f.corners[0]
	for _, c := range f.corners[1:] {
		lo = geometry.Point{X: math.Min(lo.X, c.X), Y: math.Min(lo.Y, c.Y), Z: math.Min(lo.Z, c.Z)}
		hi = geometry.Point{X: math.Max(hi.X, c.X), Y: math.Max(hi.Y, c.Y), Z: math.Max(hi.Z, c.Z)}
	}
	return geometry.AABB{Low: lo, High: hi}
}

// Contains reports whether p is inside or on the boundary of the region.
func (f *Frustum) Contains(p geometry.Point) bool {
	for _, pl := range f.planes {
		if pl.SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// Classify reports how much of box lies inside the region. A box behind any
// plane is NotVisible even if it straddles another. A face lying exactly on
// a plane counts as straddling it.
func (f *Frustum) Classify(box geometry.AABB) Visibility {
	intersects := false
	for _, pl := range f.planes {
		p, n := extremeVertices(box, pl.Normal)
		if pl.SignedDistance(p) < 0 {
			return NotVisible
		}
		if pl.SignedDistance(n) > 0 {
			continue
		}
		intersects = true
	}
	if intersects {
		return PartlyVisible
	}
	return FullyVisible
}

// extremeVertices returns the box corners maximising (p) and minimising (n)
// the projection onto normal.
func extremeVertices(box geometry.AABB, normal geometry.Point) (p, n geometry.Point) {
	p, n = box.Low, box.High
	if normal.X >= 0 {
		p.X, n.X = box.High.X, box.Low.X
	}
	if normal.Y >= 0 {
		p.Y, n.Y = box.High.Y, box.Low.Y
	}
	if normal.Z >= 0 {
		p.Z, n.Z = box.High.Z, box.Low.Z
	}
	return p, n
}
