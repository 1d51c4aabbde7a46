// Package octree implements a loose octree (looseness k = 2) used to narrow
// down which boxes can possibly obstruct one another before the exact
// frustum test runs.
//
// Every box is assigned to exactly one bucket, chosen in O(1) from its
// radius (the depth) and its centre (the cell at that depth). Because the
// cells are loose, a box never needs to be split across neighbours and
// insertion never inspects neighbouring cells.
//
// Depth 0 is the conceptual root and is never populated; the largest box a
// world can hold has radius worldSize/2 and lands at depth 1.
package octree

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/stackplan/pkg/geometry"
)

var (
	// ErrInvalidRadius is returned by [LooseOctree.DepthForRadius] for a
	// radius that is not positive or exceeds half the world size.
	ErrInvalidRadius = errors.New("radius must be in (0, worldSize/2]")

	// ErrInvalidDepth is returned by [LooseOctree.BucketSpacing] for depths
	// outside [1, maxDepth].
	ErrInvalidDepth = errors.New("depth out of range")

	// ErrOutOfWorld is returned when a box's centre ± radius is not enclosed
	// by [-worldSize/2, worldSize/2] on every axis.
	ErrOutOfWorld = errors.New("box is not enclosed by the world")

	// ErrInvalidConfig is returned by [New] for a non-positive depth or
	// world size.
	ErrInvalidConfig = errors.New("invalid octree configuration")
)

// Looseness is the cell inflation factor. The O(1) depth and index formulas
// depend on it being 2.
const Looseness = 2

// Bucket identifies a cell: its depth and integer coordinates at that depth.
type Bucket struct {
	Depth   int
	X, Y, Z int
}

// String formats the bucket as "d/x,y,z".
func (b Bucket) String() string {
	return fmt.Sprintf("%d/%d,%d,%d", b.Depth, b.X, b.Y, b.Z)
}

// LooseOctree buckets boxes by depth and position. It is written once during
// planning setup and read-only afterwards; it is not safe for concurrent
// writes.
type LooseOctree struct {
	maxDepth  int
	worldSize float64
	buckets   map[Bucket]map[string]geometry.Box
	where     map[string]Bucket
}

// New creates an empty octree covering the cube [-worldSize/2, worldSize/2]³.
func New(maxDepth int, worldSize float64) (*LooseOctree, error) {
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w: max depth %d must be at least 1", ErrInvalidConfig, maxDepth)
	}
	if !(worldSize > 0) || math.IsInf(worldSize, 0) {
		return nil, fmt.Errorf("%w: world size %g must be positive", ErrInvalidConfig, worldSize)
	}
	return &LooseOctree{
		maxDepth:  maxDepth,
		worldSize: worldSize,
		buckets:   make(map[Bucket]map[string]geometry.Box),
		where:     make(map[string]Bucket),
	}, nil
}

// MaxDepth returns the deepest level boxes can be assigned to.
func (t *LooseOctree) MaxDepth() int { return t.maxDepth }

// WorldSize returns the edge length of the world cube.
func (t *LooseOctree) WorldSize() float64 { return t.worldSize }

// World returns the world cube as an AABB.
func (t *LooseOctree) World() geometry.AABB {
	h := t.worldSize / 2
	return geometry.AABB{
		Low:  geometry.Point{X: -h, Y: -h, Z: -h},
		High: geometry.Point{X: h, Y: h, Z: h},
	}
}

// DepthForRadius returns min(maxDepth, floor(log2(worldSize/r))).
func (t *LooseOctree) DepthForRadius(r float64) (int, error) {
	if !(r > 0) || r > t.worldSize/2 {
		return 0, fmt.Errorf("%w: radius %g, world size %g", ErrInvalidRadius, r, t.worldSize)
	}
	depth := int(math.Floor(math.Log2(t.worldSize / r)))
	return min(t.maxDepth, depth), nil
}

// BucketSpacing returns the cell edge length at depth, worldSize / 2^depth.
func (t *LooseOctree) BucketSpacing(depth int) (float64, error) {
	if depth <= 0 || depth > t.maxDepth {
		return 0, fmt.Errorf("%w: depth %d not in [1, %d]", ErrInvalidDepth, depth, t.maxDepth)
	}
	return t.worldSize / math.Exp2(float64(depth)), nil
}

// Enclosed reports whether box's centre ± radius lies within the world on
// every axis.
func (t *LooseOctree) Enclosed(box geometry.Box) bool {
	h := t.worldSize / 2
	c, r := box.Center(), box.Radius()
	for _, a := range []geometry.Axis{geometry.AxisX, geometry.AxisY, geometry.AxisZ} {
		v := geometry.Component(c, a)
		if v-r < -h || v+r > h {
			return false
		}
	}
	return true
}

// IndexFor computes the bucket box belongs to.
func (t *LooseOctree) IndexFor(box geometry.Box) (Bucket, error) {
	if !t.Enclosed(box) {
		return Bucket{}, fmt.Errorf("%w: %s (world size %g)", ErrOutOfWorld, box.ID, t.worldSize)
	}
	depth, err := t.DepthForRadius(box.Radius())
	if err != nil {
		return Bucket{}, fmt.Errorf("box %s: %w", box.ID, err)
	}
	spacing, err := t.BucketSpacing(depth)
	if err != nil {
		return Bucket{}, fmt.Errorf("box %s: %w", box.ID, err)
	}
	c := box.Center()
	return Bucket{
		Depth: depth,
		X:     t.cell(c.X, spacing, depth),
		Y:     t.cell(c.Y, spacing, depth),
		Z:     t.cell(c.Z, spacing, depth),
	}, nil
}

// cell maps a coordinate to a cell index, clamping the far world boundary
// into the last cell.
func (t *LooseOctree) cell(v, spacing float64, depth int) int {
	i := int(math.Floor((v + t.worldSize/2) / spacing))
	return min(max(i, 0), 1<<depth-1)
}

// Insert adds box to its bucket. Inserting a box whose ID is already present
// is a no-op.
func (t *LooseOctree) Insert(box geometry.Box) error {
	if _, ok := t.where[box.ID]; ok {
		return nil
	}
	b, err := t.IndexFor(box)
	if err != nil {
		return err
	}
	occupants, ok := t.buckets[b]
	if !ok {
		occupants = make(map[string]geometry.Box)
		t.buckets[b] = occupants
	}
	occupants[box.ID] = box
	t.where[box.ID] = b
	return nil
}

// InsertAll inserts every box, stopping at the first failure.
func (t *LooseOctree) InsertAll(boxes []geometry.Box) error {
	for _, b := range boxes {
		if err := t.Insert(b); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of distinct boxes stored.
func (t *LooseOctree) Len() int { return len(t.where) }

// BucketOf returns the bucket box ID was inserted into.
func (t *LooseOctree) BucketOf(id string) (Bucket, bool) {
	b, ok := t.where[id]
	return b, ok
}

// Occupants returns the boxes in bucket b, sorted by ID.
func (t *LooseOctree) Occupants(b Bucket) []geometry.Box {
	return slices.SortedFunc(maps.Values(t.buckets[b]), geometry.CompareByID)
}

// Buckets returns all populated buckets in a stable order.
func (t *LooseOctree) Buckets() []Bucket {
	return slices.SortedFunc(maps.Keys(t.buckets), compareBuckets)
}

// Query returns every stored box whose loose cell could reach region,
// sorted by ID. The result is a superset of the boxes intersecting region:
// a box at depth d has radius at most the cell spacing s, so it never
// extends more than s beyond its cell.
func (t *LooseOctree) Query(region geometry.AABB) []geometry.Box {
	var out []geometry.Box
	for b, occupants := range t.buckets {
		if !t.looseBounds(b).Intersects(region) {
			continue
		}
		for _, box := range occupants {
			out = append(out, box)
		}
	}
	slices.SortFunc(out, geometry.CompareByID)
	return out
}

// looseBounds returns the cell of b expanded by one spacing on every side.
func (t *LooseOctree) looseBounds(b Bucket) geometry.AABB {
	s := t.worldSize / math.Exp2(float64(b.Depth))
	h := t.worldSize / 2
	lo := geometry.Point{
		X: float64(b.X)*s - h - s,
		Y: float64(b.Y)*s - h - s,
		Z: float64(b.Z)*s - h - s,
	}
	span := s * (1 + Looseness)
	return geometry.AABB{Low: lo, High: lo.Add(geometry.Point{X: span, Y: span, Z: span})}
}

func compareBuckets(a, b Bucket) int {
	switch {
	case a.Depth != b.Depth:
		return a.Depth - b.Depth
	case a.X != b.X:
		return a.X - b.X
	case a.Y != b.Y:
		return a.Y - b.Y
	default:
		return a.Z - b.Z
	}
}
