// Package obstruction derives removal dependencies from box geometry.
//
// For a box b and an access direction d, the obstruction region of b is the
// prism that starts at b's d-facing face, keeps b's footprint on the other
// two axes and runs to the edge of the world along d. Any other box that is
// fully or partly inside that region has to be removed before b can leave
// in direction d, which becomes the edge c → b tagged d.
//
// Candidates are fetched from a [octree.LooseOctree] using the region's
// bounding box and then classified exactly with a [frustum.Frustum]. The
// index query is a conservative superset, so no obstructor is ever missed.
package obstruction

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/stackplan/pkg/depgraph"
	"github.com/matzehuels/stackplan/pkg/frustum"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/octree"
)

// ContactTolerance is how far the four lateral planes of a region are pulled
// into the box's footprint. Boxes that merely touch a side face of b are
// therefore not obstructors; any real lateral overlap at the five-decimal
// precision of box coordinates still is.
const ContactTolerance = 5e-6

var (
	// ErrNoBoxes is returned by [NewBuilder] for an empty box set.
	ErrNoBoxes = errors.New("no boxes to build from")

	// ErrNotIndexed is returned by [NewBuilder] when a box is missing from
	// the index.
	ErrNotIndexed = errors.New("box is not in the index")
)

// Stats summarises one [Builder.Build] call.
type Stats struct {
	Regions    int `json:"regions"`
	Candidates int `json:"candidates"`
	Edges      int `json:"edges"`
}

// Builder turns an indexed set of boxes into dependency graphs. The index
// is only read.
type Builder struct {
	tree  *octree.LooseOctree
	boxes []geometry.Box
	stats Stats
}

// NewBuilder returns a builder over boxes, all of which must already be in
// tree.
func NewBuilder(tree *octree.LooseOctree, boxes []geometry.Box) (*Builder, error) {
	if len(boxes) == 0 {
		return nil, ErrNoBoxes
	}
	sorted := slices.Clone(boxes)
	slices.SortFunc(sorted, geometry.CompareByID)
	for _, b := range sorted {
		if _, ok := tree.BucketOf(b.ID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotIndexed, b.ID)
		}
	}
	return &Builder{tree: tree, boxes: sorted}, nil
}

// Stats returns counters for the most recent Build.
func (bl *Builder) Stats() Stats { return bl.stats }

// Build computes obstruction edges for every box and direction. With
// allowAlternating, one graph tracking all directions is returned;
// otherwise one single-direction graph per direction, in the order given.
func (bl *Builder) Build(dirs []geometry.Direction, allowAlternating bool) ([]*depgraph.Graph, error) {
	if len(dirs) == 0 {
		return nil, depgraph.ErrNoDirections
	}
	bl.stats = Stats{}

	if allowAlternating {
		g, err := bl.newGraph(dirs...)
		if err != nil {
			return nil, err
		}
		for _, d := range g.Directions() {
			if err := bl.addEdges(g, d); err != nil {
				return nil, err
			}
		}
		return []*depgraph.Graph{g}, nil
	}

	graphs := make([]*depgraph.Graph, 0, len(dirs))
	for _, d := range dirs {
		g, err := bl.newGraph(d)
		if err != nil {
			return nil, err
		}
		if err := bl.addEdges(g, d); err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

func (bl *Builder) newGraph(dirs ...geometry.Direction) (*depgraph.Graph, error) {
	g, err := depgraph.New(dirs...)
	if err != nil {
		return nil, err
	}
	for _, b := range bl.boxes {
		if err := g.AddNode(b); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (bl *Builder) addEdges(g *depgraph.Graph, d geometry.Direction) error {
	for _, b := range bl.boxes {
		obstructors, err := bl.Obstructors(b, d)
		if err != nil {
			return err
		}
		for _, c := range obstructors {
			if err := g.AddEdge(c.ID, b.ID, d); err != nil {
				return err
			}
			bl.stats.Edges++
		}
	}
	return nil
}

// Obstructors returns the boxes that block b from leaving in direction d,
// sorted by ID.
func (bl *Builder) Obstructors(b geometry.Box, d geometry.Direction) ([]geometry.Box, error) {
	region, err := Region(bl.tree.World(), b, d)
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, nil
	}
	bl.stats.Regions++

	var out []geometry.Box
	for _, c := range bl.tree.Query(region.Bounds()) {
		if c.ID == b.ID {
			continue
		}
		bl.stats.Candidates++
		if region.Classify(c.Bounds).Visible() {
			out = append(out, c)
		}
	}
	return out, nil
}

// Region returns the obstruction region of b for direction d inside world.
// It returns nil without error when b's d-facing face lies on the world
// boundary, since nothing can be beyond it.
func Region(world geometry.AABB, b geometry.Box, d geometry.Direction) (*frustum.Frustum, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %v", geometry.ErrInvalidDirection, d)
	}
	near := b.Bounds.FacePlane(d, false)
	far := world.FacePlane(d, true)
	if far.SignedDistance(near.Anchor) <= geometry.Epsilon {
		return nil, nil
	}

	side := func(dir geometry.Direction) geometry.Plane {
		a := dir.Axis()
		pull := min(ContactTolerance, (b.Bounds.Max(a)-b.Bounds.Min(a))/4)
		return b.Bounds.FacePlane(dir, true).Translate(pull)
	}
	f, err := frustum.New([6]geometry.Plane{
		frustum.Near:       near,
		frustum.Far:        far,
		frustum.LeftSide:   side(d.LeftOf()),
		frustum.RightSide:  side(d.RightOf()),
		frustum.BottomSide: side(d.Below()),
		frustum.TopSide:    side(d.Above()),
	})
	if err != nil {
		return nil, fmt.Errorf("region of %s facing %s: %w", b.ID, d, err)
	}
	return f, nil
}
