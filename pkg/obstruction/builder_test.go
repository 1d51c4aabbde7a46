package obstruction

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/stackplan/pkg/depgraph"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/octree"
)

func mustBox(t *testing.T, id string, lx, ly, lz, hx, hy, hz float64) geometry.Box {
	t.Helper()
	b, err := geometry.NewBox(id, "A", geometry.Point{X: lx, Y: ly, Z: lz}, geometry.Point{X: hx, Y: hy, Z: hz})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func newBuilder(t *testing.T, boxes ...geometry.Box) *Builder {
	t.Helper()
	tree, err := octree.New(4, 16)
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.InsertAll(boxes); err != nil {
		t.Fatal(err)
	}
	bl, err := NewBuilder(tree, boxes)
	if err != nil {
		t.Fatal(err)
	}
	return bl
}

func build(t *testing.T, bl *Builder, d geometry.Direction) *depgraph.Graph {
	t.Helper()
	graphs, err := bl.Build([]geometry.Direction{d}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 1 {
		t.Fatalf("got %d graphs, want 1", len(graphs))
	}
	return graphs[0]
}

func edgeStrings(g *depgraph.Graph) []string {
	var out []string
	for _, e := range g.Edges() {
		out = append(out, e.String())
	}
	return out
}

func lShape(t *testing.T) []geometry.Box {
	return []geometry.Box{
		mustBox(t, "P1", 0, 0, 0, 1, 1, 1),
		mustBox(t, "P2", 0, 1, 0, 1, 2, 1),
		mustBox(t, "P3", 1, 0, 0, 2, 1, 1),
	}
}

func TestLShape(t *testing.T) {
	bl := newBuilder(t, lShape(t)...)

	tests := []struct {
		dir  geometry.Direction
		want []string
	}{
		{geometry.Front, []string{"P1 -> P2 (front)"}},
		{geometry.Back, []string{"P2 -> P1 (back)"}},
		{geometry.Right, []string{"P3 -> P1 (right)"}},
		{geometry.Left, []string{"P1 -> P3 (left)"}},
		{geometry.Top, nil},
		{geometry.Bottom, nil},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			g := build(t, bl, tt.dir)
			if got := edgeStrings(g); !slices.Equal(got, tt.want) {
				t.Errorf("edges = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrid(t *testing.T) {
	bl := newBuilder(t,
		mustBox(t, "A", 0, 0, 0, 1, 1, 1),
		mustBox(t, "B", 2, 0, 0, 3, 1, 1),
		mustBox(t, "C", 0, 2, 0, 1, 3, 1),
		mustBox(t, "D", 2, 2, 0, 3, 3, 1),
	)

	top := build(t, bl, geometry.Top)
	if top.EdgeCount() != 0 {
		t.Errorf("top: %v, want no edges", edgeStrings(top))
	}
	if got := geometry.IDs(top.RemovableNodes()); len(got) != 4 {
		t.Errorf("top removable = %v, want all four", got)
	}

	front := build(t, bl, geometry.Front)
	if got := geometry.IDs(front.RemovableNodes()); !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("front removable = %v, want [A B]", got)
	}
	for _, id := range []string{"A", "B"} {
		if _, err := front.RemoveNode(id); err != nil {
			t.Fatal(err)
		}
	}
	if got := geometry.IDs(front.RemovableNodes()); !slices.Equal(got, []string{"C", "D"}) {
		t.Errorf("after front pair: removable = %v, want [C D]", got)
	}
}

func TestStack(t *testing.T) {
	bl := newBuilder(t,
		mustBox(t, "lower", 0, 0, 0, 2, 2, 1),
		mustBox(t, "upper", 0.5, 0.5, 1, 1.5, 1.5, 2),
	)
	if got := edgeStrings(build(t, bl, geometry.Top)); !slices.Equal(got, []string{"upper -> lower (top)"}) {
		t.Errorf("top = %v", got)
	}
	if got := edgeStrings(build(t, bl, geometry.Bottom)); !slices.Equal(got, []string{"lower -> upper (bottom)"}) {
		t.Errorf("bottom = %v", got)
	}
	if got := edgeStrings(build(t, bl, geometry.Front)); got != nil {
		t.Errorf("front = %v, want none", got)
	}
}

func TestAlternatingSharesOneGraph(t *testing.T) {
	bl := newBuilder(t, lShape(t)...)
	graphs, err := bl.Build([]geometry.Direction{geometry.Front, geometry.Right}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 1 {
		t.Fatalf("got %d graphs, want 1", len(graphs))
	}
	g := graphs[0]
	want := []string{"P1 -> P2 (front)", "P3 -> P1 (right)"}
	if got := edgeStrings(g); !slices.Equal(got, want) {
		t.Errorf("edges = %v, want %v", got, want)
	}
	// P1 is free from the front, P2 from the right.
	if got := geometry.IDs(g.RemovableNodes()); !slices.Equal(got, []string{"P1", "P2", "P3"}) {
		t.Errorf("removable = %v", got)
	}
	if st := bl.Stats(); st.Edges != 2 {
		t.Errorf("Stats().Edges = %d, want 2", st.Edges)
	}
}

func TestIndependentGraphs(t *testing.T) {
	bl := newBuilder(t, lShape(t)...)
	graphs, err := bl.Build([]geometry.Direction{geometry.Front, geometry.Back}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 2 {
		t.Fatalf("got %d graphs, want 2", len(graphs))
	}
	if _, err := graphs[0].RemoveNode("P1"); err != nil {
		t.Fatal(err)
	}
	if graphs[1].Len() != 3 {
		t.Error("removing from one graph must not affect the other")
	}
}

func TestRegionAtWorldEdge(t *testing.T) {
	world := geometry.AABB{Low: geometry.Point{X: -8, Y: -8, Z: -8}, High: geometry.Point{X: 8, Y: 8, Z: 8}}
	b := mustBox(t, "edge", 0, 0, 7, 1, 1, 8)
	r, err := Region(world, b, geometry.Top)
	if err != nil || r != nil {
		t.Errorf("Region at world edge = %v, %v; want nil, nil", r, err)
	}
	r, err = Region(world, b, geometry.Bottom)
	if err != nil || r == nil {
		t.Fatalf("Region(bottom) = %v, %v", r, err)
	}
	bounds := r.Bounds()
	if bounds.Low.Z != -8 || bounds.High.Z != 7 {
		t.Errorf("bottom region z = [%g, %g], want [-8, 7]", bounds.Low.Z, bounds.High.Z)
	}
	if _, err := Region(world, b, geometry.Direction(0)); !errors.Is(err, geometry.ErrInvalidDirection) {
		t.Errorf("invalid direction: %v", err)
	}
}

func TestNewBuilderErrors(t *testing.T) {
	tree, _ := octree.New(3, 16)
	if _, err := NewBuilder(tree, nil); !errors.Is(err, ErrNoBoxes) {
		t.Errorf("empty: %v", err)
	}
	if _, err := NewBuilder(tree, []geometry.Box{mustBox(t, "x", 0, 0, 0, 1, 1, 1)}); !errors.Is(err, ErrNotIndexed) {
		t.Errorf("not indexed: %v", err)
	}
}

// randomStack places boxes of random size into the cells of a 3-D grid so
// that no two overlap.
func randomStack(t *testing.T, rng *rand.Rand, n int) []geometry.Box {
	t.Helper()
	var boxes []geometry.Box
	for i := 0; len(boxes) < n; i++ {
		cx, cy, cz := float64(i%3), float64((i/3)%3), float64(i/9)
		if rng.IntN(4) == 0 {
			continue
		}
		lx, ly, lz := cx*2+rng.Float64()*0.4, cy*2+rng.Float64()*0.4, cz*2+rng.Float64()*0.4
		boxes = append(boxes, mustBox(t, fmt.Sprintf("b%02d", len(boxes)),
			lx-3, ly-3, lz-3,
			lx-3+0.5+rng.Float64()*1.1, ly-3+0.5+rng.Float64()*1.1, lz-3+0.5+rng.Float64()*1.1))
	}
	return boxes
}

func drain(g *depgraph.Graph) error {
	for g.Len() > 0 {
		cand := g.RemovableNodes()
		if len(cand) == 0 {
			return fmt.Errorf("deadlock with %d nodes left", g.Len())
		}
		if _, err := g.RemoveNode(cand[0].ID); err != nil {
			return err
		}
	}
	return nil
}

func TestBuiltGraphsNeverDeadlock(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := range 20 {
		boxes := randomStack(t, rng, 12)
		bl := newBuilder(t, boxes...)
		graphs, err := bl.Build(geometry.Directions, false)
		if err != nil {
			t.Fatal(err)
		}
		for _, g := range graphs {
			if err := g.Validate(); err != nil {
				t.Fatalf("trial %d %v: %v", trial, g.Directions(), err)
			}
			if err := drain(g); err != nil {
				t.Fatalf("trial %d %v: %v", trial, g.Directions(), err)
			}
		}
		merged, err := bl.Build(geometry.Directions, true)
		if err != nil {
			t.Fatal(err)
		}
		if err := drain(merged[0]); err != nil {
			t.Fatalf("trial %d merged: %v", trial, err)
		}
	}
}

// Brute-force check that the index never hides an obstructor.
func TestIndexIsConservative(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	boxes := randomStack(t, rng, 20)
	bl := newBuilder(t, boxes...)
	world := bl.tree.World()
	for _, d := range geometry.Directions {
		for _, b := range boxes {
			got, err := bl.Obstructors(b, d)
			if err != nil {
				t.Fatal(err)
			}
			region, _ := Region(world, b, d)
			var want []geometry.Box
			for _, c := range boxes {
				if region != nil && c.ID != b.ID && region.Classify(c.Bounds).Visible() {
					want = append(want, c)
				}
			}
			if !slices.Equal(geometry.IDs(got), geometry.IDs(want)) {
				t.Errorf("%s %s: index gave %v, brute force %v", b.ID, d, geometry.IDs(got), geometry.IDs(want))
			}
		}
	}
}
