package octree

import (
	"errors"
	"testing"

	"github.com/matzehuels/stackplan/pkg/geometry"
)

func mustBox(t *testing.T, id string, lx, ly, lz, hx, hy, hz float64) geometry.Box {
	t.Helper()
	b, err := geometry.NewBox(id, "A", geometry.Point{X: lx, Y: ly, Z: lz}, geometry.Point{X: hx, Y: hy, Z: hz})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(0, 16); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("depth 0: %v", err)
	}
	if _, err := New(3, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("world 0: %v", err)
	}
}

func TestDepthForRadius(t *testing.T) {
	tree, _ := New(4, 16)
	tests := []struct {
		r       float64
		want    int
		wantErr bool
	}{
		{8, 1, false},
		{4, 2, false},
		{3, 2, false},
		{2, 3, false},
		{1, 4, false},
		{0.01, 4, false}, // clamped to maxDepth
		{0, 0, true},
		{-1, 0, true},
		{8.5, 0, true},
	}
	for _, tt := range tests {
		got, err := tree.DepthForRadius(tt.r)
		if (err != nil) != tt.wantErr {
			t.Errorf("DepthForRadius(%v) error = %v, wantErr %v", tt.r, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidRadius) {
			t.Errorf("DepthForRadius(%v) error %v should wrap ErrInvalidRadius", tt.r, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("DepthForRadius(%v) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestDepthForRadiusNonIncreasing(t *testing.T) {
	tree, _ := New(8, 64)
	prev := tree.MaxDepth()
	for i := 1; i < 640; i++ {
		r := float64(i) * 0.05
		d, err := tree.DepthForRadius(r)
		if err != nil {
			t.Fatalf("DepthForRadius(%v): %v", r, err)
		}
		if d > prev {
			t.Fatalf("depth increased from %d to %d at radius %v", prev, d, r)
		}
		prev = d
	}
}

func TestBucketSpacing(t *testing.T) {
	tree, _ := New(3, 16)
	for d, want := range map[int]float64{1: 8, 2: 4, 3: 2} {
		got, err := tree.BucketSpacing(d)
		if err != nil || got != want {
			t.Errorf("BucketSpacing(%d) = %v, %v; want %v", d, got, err, want)
		}
	}
	for _, d := range []int{0, -1, 4} {
		if _, err := tree.BucketSpacing(d); !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("BucketSpacing(%d) error = %v, want ErrInvalidDepth", d, err)
		}
	}
}

func TestIndexFor(t *testing.T) {
	tree, _ := New(4, 16)
	b := mustBox(t, "b", 0, 0, 0, 1, 1, 1) // radius 0.5 → depth 4, spacing 1
	got, err := tree.IndexFor(b)
	if err != nil {
		t.Fatal(err)
	}
	want := Bucket{Depth: 4, X: 8, Y: 8, Z: 8}
	if got != want {
		t.Errorf("IndexFor() = %v, want %v", got, want)
	}

	outside := mustBox(t, "out", 7.5, 0, 0, 8.5, 1, 1)
	if _, err := tree.IndexFor(outside); !errors.Is(err, ErrOutOfWorld) {
		t.Errorf("out-of-world error = %v", err)
	}

	edge := mustBox(t, "edge", 7, 7, 7, 8, 8, 8)
	b2, err := tree.IndexFor(edge)
	if err != nil {
		t.Fatalf("box touching world edge should be accepted: %v", err)
	}
	if b2.X != 15 || b2.Y != 15 || b2.Z != 15 {
		t.Errorf("edge bucket = %v", b2)
	}
}

func TestInsertDuplicateIsNoop(t *testing.T) {
	tree, _ := New(4, 16)
	b := mustBox(t, "b", 0, 0, 0, 1, 1, 1)
	if err := tree.Insert(b); err != nil {
		t.Fatal(err)
	}
	if err := tree.Insert(b); err != nil {
		t.Fatalf("duplicate insert should not fail: %v", err)
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tree.Len())
	}
	bucket, ok := tree.BucketOf("b")
	if !ok || len(tree.Occupants(bucket)) != 1 {
		t.Errorf("bucket %v should hold exactly one occupant", bucket)
	}
}

func TestBucketCollisions(t *testing.T) {
	tree, _ := New(2, 16)
	a := mustBox(t, "a", 0, 0, 0, 1, 1, 1)
	b := mustBox(t, "b", 1, 1, 1, 2, 2, 2)
	if err := tree.InsertAll([]geometry.Box{b, a}); err != nil {
		t.Fatal(err)
	}
	buckets := tree.Buckets()
	if len(buckets) != 1 {
		t.Fatalf("expected both boxes in one bucket, got %v", buckets)
	}
	occ := tree.Occupants(buckets[0])
	if len(occ) != 2 || occ[0].ID != "a" || occ[1].ID != "b" {
		t.Errorf("Occupants() = %v", geometry.IDs(occ))
	}
}

func TestQueryIsConservative(t *testing.T) {
	tree, _ := New(5, 32)
	var boxes []geometry.Box
	for i := range 6 {
		for j := range 6 {
			x, y := float64(i*2-6), float64(j*2-6)
			boxes = append(boxes, mustBox(t, string(rune('a'+i))+string(rune('a'+j)), x, y, 0, x+1.5, y+1.5, 1+float64(i)))
		}
	}
	if err := tree.InsertAll(boxes); err != nil {
		t.Fatal(err)
	}
	regions := []geometry.AABB{
		{Low: geometry.Point{X: -1, Y: -1, Z: 0}, High: geometry.Point{X: 0.5, Y: 16, Z: 16}},
		{Low: geometry.Point{X: -16, Y: 2, Z: 3}, High: geometry.Point{X: 16, Y: 2.5, Z: 16}},
		{Low: geometry.Point{X: 5.5, Y: 5.5, Z: 0.5}, High: geometry.Point{X: 5.6, Y: 5.6, Z: 0.6}},
	}
	for _, region := range regions {
		got := map[string]bool{}
		for _, b := range tree.Query(region) {
			got[b.ID] = true
		}
		for _, b := range boxes {
			if b.Bounds.Intersects(region) && !got[b.ID] {
				t.Errorf("Query(%v) dropped intersecting box %s", region, b)
			}
		}
	}
}
