package geometry

import (
	"errors"
	"math"
	"testing"
)

func pt(x, y, z float64) Point { return Point{X: x, Y: y, Z: z} }

func TestNewAABB(t *testing.T) {
	tests := []struct {
		name      string
		low, high Point
		wantErr   bool
	}{
		{"unit cube", pt(0, 0, 0), pt(1, 1, 1), false},
		{"negative coords", pt(-3, -2, -1), pt(-1, 0, 1), false},
		{"flat on x", pt(1, 0, 0), pt(1, 1, 1), true},
		{"flat on y", pt(0, 1, 0), pt(1, 1, 1), true},
		{"flat on z", pt(0, 0, 2), pt(1, 1, 2), true},
		{"inverted", pt(1, 1, 1), pt(0, 0, 0), true},
		{"NaN", pt(math.NaN(), 0, 0), pt(1, 1, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAABB(tt.low, tt.high)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAABB() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAABB) {
				t.Errorf("error %v should wrap ErrInvalidAABB", err)
			}
		})
	}
}

func TestAABBCenterAndRadius(t *testing.T) {
	b, err := NewAABB(pt(0, 0, 0), pt(2, 4, 1))
	if err != nil {
		t.Fatal(err)
	}
	if c := b.Center(); c != pt(1, 2, 0.5) {
		t.Errorf("Center() = %v, want (1, 2, 0.5)", c)
	}
	if r := b.Radius(); r != 2 {
		t.Errorf("Radius() = %v, want 2", r)
	}
}

func TestAABBRounding(t *testing.T) {
	b, err := NewAABB(pt(0.1, 0.2, 0), pt(0.2, 0.4, 1.0/3))
	if err != nil {
		t.Fatal(err)
	}
	c := b.Center()
	if c.X != 0.15 || c.Y != 0.3 || c.Z != 0.16667 {
		t.Errorf("Center() = %v, want (0.15, 0.3, 0.16667)", c)
	}
	if r := b.Radius(); r != 0.16667 {
		t.Errorf("Radius() = %v, want 0.16667", r)
	}
	if again := b.Center(); again != c {
		t.Errorf("Center() not deterministic: %v vs %v", again, c)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{1.0 / 3, 0.33333},
		{2.0 / 3, 0.66667},
		{-2.0 / 3, -0.66667},
		{0.1 + 0.2, 0.3},
		{0.000004, 0},
		{2, 2},
		{0.000015, 0.00002},
		{-0.000015, -0.00002},
		{1.000005, 1.00001},
		{-1.000005, -1.00001},
		{-2.5, -2.5},
		{-0.000004, 0},
	}
	for _, tt := range tests {
		if got := Round(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVertices(t *testing.T) {
	b, _ := NewAABB(pt(0, 0, 0), pt(1, 2, 3))
	vs := b.Vertices()
	seen := make(map[Point]bool)
	for _, v := range vs {
		if !b.Contains(v) {
			t.Errorf("vertex %v outside box", v)
		}
		seen[v] = true
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct vertices, want 8", len(seen))
	}
	if vs[0] != b.Low || vs[7] != b.High {
		t.Errorf("vertex 0/7 = %v/%v, want low/high", vs[0], vs[7])
	}
}

func TestFacePlane(t *testing.T) {
	b, _ := NewAABB(pt(0, 0, 0), pt(2, 2, 2))
	tests := []struct {
		dir        Direction
		wantNormal Point
		wantCoord  float64
	}{
		{Front, pt(0, -1, 0), 0},
		{Back, pt(0, 1, 0), 2},
		{Left, pt(-1, 0, 0), 0},
		{Right, pt(1, 0, 0), 2},
		{Bottom, pt(0, 0, -1), 0},
		{Top, pt(0, 0, 1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			p := b.FacePlane(tt.dir, false)
			if p.Normal != tt.wantNormal {
				t.Errorf("normal = %v, want %v", p.Normal, tt.wantNormal)
			}
			if got := Component(p.Anchor, tt.dir.Axis()); got != tt.wantCoord {
				t.Errorf("anchor coordinate = %v, want %v", got, tt.wantCoord)
			}
			if d := p.SignedDistance(b.Center()); d >= 0 {
				t.Errorf("centre should be behind outward face, distance %v", d)
			}
			in := b.FacePlane(tt.dir, true)
			if in.Normal != tt.wantNormal.Mul(-1) {
				t.Errorf("inward normal = %v", in.Normal)
			}
			if d := in.SignedDistance(b.Center()); d <= 0 {
				t.Errorf("centre should be in front of inward face, distance %v", d)
			}
		})
	}
}

func TestIntersectPlanes(t *testing.T) {
	x, _ := NewPlane(pt(1, 0, 0), pt(1, 0, 0))
	y, _ := NewPlane(pt(0, 2, 0), pt(0, -1, 0))
	z, _ := NewPlane(pt(0, 0, 3), pt(0, 0, 5))
	p, err := IntersectPlanes(x, y, z)
	if err != nil {
		t.Fatal(err)
	}
	if p.Sub(pt(1, 2, 3)).Norm() > 1e-12 {
		t.Errorf("IntersectPlanes() = %v, want (1, 2, 3)", p)
	}

	x2, _ := NewPlane(pt(4, 0, 0), pt(-1, 0, 0))
	if _, err := IntersectPlanes(x, x2, z); !errors.Is(err, ErrParallelPlanes) {
		t.Errorf("parallel planes error = %v, want ErrParallelPlanes", err)
	}
}

func TestNewPlaneZeroNormal(t *testing.T) {
	if _, err := NewPlane(pt(0, 0, 0), pt(0, 0, 0)); !errors.Is(err, ErrZeroNormal) {
		t.Errorf("error = %v, want ErrZeroNormal", err)
	}
}

func TestNewBox(t *testing.T) {
	if _, err := NewBox("", "A", pt(0, 0, 0), pt(1, 1, 1)); !errors.Is(err, ErrInvalidBoxID) {
		t.Errorf("empty id error = %v", err)
	}
	if _, err := NewBox("b1", "A", pt(0, 0, 0), pt(0, 1, 1)); !errors.Is(err, ErrInvalidAABB) {
		t.Errorf("flat box error = %v", err)
	}
	b, err := NewBox("b1", "A", pt(0, 0, 0), pt(1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if b.Center() != pt(0.5, 0.5, 0.5) || b.Radius() != 0.5 {
		t.Errorf("unexpected derived values: %v %v", b.Center(), b.Radius())
	}
}

func TestOverlapsVsIntersects(t *testing.T) {
	a, _ := NewAABB(pt(0, 0, 0), pt(1, 1, 1))
	touching, _ := NewAABB(pt(1, 0, 0), pt(2, 1, 1))
	inside, _ := NewAABB(pt(0.5, 0.5, 0.5), pt(2, 2, 2))
	if !a.Intersects(touching) || a.Overlaps(touching) {
		t.Error("touching boxes should intersect but not overlap")
	}
	if !a.Overlaps(inside) {
		t.Error("overlapping boxes should overlap")
	}
}
