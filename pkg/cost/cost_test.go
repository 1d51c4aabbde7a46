package cost

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/stackplan/pkg/geometry"
)

func box(t *testing.T, id, article string, x, y, z float64) geometry.Box {
	t.Helper()
	b, err := geometry.NewBox(id, article, geometry.Point{X: x, Y: y, Z: z}, geometry.Point{X: x + 1, Y: y + 1, Z: z + 1})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestReferenceFunctions(t *testing.T) {
	a := box(t, "a", "X", 0, 0, 0)
	b := box(t, "b", "Y", 3, 4, 2)
	c := box(t, "c", "X", 0, 0, 2)

	tests := []struct {
		name string
		fn   Function
		from geometry.Box
		to   geometry.Box
		want float64
	}{
		{"height", HeightDifference{Factor: 2}, a, b, 4},
		{"height symmetric", HeightDifference{Factor: 2}, b, a, 4},
		{"height same level", HeightDifference{Factor: 2}, b, c, 0},
		{"item change", ItemChange{Penalty: 5}, a, b, 5},
		{"same item", ItemChange{Penalty: 5}, a, c, 0},
		{"travel", TravelDistance{Factor: 1}, a, c, 2},
		{"travel planar", TravelDistance{Factor: 0.5}, c, b, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn.Cost(tt.from, tt.to); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cost() = %v, want %v", got, tt.want)
			}
			if tt.fn.LowerBound() != 0 {
				t.Errorf("LowerBound() = %v, want 0", tt.fn.LowerBound())
			}
		})
	}
}

func TestAssignerSumsFunctions(t *testing.T) {
	fns := []Function{HeightDifference{Factor: 1.5}, ItemChange{Penalty: 3}, TravelDistance{Factor: 1}}
	as := NewAssigner(fns[0], nil, fns[1], fns[2])
	if len(as.Functions()) != 3 {
		t.Fatalf("Functions() = %d entries, want 3", len(as.Functions()))
	}

	boxes := []geometry.Box{
		box(t, "a", "X", 0, 0, 0),
		box(t, "b", "Y", 3, 4, 2),
		box(t, "c", "X", 1, 1, 1),
	}
	for _, from := range boxes {
		for _, to := range boxes {
			var want float64
			for _, f := range fns {
				want += f.Cost(from, to)
			}
			if got := as.Cost(from, to); math.Abs(got-want) > 1e-9 {
				t.Errorf("Cost(%s, %s) = %v, want %v", from.ID, to.ID, got, want)
			}
		}
	}
	seq := as.SequenceCost(boxes)
	if want := as.Cost(boxes[0], boxes[1]) + as.Cost(boxes[1], boxes[2]); math.Abs(seq-want) > 1e-9 {
		t.Errorf("SequenceCost() = %v, want %v", seq, want)
	}
}

type floor struct{ v float64 }

func (f floor) Cost(a, b geometry.Box) float64 { return f.v }
func (f floor) LowerBound() float64            { return f.v }
func (floor) Name() string                     { return "floor" }

func TestAssignerLowerBound(t *testing.T) {
	as := NewAssigner(ItemChange{Penalty: 1}, floor{0.5}, floor{2})
	if got := as.LowerBound(); got != 2.5 {
		t.Errorf("LowerBound() = %v, want 2.5", got)
	}
	if got := NewAssigner().Cost(geometry.Box{}, geometry.Box{}); got != 0 {
		t.Errorf("empty assigner cost = %v", got)
	}
}

func TestNewFunction(t *testing.T) {
	tests := []struct {
		kind    string
		weight  float64
		want    Function
		wantErr error
	}{
		{"height_difference", 2, HeightDifference{Factor: 2}, nil},
		{"Item-Change", 10, ItemChange{Penalty: 10}, nil},
		{" travel_distance ", 0, TravelDistance{Factor: 0}, nil},
		{"teleport", 1, nil, ErrUnknownFunction},
		{"item_change", -1, nil, ErrNegativeWeight},
		{"item_change", math.NaN(), nil, ErrNegativeWeight},
	}
	for _, tt := range tests {
		got, err := NewFunction(tt.kind, tt.weight)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("NewFunction(%q, %v) error = %v, want %v", tt.kind, tt.weight, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NewFunction(%q, %v) = %#v, want %#v", tt.kind, tt.weight, got, tt.want)
		}
	}
}
