// Package cost defines the additive cost model the sequence search
// minimises.
//
// A [Function] prices one transition: picking box b directly after box a.
// Every function must return non-negative costs and a non-negative
// [Function.LowerBound] no larger than any cost it can produce; the search
// prunes on these bounds and returns wrong results if they are violated.
//
// An [Assigner] sums an ordered list of functions.
package cost

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/stackplan/pkg/geometry"
)

var (
	// ErrUnknownFunction is returned by [NewFunction] for an unknown kind.
	ErrUnknownFunction = errors.New("unknown cost function")

	// ErrNegativeWeight is returned by [NewFunction] for a negative or NaN
	// weight.
	ErrNegativeWeight = errors.New("cost weight must be non-negative")
)

// Function kinds accepted by [NewFunction].
const (
	KindHeightDifference = "height_difference"
	KindItemChange       = "item_change"
	KindTravelDistance   = "travel_distance"
)

// Kinds lists the function kinds in a stable order.
var Kinds = []string{KindHeightDifference, KindItemChange, KindTravelDistance}

// Function prices the transition from box a to box b.
type Function interface {
	Cost(a, b geometry.Box) float64
	LowerBound() float64
	Name() string
}

// HeightDifference charges Factor per unit of vertical distance between box
// centres.
type HeightDifference struct {
	Factor float64
}

func (h HeightDifference) Cost(a, b geometry.Box) float64 {
	return h.Factor * math.Abs(a.Center().Z-b.Center().Z)
}

func (HeightDifference) LowerBound() float64 { return 0 }
func (HeightDifference) Name() string        { return KindHeightDifference }

// ItemChange charges Penalty whenever consecutive boxes carry different
// articles.
type ItemChange struct {
	Penalty float64
}

func (c ItemChange) Cost(a, b geometry.Box) float64 {
	if a.Article == b.Article {
		return 0
	}
	return c.Penalty
}

func (ItemChange) LowerBound() float64 { return 0 }
func (ItemChange) Name() string        { return KindItemChange }

// TravelDistance charges Factor per unit of straight-line distance between
// box centres.
type TravelDistance struct {
	Factor float64
}

func (d TravelDistance) Cost(a, b geometry.Box) float64 {
	return d.Factor * a.Center().Distance(b.Center())
}

func (TravelDistance) LowerBound() float64 { return 0 }
func (TravelDistance) Name() string        { return KindTravelDistance }

// NewFunction returns the function of the given kind scaled by weight. Kind
// matching ignores case and treats '-' like '_'.
func NewFunction(kind string, weight float64) (Function, error) {
	if math.IsNaN(weight) || weight < 0 {
		return nil, fmt.Errorf("%w: %s weight %g", ErrNegativeWeight, kind, weight)
	}
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(kind)), "-", "_") {
	case KindHeightDifference:
		return HeightDifference{Factor: weight}, nil
	case KindItemChange:
		return ItemChange{Penalty: weight}, nil
	case KindTravelDistance:
		return TravelDistance{Factor: weight}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFunction, kind, strings.Join(Kinds, ", "))
	}
}

// Assigner sums a fixed, ordered list of functions.
type Assigner struct {
	fns []Function
	lb  float64
}

// NewAssigner returns an assigner over fns. Nil entries are skipped.
func NewAssigner(fns ...Function) *Assigner {
	a := &Assigner{}
	for _, f := range fns {
		if f == nil {
			continue
		}
		a.fns = append(a.fns, f)
		a.lb += f.LowerBound()
	}
	return a
}

// Cost returns the sum of every function's cost for a → b.
func (a *Assigner) Cost(from, to geometry.Box) float64 {
	var sum float64
	for _, f := range a.fns {
		sum += f.Cost(from, to)
	}
	return sum
}

// LowerBound returns the sum of every function's lower bound, i.e. the least
// any single transition can cost.
func (a *Assigner) LowerBound() float64 { return a.lb }

// Functions returns the registered functions in order.
func (a *Assigner) Functions() []Function { return slices.Clone(a.fns) }

// Names returns the names of the registered functions in order.
func (a *Assigner) Names() []string {
	names := make([]string, len(a.fns))
	for i, f := range a.fns {
		names[i] = f.Name()
	}
	return names
}

// SequenceCost returns the total cost of removing boxes in the given order.
func (a *Assigner) SequenceCost(seq []geometry.Box) float64 {
	var sum float64
	for i := 1; i < len(seq); i++ {
		sum += a.Cost(seq[i-1], seq[i])
	}
	return sum
}
