package pipeline

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackplan/pkg/cost"
	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/geometry"
)

// FindOptimalSequence returns the cheapest removal order of boxes. It runs
// without a cache or time limit and returns coded errors.
//
// Unlike [Options.SetDefaults], no argument falls back to a default: an
// empty dirs fails with INVALID_DIRECTION, and a maxDepth below 1 or a
// non-positive worldSize fails with INVALID_CONFIG. The depth has no
// upper bound here.
//
// With allowAlternating, every pick may use any of dirs. Otherwise each
// direction is planned on its own and the cheapest plan wins, the earliest
// direction on ties.
func FindOptimalSequence(ctx context.Context, boxes []geometry.Box, maxDepth int, worldSize float64,
	dirs []geometry.Direction, allowAlternating bool, fns []cost.Function) ([]geometry.Box, error) {
	if len(dirs) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidDirection, "at least one direction is required")
	}
	if err := errs.ValidateMaxDepth(maxDepth, 0); err != nil {
		return nil, err
	}
	if err := errs.ValidateWorldSize(worldSize); err != nil {
		return nil, err
	}
	opts := Options{
		MaxDepth:         maxDepth,
		WorldSize:        worldSize,
		Directions:       dirs,
		AllowAlternating: allowAlternating,
		Functions:        fns,
		Timeout:          -1,
	}
	if len(fns) == 0 {
		// An empty cost model must stay empty rather than fall back to the
		// defaults: every order then costs zero.
		opts.Functions = []cost.Function{nilFunction{}}
	}
	r := NewRunner(nil, nil, log.New(io.Discard))
	res, err := r.Execute(ctx, boxes, opts)
	if err != nil {
		return nil, err
	}
	return res.Sequence, nil
}

// nilFunction prices every transition at zero.
type nilFunction struct{}

func (nilFunction) Cost(geometry.Box, geometry.Box) float64 { return 0 }
func (nilFunction) LowerBound() float64                     { return 0 }
func (nilFunction) Name() string                            { return "none" }
