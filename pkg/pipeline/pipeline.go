// Package pipeline provides the planning pipeline shared by the CLI and the
// HTTP API.
//
// The pipeline takes validated boxes and options through two stages:
//
//  1. Build: index the boxes in a loose octree and derive one or more
//     obstruction graphs for the requested access directions
//  2. Search: run the exact branch-and-bound search on each graph and keep
//     the cheapest sequence
//
// By centralizing this logic, both entry points share defaults, validation,
// caching and error codes.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    WorldSize:  64,
//	    Directions: []geometry.Direction{geometry.Front},
//	}
//	result, err := runner.Execute(ctx, boxes, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(geometry.IDs(result.Sequence), result.Cost)
//
// Or call the boundary operation directly, without caching:
//
//	seq, err := pipeline.FindOptimalSequence(ctx, boxes, 6, 64, dirs, false, fns)
package pipeline

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/stackplan/pkg/cache"
	"github.com/matzehuels/stackplan/pkg/cost"
	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/search"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxDepth is the deepest octree level boxes are sorted into.
	DefaultMaxDepth = 6

	// DefaultWorldSize is the edge length of the cubic world centred on the
	// origin. Every box must fit inside it.
	DefaultWorldSize = 64.0

	// DefaultTimeout bounds the search stage. The search is exponential in
	// the number of boxes, so an unbounded run can take arbitrarily long.
	DefaultTimeout = 60 * time.Second
)

// DefaultDirections is used when no access direction is given.
var DefaultDirections = []geometry.Direction{geometry.Top}

// DefaultCosts is the cost model used when none is given.
var DefaultCosts = []CostSpec{
	{Kind: cost.KindHeightDifference, Weight: 1},
	{Kind: cost.KindItemChange, Weight: 1},
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// CostSpec names one cost function and its weight.
type CostSpec struct {
	Kind   string  `json:"kind" toml:"kind"`
	Weight float64 `json:"weight" toml:"weight"`
}

// String formats the spec as kind=weight.
func (c CostSpec) String() string {
	return c.Kind + "=" + strconv.FormatFloat(c.Weight, 'g', -1, 64)
}

// Options contains all configuration for a planning run.
// This struct supports JSON serialization for API requests.
type Options struct {
	MaxDepth         int                  `json:"max_depth,omitempty"`
	WorldSize        float64              `json:"world_size,omitempty"`
	Directions       []geometry.Direction `json:"directions,omitempty"`
	AllowAlternating bool                 `json:"allow_alternating,omitempty"`
	Costs            []CostSpec           `json:"costs,omitempty"`
	Refresh          bool                 `json:"refresh,omitempty"`

	// Runtime options (not serialized)

	// Functions replaces Costs with arbitrary cost functions. Results
	// computed with Functions are not cached.
	Functions []cost.Function `json:"-"`

	// Timeout bounds the search stage. Zero uses DefaultTimeout; a negative
	// value disables the limit.
	Timeout time.Duration `json:"-"`

	// MaxBoxes rejects larger plans when positive.
	MaxBoxes int `json:"-"`

	// DepthLimit rejects deeper octrees when positive.
	DepthLimit int `json:"-"`

	// Progress receives periodic search statistics.
	Progress func(search.Stats) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// SetDefaults fills zero-valued fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.WorldSize == 0 {
		o.WorldSize = DefaultWorldSize
	}
	if len(o.Directions) == 0 {
		o.Directions = slices.Clone(DefaultDirections)
	}
	if len(o.Costs) == 0 && len(o.Functions) == 0 {
		o.Costs = slices.Clone(DefaultCosts)
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
}

// Validate checks the options. It returns coded errors from pkg/errors.
func (o *Options) Validate() error {
	if err := errs.ValidateMaxDepth(o.MaxDepth, o.DepthLimit); err != nil {
		return err
	}
	if err := errs.ValidateWorldSize(o.WorldSize); err != nil {
		return err
	}
	if len(o.Directions) == 0 {
		return errs.New(errs.ErrCodeInvalidDirection, "at least one direction is required")
	}
	seen := make(map[geometry.Direction]bool, len(o.Directions))
	for _, d := range o.Directions {
		if !d.Valid() {
			return errs.New(errs.ErrCodeInvalidDirection, "invalid direction %v", d)
		}
		if seen[d] {
			return errs.New(errs.ErrCodeInvalidDirection, "direction %s given twice", d)
		}
		seen[d] = true
	}
	for _, c := range o.Costs {
		if _, err := cost.NewFunction(c.Kind, c.Weight); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidCost, err, "cost %s", c)
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Assigner builds the cost assigner described by the options.
func (o *Options) Assigner() (*cost.Assigner, error) {
	if len(o.Functions) > 0 {
		return cost.NewAssigner(o.Functions...), nil
	}
	fns := make([]cost.Function, 0, len(o.Costs))
	for _, c := range o.Costs {
		f, err := cost.NewFunction(c.Kind, c.Weight)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidCost, err, "cost %s", c)
		}
		fns = append(fns, f)
	}
	return cost.NewAssigner(fns...), nil
}

// Cacheable reports whether results for these options may be cached.
func (o *Options) Cacheable() bool {
	return len(o.Functions) == 0
}

// PlanKeyOpts returns the cache key options of the run.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	costs := make([]string, len(o.Costs))
	for i, c := range o.Costs {
		costs[i] = c.String()
	}
	return cache.PlanKeyOpts{
		MaxDepth:         o.MaxDepth,
		WorldSize:        o.WorldSize,
		Directions:       directionNames(o.Directions),
		AllowAlternating: o.AllowAlternating,
		Costs:            costs,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a planning run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string `json:"run_id"`

	// Sequence is the removal order, first box removed first.
	Sequence []geometry.Box `json:"sequence"`

	// BuildOrder is Sequence reversed: the order to stack the boxes.
	BuildOrder []geometry.Box `json:"build_order"`

	// Cost is the total transition cost of Sequence.
	Cost float64 `json:"cost"`

	// Directions are the directions of the graph the sequence was found
	// on: one direction, or every requested direction when alternating.
	Directions []geometry.Direction `json:"directions"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Boxes        int           `json:"boxes"`
	Edges        int           `json:"edges"`
	Graphs       int           `json:"graphs"`
	Candidates   int           `json:"candidates"`
	Explored     int64         `json:"explored"`
	Pruned       int64         `json:"pruned"`
	Improvements int           `json:"improvements"`
	BuildTime    time.Duration `json:"build_time"`
	SearchTime   time.Duration `json:"search_time"`
}

// reverse returns a reversed copy of boxes.
func reverse(boxes []geometry.Box) []geometry.Box {
	out := slices.Clone(boxes)
	slices.Reverse(out)
	return out
}

// directionNames formats directions for logs and hooks.
func directionNames(dirs []geometry.Direction) []string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return names
}

func joinDirections(dirs []geometry.Direction) string {
	return strings.Join(directionNames(dirs), "+")
}
