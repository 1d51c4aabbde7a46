package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stackplan/pkg/cache"
	"github.com/matzehuels/stackplan/pkg/depgraph"
	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/observability"
	"github.com/matzehuels/stackplan/pkg/obstruction"
	"github.com/matzehuels/stackplan/pkg/octree"
	"github.com/matzehuels/stackplan/pkg/search"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different inputs; every run builds its own graphs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → search pipeline with caching. Errors
// carry a code from pkg/errors (see [Classify]).
func (r *Runner) Execute(ctx context.Context, boxes []geometry.Box, opts Options) (*Result, error) {
	res, err := r.execute(ctx, boxes, opts)
	if err != nil {
		return nil, Classify(err)
	}
	return res, nil
}

func (r *Runner) execute(ctx context.Context, boxes []geometry.Box, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ValidateBoxes(boxes, opts.MaxBoxes); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])

	var key string
	if opts.Cacheable() {
		hash, err := HashBoxes(boxes)
		if err != nil {
			return nil, fmt.Errorf("hash boxes: %w", err)
		}
		key = r.Keyer.PlanKey(hash, opts.PlanKeyOpts())
		if !opts.Refresh {
			if cached, ok := r.lookup(ctx, key, logger); ok {
				cached.RunID = runID
				cached.CacheHit = true
				logger.Info("plan served from cache", "boxes", len(boxes), "cost", cached.Cost)
				return cached, nil
			}
		}
	}

	graphs, bstats, buildTime, err := r.buildGraphs(ctx, boxes, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	searchStart := time.Now()
	res, err := r.searchGraphs(ctx, graphs, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	res.RunID = runID
	res.Stats.Boxes = len(boxes)
	res.Stats.Graphs = len(graphs)
	res.Stats.Edges = bstats.Edges
	res.Stats.Candidates = bstats.Candidates
	res.Stats.BuildTime = buildTime
	res.Stats.SearchTime = time.Since(searchStart)

	logger.Info("found sequence",
		"boxes", len(boxes),
		"cost", res.Cost,
		"directions", joinDirections(res.Directions),
		"explored", res.Stats.Explored,
		"pruned", res.Stats.Pruned,
		"duration", res.Stats.SearchTime)

	if key != "" {
		r.store(ctx, key, res, logger)
	}
	return res, nil
}

// BuildGraphs validates boxes and derives the obstruction graphs for opts.
func (r *Runner) BuildGraphs(ctx context.Context, boxes []geometry.Box, opts Options) ([]*depgraph.Graph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ValidateBoxes(boxes, opts.MaxBoxes); err != nil {
		return nil, err
	}
	graphs, _, _, err := r.buildGraphs(ctx, boxes, opts, r.Logger)
	if err != nil {
		return nil, Classify(err)
	}
	return graphs, nil
}

// SelectGraph returns the graph covering the named direction, or the first
// graph when name is empty.
func SelectGraph(graphs []*depgraph.Graph, name string) (*depgraph.Graph, error) {
	if len(graphs) == 0 {
		return nil, errs.New(errs.ErrCodeNotFound, "no graphs")
	}
	if name == "" {
		return graphs[0], nil
	}
	d, err := geometry.ParseDirection(name)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDirection, err, "graph direction")
	}
	for _, g := range graphs {
		if slices.Contains(g.Directions(), d) {
			return g, nil
		}
	}
	return nil, errs.New(errs.ErrCodeNotFound, "no graph for direction %s", d)
}

func (r *Runner) buildGraphs(ctx context.Context, boxes []geometry.Box, opts Options, logger *log.Logger) ([]*depgraph.Graph, obstruction.Stats, time.Duration, error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(boxes), directionNames(opts.Directions))

	graphs, stats, err := build(boxes, opts)
	elapsed := time.Since(start)
	hooks.OnBuildComplete(ctx, stats.Edges, elapsed, err)
	if err != nil {
		return nil, stats, elapsed, err
	}

	logger.Info("built obstruction graphs",
		"boxes", len(boxes),
		"graphs", len(graphs),
		"edges", stats.Edges,
		"duration", elapsed)
	for _, g := range graphs {
		logger.Debug("graph",
			"directions", joinDirections(g.Directions()),
			"edges", g.EdgeCount(),
			"removable", len(g.RemovableNodes()))
	}
	return graphs, stats, elapsed, nil
}

func build(boxes []geometry.Box, opts Options) ([]*depgraph.Graph, obstruction.Stats, error) {
	tree, err := octree.New(opts.MaxDepth, opts.WorldSize)
	if err != nil {
		return nil, obstruction.Stats{}, err
	}
	sorted := slices.Clone(boxes)
	slices.SortFunc(sorted, geometry.CompareByID)
	if err := tree.InsertAll(sorted); err != nil {
		return nil, obstruction.Stats{}, err
	}
	bl, err := obstruction.NewBuilder(tree, sorted)
	if err != nil {
		return nil, obstruction.Stats{}, err
	}
	graphs, err := bl.Build(opts.Directions, opts.AllowAlternating)
	return graphs, bl.Stats(), err
}

// searchGraphs searches every graph and keeps the cheapest sequence; the
// earliest graph wins ties. Deadlocked graphs are skipped as long as one
// graph yields a sequence.
func (r *Runner) searchGraphs(ctx context.Context, graphs []*depgraph.Graph, opts Options, logger *log.Logger) (*Result, error) {
	assigner, err := opts.Assigner()
	if err != nil {
		return nil, err
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	hooks := observability.Pipeline()
	var (
		best     *Result
		deadlock error
		explored int64
		pruned   int64
		improved int
	)
	for _, g := range graphs {
		name := joinDirections(g.Directions())
		hooks.OnSearchStart(ctx, name, g.Len())
		s := &search.Search{Assigner: assigner, Progress: opts.Progress}
		res, err := s.Run(ctx, g)
		hooks.OnSearchComplete(ctx, name, res.Stats.Explored, res.Stats.Pruned, res.Stats.Elapsed, err)

		if errors.Is(err, search.ErrCyclicDependency) {
			logger.Warn("no valid sequence", "directions", name, "err", err)
			if deadlock == nil {
				deadlock = fmt.Errorf("%s: %w", name, err)
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		explored += res.Stats.Explored
		pruned += res.Stats.Pruned
		improved += res.Stats.Improvements
		logger.Debug("searched", "directions", name, "cost", res.Cost, "explored", res.Stats.Explored)
		if best == nil || res.Cost < best.Cost {
			best = &Result{Sequence: res.Sequence, Cost: res.Cost, Directions: g.Directions()}
		}
	}
	if best == nil {
		return nil, deadlock
	}
	best.BuildOrder = reverse(best.Sequence)
	best.Stats.Explored = explored
	best.Stats.Pruned = pruned
	best.Stats.Improvements = improved
	return best, nil
}

func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (*Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "plan")
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		logger.Warn("discarding undecodable cache entry", "err", err)
		hooks.OnCacheMiss(ctx, "plan")
		return nil, false
	}
	hooks.OnCacheHit(ctx, "plan")
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result, logger *log.Logger) {
	data, err := json.Marshal(res)
	if err != nil {
		logger.Warn("cannot encode result for cache", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "plan", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// HashBoxes hashes boxes independently of their order.
func HashBoxes(boxes []geometry.Box) (string, error) {
	sorted := slices.Clone(boxes)
	slices.SortFunc(sorted, geometry.CompareByID)
	return cache.HashJSON(sorted)
}
