package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/stackplan/pkg/cost"
	"github.com/matzehuels/stackplan/pkg/depgraph"
	"github.com/matzehuels/stackplan/pkg/geometry"
)

// ErrCyclicDependency is returned when boxes remain but none of them can be
// removed.
var ErrCyclicDependency = errors.New("cyclic dependency: no removable box left")

// DefaultCheckEvery is the number of expansions between context checks and
// progress reports when [Search.CheckEvery] is zero.
const DefaultCheckEvery = 4096

// Stats counts the work done by one run.
type Stats struct {
	Explored     int64         `json:"explored"`
	Pruned       int64         `json:"pruned"`
	Improvements int           `json:"improvements"`
	Best         float64       `json:"best"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Result is the outcome of a run.
type Result struct {
	Sequence []geometry.Box `json:"sequence"`
	Cost     float64        `json:"cost"`
	Stats    Stats          `json:"stats"`
}

// Search holds the configuration of a sequence search. The zero value prices
// every transition at zero.
type Search struct {
	Assigner *cost.Assigner

	// Progress, if set, is called every CheckEvery expansions and whenever
	// the best sequence improves.
	Progress func(Stats)

	CheckEvery int
}

type run struct {
	ctx      context.Context
	g        *depgraph.Graph
	as       *cost.Assigner
	lb       float64
	n        int
	every    int64
	progress func(Stats)
	start    time.Time

	path    []geometry.Box
	best    float64
	bestSeq []geometry.Box
	stats   Stats
}

// Run returns the cheapest valid removal sequence of g. The graph is
// mutated during the search and restored before Run returns.
func (s *Search) Run(ctx context.Context, g *depgraph.Graph) (Result, error) {
	as := s.Assigner
	if as == nil {
		as = cost.NewAssigner()
	}
	every := s.CheckEvery
	if every <= 0 {
		every = DefaultCheckEvery
	}
	r := &run{
		ctx:      ctx,
		g:        g,
		as:       as,
		lb:       as.LowerBound(),
		n:        g.Len(),
		every:    int64(every),
		progress: s.Progress,
		start:    time.Now(),
	}
	if r.n == 0 {
		return Result{Sequence: []geometry.Box{}}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	seq, err := Greedy(g)
	if err != nil {
		return Result{}, err
	}
	r.bestSeq = seq
	r.best = as.SequenceCost(seq)
	r.stats.Best = r.best
	r.path = make([]geometry.Box, r.n)

	if err := r.dfs(0, 0); err != nil {
		return Result{}, err
	}
	r.stats.Elapsed = time.Since(r.start)
	r.report()
	return Result{Sequence: r.bestSeq, Cost: r.best, Stats: r.stats}, nil
}

func (r *run) dfs(depth int, acc float64) error {
	if depth == r.n {
		if acc < r.best {
			r.best = acc
			r.bestSeq = append(r.bestSeq[:0], r.path...)
			r.stats.Improvements++
			r.stats.Best = acc
			r.report()
		}
		return nil
	}

	r.stats.Explored++
	if r.stats.Explored%r.every == 0 {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		r.report()
	}

	candidates := r.g.RemovableNodes()
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %d boxes left", ErrCyclicDependency, r.n-depth)
	}
	remaining := float64(r.n - depth - 1)
	for _, c := range candidates {
		next := acc
		if depth > 0 {
			next += r.as.Cost(r.path[depth-1], c)
		}
		if next+remaining*r.lb >= r.best {
			r.stats.Pruned++
			continue
		}
		undo, err := r.g.RemoveNode(c.ID)
		if err != nil {
			return err
		}
		r.path[depth] = c
		err = r.dfs(depth+1, next)
		if rerr := r.g.Restore(undo); rerr != nil {
			return errors.Join(err, rerr)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *run) report() {
	if r.progress == nil {
		return
	}
	st := r.stats
	st.Elapsed = time.Since(r.start)
	r.progress(st)
}

// Greedy returns the sequence obtained by always removing the removable box
// with the lowest ID. g is restored before returning.
func Greedy(g *depgraph.Graph) (seq []geometry.Box, err error) {
	undo := make([]depgraph.Removal, 0, g.Len())
	defer func() {
		for i := len(undo) - 1; i >= 0; i-- {
			if rerr := g.Restore(undo[i]); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
	}()
	for g.Len() > 0 {
		candidates := g.RemovableNodes()
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %d boxes left", ErrCyclicDependency, g.Len())
		}
		r, err := g.RemoveNode(candidates[0].ID)
		if err != nil {
			return nil, err
		}
		undo = append(undo, r)
		seq = append(seq, candidates[0])
	}
	return seq, nil
}

// Valid reports whether seq removes every box of g exactly once without
// violating a dependency. g is left unchanged.
func Valid(g *depgraph.Graph, seq []geometry.Box) (err error) {
	if len(seq) != g.Len() {
		return fmt.Errorf("sequence has %d boxes, graph has %d", len(seq), g.Len())
	}
	undo := make([]depgraph.Removal, 0, len(seq))
	defer func() {
		for i := len(undo) - 1; i >= 0; i-- {
			if rerr := g.Restore(undo[i]); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
	}()
	for i, b := range seq {
		r, err := g.RemoveNode(b.ID)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		undo = append(undo, r)
	}
	return nil
}
