package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters aggregates hook events in memory. It implements every hook
// interface; register it with [Use]. The zero value is ready to use.
type Counters struct {
	builds       atomic.Int64
	buildErrors  atomic.Int64
	edges        atomic.Int64
	searches     atomic.Int64
	searchErrors atomic.Int64
	explored     atomic.Int64
	pruned       atomic.Int64
	searchNanos  atomic.Int64

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	cacheWrites atomic.Int64
	cacheBytes  atomic.Int64

	requests  atomic.Int64
	responses [6]atomic.Int64 // by status class; index 0 collects the rest
}

// NewCounters returns empty counters.
func NewCounters() *Counters { return &Counters{} }

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Builds       int64         `json:"builds"`
	BuildErrors  int64         `json:"build_errors"`
	Edges        int64         `json:"edges"`
	Searches     int64         `json:"searches"`
	SearchErrors int64         `json:"search_errors"`
	Explored     int64         `json:"explored"`
	Pruned       int64         `json:"pruned"`
	SearchTime   time.Duration `json:"search_time_ns"`

	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	CacheWrites int64 `json:"cache_writes"`
	CacheBytes  int64 `json:"cache_bytes"`

	Requests  int64            `json:"requests"`
	Responses map[string]int64 `json:"responses"`
}

// Snapshot copies the current values. Response counts are keyed by status
// class ("2xx", "4xx", ...); empty classes are left out.
func (c *Counters) Snapshot() Snapshot {
	s := Snapshot{
		Builds:       c.builds.Load(),
		BuildErrors:  c.buildErrors.Load(),
		Edges:        c.edges.Load(),
		Searches:     c.searches.Load(),
		SearchErrors: c.searchErrors.Load(),
		Explored:     c.explored.Load(),
		Pruned:       c.pruned.Load(),
		SearchTime:   time.Duration(c.searchNanos.Load()),
		CacheHits:    c.cacheHits.Load(),
		CacheMisses:  c.cacheMisses.Load(),
		CacheWrites:  c.cacheWrites.Load(),
		CacheBytes:   c.cacheBytes.Load(),
		Requests:     c.requests.Load(),
		Responses:    make(map[string]int64),
	}
	for class := range c.responses {
		n := c.responses[class].Load()
		if n == 0 {
			continue
		}
		key := "other"
		if class > 0 {
			key = string(rune('0'+class)) + "xx"
		}
		s.Responses[key] = n
	}
	return s
}

func (c *Counters) OnBuildStart(context.Context, int, []string) {}

func (c *Counters) OnBuildComplete(_ context.Context, edges int, _ time.Duration, err error) {
	c.builds.Add(1)
	if err != nil {
		c.buildErrors.Add(1)
		return
	}
	c.edges.Add(int64(edges))
}

func (c *Counters) OnSearchStart(context.Context, string, int) {}

func (c *Counters) OnSearchComplete(_ context.Context, _ string, explored, pruned int64, d time.Duration, err error) {
	c.searches.Add(1)
	if err != nil {
		c.searchErrors.Add(1)
	}
	c.explored.Add(explored)
	c.pruned.Add(pruned)
	c.searchNanos.Add(int64(d))
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.cacheWrites.Add(1)
	c.cacheBytes.Add(int64(size))
}

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	class := status / 100
	if class < 1 || class >= len(c.responses) {
		class = 0
	}
	c.responses[class].Add(1)
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
