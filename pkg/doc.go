// Package pkg provides the core libraries for stackplan, a planner that
// finds the cheapest order to take a stack of boxes apart.
//
// # Overview
//
// A stack is a set of axis-aligned boxes inside a cubic world. Each box can
// only leave in one of six directions (front, back, left, right, top,
// bottom) once nothing is in its way. The packages build that "is in the
// way of" relation and search it for the cheapest removal sequence.
//
// # Architecture
//
//	boxes (planfile, API request)
//	         ↓
//	    [octree] loose octree bucketing every box by size and position
//	         ↓
//	    [obstruction] one frustum per box and direction, classified
//	                  against the candidates the octree returns
//	         ↓
//	    [depgraph] dependency graph with reversible removals
//	         ↓
//	    [search] branch-and-bound over removal orders, priced by [cost]
//	         ↓
//	    sequence (JSON result, DOT/SVG graph via [render])
//
// [pipeline] wires these stages together with validation, defaults,
// timeouts and result caching ([cache]), and is used by both the CLI and
// the HTTP API.
//
// # Main Packages
//
// [geometry] - Points (r3 vectors), planes, AABBs, directions and boxes.
//
// [octree] - Loose octree with looseness factor 2; boxes are stored at the
// depth matching their radius.
//
// [frustum] - Convex six-plane regions and the three-way
// not/partly/fully visible classification of AABBs.
//
// [obstruction] - Builds dependency graphs from an octree, one per
// direction or one merged graph when directions may alternate.
//
// [depgraph] - Dependency graph over boxes with removable-node tracking and
// exact undo of removals.
//
// [cost] - Transition cost functions and their summing assigner.
//
// [search] - Exact branch-and-bound sequence search.
//
// # Supporting Packages
//
// [pipeline] - Options, defaults, the cached Runner and FindOptimalSequence.
//
// [planfile] - TOML plan files and JSON result documents.
//
// [render] - DOT, SVG, PDF and PNG drawings of dependency graphs.
//
// [cache] - File, Redis and null result caches with content-hash keys.
//
// [errors] - Error codes and input validation.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [buildinfo] - Version information set at build time.
//
// # Quick Start
//
//	seq, err := pipeline.FindOptimalSequence(ctx, boxes, 6, 64,
//	    []geometry.Direction{geometry.Top}, false,
//	    []cost.Function{cost.ItemChange{Penalty: 1}})
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//
// Set STACKPLAN_TEST_REDIS_URL to also run the Redis cache tests.
package pkg
