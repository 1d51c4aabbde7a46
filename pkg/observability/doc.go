// Package observability carries instrumentation events out of the planning
// packages without tying them to a metrics backend.
//
// Three hook interfaces cover the event sources: [PipelineHooks] for graph
// construction and search, [CacheHooks] for result and artifact caching,
// and [HTTPHooks] for the API server. Until something is registered every
// source reports to a no-op.
//
// Hooks are registered by main, never by libraries:
//
//	counters := observability.NewCounters()
//	observability.Use(counters)
//
// [Use] registers a value for every hook interface it implements.
// [Counters] implements all three and aggregates the events into a
// [Snapshot] that the server publishes on /metrics.
package observability
