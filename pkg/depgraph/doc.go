// Package depgraph provides the mutable dependency graph the sequence search
// runs on.
//
// # Model
//
// Nodes wrap boxes and are identified by box ID. A directed edge from → to
// tagged with a [geometry.Direction] means "from must be removed before to
// when accessing from that direction". A graph is created for a fixed set of
// directions; edges may only be tagged with one of them.
//
// A node is removable for direction d when it has no incoming edge tagged d.
// In the merged view (the default for [Graph.IsRemovable] and
// [Graph.RemovableNodes]) a node is removable when it is removable for at
// least one of the graph's directions. A single-direction graph therefore
// behaves like a plain "no incoming edges" graph.
//
// # Destructive Removal and Undo
//
// [Graph.RemoveNode] deletes a removable node together with every incident
// edge and returns a [Removal] describing exactly what changed: the edges
// deleted and the nodes that became removable as a result. [Graph.Restore]
// reverses a Removal. Removals must be restored in LIFO order, which is how
// a depth-first search uses them: descend with RemoveNode, backtrack with
// Restore. No graph copies are made.
//
// # Storage
//
// Nodes live in an arena indexed by integer handles, so removal and
// restoration only flip flags and edit small per-node slices. Per-direction
// in-degree counters make removability checks O(1).
//
// # Determinism
//
// Every query that returns several nodes or edges returns them sorted by box
// ID (then direction), never in map order.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. The search owns its graph
// exclusively for the duration of a run.
package depgraph
