// Package search finds the cheapest removal sequence for a dependency graph.
//
// [Search.Run] performs an exact branch-and-bound over every valid removal
// order of a [depgraph.Graph]:
//
//  1. A greedy pass removes the lowest-ID removable box at each step. Its
//     total cost seeds the best-known upper bound.
//  2. A depth-first search enumerates removable boxes in ID order. A partial
//     sequence is pruned when its accumulated cost plus the remaining number
//     of transitions times the cost model's lower bound reaches the best
//     known total. Ties are pruned, so the first sequence found at the
//     optimal cost is the one returned.
//  3. Descending removes a box from the graph and backtracking restores it
//     from the [depgraph.Removal] undo record. The graph is never copied.
//
// The search works on the graph it is given and leaves it exactly as it
// found it, including on error.
//
// A non-empty graph with no removable box cannot make progress; Run reports
// [ErrCyclicDependency] instead of a partial sequence.
//
// Runtime is exponential in the number of boxes. Run checks its context
// every [Search.CheckEvery] expansions and stops with the context's error
// when it is cancelled or its deadline passes.
package search
