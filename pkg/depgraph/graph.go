package depgraph

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/stackplan/pkg/geometry"
)

var (
	// ErrNoDirections is returned by [New] when no direction is given.
	ErrNoDirections = errors.New("graph needs at least one direction")

	// ErrDuplicateNode is returned by [Graph.AddNode] when a box with the same
	// ID is already present.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownNode is returned when an operation names a node that is not
	// (or no longer) in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] for an edge that already
	// exists with the same endpoints and direction.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrSelfLoop is returned by [Graph.AddEdge] when from and to are equal.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrUnknownDirection is returned by [Graph.AddEdge] and direction
	// queries for a direction the graph was not created with, including the
	// zero Direction.
	ErrUnknownDirection = errors.New("direction not tracked by graph")

	// ErrNotRemovable is returned by [Graph.RemoveNode] when the node still
	// has incoming edges for every tracked direction.
	ErrNotRemovable = errors.New("node is not removable")

	// ErrInvalidRestore is returned by [Graph.Restore] when the removal does
	// not match the current graph state (e.g. restored out of order).
	ErrInvalidRestore = errors.New("removal cannot be restored")

	// ErrCycle is returned by [Graph.DetectCycle] when the edges of one
	// direction form a cycle.
	ErrCycle = errors.New("dependency cycle")
)

// handle indexes the node arena.
type handle int

type edgeKey struct {
	from, to handle
	slot     int
}

type node struct {
	box     geometry.Box
	alive   bool
	out     []edgeKey
	in      []edgeKey
	inCount []int
}

// Edge is a read-only view of a dependency edge.
type Edge struct {
	From      string             `json:"from"`
	To        string             `json:"to"`
	Direction geometry.Direction `json:"direction"`
}

// String formats the edge as "from -> to (dir)".
func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s (%s)", e.From, e.To, e.Direction)
}

// Graph is a directed dependency graph over boxes. Use [New] to create one.
type Graph struct {
	dirs      []geometry.Direction
	slots     map[geometry.Direction]int
	nodes     []node
	index     map[string]handle
	edges     map[edgeKey]struct{}
	removable []map[handle]struct{}
	live      int
}

// New creates an empty graph tracking the given directions. Duplicate
// directions are collapsed; the first occurrence fixes the order.
func New(dirs ...geometry.Direction) (*Graph, error) {
	g := &Graph{
		slots: make(map[geometry.Direction]int),
		index: make(map[string]handle),
		edges: make(map[edgeKey]struct{}),
	}
	for _, d := range dirs {
		if !d.Valid() {
			return nil, fmt.Errorf("%w: %v", geometry.ErrInvalidDirection, d)
		}
		if _, ok := g.slots[d]; ok {
			continue
		}
		g.slots[d] = len(g.dirs)
		g.dirs = append(g.dirs, d)
		g.removable = append(g.removable, make(map[handle]struct{}))
	}
	if len(g.dirs) == 0 {
		return nil, ErrNoDirections
	}
	return g, nil
}

// Directions returns the tracked directions in creation order.
func (g *Graph) Directions() []geometry.Direction { return slices.Clone(g.dirs) }

// Len returns the number of nodes currently in the graph.
func (g *Graph) Len() int { return g.live }

// EdgeCount returns the number of edges currently in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// AddNode adds box as a new node. A fresh node has no incoming edges and is
// removable for every direction.
func (g *Graph) AddNode(box geometry.Box) error {
	if h, ok := g.index[box.ID]; ok && g.nodes[h].alive {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, box.ID)
	}
	h := handle(len(g.nodes))
	g.nodes = append(g.nodes, node{
		box:     box,
		alive:   true,
		inCount: make([]int, len(g.dirs)),
	})
	g.index[box.ID] = h
	for _, set := range g.removable {
		set[h] = struct{}{}
	}
	g.live++
	return nil
}

// AddEdge adds from → to tagged with dir, meaning from must be removed
// before to. The target stops being removable for dir.
func (g *Graph) AddEdge(from, to string, dir geometry.Direction) error {
	slot, ok := g.slots[dir]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownDirection, dir)
	}
	hf, err := g.lookup(from)
	if err != nil {
		return err
	}
	ht, err := g.lookup(to)
	if err != nil {
		return err
	}
	if hf == ht {
		return fmt.Errorf("%w: %s", ErrSelfLoop, from)
	}
	k := edgeKey{from: hf, to: ht, slot: slot}
	if _, exists := g.edges[k]; exists {
		return fmt.Errorf("%w: %s -> %s (%s)", ErrDuplicateEdge, from, to, dir)
	}
	g.link(k)
	return nil
}

// HasEdge reports whether from → to tagged dir exists.
func (g *Graph) HasEdge(from, to string, dir geometry.Direction) bool {
	slot, ok := g.slots[dir]
	if !ok {
		return false
	}
	hf, err1 := g.lookup(from)
	ht, err2 := g.lookup(to)
	if err1 != nil || err2 != nil {
		return false
	}
	_, exists := g.edges[edgeKey{from: hf, to: ht, slot: slot}]
	return exists
}

// Node returns the box with the given ID if it is in the graph.
func (g *Graph) Node(id string) (geometry.Box, bool) {
	h, err := g.lookup(id)
	if err != nil {
		return geometry.Box{}, false
	}
	return g.nodes[h].box, true
}

// Nodes returns the boxes currently in the graph, sorted by ID.
func (g *Graph) Nodes() []geometry.Box {
	out := make([]geometry.Box, 0, g.live)
	for _, n := range g.nodes {
		if n.alive {
			out = append(out, n.box)
		}
	}
	slices.SortFunc(out, geometry.CompareByID)
	return out
}

// Edges returns every edge sorted by from, to, then direction.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for k := range g.edges {
		out = append(out, g.view(k))
	}
	slices.SortFunc(out, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To), cmp.Compare(a.Direction, b.Direction))
	})
	return out
}

// Predecessors returns the IDs of nodes with an edge into id for any
// direction, sorted and de-duplicated.
func (g *Graph) Predecessors(id string) []string {
	h, err := g.lookup(id)
	if err != nil {
		return nil
	}
	set := make(map[string]struct{})
	for _, k := range g.nodes[h].in {
		set[g.nodes[k.from].box.ID] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Successors returns the IDs of nodes id has an edge to for any direction,
// sorted and de-duplicated.
func (g *Graph) Successors(id string) []string {
	h, err := g.lookup(id)
	if err != nil {
		return nil
	}
	set := make(map[string]struct{})
	for _, k := range g.nodes[h].out {
		set[g.nodes[k.to].box.ID] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// InDegree returns the number of incoming edges tagged dir.
func (g *Graph) InDegree(id string, dir geometry.Direction) int {
	h, err := g.lookup(id)
	if err != nil {
		return 0
	}
	slot, ok := g.slots[dir]
	if !ok {
		return 0
	}
	return g.nodes[h].inCount[slot]
}

// IsRemovable reports whether id is removable for at least one direction.
func (g *Graph) IsRemovable(id string) bool {
	h, err := g.lookup(id)
	if err != nil {
		return false
	}
	return g.removableAny(h)
}

// IsRemovableFor reports whether id has no incoming edge tagged dir.
func (g *Graph) IsRemovableFor(id string, dir geometry.Direction) bool {
	h, err := g.lookup(id)
	if err != nil {
		return false
	}
	slot, ok := g.slots[dir]
	if !ok {
		return false
	}
	_, in := g.removable[slot][h]
	return in
}

// RemovableNodes returns the nodes removable for at least one direction,
// sorted by ID.
func (g *Graph) RemovableNodes() []geometry.Box {
	if len(g.removable) == 1 {
		return g.collect(g.removable[0])
	}
	union := make(map[handle]struct{})
	for _, set := range g.removable {
		maps.Copy(union, set)
	}
	return g.collect(union)
}

// RemovableNodesFor returns the nodes with no incoming edge tagged dir,
// sorted by ID. It returns nil for an untracked direction.
func (g *Graph) RemovableNodesFor(dir geometry.Direction) []geometry.Box {
	slot, ok := g.slots[dir]
	if !ok {
		return nil
	}
	return g.collect(g.removable[slot])
}

// DetectCycle returns ErrCycle if the edges tagged dir contain a cycle
// among the nodes still in the graph.
func (g *Graph) DetectCycle(dir geometry.Direction) error {
	slot, ok := g.slots[dir]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownDirection, dir)
	}
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(g.nodes))
	var cycleAt handle = -1

	var dfs func(h handle) bool
	dfs = func(h handle) bool {
		color[h] = gray
		for _, k := range g.nodes[h].out {
			if k.slot != slot {
				continue
			}
			switch color[k.to] {
			case white:
				if dfs(k.to) {
					return true
				}
			case gray:
				cycleAt = k.to
				return true
			}
		}
		color[h] = black
		return false
	}

	for _, h := range g.sortedHandles() {
		if color[h] == white && dfs(h) {
			return fmt.Errorf("%w: %s direction through %s", ErrCycle, dir, g.nodes[cycleAt].box.ID)
		}
	}
	return nil
}

func (g *Graph) lookup(id string) (handle, error) {
	h, ok := g.index[id]
	if !ok || !g.nodes[h].alive {
		return 0, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return h, nil
}

func (g *Graph) removableAny(h handle) bool {
	for _, c := range g.nodes[h].inCount {
		if c == 0 {
			return true
		}
	}
	return false
}

// link inserts k and updates counters and removable sets.
func (g *Graph) link(k edgeKey) {
	g.edges[k] = struct{}{}
	g.nodes[k.from].out = append(g.nodes[k.from].out, k)
	to := &g.nodes[k.to]
	to.in = append(to.in, k)
	to.inCount[k.slot]++
	delete(g.removable[k.slot], k.to)
}

func (g *Graph) view(k edgeKey) Edge {
	return Edge{From: g.nodes[k.from].box.ID, To: g.nodes[k.to].box.ID, Direction: g.dirs[k.slot]}
}

func (g *Graph) collect(set map[handle]struct{}) []geometry.Box {
	out := make([]geometry.Box, 0, len(set))
	for h := range set {
		out = append(out, g.nodes[h].box)
	}
	slices.SortFunc(out, geometry.CompareByID)
	return out
}

func (g *Graph) sortedHandles() []handle {
	hs := make([]handle, 0, g.live)
	for i, n := range g.nodes {
		if n.alive {
			hs = append(hs, handle(i))
		}
	}
	slices.SortFunc(hs, func(a, b handle) int {
		return cmp.Compare(g.nodes[a].box.ID, g.nodes[b].box.ID)
	})
	return hs
}

// Validate runs [Graph.DetectCycle] for every tracked direction and returns
// the first cycle found.
func (g *Graph) Validate() error {
	for _, d := range g.dirs {
		if err := g.DetectCycle(d); err != nil {
			return err
		}
	}
	return nil
}
