package depgraph

import "fmt"

type freed struct {
	slot int
	h    handle
}

// Removal records one [Graph.RemoveNode] so it can be reversed by
// [Graph.Restore]. The zero value restores nothing and is rejected.
type Removal struct {
	h       handle
	valid   bool
	edges   []edgeKey
	freed   []freed
	wasFree []int
}

// ID returns the ID of the removed box.
func (r Removal) ID(g *Graph) string {
	if !r.valid || int(r.h) >= len(g.nodes) {
		return ""
	}
	return g.nodes[r.h].box.ID
}

// Freed returns how many (node, direction) pairs became removable because of
// this removal.
func (r Removal) Freed() int { return len(r.freed) }

// RemoveNode deletes a removable node and all its incident edges. Targets
// of its outgoing edges whose in-degree drops to zero for a direction become
// removable for that direction.
func (g *Graph) RemoveNode(id string) (Removal, error) {
	h, err := g.lookup(id)
	if err != nil {
		return Removal{}, err
	}
	if !g.removableAny(h) {
		return Removal{}, fmt.Errorf("%w: %s", ErrNotRemovable, id)
	}

	n := &g.nodes[h]
	r := Removal{h: h, valid: true, edges: make([]edgeKey, 0, len(n.in)+len(n.out))}
	for slot, set := range g.removable {
		if _, ok := set[h]; ok {
			r.wasFree = append(r.wasFree, slot)
			delete(set, h)
		}
	}

	for _, k := range n.in {
		delete(g.edges, k)
		src := &g.nodes[k.from]
		src.out = dropEdge(src.out, k)
		r.edges = append(r.edges, k)
	}
	for _, k := range n.out {
		delete(g.edges, k)
		dst := &g.nodes[k.to]
		dst.in = dropEdge(dst.in, k)
		dst.inCount[k.slot]--
		if dst.inCount[k.slot] == 0 {
			g.removable[k.slot][k.to] = struct{}{}
			r.freed = append(r.freed, freed{slot: k.slot, h: k.to})
		}
		r.edges = append(r.edges, k)
	}

	clear(n.inCount)
	n.in, n.out = nil, nil
	n.alive = false
	g.live--
	return r, nil
}

// Restore reverses r, returning the graph to the exact state it had before
// the corresponding RemoveNode. Removals must be restored in LIFO order.
func (g *Graph) Restore(r Removal) error {
	if !r.valid || int(r.h) >= len(g.nodes) || g.nodes[r.h].alive {
		return ErrInvalidRestore
	}
	for _, k := range r.edges {
		other := k.from
		if other == r.h {
			other = k.to
		}
		if !g.nodes[other].alive {
			return fmt.Errorf("%w: neighbour %s is not in the graph", ErrInvalidRestore, g.nodes[other].box.ID)
		}
	}

	g.nodes[r.h].alive = true
	g.live++
	for _, f := range r.freed {
		delete(g.removable[f.slot], f.h)
	}
	for _, k := range r.edges {
		g.link(k)
	}
	for _, slot := range r.wasFree {
		g.removable[slot][r.h] = struct{}{}
	}
	return nil
}

func dropEdge(list []edgeKey, k edgeKey) []edgeKey {
	for i, e := range list {
		if e == k {
			list[i] = list[len(list)-1]
			return list[:len(list)-1]
		}
	}
	return list
}
