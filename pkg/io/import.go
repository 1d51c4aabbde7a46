package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stackplan/pkg/depgraph"
	"github.com/matzehuels/stackplan/pkg/geometry"
)

// ReadJSON decodes a JSON graph from r into a dependency graph.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - The graph has no valid directions
//   - A node has a duplicate ID or invalid corners
//   - An edge references an unknown node, repeats or loops on one node
//
// Errors wrap the depgraph and geometry sentinels; use errors.Is to check
// for them.
func ReadJSON(r io.Reader) (*depgraph.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g, err := depgraph.New(data.Directions...)
	if err != nil {
		return nil, err
	}
	for _, n := range data.Nodes {
		low, err := point(n.Low)
		if err != nil {
			return nil, fmt.Errorf("node %s low: %w", n.ID, err)
		}
		high, err := point(n.High)
		if err != nil {
			return nil, fmt.Errorf("node %s high: %w", n.ID, err)
		}
		b, err := geometry.NewBox(n.ID, n.Article, low, high)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		if err := g.AddNode(b); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e.From, e.To, e.Direction); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e, err)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*depgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func point(v []float64) (geometry.Point, error) {
	if len(v) != 3 {
		return geometry.Point{}, fmt.Errorf("%w: want 3 coordinates, got %d", geometry.ErrInvalidAABB, len(v))
	}
	return geometry.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}
