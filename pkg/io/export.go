package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stackplan/pkg/depgraph"
	"github.com/matzehuels/stackplan/pkg/geometry"
)

type graph struct {
	Directions []geometry.Direction `json:"directions"`
	Nodes      []node               `json:"nodes"`
	Edges      []depgraph.Edge      `json:"edges"`
}

type node struct {
	ID        string    `json:"id"`
	Article   string    `json:"article,omitempty"`
	Low       []float64 `json:"low"`
	High      []float64 `json:"high"`
	Removable bool      `json:"removable,omitempty"`
}

// WriteJSON encodes a dependency graph as JSON and writes it to w.
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *depgraph.Graph, w io.Writer) error {
	boxes := g.Nodes()
	out := graph{
		Directions: g.Directions(),
		Nodes:      make([]node, len(boxes)),
		Edges:      g.Edges(),
	}
	for i, b := range boxes {
		out.Nodes[i] = node{
			ID:        b.ID,
			Article:   b.Article,
			Low:       []float64{b.Bounds.Low.X, b.Bounds.Low.Y, b.Bounds.Low.Z},
			High:      []float64{b.Bounds.High.X, b.Bounds.High.Y, b.Bounds.High.Z},
			Removable: g.IsRemovable(b.ID),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a dependency graph to a JSON file at path.
func ExportJSON(g *depgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
