package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/stackplan/pkg/depgraph"
	"github.com/matzehuels/stackplan/pkg/geometry"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the article and box corners to node labels.
	Detailed bool

	// Sequence is an optional removal order (box IDs). Boxes in it are
	// labelled with their 1-based step.
	Sequence []string
}

var edgeColors = map[geometry.Direction]string{
	geometry.Front:  "#1f77b4",
	geometry.Back:   "#ff7f0e",
	geometry.Left:   "#2ca02c",
	geometry.Right:  "#d62728",
	geometry.Top:    "#9467bd",
	geometry.Bottom: "#8c564b",
}

// ToDOT converts a dependency graph to Graphviz DOT format. Nodes and
// edges are emitted in ID order so the output is stable.
func ToDOT(g *depgraph.Graph, opts Options) string {
	step := make(map[string]int, len(opts.Sequence))
	for i, id := range opts.Sequence {
		step[id] = i + 1
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", "directions: "+joinDirections(g.Directions()))
	buf.WriteString("\n")

	for _, b := range g.Nodes() {
		label := fmtLabel(b, step[b.ID], opts.Detailed)
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if g.IsRemovable(b.ID) {
			attrs = append(attrs, "fillcolor=\"#d9f2d9\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", b.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, tooltip=%q];\n", e.From, e.To, edgeColor(e.Direction), e.Direction.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(b geometry.Box, step int, detailed bool) string {
	label := b.ID
	if step > 0 {
		label = fmt.Sprintf("%d. %s", step, b.ID)
	}
	if !detailed {
		return label
	}
	parts := []string{label}
	if b.Article != "" {
		parts = append(parts, "article: "+b.Article)
	}
	parts = append(parts, b.Bounds.String())
	return strings.Join(parts, "\n")
}

func edgeColor(d geometry.Direction) string {
	if c, ok := edgeColors[d]; ok {
		return c
	}
	return "black"
}

func joinDirections(dirs []geometry.Direction) string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
