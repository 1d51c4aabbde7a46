// Package render draws dependency graphs as node-link diagrams.
//
// # Overview
//
// [ToDOT] converts a [depgraph.Graph] into Graphviz DOT source. Every box
// becomes a node, every obstruction an arrow from the blocking box to the
// box it blocks, coloured by direction. Boxes that can be removed right
// away are highlighted, and when a removal sequence is supplied each node
// is labelled with its step.
//
//	dot := render.ToDOT(g, render.Options{Sequence: geometry.IDs(seq)})
//	svg, err := render.RenderSVG(ctx, dot)
//
// Servers keep one [Renderer] so the embedded Graphviz is initialized once.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output using the external rsvg-convert
// tool (from librsvg).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package render
