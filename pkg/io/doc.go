// Package io provides JSON import and export for dependency graphs.
//
// # JSON Format
//
// A graph is written as its directions, its boxes and its edges:
//
//	{
//	  "directions": ["top"],
//	  "nodes": [
//	    {"id": "bottom", "article": "A", "low": [0, 0, 0], "high": [1, 1, 1]},
//	    {"id": "top", "article": "A", "low": [0, 0, 1], "high": [1, 1, 2], "removable": true}
//	  ],
//	  "edges": [
//	    {"from": "top", "to": "bottom", "direction": "top"}
//	  ]
//	}
//
// An edge from a to b means a has to be removed before b can leave in the
// edge's direction. The removable flag is informational; it is recomputed
// on import.
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader. Both reject duplicate boxes, unknown edge endpoints
// and edges in directions the graph does not track.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to
// any io.Writer. Nodes and edges are written in ID order, so exporting the
// same graph twice produces identical output.
package io
