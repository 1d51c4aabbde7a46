// Package planfile reads plan files and writes planning results.
//
// # Plan Files
//
// A plan describes a stack of boxes and how to unstack it. Plans are
// written in TOML:
//
//	version = 1
//	world_size = 64
//	max_depth = 6
//	directions = ["top", "front"]
//	allow_alternating = false
//	timeout = "30s"
//
//	[[cost]]
//	kind = "height_difference"
//	weight = 1.0
//
//	[[box]]
//	id = "P1"
//	article = "A-100"
//	low = [0, 0, 0]
//	high = [1, 1, 1]
//
// Every setting except the boxes is optional; omitted values take the
// defaults from [pipeline.Options]. The same structure is accepted as JSON
// by [DecodeJSON], which the HTTP API uses for request bodies.
//
// # Results
//
// [NewOutput] flattens a [pipeline.Result] into the result document written
// by [WriteJSON]: the removal sequence with box corners as arrays, the
// stacking order as IDs, the cost and run statistics.
package planfile
