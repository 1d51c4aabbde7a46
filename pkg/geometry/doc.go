// Package geometry provides the value types shared by every stage of the
// unstacking planner: points, axis-aligned bounding boxes, oriented planes,
// access directions and the boxes being planned.
//
// # Points
//
// [Point] is an alias for [r3.Vector] so that vector arithmetic (Add, Sub,
// Dot, Cross, Normalize) comes from github.com/golang/geo/r3 rather than
// being reimplemented here.
//
// # Bounding Boxes
//
// An [AABB] is defined by its low and high corners and requires low < high
// strictly on every axis. Derived values ([AABB.Center], [AABB.Radius]) are
// rounded to five decimals (halves away from zero) so that repeated
// arithmetic on the same input always yields the same bucket and the same
// plane offsets.
//
// Radius is the Chebyshev half extent: the largest per-axis half size. It is
// not a bounding-sphere radius; the loose octree only needs axis-aligned
// containment.
//
// # Directions
//
// A [Direction] names one of the six faces of a box, and therefore one of the
// six directions a box can be pulled out towards:
//
//	Front  = min Y    Back  = max Y
//	Left   = min X    Right = max X
//	Bottom = min Z    Top   = max Z
//
// Each direction also carries a fixed compass relation (opposite, left,
// right, above, below) used when building view regions. The relation is a
// lookup table, not derived from the axis mapping.
//
// [r3.Vector]: https://pkg.go.dev/github.com/golang/geo/r3#Vector
package geometry
