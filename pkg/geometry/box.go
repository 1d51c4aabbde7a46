package geometry

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBoxID is returned by [NewBox] for an empty identifier.
var ErrInvalidBoxID = errors.New("box ID must not be empty")

// Box is a single item in the stack: a unique ID, the article number it
// carries and the space it occupies.
type Box struct {
	ID      string `json:"id"`
	Article string `json:"article,omitempty"`
	Bounds  AABB   `json:"bounds"`
}

// NewBox validates the corners and returns a Box.
func NewBox(id, article string, low, high Point) (Box, error) {
	if strings.TrimSpace(id) == "" {
		return Box{}, ErrInvalidBoxID
	}
	bounds, err := NewAABB(low, high)
	if err != nil {
		return Box{}, fmt.Errorf("box %s: %w", id, err)
	}
	return Box{ID: id, Article: article, Bounds: bounds}, nil
}

// Validate checks the ID and bounds of a box built without [NewBox], e.g.
// one decoded from JSON.
func (b Box) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrInvalidBoxID
	}
	if err := b.Bounds.Validate(); err != nil {
		return fmt.Errorf("box %s: %w", b.ID, err)
	}
	return nil
}

// Center returns the rounded centre of the box.
func (b Box) Center() Point { return b.Bounds.Center() }

// Radius returns the rounded Chebyshev radius of the box.
func (b Box) Radius() float64 { return b.Bounds.Radius() }

// String returns the ID followed by the bounds.
func (b Box) String() string { return b.ID + " " + b.Bounds.String() }

// CompareByID orders boxes by ID. It is the single tie-break used wherever
// the planner needs a deterministic order.
func CompareByID(a, b Box) int { return cmp.Compare(a.ID, b.ID) }

// IDs extracts the IDs of boxes, preserving order.
func IDs(boxes []Box) []string {
	ids := make([]string, len(boxes))
	for i, b := range boxes {
		ids[i] = b.ID
	}
	return ids
}
