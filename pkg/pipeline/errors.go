package pipeline

import (
	"context"
	"errors"

	"github.com/matzehuels/stackplan/pkg/cost"
	"github.com/matzehuels/stackplan/pkg/depgraph"
	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/octree"
	"github.com/matzehuels/stackplan/pkg/search"
)

// codeFor maps domain sentinel errors to error codes. Order matters: the
// first match wins.
var codeFor = []struct {
	err  error
	code errs.Code
}{
	{search.ErrCyclicDependency, errs.ErrCodeCyclicDependency},
	{depgraph.ErrCycle, errs.ErrCodeCyclicDependency},
	{octree.ErrOutOfWorld, errs.ErrCodeOutOfWorld},
	{octree.ErrInvalidRadius, errs.ErrCodeOutOfWorld},
	{octree.ErrInvalidConfig, errs.ErrCodeInvalidConfig},
	{octree.ErrInvalidDepth, errs.ErrCodeInvalidConfig},
	{geometry.ErrInvalidAABB, errs.ErrCodeInvalidGeometry},
	{geometry.ErrInvalidBoxID, errs.ErrCodeInvalidGeometry},
	{geometry.ErrInvalidDirection, errs.ErrCodeInvalidDirection},
	{depgraph.ErrUnknownDirection, errs.ErrCodeInvalidDirection},
	{depgraph.ErrNoDirections, errs.ErrCodeInvalidDirection},
	{depgraph.ErrDuplicateNode, errs.ErrCodeDuplicateBox},
	{cost.ErrUnknownFunction, errs.ErrCodeInvalidCost},
	{cost.ErrNegativeWeight, errs.ErrCodeInvalidCost},
	{context.DeadlineExceeded, errs.ErrCodeTimeout},
	{context.Canceled, errs.ErrCodeCanceled},
}

// Classify tags err with an error code. Errors that already carry a code are
// returned unchanged; unknown errors become INTERNAL_ERROR. The original
// error stays reachable through errors.Is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errs.GetCode(err) != "" {
		return err
	}
	for _, m := range codeFor {
		if errors.Is(err, m.err) {
			return errs.Wrap(m.code, err, "plan failed")
		}
	}
	return errs.Wrap(errs.ErrCodeInternal, err, "plan failed")
}

// ValidateBoxes checks every box and rejects duplicate IDs. limit bounds
// the number of boxes when positive.
func ValidateBoxes(boxes []geometry.Box, limit int) error {
	if err := errs.ValidateBoxCount(len(boxes), limit); err != nil {
		return err
	}
	seen := make(map[string]bool, len(boxes))
	for _, b := range boxes {
		if err := errs.ValidateBoxID(b.ID); err != nil {
			return err
		}
		if err := errs.ValidateArticle(b.Article); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "box %s", b.ID)
		}
		if err := b.Validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidGeometry, err, "box %s", b.ID)
		}
		if seen[b.ID] {
			return errs.New(errs.ErrCodeDuplicateBox, "box id %q used more than once", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}
