package planfile

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/pipeline"
)

// Output is the result document of a planning run.
type Output struct {
	RunID      string         `json:"run_id"`
	Cost       float64        `json:"cost"`
	Directions []string       `json:"directions"`
	Sequence   []BoxSpec      `json:"sequence"`
	BuildOrder []string       `json:"build_order"`
	CacheHit   bool           `json:"cache_hit,omitempty"`
	Stats      pipeline.Stats `json:"stats"`
}

// NewOutput flattens res into an Output.
func NewOutput(res *pipeline.Result) *Output {
	out := &Output{
		RunID:      res.RunID,
		Cost:       res.Cost,
		Directions: make([]string, len(res.Directions)),
		Sequence:   make([]BoxSpec, len(res.Sequence)),
		BuildOrder: geometry.IDs(res.BuildOrder),
		CacheHit:   res.CacheHit,
		Stats:      res.Stats,
	}
	for i, d := range res.Directions {
		out.Directions[i] = d.String()
	}
	for i, b := range res.Sequence {
		out.Sequence[i] = BoxSpec{
			ID:      b.ID,
			Article: b.Article,
			Low:     coords(b.Bounds.Low),
			High:    coords(b.Bounds.High),
		}
	}
	return out
}

// WriteJSON writes the result document for res to w, indented.
func WriteJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewOutput(res)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
