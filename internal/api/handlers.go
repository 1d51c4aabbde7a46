package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/matzehuels/stackplan/pkg/buildinfo"
	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/geometry"
	graphio "github.com/matzehuels/stackplan/pkg/io"
	"github.com/matzehuels/stackplan/pkg/pipeline"
	"github.com/matzehuels/stackplan/pkg/planfile"
	"github.com/matzehuels/stackplan/pkg/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	boxes, opts, err := s.decodePlan(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), boxes, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, planfile.NewOutput(res))
}

// handleGraph returns one obstruction graph of the plan. The format query
// parameter selects "dot" (default), "svg" or "json"; direction selects the graph
// when the plan has several; annotate=true numbers the nodes with the
// optimal removal sequence.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "dot"
	}
	if format != "dot" && format != "svg" && format != "json" {
		writeError(w, errs.New(errs.ErrCodeInvalidFormat, "unsupported graph format %q", format))
		return
	}

	boxes, opts, err := s.decodePlan(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	graphs, err := s.runner.BuildGraphs(r.Context(), boxes, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := pipeline.SelectGraph(graphs, q.Get("direction"))
	if err != nil {
		writeError(w, err)
		return
	}

	var ro render.Options
	if q.Get("annotate") == "true" {
		seq, err := s.sequenceFor(r.Context(), boxes, opts, g.Directions())
		if err != nil {
			writeError(w, err)
			return
		}
		ro.Sequence = seq
	}

	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		if err := graphio.WriteJSON(g, w); err != nil {
			s.logger.Warn("write graph", "err", err)
		}
		return
	}

	dot := render.ToDOT(g, ro)
	if format == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = w.Write([]byte(dot))
		return
	}
	svg, err := s.svg.SVG(r.Context(), dot)
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// sequenceFor plans on exactly the directions of one graph.
func (s *Server) sequenceFor(ctx context.Context, boxes []geometry.Box, opts pipeline.Options, dirs []geometry.Direction) ([]string, error) {
	opts.Directions = dirs
	res, err := s.runner.Execute(ctx, boxes, opts)
	if err != nil {
		return nil, err
	}
	return geometry.IDs(res.Sequence), nil
}

// decodePlan reads a JSON plan from the request body and applies the
// server limits.
func (s *Server) decodePlan(w http.ResponseWriter, r *http.Request) ([]geometry.Box, pipeline.Options, error) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	defer body.Close()

	plan, err := planfile.DecodeJSON(body)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	boxes, err := plan.ToBoxes()
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts, err := plan.Options()
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts.MaxBoxes = s.maxBoxes
	if opts.Timeout <= 0 || opts.Timeout > s.timeout {
		opts.Timeout = s.timeout
	}
	return boxes, opts, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
