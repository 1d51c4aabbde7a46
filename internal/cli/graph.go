package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplan/pkg/cache"
	"github.com/matzehuels/stackplan/pkg/depgraph"
	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/geometry"
	graphio "github.com/matzehuels/stackplan/pkg/io"
	"github.com/matzehuels/stackplan/pkg/pipeline"
	"github.com/matzehuels/stackplan/pkg/render"
)

// Graph output formats.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
	formatJSON = "json"
)

var graphFormats = []string{formatDOT, formatSVG, formatPDF, formatPNG, formatJSON}

type graphOptions struct {
	format    string
	output    string
	direction string
	annotate  bool
	detailed  bool
	scale     float64
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags planFlags
		gopts graphOptions
	)

	cmd := &cobra.Command{
		Use:   "graph <plan.toml>",
		Short: "Draw the obstruction graph of a plan",
		Long: `Draw the obstruction graph of a plan: one node per box and an arrow
from every box to each box it blocks, coloured by direction.

With several directions and no --alternate there is one graph per
direction; --graph-direction picks one (default: the first).`,
		Example: `  stackplan graph stack.toml -o graph.svg
  stackplan graph stack.toml -d top -d front --graph-direction front -f dot
  stackplan graph stack.toml --annotate --detailed -f png -o graph.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(graphFormats, gopts.format) {
				return errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q (want one of %v)", gopts.format, graphFormats)
			}
			boxes, opts, err := flags.load(args[0])
			if err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), flags.cacheFlags, boxes, opts, gopts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&gopts.format, "format", "f", formatSVG, "output format: "+strings.Join(graphFormats, ", "))
	cmd.Flags().StringVarP(&gopts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&gopts.direction, "graph-direction", "", "direction of the graph to draw")
	cmd.Flags().BoolVar(&gopts.annotate, "annotate", false, "number the boxes with the optimal removal sequence")
	cmd.Flags().BoolVar(&gopts.detailed, "detailed", false, "show articles and corners in node labels")
	cmd.Flags().Float64Var(&gopts.scale, "scale", 2, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("format", completeValues(graphFormats))
	_ = cmd.RegisterFlagCompletionFunc("graph-direction", completeValues(directionNames()))

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, w io.Writer, cf cacheFlags, boxes []geometry.Box, opts pipeline.Options, gopts graphOptions) error {
	prog := newProgress(c.Logger)
	runner, err := c.newRunner(ctx, cf, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	graphs, err := runner.BuildGraphs(ctx, boxes, opts)
	if err != nil {
		return err
	}
	g, err := pipeline.SelectGraph(graphs, gopts.direction)
	if err != nil {
		return err
	}

	ro := render.Options{Detailed: gopts.detailed}
	if gopts.annotate {
		opts.Directions = g.Directions()
		res, err := runner.Execute(ctx, boxes, opts)
		if err != nil {
			return err
		}
		ro.Sequence = geometry.IDs(res.Sequence)
	}

	data, err := c.drawGraph(ctx, runner, g, ro, gopts)
	if err != nil {
		return err
	}
	if err := writeOutput(w, gopts.output, data); err != nil {
		return err
	}
	if gopts.output != "" && gopts.output != "-" {
		prog.done(fmt.Sprintf("Drew %d boxes and %d edges", g.Len(), g.EdgeCount()))
		newPrinter(w).file(gopts.output)
	}
	return nil
}

// drawGraph renders g in the requested format. Rendered artifacts are
// cached next to plan results.
func (c *CLI) drawGraph(ctx context.Context, runner *pipeline.Runner, g *depgraph.Graph, ro render.Options, gopts graphOptions) ([]byte, error) {
	switch gopts.format {
	case formatJSON:
		var buf bytes.Buffer
		if err := graphio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatDOT:
		return []byte(render.ToDOT(g, ro)), nil
	}

	dot := render.ToDOT(g, ro)

	key := runner.Keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{
		Format:    artifactFormat(gopts),
		Direction: joinDirections(g.Directions()),
	})
	if data, ok, err := runner.Cache.Get(ctx, key); err == nil && ok {
		c.Logger.Debug("graph served from cache", "format", gopts.format)
		return data, nil
	}

	svg, err := render.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	var data []byte
	switch gopts.format {
	case formatSVG:
		data = svg
	case formatPDF:
		data, err = render.ToPDF(ctx, svg)
	case formatPNG:
		data, err = render.ToPNG(ctx, svg, gopts.scale)
	}
	if err != nil {
		return nil, err
	}
	if err := runner.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		c.Logger.Warn("cache write failed", "err", err)
	}
	return data, nil
}

func artifactFormat(gopts graphOptions) string {
	if gopts.format == formatPNG {
		return fmt.Sprintf("%s@%g", gopts.format, gopts.scale)
	}
	return gopts.format
}
