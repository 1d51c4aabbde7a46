package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplan/pkg/cost"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/pipeline"
	"github.com/matzehuels/stackplan/pkg/planfile"
	"github.com/matzehuels/stackplan/pkg/search"
)

// planFlags holds the settings that override a plan file.
type planFlags struct {
	directions []string
	alternate  bool
	worldSize  float64
	maxDepth   int
	costs      []string
	timeout    time.Duration
	refresh    bool
	cacheFlags cacheFlags

	// changed reports whether a flag was given on the command line.
	changed func(name string) bool
}

func (f *planFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVarP(&f.directions, "direction", "d", nil, "removal directions: front, back, left, right, top, bottom")
	flags.BoolVar(&f.alternate, "alternate", false, "allow the direction to change between removals")
	flags.Float64Var(&f.worldSize, "world-size", 0, fmt.Sprintf("edge length of the world cube (default %g)", pipeline.DefaultWorldSize))
	flags.IntVar(&f.maxDepth, "max-depth", 0, fmt.Sprintf("octree depth (default %d)", pipeline.DefaultMaxDepth))
	flags.StringArrayVarP(&f.costs, "cost", "c", nil, "cost function as kind[=weight]: "+strings.Join(cost.Kinds, ", "))
	flags.DurationVar(&f.timeout, "timeout", 0, fmt.Sprintf("search time limit, negative for none (default %s)", pipeline.DefaultTimeout))
	flags.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	f.cacheFlags.register(cmd)
	f.changed = cmd.Flags().Changed
	registerPlanCompletions(cmd)
}

// load reads the plan file and applies flag overrides.
func (f *planFlags) load(path string) ([]geometry.Box, pipeline.Options, error) {
	plan, err := planfile.Load(path)
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
	if err := f.apply(&opts); err != nil {
		return nil, pipeline.Options{}, err
	}
	return boxes, opts, nil
}

func (f *planFlags) apply(opts *pipeline.Options) error {
	changed := f.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}
	if changed("direction") {
		dirs, err := planfile.ParseDirections(f.directions)
		if err != nil {
			return err
		}
		opts.Directions = dirs
	}
	if changed("alternate") {
		opts.AllowAlternating = f.alternate
	}
	if changed("world-size") {
		opts.WorldSize = f.worldSize
	}
	if changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	if changed("cost") {
		opts.Costs = nil
		for _, s := range f.costs {
			spec, err := parseCostSpec(s)
			if err != nil {
				return err
			}
			opts.Costs = append(opts.Costs, spec)
		}
	}
	if changed("timeout") {
		opts.Timeout = f.timeout
	}
	opts.Refresh = f.refresh
	return nil
}

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		flags  planFlags
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plan <plan.toml>",
		Short: "Find the cheapest removal sequence for a plan",
		Long: `Find the cheapest removal sequence for the boxes in a plan file.

Flags override the settings in the file. Results are cached by the boxes
and settings; use --refresh to recompute.`,
		Example: `  stackplan plan stack.toml
  stackplan plan stack.toml -d top -d front --alternate
  stackplan plan stack.toml -c travel_distance=2 -o result.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boxes, opts, err := flags.load(args[0])
			if err != nil {
				return err
			}
			res, err := c.runPlan(cmd.Context(), flags.cacheFlags, boxes, opts)
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout())
			if asJSON || output != "" {
				var buf bytes.Buffer
				if err := planfile.WriteJSON(&buf, res); err != nil {
					return err
				}
				if err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes()); err != nil {
					return err
				}
				if output != "" && output != "-" {
					out.success("Wrote result")
					out.file(output)
				}
				return nil
			}
			out.result(res)
			out.nextStep("Draw the obstruction graph", fmt.Sprintf("%s graph %s --annotate -o graph.svg", appName, args[0]))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result as JSON to a file (- for stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// runPlan executes the pipeline. At info level a spinner shows the search
// progress; at debug level the progress is logged instead.
func (c *CLI) runPlan(ctx context.Context, cf cacheFlags, boxes []geometry.Box, opts pipeline.Options) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx, cf, nil)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	if c.Logger.GetLevel() <= LogDebug {
		opts.Progress = newSearchProgress(c.Logger, time.Second)
		return runner.Execute(ctx, boxes, opts)
	}

	sp := startSpinner(ctx, os.Stderr, fmt.Sprintf("Searching %d boxes...", len(boxes)))
	opts.Progress = func(st search.Stats) {
		sp.setStatus(fmt.Sprintf("Searching %d boxes... %d explored, best %g", len(boxes), st.Explored, st.Best))
	}
	res, err := runner.Execute(ctx, boxes, opts)
	sp.Stop()
	return res, err
}

// printResult prints the sequence and a stats summary.

