package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/pipeline"
	"github.com/matzehuels/stackplan/pkg/planfile"
)

// samplePlan is an L-shaped layer of three boxes.
func samplePlan() (*planfile.Plan, error) {
	specs := []struct {
		id, article string
		x, y        float64
	}{
		{"P1", "A-100", 0, 0},
		{"P2", "A-100", 0, 1},
		{"P3", "B-200", 1, 0},
	}
	boxes := make([]geometry.Box, 0, len(specs))
	for _, s := range specs {
		b, err := geometry.NewBox(s.id, s.article,
			geometry.Point{X: s.x, Y: s.y},
			geometry.Point{X: s.x + 1, Y: s.y + 1, Z: 1})
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, b)
	}
	opts := pipeline.Options{
		WorldSize:  16,
		MaxDepth:   4,
		Directions: []geometry.Direction{geometry.Front, geometry.Top},
		Costs:      pipeline.DefaultCosts,
	}
	return planfile.FromBoxes(boxes, opts), nil
}

// initCommand creates the init command.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample plan file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "stack.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := errs.ValidatePath(path); err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}

			plan, err := samplePlan()
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := planfile.Encode(&buf, plan); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			out := newPrinter(cmd.OutOrStdout())
			out.success("Wrote sample plan")
			out.file(path)
			out.nextStep("Plan it", fmt.Sprintf("%s plan %s", appName, path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
