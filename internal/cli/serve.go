package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplan/internal/api"
	"github.com/matzehuels/stackplan/pkg/cache"
	"github.com/matzehuels/stackplan/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxBoxes int
		timeout  time.Duration
		scope    string
		cf       cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Long: `Serve the planner over HTTP.

Endpoints:
  GET  /healthz       liveness probe
  GET  /version       build information
  GET  /metrics       planning, cache and request counters
  POST /v1/sequence   plan a JSON plan
  POST /v1/graph      obstruction graph as DOT, SVG or JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var keyer cache.Keyer
			if scope != "" {
				keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), scope+":")
			}
			runner, err := c.newRunner(ctx, cf, keyer)
			if err != nil {
				return err
			}
			defer runner.Close()

			counters := observability.NewCounters()
			observability.Use(counters)
			defer observability.Reset()

			srv := api.New(api.Options{
				Runner:   runner,
				Logger:   c.Logger,
				MaxBoxes: maxBoxes,
				Timeout:  timeout,
				Metrics:  counters,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxBoxes, "max-boxes", api.DefaultMaxBoxes, "largest plan accepted")
	cmd.Flags().DurationVar(&timeout, "timeout", api.DefaultTimeout, "search time limit per request")
	cmd.Flags().StringVar(&scope, "scope", "", "cache key prefix, e.g. a site name when servers share Redis")
	cf.register(cmd)

	return cmd
}
