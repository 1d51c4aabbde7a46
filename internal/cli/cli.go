package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplan/pkg/buildinfo"
	"github.com/matzehuels/stackplan/pkg/cache"
	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stackplan"

	// redisURLEnv names the environment variable holding a Redis URL for
	// the shared result cache.
	redisURLEnv = "STACKPLAN_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The persistent -v flag switches the logger to debug level.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   appName,
		Short: "Stackplan finds the cheapest order to unstack a pile of boxes",
		Long: `Stackplan reads a plan of axis-aligned boxes, works out which boxes block
which others when pulled out in a given direction, and searches for the
removal sequence with the lowest transition cost.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.planCommand(),
		c.graphCommand(),
		c.initCommand(),
		c.serveCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)
	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the result cache of a command.
type cacheFlags struct {
	noCache  bool
	redisURL string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVar(&f.redisURL, "redis-url", "", "share results through Redis (default $"+redisURLEnv+")")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags, keyer cache.Keyer) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache returns Redis when a URL is configured, the file cache
// otherwise. A file cache that cannot be created disables caching.
func (c *CLI) newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	url := f.redisURL
	if url == "" {
		url = os.Getenv(redisURLEnv)
	}
	if url != "" {
		if err := errs.ValidateURL(url); err != nil {
			return nil, err
		}
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: url, Prefix: appName + ":"})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeCache, err, "connect to redis")
		}
		c.Logger.Debug("using redis cache")
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory (~/.cache/stackplan on Linux).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseCostSpec parses "kind" or "kind=weight".
func parseCostSpec(s string) (pipeline.CostSpec, error) {
	kind, weight, found := strings.Cut(s, "=")
	spec := pipeline.CostSpec{Kind: strings.TrimSpace(kind), Weight: 1}
	if found {
		w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
		if err != nil {
			return pipeline.CostSpec{}, errs.Wrap(errs.ErrCodeInvalidCost, err, "cost %q", s)
		}
		spec.Weight = w
	}
	if spec.Kind == "" {
		return pipeline.CostSpec{}, errs.New(errs.ErrCodeInvalidCost, "cost %q has no kind", s)
	}
	return spec, nil
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
