// Package cli implements the stackplan command-line interface.
//
// # Commands
//
// The main commands are:
//   - plan: Find the cheapest removal sequence for a plan file
//   - graph: Draw the obstruction graph of a plan as DOT, SVG, PDF, PNG or JSON
//   - init: Write a sample plan file
//   - serve: Serve the planner over HTTP
//   - cache: Inspect, prune and clear the local result cache
//
// [Execute] runs a command line and maps the outcome to an exit code.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports search progress.
package cli

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackplan/pkg/search"
)

// newLogger logs to w with centisecond timestamps ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs e.g. "Drew 12 boxes and 9 edges (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// newSearchProgress returns a search callback that logs at debug level,
// at most once per interval. Improvements of the best cost are always
// logged.
func newSearchProgress(l *log.Logger, interval time.Duration) func(search.Stats) {
	var (
		mu       sync.Mutex
		last     time.Time
		improved int
	)
	return func(st search.Stats) {
		mu.Lock()
		defer mu.Unlock()
		now := time.Now()
		if st.Improvements == improved && now.Sub(last) < interval {
			return
		}
		improved = st.Improvements
		last = now
		l.Debug("search progress",
			"explored", st.Explored,
			"pruned", st.Pruned,
			"best", st.Best,
			"elapsed", st.Elapsed.Round(time.Millisecond))
	}
}
