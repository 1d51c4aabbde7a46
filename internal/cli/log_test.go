package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackplan/pkg/search"
)

func TestLoggerLevelFiltersDebug(t *testing.T) {
	for _, level := range []log.Level{LogInfo, LogDebug} {
		var buf bytes.Buffer
		l := newLogger(&buf, level)
		l.Debug("graph", "edges", 3)
		l.Info("built obstruction graphs")

		out := buf.String()
		if !strings.Contains(out, "built obstruction graphs") {
			t.Errorf("%s: info line missing: %q", level, out)
		}
		if got, want := strings.Contains(out, "edges=3"), level == LogDebug; got != want {
			t.Errorf("%s: debug line logged = %v, want %v", level, got, want)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("log output = %q", out)
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	prog.done("Drew 3 boxes and 1 edges")

	out := buf.String()
	if !strings.Contains(out, "Drew 3 boxes and 1 edges (") || !strings.Contains(out, "s)") {
		t.Errorf("progress.done() output = %q", out)
	}
}

func TestSearchProgressThrottles(t *testing.T) {
	var buf bytes.Buffer
	report := newSearchProgress(newLogger(&buf, LogDebug), time.Hour)
	lines := func() int { return strings.Count(buf.String(), "search progress") }

	report(search.Stats{Explored: 1})
	first := lines()
	report(search.Stats{Explored: 2})
	if got := lines(); got != first {
		t.Errorf("throttled report was logged: %d lines", got)
	}
	report(search.Stats{Explored: 3, Improvements: 1, Best: 4})
	if got := lines(); got != first+1 {
		t.Errorf("improvement was not logged: %d lines", got)
	}
	if !strings.Contains(buf.String(), "best=4") {
		t.Errorf("best cost missing: %q", buf.String())
	}
}
