package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stackplan/pkg/buildinfo"
)

func TestExecute(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.toml")
	tests := []struct {
		name       string
		args       []string
		code       int
		wantStdout string
		wantStderr string
	}{
		{"version", []string{"--version"}, ExitOK, buildinfo.Version, ""},
		{"missing argument", []string{"plan"}, ExitUsage, "", "accepts 1 arg"},
		{"unknown command", []string{"unstack"}, ExitUsage, "", "unknown command"},
		{"missing plan file", []string{"plan", "--no-cache", missing}, ExitError, "", "FILE_NOT_FOUND"},
		{"bad format", []string{"graph", "-f", "gif", missing}, ExitError, "", "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Execute(context.Background(), tt.args, &stdout, &stderr)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.code, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestExecuteVerbose(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "stack.toml")
	var stdout, stderr bytes.Buffer
	if code := Execute(context.Background(), []string{"init", plan}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("init exit code = %d: %s", code, stderr.String())
	}

	stdout.Reset()
	stderr.Reset()
	code := Execute(context.Background(), []string{"plan", "-v", "--no-cache", plan}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("plan exit code = %d: %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "DEBU") {
		t.Errorf("-v should enable debug logs, stderr = %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "Removal sequence") {
		t.Errorf("stdout = %q", stdout.String())
	}
}
