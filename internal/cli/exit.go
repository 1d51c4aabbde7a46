package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	errs "github.com/matzehuels/stackplan/pkg/errors"
)

// Exit codes of the stackplan binary.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

var styleError = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

// Execute runs the root command with args, logging to stderr, and returns
// the process exit code. Failures are reported on stderr with their error
// code; an interrupted run exits silently with 130.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	fmt.Fprintln(stderr, styleError.Render("error:"), errs.UserMessage(err))
	code := errs.GetCode(err)
	if code != "" {
		fmt.Fprintln(stderr, styleDim.Render("code: "+string(code)))
	}
	if code == "" && isUsageError(err) {
		return ExitUsage
	}
	return ExitError
}

// isUsageError reports cobra's own argument and flag errors, which carry
// no code.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires ", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
