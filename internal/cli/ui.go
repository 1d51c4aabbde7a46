package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stackplan/pkg/cache"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/pipeline"
)

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleStep    = lipgloss.NewStyle().Foreground(colorTeal)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleNote    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleSpinner = lipgloss.NewStyle().Foreground(colorTeal)
)

// printer writes styled command output to w, usually cmd.OutOrStdout().
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) line(s string) { fmt.Fprintln(p.w, s) }

func (p printer) success(format string, args ...any) {
	p.line(styleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func (p printer) info(format string, args ...any) {
	p.line(styleNote.Render("›") + " " + fmt.Sprintf(format, args...))
}

func (p printer) detail(format string, args ...any) {
	p.line("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	p.line("  " + styleDim.Render("→") + " " + styleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.line(styleKey.Render(key) + " " + styleValue.Render(value))
}

func (p printer) nextStep(description, cmd string) {
	p.line("")
	p.line(styleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// sequence lists boxes in removal order, one numbered line each.
func (p printer) sequence(title string, boxes []geometry.Box) {
	p.line(styleTitle.Render(title))
	for i, b := range boxes {
		article := ""
		if b.Article != "" {
			article = styleDim.Render(" (" + b.Article + ")")
		}
		p.line(fmt.Sprintf("  %s %s%s", styleStep.Render(fmt.Sprintf("%3d.", i+1)), styleValue.Render(b.ID), article))
	}
}

// result prints a planning result: the sequence, its cost and a stats line.
func (p printer) result(res *pipeline.Result) {
	p.sequence("Removal sequence", res.Sequence)
	p.line("")
	p.keyValue("Cost", fmt.Sprintf("%g", res.Cost))
	p.keyValue("Directions", joinDirections(res.Directions))
	p.keyValue("Run", res.RunID)
	p.stats(res.Stats, res.CacheHit)
}

// stats prints run statistics on a single line. Search counters are left
// out for cached results since no search ran.
func (p printer) stats(st pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d boxes", st.Boxes),
		fmt.Sprintf("%d edges", st.Edges),
	}
	status := styleOK.Render("cached")
	if !cached {
		parts = append(parts,
			fmt.Sprintf("%d explored", st.Explored),
			fmt.Sprintf("%d pruned", st.Pruned),
			(st.BuildTime + st.SearchTime).Round(time.Millisecond).String())
		status = styleNote.Render("fresh")
	}
	for i, part := range parts {
		parts[i] = styleDim.Render(part)
	}
	p.line("  " + strings.Join(append(parts, status), styleDim.Render(" · ")))
}

func (p printer) cacheStats(dir string, st cache.FileStats) {
	p.keyValue("Directory", dir)
	p.keyValue("Entries", fmt.Sprintf("%d", st.Entries))
	p.keyValue("Size", formatBytes(st.Bytes))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func joinDirections(dirs []geometry.Direction) string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
