package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrConverterMissing is returned by [ToPDF] and [ToPNG] when rsvg-convert
// (librsvg) is not on PATH. Install it with "brew install librsvg" or
// "apt install librsvg2-bin".
var ErrConverterMissing = errors.New("rsvg-convert not found")

// ErrInvalidScale is returned by [ToPNG] for a scale that is not positive.
var ErrInvalidScale = errors.New("scale must be positive")

// rsvgBinary is looked up on PATH; tests point it elsewhere.
var rsvgBinary = "rsvg-convert"

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvg(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG, enlarged by scale.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidScale, scale)
	}
	return rsvg(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

func rsvg(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, fmt.Errorf("%s export: %w", format, ErrConverterMissing)
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("rsvg-convert %s: %w: %s", format, err, msg)
		}
		return nil, fmt.Errorf("rsvg-convert %s: %w", format, err)
	}
	return stdout.Bytes(), nil
}
