package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/goccy/go-graphviz"
)

// Renderer lays out DOT source with an embedded Graphviz instance, created
// on first use. Calls are serialized, so one Renderer can be shared by a
// server's handlers.
type Renderer struct {
	mu sync.Mutex
	gv *graphviz.Graphviz
}

// NewRenderer returns an idle renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// SVG renders dot to an SVG document sized in user units.
func (r *Renderer) SVG(ctx context.Context, dot string) ([]byte, error) {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gv == nil {
		if r.gv, err = graphviz.New(ctx); err != nil {
			return nil, fmt.Errorf("init graphviz: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := r.gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return fitViewBox(buf.Bytes()), nil
}

// Close releases the Graphviz instance. The renderer may be used again
// afterwards.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gv == nil {
		return nil
	}
	err := r.gv.Close()
	r.gv = nil
	return err
}

// RenderSVG renders dot with a throwaway [Renderer].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	r := NewRenderer()
	defer r.Close()
	return r.SVG(ctx, dot)
}

var (
	svgRootRe  = regexp.MustCompile(`<svg\b[^>]*>`)
	sizeAttrRe = regexp.MustCompile(`\s(width|height)="[^"]*"`)
	viewBoxRe  = regexp.MustCompile(`viewBox="[-0-9.]+\s+[-0-9.]+\s+([0-9.]+)\s+([0-9.]+)"`)
)

// fitViewBox replaces the point-based width and height of the root element
// with the viewBox extent so the drawing scales with its container.
func fitViewBox(svg []byte) []byte {
	root := svgRootRe.Find(svg)
	if root == nil {
		return svg
	}
	m := viewBoxRe.FindSubmatch(root)
	if m == nil {
		return svg
	}
	w, errW := strconv.ParseFloat(string(m[1]), 64)
	h, errH := strconv.ParseFloat(string(m[2]), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return svg
	}

	fixed := sizeAttrRe.ReplaceAll(root, nil)
	fixed = bytes.Replace(fixed, []byte("<svg"), fmt.Appendf(nil, `<svg width="%.0f" height="%.0f"`, w, h), 1)
	return bytes.Replace(svg, root, fixed, 1)
}
