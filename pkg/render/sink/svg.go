package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/mhersch/treeline/pkg/layout"
	"github.com/mhersch/treeline/pkg/render"
	"github.com/mhersch/treeline/pkg/viewport"
)

const (
	svgMargin     = 40.0
	nodeCorner    = 10.0
	defaultStroke = "#868e96"
	topicSize     = 13
	contentSize   = 10
	textPadX      = 10.0
	topicBaseline = 24.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	window     *viewport.Viewport
	background string
	detailed   bool
}

// WithWindow culls nodes and edges outside the given camera window and
// uses it as the SVG view box.
func WithWindow(v viewport.Viewport) SVGOption {
	return func(r *svgRenderer) { r.window = &v }
}

// WithBackground fills the canvas with a solid color instead of leaving
// it transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithDetail includes node content text below the topic line.
func WithDetail() SVGOption {
	return func(r *svgRenderer) { r.detailed = true }
}

// RenderSVG serializes a frame as a standalone SVG document.
func RenderSVG(f *render.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	box := f.Bounds.Pad(svgMargin)
	if r.window != nil {
		box = layout.Box{X: r.window.X, Y: r.window.Y, W: r.window.Width, H: r.window.Height}
	}
	if box.Empty() {
		box = layout.Box{W: 1, H: 1}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		box.X, box.Y, box.W, box.H, box.W, box.H)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			box.X, box.Y, box.W, box.H, r.background)
	}

	for _, e := range f.Edges {
		if r.window != nil && !edgeVisible(e, box) {
			continue
		}
		renderEdge(&buf, e)
	}
	for _, n := range f.Nodes {
		if r.window != nil && !box.Intersects(n.Box()) {
			continue
		}
		renderNode(&buf, n, r.detailed)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func edgeVisible(e render.Edge, box layout.Box) bool {
	var hull layout.Box
	for _, p := range e.Points {
		hull = hull.Union(layout.Box{X: p.X, Y: p.Y, W: 1, H: 1})
	}
	return box.Intersects(hull)
}

func renderEdge(buf *bytes.Buffer, e render.Edge) {
	stroke := e.Color
	if stroke == "" {
		stroke = defaultStroke
	}
	fmt.Fprintf(buf, `  <path d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
		e.Path, stroke)
}

func renderNode(buf *bytes.Buffer, n render.Node, detailed bool) {
	stroke := n.Color
	if stroke == "" {
		stroke = "#343a40"
	}
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="white" stroke="%s" stroke-width="1.5"/>`+"\n",
		n.X, n.Y, n.W, n.H, nodeCorner, stroke)

	topic := n.Topic
	if n.Collapsed && n.HiddenCount > 0 {
		topic = fmt.Sprintf("%s (+%d)", topic, n.HiddenCount)
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%d" font-weight="bold" font-family="sans-serif">%s</text>`+"\n",
		n.X+textPadX, n.Y+topicBaseline, topicSize, html.EscapeString(truncate(topic, 24)))

	if detailed && !n.Collapsed && n.Content != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%d" font-family="sans-serif" fill="#495057">%s</text>`+"\n",
			n.X+textPadX, n.Y+topicBaseline+16, contentSize, html.EscapeString(truncate(n.Content, 34)))
	}
}

func truncate(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max-1]) + "…"
}
