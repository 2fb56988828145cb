package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/mhersch/treeline/pkg/errors"
	"github.com/mhersch/treeline/pkg/render"
)

// ToDOT converts a frame to Graphviz DOT format. Positions are carried as
// pinned "pos" attributes so Graphviz reproduces the computed layout
// instead of running its own. The result renders with [RenderDOT].
func ToDOT(f *render.Frame) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tree {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		label := n.Topic
		if n.Collapsed && n.HiddenCount > 0 {
			label = fmt.Sprintf("%s (+%d)", label, n.HiddenCount)
		}
		attrs := fmt.Sprintf("label=%q, pos=\"%.1f,%.1f!\", width=%.2f, height=%.2f",
			label, n.X/72, -n.Y/72, n.W/72, n.H/72)
		if n.Color != "" {
			attrs += fmt.Sprintf(", color=%q", n.Color)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		if e.Color != "" {
			fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", e.From, e.To, e.Color)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT rasterizes a DOT graph with Graphviz into the given format.
// Supported formats are [graphviz.SVG] and [graphviz.PNG].
func RenderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render graph")
	}
	return buf.Bytes(), nil
}
