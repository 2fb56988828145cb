package pipeline

import (
	"context"
	"time"

	"github.com/mhersch/treeline/pkg/doc"
	"github.com/mhersch/treeline/pkg/layout"
	"github.com/mhersch/treeline/pkg/observability"
	"github.com/mhersch/treeline/pkg/render"
)

// ComputeLayout positions the document and assembles the drawable frame.
func ComputeLayout(ctx context.Context, root *doc.Node, opts Options) (*layout.Tree, *render.Frame) {
	collapsed := doc.NewCollapsedSetOf(opts.Collapsed...)

	var total int
	if root != nil {
		total = doc.Count(root) + 1
	}
	observability.Pipeline().OnLayoutStart(ctx, total, collapsed.Len())
	start := time.Now()

	tree := layout.Build(root, collapsed)
	frame := render.Build(tree)

	observability.Pipeline().OnLayoutComplete(ctx, tree.Len(), time.Since(start), nil)
	return tree, frame
}
