package layout

import "github.com/mhersch/treeline/pkg/doc"

// SubtreeHeight computes the vertical extent reserved for n and its visible
// descendants.
//
// A collapsed node or a leaf reserves exactly its own estimated height.
// Otherwise the children's subtree heights are summed with a SiblingGap
// between consecutive children, and the result is the maximum of that sum
// and the node's own height: a short parent never shrinks below the space
// its children require, and a tall childless node is never starved.
//
// SubtreeHeight is side-effect free and safe to call repeatedly for the
// same node within one layout pass (Build invokes it again for centering).
func SubtreeHeight(n *doc.Node, collapsed *doc.CollapsedSet) float64 {
	if n == nil {
		return 0
	}

	own := EstimateHeight(n.Topic, n.Content, collapsed.Has(n.ID))
	if collapsed.Has(n.ID) || n.IsLeaf() {
		return own
	}

	return max(own, childrenTotal(n, collapsed))
}

// childrenTotal sums the children's subtree heights plus inter-sibling gaps.
func childrenTotal(n *doc.Node, collapsed *doc.CollapsedSet) float64 {
	total := 0.0
	for i, c := range n.Children {
		if i > 0 {
			total += SiblingGap
		}
		total += SubtreeHeight(c, collapsed)
	}
	return total
}
