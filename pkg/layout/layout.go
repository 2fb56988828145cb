// Package layout computes deterministic 2D positions for a document summary
// tree.
//
// The layout grows left-to-right (x increases with depth) and top-to-bottom
// (y increases with sibling order). Every node is assigned an absolute
// position, an estimated height, and a reserved vertical span such that
// sibling subtrees never overlap regardless of text length or collapse
// state.
//
// # Pipeline position
//
// Build runs once per structural change (document regeneration, collapse
// toggle); the resulting Tree is treated as immutable by all readers until
// the next pass. The viewport controller and the search matcher consume it
// read-only on every interaction frame.
//
// # Guarantees
//
//   - deterministic: identical tree + collapsed set produce bit-identical
//     positions
//   - no-overlap: sibling subtree spans [Y, Y+SubtreeHeight) are disjoint
//   - containment: a node's own box lies within its reserved span
//   - collapsing a node removes its descendants entirely and reclaims
//     their space without perturbing geometry outside its own span
package layout

import "github.com/mhersch/treeline/pkg/doc"

// PositionedNode is a node of the laid-out tree.
// It carries the source node's fields plus computed geometry.
type PositionedNode struct {
	ID      string `json:"id"`
	Topic   string `json:"topic"`
	Content string `json:"content,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`

	// Depth is the distance from the root (root = 0).
	Depth int `json:"depth"`

	// SubtreeHeight is the vertical span reserved for this node and its
	// visible descendants.
	SubtreeHeight float64 `json:"subtree_height"`

	// Color is the inherited branch color; empty for the root.
	Color string `json:"color,omitempty"`

	// Collapsed marks a node whose children are hidden.
	Collapsed bool `json:"collapsed,omitempty"`

	// HiddenCount is the number of descendants hidden by collapsing.
	HiddenCount int `json:"hidden_count,omitempty"`

	Children []*PositionedNode `json:"children"`
}

// Box returns the node's own box (fixed width, estimated height).
func (p *PositionedNode) Box() Box {
	return Box{X: p.X, Y: p.Y, W: NodeWidth, H: p.Height}
}

// Span returns the vertical interval [top, bottom) reserved for the node's
// subtree.
func (p *PositionedNode) Span() (top, bottom float64) {
	top = p.Y + p.Height/2 - p.SubtreeHeight/2
	return top, top + p.SubtreeHeight
}

// Tree is the positioned tree produced by one layout pass.
// A Tree with a nil Root represents an empty document; all operations on it
// are no-ops.
type Tree struct {
	Root *PositionedNode
}

// Build lays out the document tree with the given collapsed set.
// A nil root yields an empty Tree.
func Build(root *doc.Node, collapsed *doc.CollapsedSet) *Tree {
	t := &Tree{}
	if root == nil {
		return t
	}
	t.Root = place(root, collapsed, 0, 0, 0, -1)
	return t
}

// place positions n with its reserved span starting at spanTop, then
// recursively places its visible children. branch is the top-level branch
// index for color inheritance (-1 at the root).
func place(n *doc.Node, collapsed *doc.CollapsedSet, depth int, x, spanTop float64, branch int) *PositionedNode {
	isCollapsed := collapsed.Has(n.ID)
	own := EstimateHeight(n.Topic, n.Content, isCollapsed)
	span := SubtreeHeight(n, collapsed)

	p := &PositionedNode{
		ID:            n.ID,
		Topic:         n.Topic,
		Content:       n.Content,
		X:             x,
		Y:             spanTop + (span-own)/2,
		Height:        own,
		Depth:         depth,
		SubtreeHeight: span,
		Collapsed:     isCollapsed,
		Children:      []*PositionedNode{},
	}
	if depth >= 1 {
		p.Color = BranchColor(branch)
	}

	if isCollapsed {
		p.HiddenCount = doc.Count(n)
		return p
	}

	// Center the children block within the parent's span when the parent
	// is the taller of the two.
	childY := spanTop + (span-childrenTotal(n, collapsed))/2
	childX := x + NodeWidth + LevelGap

	for i, c := range n.Children {
		childBranch := branch
		if depth == 0 {
			childBranch = i
		}
		cp := place(c, collapsed, depth+1, childX, childY, childBranch)
		childY += cp.SubtreeHeight + SiblingGap
		p.Children = append(p.Children, cp)
	}

	return p
}

// Walk visits every positioned node in pre-order.
func (t *Tree) Walk(fn func(*PositionedNode)) {
	var visit func(p *PositionedNode)
	visit = func(p *PositionedNode) {
		fn(p)
		for _, c := range p.Children {
			visit(c)
		}
	}
	if t != nil && t.Root != nil {
		visit(t.Root)
	}
}

// Find returns the node with the given id, or nil.
func (t *Tree) Find(id string) *PositionedNode {
	var found *PositionedNode
	t.Walk(func(p *PositionedNode) {
		if found == nil && p.ID == id {
			found = p
		}
	})
	return found
}

// Len returns the number of visible (positioned) nodes.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(*PositionedNode) { n++ })
	return n
}

// Bounds returns the bounding box of all node boxes.
// The zero Box is returned for an empty tree; callers performing framing
// operations skip empty bounds rather than producing degenerate geometry.
func (t *Tree) Bounds() Box {
	var b Box
	t.Walk(func(p *PositionedNode) {
		b = b.Union(p.Box())
	})
	return b
}
