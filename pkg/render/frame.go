package render

import (
	"encoding/json"

	"github.com/mhersch/treeline/pkg/layout"
	"github.com/mhersch/treeline/pkg/route"
)

// Node is a drawable node box.
type Node struct {
	ID          string  `json:"id"`
	Topic       string  `json:"topic"`
	Content     string  `json:"content,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w"`
	H           float64 `json:"h"`
	Depth       int     `json:"depth"`
	Color       string  `json:"color,omitempty"`
	Collapsed   bool    `json:"collapsed,omitempty"`
	HiddenCount int     `json:"hiddenCount,omitempty"`
}

// Box returns the node's bounding box.
func (n Node) Box() layout.Box {
	return layout.Box{X: n.X, Y: n.Y, W: n.W, H: n.H}
}

// Edge is a routed connector between a parent and a child node.
type Edge struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Path   string        `json:"path"`
	Color  string        `json:"color,omitempty"`
	Points []route.Point `json:"points,omitempty"`
}

// Frame is everything a rendering surface needs to draw one layout pass.
// Nodes appear in pre-order; edges follow the same traversal, one per
// parent/child pair.
type Frame struct {
	Bounds layout.Box `json:"bounds"`
	Nodes  []Node     `json:"nodes"`
	Edges  []Edge     `json:"edges"`
}

// Build assembles a frame from a laid-out tree. Connectors are routed
// once per visible parent/child pair and inherit the child's branch
// color.
func Build(tr *layout.Tree) *Frame {
	f := &Frame{}
	if tr == nil || tr.Root == nil {
		return f
	}
	f.Bounds = tr.Bounds()

	tr.Walk(func(n *layout.PositionedNode) {
		f.Nodes = append(f.Nodes, Node{
			ID:          n.ID,
			Topic:       n.Topic,
			Content:     n.Content,
			X:           n.X,
			Y:           n.Y,
			W:           layout.NodeWidth,
			H:           n.Height,
			Depth:       n.Depth,
			Color:       n.Color,
			Collapsed:   n.Collapsed,
			HiddenCount: n.HiddenCount,
		})
		for _, child := range n.Children {
			p := route.Route(n.Box(), child.Box())
			f.Edges = append(f.Edges, Edge{
				From:   n.ID,
				To:     child.ID,
				Path:   p.SVG(),
				Color:  child.Color,
				Points: p.Points(),
			})
		}
	})
	return f
}

// MarshalFrame serializes a frame for caching.
func MarshalFrame(f *Frame) ([]byte, error) {
	return json.Marshal(f)
}

// UnmarshalFrame restores a frame serialized with [MarshalFrame].
func UnmarshalFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Find returns the frame node with the given ID, or nil.
func (f *Frame) Find(id string) *Node {
	for i := range f.Nodes {
		if f.Nodes[i].ID == id {
			return &f.Nodes[i]
		}
	}
	return nil
}
