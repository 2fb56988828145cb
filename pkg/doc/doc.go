// Package doc defines the document summary tree consumed by the layout
// engine.
//
// A document summary is a tree of topic/content nodes produced by an
// upstream generation collaborator. This package owns the input contract:
// every node has a globally unique id and a non-nil, possibly empty,
// Children slice. [Normalize] enforces that contract so downstream
// packages never have to guard against missing fields.
//
// The collapsed state of the diagram lives here too ([CollapsedSet]); it is
// keyed by node id and therefore resets implicitly when a document is
// regenerated with fresh ids.
package doc

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/mhersch/treeline/pkg/errors"
)

// Node is a single node of the document summary tree.
// Nodes are immutable once normalized; structural changes (collapse/expand)
// are tracked separately in a CollapsedSet.
type Node struct {
	ID       string  `json:"id"`
	Topic    string  `json:"topic"`
	Content  string  `json:"content,omitempty"`
	Children []*Node `json:"children"`
}

// IsLeaf returns true if the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Count returns the number of descendants of n, not counting n itself.
func Count(n *Node) int {
	if n == nil {
		return 0
	}
	total := 0
	for _, c := range n.Children {
		total += 1 + Count(c)
	}
	return total
}

// Walk visits n and all descendants in pre-order.
// Walk is a no-op for a nil node.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Normalize enforces the input contract on a parsed tree:
//   - every node has a non-nil Children slice
//   - every node has a non-empty id (missing ids are assigned a UUID)
//   - ids are unique across the whole tree
//
// Normalize mutates the tree in place and returns it for chaining.
// A duplicate id is an INVALID_TREE error; everything else is repaired.
func Normalize(root *Node) (*Node, error) {
	if root == nil {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var visit func(n *Node) error
	visit = func(n *Node) error {
		if n.Children == nil {
			n.Children = []*Node{}
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidTree, "duplicate node id: %s", n.ID)
		}
		seen[n.ID] = struct{}{}

		for _, c := range n.Children {
			if c == nil {
				return errors.New(errors.ErrCodeInvalidTree, "nil child under node %s", n.ID)
			}
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return root, nil
}

// Parse decodes and normalizes a document tree from JSON bytes.
func Parse(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "unmarshal document")
	}
	return Normalize(&root)
}

// Marshal serializes a document tree to pretty-printed JSON bytes.
func Marshal(root *Node) ([]byte, error) {
	return json.MarshalIndent(root, "", "  ")
}

// ReadFile reads and normalizes a document tree from a JSON file.
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// WriteFile writes a document tree to a JSON file.
func WriteFile(root *Node, path string) error {
	data, err := Marshal(root)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
