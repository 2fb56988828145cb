// Package search finds nodes whose topic or content matches a query
// string. Matching is a case-insensitive substring test and results are
// reported in document order.
package search

import (
	"strings"

	"github.com/mhersch/treeline/pkg/doc"
	"github.com/mhersch/treeline/pkg/layout"
)

// Match is a single search hit within a laid-out tree.
type Match struct {
	Node *layout.PositionedNode
}

// Query normalizes a raw query string. Surrounding whitespace is ignored;
// an empty query matches nothing.
func Query(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// matches reports whether the topic or content contains the normalized
// query.
func matches(topic, content, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(topic), query) ||
		strings.Contains(strings.ToLower(content), query)
}

// Tree returns all nodes in the laid-out tree matching the raw query, in
// pre-order. Collapsed subtrees are absent from the layout and therefore
// never match.
func Tree(tr *layout.Tree, raw string) []Match {
	query := Query(raw)
	if query == "" || tr == nil {
		return nil
	}

	var found []Match
	tr.Walk(func(n *layout.PositionedNode) {
		if matches(n.Topic, n.Content, query) {
			found = append(found, Match{Node: n})
		}
	})
	return found
}

// Doc returns the IDs of all document nodes matching the raw query, in
// pre-order. Unlike Tree this sees the full document, including nodes
// hidden under collapsed branches.
func Doc(root *doc.Node, raw string) []string {
	query := Query(raw)
	if query == "" || root == nil {
		return nil
	}

	var ids []string
	doc.Walk(root, func(n *doc.Node) {
		if matches(n.Topic, n.Content, query) {
			ids = append(ids, n.ID)
		}
	})
	return ids
}

// Bounds returns the tightest box containing every matched node. An empty
// match set yields a zero box.
func Bounds(found []Match) layout.Box {
	var b layout.Box
	for _, m := range found {
		b = b.Union(m.Node.Box())
	}
	return b
}
