package doc

import (
	"testing"

	"github.com/mhersch/treeline/pkg/errors"
)

func sampleTree() *Node {
	return &Node{
		ID:    "r",
		Topic: "Root",
		Children: []*Node{
			{ID: "a", Topic: "Alpha", Content: "first section"},
			{ID: "b", Topic: "Beta", Children: []*Node{
				{ID: "b1", Topic: "Beta One"},
				{ID: "b2", Topic: "Beta Two"},
			}},
		},
	}
}

func TestNormalizeFillsChildren(t *testing.T) {
	root := &Node{ID: "r", Topic: "Root", Children: []*Node{
		{ID: "a", Topic: "Leaf"},
	}}

	got, err := Normalize(root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	Walk(got, func(n *Node) {
		if n.Children == nil {
			t.Errorf("node %s has nil Children after Normalize", n.ID)
		}
	})
}

func TestNormalizeAssignsMissingIDs(t *testing.T) {
	root := &Node{Topic: "Root", Children: []*Node{
		{Topic: "Child"},
	}}

	got, err := Normalize(root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	seen := make(map[string]bool)
	Walk(got, func(n *Node) {
		if n.ID == "" {
			t.Errorf("node %q still has empty id", n.Topic)
		}
		if seen[n.ID] {
			t.Errorf("generated duplicate id %s", n.ID)
		}
		seen[n.ID] = true
	})
}

func TestNormalizeRejectsDuplicateIDs(t *testing.T) {
	root := &Node{ID: "r", Children: []*Node{
		{ID: "x"},
		{ID: "x"},
	}}

	_, err := Normalize(root)
	if !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("expected INVALID_TREE error, got %v", err)
	}
}

func TestNormalizeNilRoot(t *testing.T) {
	got, err := Normalize(nil)
	if err != nil {
		t.Fatalf("Normalize(nil): %v", err)
	}
	if got != nil {
		t.Errorf("Normalize(nil) = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`{"id":"r","topic":"Root","children":[{"id":"a","topic":"A"}]}`)

	root, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.ID != "r" || len(root.Children) != 1 {
		t.Errorf("unexpected tree: %+v", root)
	}
	if root.Children[0].Children == nil {
		t.Error("leaf Children should be normalized to empty slice")
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	if !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("expected INVALID_TREE error, got %v", err)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want int
	}{
		{"nil", nil, 0},
		{"leaf", &Node{ID: "x"}, 0},
		{"sample root", sampleTree(), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.node); got != tt.want {
				t.Errorf("Count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWalkOrder(t *testing.T) {
	var order []string
	Walk(sampleTree(), func(n *Node) {
		order = append(order, n.ID)
	})

	want := []string{"r", "a", "b", "b1", "b2"}
	if len(order) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := t.TempDir() + "/doc.json"
	if err := WriteFile(sampleTree(), path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if Count(got) != Count(sampleTree()) {
		t.Errorf("round trip changed node count: %d != %d", Count(got), Count(sampleTree()))
	}
}

func TestCollapsedSetToggle(t *testing.T) {
	s := NewCollapsedSet()

	if s.Has("b") {
		t.Error("new set should be empty")
	}
	if !s.Toggle("b") {
		t.Error("first toggle should collapse")
	}
	if !s.Has("b") {
		t.Error("b should be collapsed after toggle")
	}
	if s.Toggle("b") {
		t.Error("second toggle should expand")
	}
	if s.Has("b") {
		t.Error("b should be expanded after double toggle")
	}
}

func TestCollapsedSetNilSafe(t *testing.T) {
	var s *CollapsedSet
	if s.Has("x") {
		t.Error("nil set should report nothing collapsed")
	}
	if s.Len() != 0 {
		t.Error("nil set Len should be 0")
	}
	if s.IDs() != nil {
		t.Error("nil set IDs should be nil")
	}
}

func TestCollapsedSetIDsSorted(t *testing.T) {
	s := NewCollapsedSetOf("c", "a", "b")
	ids := s.IDs()
	want := []string{"a", "b", "c"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs = %v, want %v", ids, want)
		}
	}
}

func TestCollapsedSetClone(t *testing.T) {
	s := NewCollapsedSetOf("a")
	c := s.Clone()
	c.Toggle("b")

	if s.Has("b") {
		t.Error("mutating a clone must not affect the original")
	}
	if !c.Has("a") {
		t.Error("clone should carry existing entries")
	}
}
