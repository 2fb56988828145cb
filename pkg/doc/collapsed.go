package doc

import "slices"

// CollapsedSet tracks which nodes are currently collapsed, keyed by node id.
//
// The zero value is not usable; create one with NewCollapsedSet.
// The set starts empty, is toggled by user action, and survives layout
// recomputation. It is not carried across a document regeneration: new
// documents get fresh node ids, so stale entries simply never match.
type CollapsedSet struct {
	ids map[string]struct{}
}

// NewCollapsedSet creates an empty collapsed set.
func NewCollapsedSet() *CollapsedSet {
	return &CollapsedSet{ids: make(map[string]struct{})}
}

// NewCollapsedSetOf creates a collapsed set seeded with the given ids.
func NewCollapsedSetOf(ids ...string) *CollapsedSet {
	s := NewCollapsedSet()
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle flips membership of id and reports the new state.
func (s *CollapsedSet) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Has reports whether id is collapsed.
// A nil set behaves like an empty one so callers can pass nil for
// "nothing collapsed".
func (s *CollapsedSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of collapsed nodes.
func (s *CollapsedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the collapsed ids in sorted order, for stable cache keys.
func (s *CollapsedSet) IDs() []string {
	if s == nil || len(s.ids) == 0 {
		return nil
	}
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns an independent copy of the set.
func (s *CollapsedSet) Clone() *CollapsedSet {
	c := NewCollapsedSet()
	if s != nil {
		for id := range s.ids {
			c.ids[id] = struct{}{}
		}
	}
	return c
}
