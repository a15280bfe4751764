package review

import (
	"maps"
	"slices"

	"github.com/Veraticus/mapping-lia/internal/model"
)

// IDSet is an immutable set of competence ids. Every operation returns a new
// set, so copies can be handed to views freely. The zero value is empty.
type IDSet struct {
	ids map[model.ID]struct{}
}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...model.ID) IDSet {
	s := IDSet{ids: make(map[model.ID]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s IDSet) clone() IDSet {
	return IDSet{ids: maps.Clone(s.ids)}
}

// Has reports membership.
func (s IDSet) Has(id model.ID) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of members.
func (s IDSet) Len() int {
	return len(s.ids)
}

// Add returns s with id.
func (s IDSet) Add(ids ...model.ID) IDSet {
	out := s.clone()
	if out.ids == nil {
		out.ids = make(map[model.ID]struct{}, len(ids))
	}
	for _, id := range ids {
		out.ids[id] = struct{}{}
	}
	return out
}

// Remove returns s without id.
func (s IDSet) Remove(ids ...model.ID) IDSet {
	out := s.clone()
	for _, id := range ids {
		delete(out.ids, id)
	}
	return out
}

// Toggle adds id when absent and removes it when present.
func (s IDSet) Toggle(id model.ID) IDSet {
	if s.Has(id) {
		return s.Remove(id)
	}
	return s.Add(id)
}

// Clear returns the empty set.
func (s IDSet) Clear() IDSet {
	return IDSet{}
}

// Equal reports whether both sets have the same members.
func (s IDSet) Equal(other IDSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// ContainsAll reports whether every id is a member. It is false for no ids.
func (s IDSet) ContainsAll(ids []model.ID) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// ToggleAll selects every id in visible, or deselects them when all are
// already selected. Members outside visible are untouched.
func (s IDSet) ToggleAll(visible []model.ID) IDSet {
	if s.ContainsAll(visible) {
		return s.Remove(visible...)
	}
	return s.Add(visible...)
}

// IDs returns the members in sorted order.
func (s IDSet) IDs() []model.ID {
	return slices.Sorted(maps.Keys(s.ids))
}

// IDsOf returns the ids of items in order.
func IDsOf(items []model.Competence) []model.ID {
	out := make([]model.ID, len(items))
	for i, c := range items {
		out[i] = c.CompetenceID
	}
	return out
}
