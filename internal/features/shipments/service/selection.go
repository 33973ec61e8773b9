package service

import (
	"sort"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
)

// Selection is the set of order IDs chosen for a bulk action.
type Selection struct {
	ids map[string]bool
}

// NewSelection creates an empty selection, optionally seeded with IDs.
func NewSelection(ids ...string) *Selection {
	sel := &Selection{ids: make(map[string]bool, len(ids))}
	for _, id := range ids {
		if id != "" {
			sel.ids[id] = true
		}
	}
	return sel
}

// Add puts an order ID into the selection.
func (s *Selection) Add(id string) {
	if id != "" {
		s.ids[id] = true
	}
}

// Remove takes an order ID out of the selection.
func (s *Selection) Remove(id string) {
	delete(s.ids, id)
}

// Toggle flips an order's membership.
func (s *Selection) Toggle(id string) {
	if s.ids[id] {
		delete(s.ids, id)
	} else {
		s.Add(id)
	}
}

// SelectPage adds the rows of the currently visible page only, matching the
// table's select-all checkbox.
func (s *Selection) SelectPage(rows []domain.Order) {
	for _, o := range rows {
		s.Add(o.ID)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = map[string]bool{}
}

// Has reports membership.
func (s *Selection) Has(id string) bool {
	return s.ids[id]
}

// Len returns the number of selected orders.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected order IDs sorted for deterministic requests.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
