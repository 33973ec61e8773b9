package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// PageSize is the fixed number of rows per table page.
const PageSize = 10

// AgentUnassigned is the sentinel agent filter matching orders with no agent.
const AgentUnassigned = "unassigned"

// Filter is the conjunction of list criteria. Zero values mean "no filter"
// for that criterion; an empty status set matches all statuses.
type Filter struct {
	// Search matches case-insensitively against client name, seller name,
	// or order ID.
	Search string
	// Statuses is a multi-select; empty means match-all.
	Statuses []domain.Status
	// Seller filters by exact seller name.
	Seller string
	// Agent filters by exact agent name; AgentUnassigned matches orders
	// with no agent.
	Agent string
	// From and To bound the creation date inclusively. To is extended to
	// end-of-day.
	From time.Time
	To   time.Time
}

// Matches reports whether the order passes every criterion.
func (f Filter) Matches(o domain.Order) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(o.ClientName), needle) &&
			!strings.Contains(strings.ToLower(o.SellerName), needle) &&
			!strings.Contains(strings.ToLower(o.ID), needle) {
			return false
		}
	}

	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Seller != "" && o.SellerName != f.Seller {
		return false
	}

	if f.Agent != "" {
		if f.Agent == AgentUnassigned {
			if !o.Unassigned() {
				return false
			}
		} else if o.AgentName != f.Agent {
			return false
		}
	}

	if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && o.CreatedAt.After(endOfDay(f.To)) {
		return false
	}

	return true
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// Stats are the dashboard counters, computed over the filtered set before
// pagination.
type Stats struct {
	Total      int `json:"total"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// View is one rendered table page plus everything derived alongside it.
type View struct {
	Orders    []domain.Order `json:"orders"`
	Stats     Stats          `json:"stats"`
	Page      int            `json:"page"`
	PageCount int            `json:"page_count"`
	// Stale is set after any optimistic bulk patch and cleared by Refresh.
	Stale bool `json:"stale"`
	// Sellers and Agents are the dropdown option lists, hidden-aware.
	Sellers []string `json:"sellers"`
	Agents  []string `json:"agents"`
}

// CollectionService owns the gateway-side snapshot of the order list and
// derives filtered, paginated views from it. The backend remains the source
// of truth; the snapshot is an explicit cache that can go stale.
type CollectionService struct {
	backend ports.OrderBackend
	hidden  ports.HiddenStore

	mu         sync.Mutex
	orders     []domain.Order
	stale      bool
	generation uint64
}

// NewCollectionService creates a CollectionService.
func NewCollectionService(backend ports.OrderBackend, hidden ports.HiddenStore) *CollectionService {
	return &CollectionService{
		backend: backend,
		hidden:  hidden,
	}
}

// Refresh re-fetches the order list. Each call bumps a generation counter;
// a response that resolves after a newer Refresh was issued is discarded
// instead of clobbering the newer data.
func (s *CollectionService) Refresh(ctx context.Context, from, to time.Time) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	orders, err := s.backend.ListOrders(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to refresh orders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		logger.Get().Debug("discarding superseded refresh response",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", s.generation),
		)
		return nil
	}

	s.orders = orders
	s.stale = false
	return nil
}

// View applies the hidden veto, the filter, and pagination, and computes
// stats over the filtered-but-unpaginated set. The same predicate feeds the
// table and the stats so they can never disagree.
func (s *CollectionService) View(ctx context.Context, userKey string, filter Filter, page int) (*View, error) {
	hidden, err := s.hidden.Load(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load hidden orders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	visible := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if !hidden[o.ID] {
			visible = append(visible, o)
		}
	}

	filtered := make([]domain.Order, 0, len(visible))
	stats := Stats{}
	for _, o := range visible {
		if !filter.Matches(o) {
			continue
		}
		filtered = append(filtered, o)
		stats.Total++
		if domain.IsInProgress(o.Status) {
			stats.InProgress++
		}
		if domain.IsCompleted(o.Status) {
			stats.Completed++
		}
	}

	pageCount := (len(filtered) + PageSize - 1) / PageSize
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	var rows []domain.Order
	if start < len(filtered) {
		if end > len(filtered) {
			end = len(filtered)
		}
		rows = filtered[start:end]
	} else {
		rows = []domain.Order{}
	}

	return &View{
		Orders:    rows,
		Stats:     stats,
		Page:      page,
		PageCount: pageCount,
		Stale:     s.stale,
		Sellers:   optionList(visible, func(o domain.Order) string { return o.SellerName }),
		Agents:    optionList(visible, func(o domain.Order) string { return o.AgentName }),
	}, nil
}

// Filtered returns every order passing the hidden veto and the filter,
// without pagination. Used by the export path.
func (s *CollectionService) Filtered(ctx context.Context, userKey string, filter Filter) ([]domain.Order, error) {
	hidden, err := s.hidden.Load(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load hidden orders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if hidden[o.ID] {
			continue
		}
		if filter.Matches(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Find returns the snapshot copy of one order, if present.
func (s *CollectionService) Find(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

// PatchStatus applies an optimistic in-memory update after a successful bulk
// mutation and flags the snapshot stale until the next Refresh.
func (s *CollectionService) PatchStatus(ids []string, target domain.Status, agentID, agentName string) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if !wanted[s.orders[i].ID] {
			continue
		}
		s.orders[i].Status = target
		if agentID != "" {
			s.orders[i].AgentID = agentID
			s.orders[i].AgentName = agentName
		}
	}
	s.stale = true
}

// Replace swaps one order in the snapshot after a create or update, keeping
// the list roughly in sync without a full refetch.
func (s *CollectionService) Replace(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = order
			return
		}
	}
	s.orders = append([]domain.Order{order}, s.orders...)
}

// Stale reports whether the snapshot has drifted from the backend.
func (s *CollectionService) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

func optionList(orders []domain.Order, pick func(domain.Order) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, o := range orders {
		name := pick(o)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
