package service

import (
	"context"
	"fmt"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/ports"

	"golang.org/x/sync/errgroup"
)

// Snapshot is everything the landing dashboard renders in one screen.
type Snapshot struct {
	Stats        StatCards         `json:"stats"`
	Sellers      []domain.Seller   `json:"sellers"`
	Agents       []domain.Agent    `json:"agents"`
	Branches     []domain.Branch   `json:"branches"`
	ActiveAgents int               `json:"active_agents"`
	Activity     []domain.LogEntry `json:"activity"`
}

// StatCards are the headline counters. Hidden orders are excluded from
// every one of them.
type StatCards struct {
	Total      int `json:"total"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Rejected   int `json:"rejected"`
	Today      int `json:"today"`
}

// DashboardService aggregates the landing-page data.
type DashboardService struct {
	backend ports.OrderBackend
	hidden  ports.HiddenStore
	// now is swappable for tests.
	now func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(backend ports.OrderBackend, hidden ports.HiddenStore) *DashboardService {
	return &DashboardService{
		backend: backend,
		hidden:  hidden,
		now:     time.Now,
	}
}

// Load fetches sellers, agents, branches, the active-agent count, the
// activity log, and the order lists concurrently, then derives the stat
// cards. The first failure cancels the remaining fetches and fails the
// whole load; the dashboard renders all-or-nothing.
func (s *DashboardService) Load(ctx context.Context, userKey string) (*Snapshot, error) {
	var (
		snap   Snapshot
		orders []domain.Order
		today  []domain.Order
		hidden map[string]bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Sellers, err = s.backend.ListSellers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Agents, err = s.backend.ListAgents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Branches, err = s.backend.ListBranches(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.ActiveAgents, err = s.backend.ActiveAgentCount(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Activity, err = s.backend.ActivityLog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.backend.ListOrders(gctx, time.Time{}, time.Time{})
		return err
	})
	g.Go(func() error {
		var err error
		startOfDay := s.startOfToday()
		today, err = s.backend.ListOrders(gctx, startOfDay, startOfDay)
		return err
	})
	g.Go(func() error {
		var err error
		hidden, err = s.hidden.Load(gctx, userKey)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard load failed: %w", err)
	}

	for _, o := range orders {
		if hidden[o.ID] {
			continue
		}
		snap.Stats.Total++
		switch {
		case domain.IsInProgress(o.Status):
			snap.Stats.InProgress++
		case domain.IsCompleted(o.Status):
			snap.Stats.Completed++
		case domain.IsRejected(o.Status):
			snap.Stats.Rejected++
		}
	}
	for _, o := range today {
		if !hidden[o.ID] {
			snap.Stats.Today++
		}
	}

	return &snap, nil
}

// AgentSummary proxies one agent's workload counters.
func (s *DashboardService) AgentSummary(ctx context.Context, agentID string, todayOnly bool) (*domain.AgentSummary, error) {
	summary, err := s.backend.AgentSummary(ctx, agentID, todayOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent summary: %w", err)
	}
	return summary, nil
}

func (s *DashboardService) startOfToday() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
