package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/dashboard/service"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("development", "error")
	m.Run()
}

type fakeBackend struct {
	failAgents bool
}

func (f *fakeBackend) ListOrders(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	if from.IsZero() {
		return []domain.Order{
			{ID: "o-1", Status: domain.StatusDelivered},
			{ID: "o-2", Status: domain.StatusInPickupStage},
		}, nil
	}
	return []domain.Order{{ID: "o-2", Status: domain.StatusInPickupStage}}, nil
}

func (f *fakeBackend) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return nil, nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, draft domain.Draft) (*domain.Order, error) {
	return nil, nil
}

func (f *fakeBackend) UpdateOrder(ctx context.Context, id string, draft domain.Draft) (*domain.Order, error) {
	return nil, nil
}

func (f *fakeBackend) BulkUpdateStatus(ctx context.Context, ids []string, target domain.Status, agentID string) error {
	return nil
}

func (f *fakeBackend) ListSellers(ctx context.Context) ([]domain.Seller, error) {
	return []domain.Seller{{ID: "s-1", Name: "Cairo Crafts"}}, nil
}

func (f *fakeBackend) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	if f.failAgents {
		return nil, errors.New("agents endpoint down")
	}
	return []domain.Agent{{ID: "a-1", Name: "Hassan", Active: true}}, nil
}

func (f *fakeBackend) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return []domain.Branch{{ID: "b-1", Name: "Giza"}}, nil
}

func (f *fakeBackend) ActiveAgentCount(ctx context.Context) (int, error) {
	return 4, nil
}

func (f *fakeBackend) ActivityLog(ctx context.Context) ([]domain.LogEntry, error) {
	return []domain.LogEntry{{Message: "order o-1 delivered"}}, nil
}

func (f *fakeBackend) AgentSummary(ctx context.Context, agentID string, todayOnly bool) (*domain.AgentSummary, error) {
	return &domain.AgentSummary{AgentID: agentID, Total: 9, Completed: 5}, nil
}

type fakeHidden struct{}

func (f *fakeHidden) Load(ctx context.Context, userKey string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (f *fakeHidden) Save(ctx context.Context, userKey string, ids map[string]bool) error {
	return nil
}

func newDashboardApp(backend *fakeBackend) *fiber.App {
	h := NewDashboardHandler(service.NewDashboardService(backend, &fakeHidden{}))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/dashboard", h.GetDashboard)
	app.Get("/agents/:id/summary", h.GetAgentSummary)
	return app
}

func TestGetDashboard(t *testing.T) {
	app := newDashboardApp(&fakeBackend{})

	req := httptest.NewRequest("GET", "/dashboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap service.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 2, snap.Stats.Total)
	assert.Equal(t, 1, snap.Stats.Completed)
	assert.Equal(t, 1, snap.Stats.InProgress)
	assert.Equal(t, 1, snap.Stats.Today)
	assert.Equal(t, 4, snap.ActiveAgents)
	assert.Len(t, snap.Sellers, 1)
	assert.Len(t, snap.Activity, 1)
}

func TestGetDashboard_UpstreamFailure(t *testing.T) {
	app := newDashboardApp(&fakeBackend{failAgents: true})

	req := httptest.NewRequest("GET", "/dashboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

func TestGetAgentSummary(t *testing.T) {
	app := newDashboardApp(&fakeBackend{})

	req := httptest.NewRequest("GET", "/agents/a-1/summary?today=true", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary domain.AgentSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, "a-1", summary.AgentID)
	assert.Equal(t, 9, summary.Total)
}
