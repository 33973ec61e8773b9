package service

import (
	"context"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"

	"github.com/stretchr/testify/mock"
)

// MockOrderBackend is a mock implementation of ports.OrderBackend.
type MockOrderBackend struct {
	mock.Mock
}

func (m *MockOrderBackend) ListOrders(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderBackend) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderBackend) CreateOrder(ctx context.Context, draft domain.Draft) (*domain.Order, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderBackend) UpdateOrder(ctx context.Context, id string, draft domain.Draft) (*domain.Order, error) {
	args := m.Called(ctx, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderBackend) BulkUpdateStatus(ctx context.Context, ids []string, target domain.Status, agentID string) error {
	args := m.Called(ctx, ids, target, agentID)
	return args.Error(0)
}

func (m *MockOrderBackend) ListSellers(ctx context.Context) ([]domain.Seller, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seller), args.Error(1)
}

func (m *MockOrderBackend) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agent), args.Error(1)
}

func (m *MockOrderBackend) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Branch), args.Error(1)
}

func (m *MockOrderBackend) ActiveAgentCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderBackend) ActivityLog(ctx context.Context) ([]domain.LogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LogEntry), args.Error(1)
}

func (m *MockOrderBackend) AgentSummary(ctx context.Context, agentID string, todayOnly bool) (*domain.AgentSummary, error) {
	args := m.Called(ctx, agentID, todayOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentSummary), args.Error(1)
}

// MockHiddenStore is a mock implementation of ports.HiddenStore.
type MockHiddenStore struct {
	mock.Mock
}

func (m *MockHiddenStore) Load(ctx context.Context, userKey string) (map[string]bool, error) {
	args := m.Called(ctx, userKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockHiddenStore) Save(ctx context.Context, userKey string, ids map[string]bool) error {
	args := m.Called(ctx, userKey, ids)
	return args.Error(0)
}

// MockBillRenderer is a mock implementation of ports.BillRenderer.
type MockBillRenderer struct {
	mock.Mock
}

func (m *MockBillRenderer) Render(ctx context.Context, orders []domain.Order) ([]byte, error) {
	args := m.Called(ctx, orders)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// emptyHidden returns a store that always loads an empty set.
func emptyHidden() *MockHiddenStore {
	store := new(MockHiddenStore)
	store.On("Load", mock.Anything, mock.Anything).Return(map[string]bool{}, nil)
	return store
}
