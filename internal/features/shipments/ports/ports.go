package ports

import (
	"context"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
)

// OrderBackend defines the interface to the order backend API.
// This is a Secondary Port (Driven Port); persistence and authorization
// live entirely on the other side of it.
type OrderBackend interface {
	// ListOrders returns order summaries, optionally bounded by creation date.
	// Zero times mean no bound on that side.
	ListOrders(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	// GetOrder retrieves the full order record including line items.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	// CreateOrder submits a new order draft and returns the created record.
	CreateOrder(ctx context.Context, draft domain.Draft) (*domain.Order, error)
	// UpdateOrder replaces an existing order's editable fields.
	UpdateOrder(ctx context.Context, id string, draft domain.Draft) (*domain.Order, error)
	// BulkUpdateStatus moves every listed order to the target status in one
	// batched request. agentID is optional unless the status requires one.
	BulkUpdateStatus(ctx context.Context, ids []string, target domain.Status, agentID string) error

	ListSellers(ctx context.Context) ([]domain.Seller, error)
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	ListBranches(ctx context.Context) ([]domain.Branch, error)
	ActiveAgentCount(ctx context.Context) (int, error)
	ActivityLog(ctx context.Context) ([]domain.LogEntry, error)
	// AgentSummary returns one agent's order counts, overall or today only.
	AgentSummary(ctx context.Context, agentID string, todayOnly bool) (*domain.AgentSummary, error)
}

// HiddenStore is the registry of locally hidden order IDs, keyed per user.
type HiddenStore interface {
	// Load returns the hidden set for the user. Malformed persisted state
	// is treated as empty, never as an error.
	Load(ctx context.Context, userKey string) (map[string]bool, error)
	// Save persists the full hidden set for the user.
	Save(ctx context.Context, userKey string, ids map[string]bool) error
}

// BillRenderer turns a batch of full order records into one printable
// bill-of-lading document.
type BillRenderer interface {
	Render(ctx context.Context, orders []domain.Order) ([]byte, error)
}
