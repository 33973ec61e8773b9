package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/config"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/httpclient"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the backend reports a missing record.
var ErrNotFound = errors.New("record not found")

// BackendAdapter implements ports.OrderBackend against the order backend's
// REST API.
type BackendAdapter struct {
	client *http.Client
	config config.BackendConfig
}

// NewBackendAdapter creates a new BackendAdapter.
func NewBackendAdapter(cfg config.BackendConfig) *BackendAdapter {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackendAdapter{
		client: httpclient.NewClient(timeout),
		config: cfg,
	}
}

// do issues an authenticated request and decodes a JSON response into out.
// A nil out discards the body.
func (a *BackendAdapter) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.URL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", a.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("backend returned status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// HealthCheck verifies that the backend is reachable and the key is valid.
func (a *BackendAdapter) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.do(ctx, http.MethodGet, "/api/v1/health", nil, nil)
}

// ListOrders fetches order summaries, optionally bounded by creation date.
func (a *BackendAdapter) ListOrders(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		q.Set("to", to.Format("2006-01-02"))
	}
	path := "/api/v1/orders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw []apiOrder
	if err := a.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(raw))
	for _, o := range raw {
		orders = append(orders, o.toDomain())
	}
	return orders, nil
}

// GetOrder fetches the full order record by ID.
func (a *BackendAdapter) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var raw apiOrder
	if err := a.do(ctx, http.MethodGet, "/api/v1/orders/"+url.PathEscape(id), nil, &raw); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("order not found: %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	order := raw.toDomain()
	return &order, nil
}

// CreateOrder submits a new order and returns the created record.
func (a *BackendAdapter) CreateOrder(ctx context.Context, draft domain.Draft) (*domain.Order, error) {
	var raw apiOrder
	if err := a.do(ctx, http.MethodPost, "/api/v1/orders", draftPayload(draft), &raw); err != nil {
		return nil, err
	}
	order := raw.toDomain()
	return &order, nil
}

// UpdateOrder replaces an order's editable fields.
func (a *BackendAdapter) UpdateOrder(ctx context.Context, id string, draft domain.Draft) (*domain.Order, error) {
	var raw apiOrder
	if err := a.do(ctx, http.MethodPut, "/api/v1/orders/"+url.PathEscape(id), draftPayload(draft), &raw); err != nil {
		return nil, err
	}
	order := raw.toDomain()
	return &order, nil
}

// BulkUpdateStatus moves all listed orders to the target status in one call.
func (a *BackendAdapter) BulkUpdateStatus(ctx context.Context, ids []string, target domain.Status, agentID string) error {
	body := bulkStatusRequest{
		OrderIDs: ids,
		Status:   string(target),
		AgentID:  agentID,
	}
	return a.do(ctx, http.MethodPatch, "/api/v1/orders/bulk-status", body, nil)
}

// ListSellers fetches all known sellers.
func (a *BackendAdapter) ListSellers(ctx context.Context) ([]domain.Seller, error) {
	var sellers []domain.Seller
	if err := a.do(ctx, http.MethodGet, "/api/v1/sellers", nil, &sellers); err != nil {
		return nil, err
	}
	return sellers, nil
}

// ListAgents fetches all known delivery agents.
func (a *BackendAdapter) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	var agents []domain.Agent
	if err := a.do(ctx, http.MethodGet, "/api/v1/agents", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// ListBranches fetches all branches.
func (a *BackendAdapter) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	var branches []domain.Branch
	if err := a.do(ctx, http.MethodGet, "/api/v1/branches", nil, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// ActiveAgentCount returns the number of currently active agents.
func (a *BackendAdapter) ActiveAgentCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/v1/agents/active-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ActivityLog fetches the recent-activity feed entries.
func (a *BackendAdapter) ActivityLog(ctx context.Context) ([]domain.LogEntry, error) {
	var raw []apiLogEntry
	if err := a.do(ctx, http.MethodGet, "/api/v1/logs", nil, &raw); err != nil {
		return nil, err
	}
	entries := make([]domain.LogEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, domain.LogEntry{
			ID:        e.ID,
			Actor:     e.Actor,
			Message:   e.Message,
			CreatedAt: time.Time(e.CreatedAt),
		})
	}
	return entries, nil
}

// AgentSummary fetches one agent's order counts, overall or today only.
func (a *BackendAdapter) AgentSummary(ctx context.Context, agentID string, todayOnly bool) (*domain.AgentSummary, error) {
	path := "/api/v1/agents/" + url.PathEscape(agentID) + "/summary"
	if todayOnly {
		path += "?today=1"
	}
	var summary domain.AgentSummary
	if err := a.do(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// wire structs

// bulkStatusRequest is the batched status-update payload.
type bulkStatusRequest struct {
	OrderIDs []string `json:"order_ids"`
	Status   string   `json:"status"`
	AgentID  string   `json:"agent_id,omitempty"`
}

// apiOrder mirrors the backend's order JSON.
type apiOrder struct {
	ID              string       `json:"id"`
	TrackingNumber  string       `json:"tracking_number"`
	ClientName      string       `json:"client_name"`
	ClientPhone     string       `json:"client_phone"`
	Address         string       `json:"address"`
	ApartmentNumber string       `json:"apartment_number"`
	BuildingNumber  string       `json:"building_number"`
	Zone            string       `json:"zone"`
	Region          string       `json:"region"`
	Branch          string       `json:"branch"`
	SellerID        string       `json:"seller_id"`
	SellerName      string       `json:"seller_name"`
	AgentID         string       `json:"agent_id"`
	AgentName       string       `json:"agent_name"`
	ProductPrice    float64      `json:"product_price"`
	DeliveryCost    float64      `json:"delivery_cost"`
	TotalPrice      float64      `json:"total_price"`
	Weight          float64      `json:"weight"`
	Notes           string       `json:"notes"`
	Status          string       `json:"status"`
	CreatedAt       apiTime      `json:"created_at"`
	UpdatedAt       *apiTime     `json:"updated_at"`
	Items           []apiItem    `json:"items"`
}

// apiItem mirrors one backend line item.
type apiItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// apiLogEntry mirrors one activity-log row.
type apiLogEntry struct {
	ID        string  `json:"id"`
	Actor     string  `json:"actor"`
	Message   string  `json:"message"`
	CreatedAt apiTime `json:"created_at"`
}

func (o apiOrder) toDomain() domain.Order {
	items := make([]domain.LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, domain.LineItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	order := domain.Order{
		ID:              o.ID,
		TrackingNumber:  o.TrackingNumber,
		ClientName:      o.ClientName,
		ClientPhone:     o.ClientPhone,
		Address:         o.Address,
		ApartmentNumber: o.ApartmentNumber,
		BuildingNumber:  o.BuildingNumber,
		Zone:            o.Zone,
		Region:          o.Region,
		Branch:          o.Branch,
		SellerID:        o.SellerID,
		SellerName:      o.SellerName,
		AgentID:         o.AgentID,
		AgentName:       o.AgentName,
		ProductPrice:    o.ProductPrice,
		DeliveryCost:    o.DeliveryCost,
		TotalPrice:      o.TotalPrice,
		Weight:          o.Weight,
		Notes:           o.Notes,
		Status:          domain.Status(o.Status),
		CreatedAt:       time.Time(o.CreatedAt),
		Items:           items,
	}
	if o.UpdatedAt != nil {
		t := time.Time(*o.UpdatedAt)
		order.UpdatedAt = &t
	}
	return order
}

func draftPayload(d domain.Draft) map[string]interface{} {
	items := make([]apiItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, apiItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return map[string]interface{}{
		"client_name":      d.ClientName,
		"client_phone":     d.ClientPhone,
		"address":          d.Address,
		"apartment_number": d.ApartmentNumber,
		"building_number":  d.BuildingNumber,
		"zone":             d.Zone,
		"region":           d.Region,
		"seller_id":        d.SellerID,
		"delivery_cost":    d.DeliveryCost,
		"weight":           d.Weight,
		"notes":            d.Notes,
		"items":            items,
	}
}

// apiTime tolerates the backend's two date formats.
type apiTime time.Time

// UnmarshalJSON parses either a bare ISO8601 timestamp or RFC3339.
func (t *apiTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		*t = apiTime(time.Time{})
		return nil
	}
	parsed, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		logger.Get().Warn("failed to parse backend date", zap.String("date", s), zap.Error(err))
		return nil
	}
	*t = apiTime(parsed)
	return nil
}
