package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/config"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) (*BackendAdapter, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewBackendAdapter(config.BackendConfig{
		URL:            ts.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 2,
	}), ts
}

func TestBackendAdapter_ListOrders(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("from"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "o-1",
				"tracking_number": "CC-1001",
				"client_name": "Mona Ali",
				"seller_name": "Cairo Crafts",
				"status": "New",
				"product_price": 100,
				"delivery_cost": 10,
				"total_price": 110,
				"created_at": "2024-01-02T09:30:00"
			}
		]`))
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders, err := adapter.ListOrders(context.Background(), from, time.Time{})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, "o-1", orders[0].ID)
	assert.Equal(t, domain.StatusNew, orders[0].Status)
	assert.Equal(t, 110.0, orders[0].TotalPrice)
	assert.Equal(t, 2024, orders[0].CreatedAt.Year())
	assert.True(t, orders[0].Unassigned())
}

func TestBackendAdapter_GetOrder_NotFound(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := adapter.GetOrder(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackendAdapter_GetOrder_MapsItems(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/o-2", r.URL.Path)
		w.Write([]byte(`{
			"id": "o-2",
			"status": "Delivered",
			"created_at": "2024-03-04T10:00:00Z",
			"items": [
				{"name": "Mug", "quantity": 2, "price": 5},
				{"name": "Poster", "quantity": 1, "price": 20}
			]
		}`))
	})

	order, err := adapter.GetOrder(context.Background(), "o-2")
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 30.0, order.ProductsTotal())
	assert.Equal(t, domain.StatusDelivered, order.Status)
}

func TestBackendAdapter_BulkUpdateStatus(t *testing.T) {
	var got bulkStatusRequest
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/orders/bulk-status", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	err := adapter.BulkUpdateStatus(context.Background(), []string{"a", "b"}, domain.StatusDeliveredToAgent, "ag-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got.OrderIDs)
	assert.Equal(t, "DeliveredToAgent", got.Status)
	assert.Equal(t, "ag-1", got.AgentID)
}

func TestBackendAdapter_CreateOrder(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Mona Ali", body["client_name"])

		w.Write([]byte(`{"id": "o-9", "status": "New", "created_at": "2024-05-01T08:00:00"}`))
	})

	order, err := adapter.CreateOrder(context.Background(), domain.Draft{ClientName: "Mona Ali"})
	require.NoError(t, err)
	assert.Equal(t, "o-9", order.ID)
	assert.Equal(t, domain.StatusNew, order.Status)
}

func TestBackendAdapter_ServerError(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := adapter.ListSellers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend returned status: 500")
}

func TestBackendAdapter_ActiveAgentCount(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/agents/active-count", r.URL.Path)
		w.Write([]byte(`{"count": 7}`))
	})

	count, err := adapter.ActiveAgentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestBackendAdapter_AgentSummary(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/agents/ag-1/summary", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("today"))
		w.Write([]byte(`{"agent_id": "ag-1", "total": 5, "in_progress": 2, "completed": 3}`))
	})

	summary, err := adapter.AgentSummary(context.Background(), "ag-1", true)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.Completed)
}

func TestAPITime_ToleratesBothFormats(t *testing.T) {
	var ts apiTime

	require.NoError(t, ts.UnmarshalJSON([]byte(`"2024-01-02T09:30:00"`)))
	assert.Equal(t, 9, time.Time(ts).Hour())

	require.NoError(t, ts.UnmarshalJSON([]byte(`"2024-01-02T09:30:00Z"`)))
	assert.Equal(t, 9, time.Time(ts).Hour())

	// Garbage is logged and ignored, never an error.
	require.NoError(t, ts.UnmarshalJSON([]byte(`"yesterday"`)))
}
