package service

import (
	"context"
	"testing"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 12, 0, 0, 0, time.UTC)
}

func sampleOrders() []domain.Order {
	return []domain.Order{
		{ID: "A", ClientName: "Mona Ali", SellerName: "Cairo Crafts", Status: domain.StatusNew, TotalPrice: 110, CreatedAt: day(1)},
		{ID: "B", ClientName: "Omar Samir", SellerName: "Cairo Crafts", AgentID: "ag-1", AgentName: "Hassan", Status: domain.StatusDeliveredToAgent, CreatedAt: day(2)},
		{ID: "C", ClientName: "Laila Fawzy", SellerName: "Alex Goods", Status: domain.StatusDelivered, CreatedAt: day(3)},
		{ID: "D", ClientName: "Nour Adel", SellerName: "Alex Goods", Status: domain.StatusReturned, CreatedAt: day(4)},
	}
}

func newLoadedCollection(t *testing.T, orders []domain.Order, hidden *MockHiddenStore) (*CollectionService, *MockOrderBackend) {
	t.Helper()
	backend := new(MockOrderBackend)
	backend.On("ListOrders", mock.Anything, mock.Anything, mock.Anything).Return(orders, nil).Once()

	svc := NewCollectionService(backend, hidden)
	require.NoError(t, svc.Refresh(context.Background(), time.Time{}, time.Time{}))
	return svc, backend
}

func TestFilter_Matches(t *testing.T) {
	orders := sampleOrders()

	t.Run("SearchClientSellerOrID", func(t *testing.T) {
		assert.True(t, Filter{Search: "mona"}.Matches(orders[0]))
		assert.True(t, Filter{Search: "cairo"}.Matches(orders[0]))
		assert.True(t, Filter{Search: "a"}.Matches(orders[0]))
		assert.False(t, Filter{Search: "zz"}.Matches(orders[0]))
	})

	t.Run("EmptyStatusSetMatchesAll", func(t *testing.T) {
		for _, o := range orders {
			assert.True(t, Filter{}.Matches(o))
		}
	})

	t.Run("StatusMultiSelect", func(t *testing.T) {
		f := Filter{Statuses: []domain.Status{domain.StatusNew, domain.StatusDelivered}}
		assert.True(t, f.Matches(orders[0]))
		assert.False(t, f.Matches(orders[1]))
		assert.True(t, f.Matches(orders[2]))
	})

	t.Run("SellerExact", func(t *testing.T) {
		f := Filter{Seller: "Alex Goods"}
		assert.False(t, f.Matches(orders[0]))
		assert.True(t, f.Matches(orders[2]))
	})

	t.Run("AgentWithUnassignedSentinel", func(t *testing.T) {
		assert.True(t, Filter{Agent: "Hassan"}.Matches(orders[1]))
		assert.False(t, Filter{Agent: "Hassan"}.Matches(orders[0]))
		assert.True(t, Filter{Agent: AgentUnassigned}.Matches(orders[0]))
		assert.False(t, Filter{Agent: AgentUnassigned}.Matches(orders[1]))
	})

	t.Run("DateRangeInclusiveEndOfDay", func(t *testing.T) {
		// Order created at noon on day 2; a To bound of day 2 midnight
		// still matches because To extends to end of day.
		f := Filter{
			From: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		}
		assert.True(t, f.Matches(orders[1]))
		assert.False(t, f.Matches(orders[0]))
		assert.False(t, f.Matches(orders[2]))
	})
}

func TestCollectionView_StatsScenario(t *testing.T) {
	// One New order; filtering by New shows it, counts it as total but not
	// as in-progress or completed.
	orders := []domain.Order{
		{ID: "A", Status: domain.StatusNew, TotalPrice: 110, CreatedAt: day(1)},
	}
	svc, _ := newLoadedCollection(t, orders, emptyHidden())

	view, err := svc.View(context.Background(), "u1", Filter{Statuses: []domain.Status{domain.StatusNew}}, 1)
	require.NoError(t, err)

	require.Len(t, view.Orders, 1)
	assert.Equal(t, "A", view.Orders[0].ID)
	assert.Equal(t, 1, view.Stats.Total)
	assert.Equal(t, 0, view.Stats.InProgress)
	assert.Equal(t, 0, view.Stats.Completed)
}

func TestCollectionView_HiddenVeto(t *testing.T) {
	hidden := new(MockHiddenStore)
	hidden.On("Load", mock.Anything, "u1").Return(map[string]bool{"C": true}, nil)

	svc, _ := newLoadedCollection(t, sampleOrders(), hidden)

	view, err := svc.View(context.Background(), "u1", Filter{}, 1)
	require.NoError(t, err)

	// Hidden order C vanishes from rows, stats, and option lists at once.
	for _, o := range view.Orders {
		assert.NotEqual(t, "C", o.ID)
	}
	assert.Equal(t, 3, view.Stats.Total)
	assert.Equal(t, 0, view.Stats.Completed)
	assert.Contains(t, view.Sellers, "Alex Goods") // D still visible
	assert.Contains(t, view.Sellers, "Cairo Crafts")
}

func TestCollectionView_Pagination(t *testing.T) {
	orders := make([]domain.Order, 0, 25)
	for i := 0; i < 25; i++ {
		orders = append(orders, domain.Order{
			ID:        string(rune('a' + i)),
			Status:    domain.StatusNew,
			CreatedAt: day(1),
		})
	}
	svc, _ := newLoadedCollection(t, orders, emptyHidden())

	view, err := svc.View(context.Background(), "u1", Filter{}, 1)
	require.NoError(t, err)
	assert.Len(t, view.Orders, PageSize)
	assert.Equal(t, 3, view.PageCount)
	assert.Equal(t, 25, view.Stats.Total)

	view, err = svc.View(context.Background(), "u1", Filter{}, 3)
	require.NoError(t, err)
	assert.Len(t, view.Orders, 5)

	// Out-of-range page yields an empty page, not an error.
	view, err = svc.View(context.Background(), "u1", Filter{}, 9)
	require.NoError(t, err)
	assert.Empty(t, view.Orders)
	assert.Equal(t, 25, view.Stats.Total)
}

func TestCollection_StaleLifecycle(t *testing.T) {
	svc, backend := newLoadedCollection(t, sampleOrders(), emptyHidden())
	assert.False(t, svc.Stale())

	svc.PatchStatus([]string{"A"}, domain.StatusInPickupStage, "ag-1", "Hassan")
	assert.True(t, svc.Stale())

	patched, ok := svc.Find("A")
	require.True(t, ok)
	assert.Equal(t, domain.StatusInPickupStage, patched.Status)
	assert.Equal(t, "Hassan", patched.AgentName)

	backend.On("ListOrders", mock.Anything, mock.Anything, mock.Anything).Return(sampleOrders(), nil).Once()
	require.NoError(t, svc.Refresh(context.Background(), time.Time{}, time.Time{}))
	assert.False(t, svc.Stale())
}

// slowThenFastBackend serves two ListOrders calls: the first blocks until
// released, the second returns immediately.
type slowThenFastBackend struct {
	MockOrderBackend
	release chan struct{}
	calls   int
	first   []domain.Order
	second  []domain.Order
	mu      chan struct{}
}

func (b *slowThenFastBackend) ListOrders(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	b.mu <- struct{}{}
	b.calls++
	call := b.calls
	<-b.mu

	if call == 1 {
		<-b.release
		return b.first, nil
	}
	return b.second, nil
}

// TestCollection_RefreshGenerationToken verifies that a slow refresh that
// resolves after a newer one was issued does not overwrite the newer data.
func TestCollection_RefreshGenerationToken(t *testing.T) {
	backend := &slowThenFastBackend{
		release: make(chan struct{}),
		first:   []domain.Order{{ID: "old", Status: domain.StatusNew, CreatedAt: day(1)}},
		second:  []domain.Order{{ID: "new", Status: domain.StatusNew, CreatedAt: day(2)}},
		mu:      make(chan struct{}, 1),
	}
	svc := NewCollectionService(backend, emptyHidden())

	done := make(chan error)
	go func() {
		done <- svc.Refresh(context.Background(), time.Time{}, time.Time{})
	}()

	// Wait for the slow call to be in flight, then run a newer refresh.
	for {
		backend.mu <- struct{}{}
		calls := backend.calls
		<-backend.mu
		if calls == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, svc.Refresh(context.Background(), time.Time{}, time.Time{}))

	// Release the stale response; it must be discarded.
	close(backend.release)
	require.NoError(t, <-done)

	_, okOld := svc.Find("old")
	_, okNew := svc.Find("new")
	assert.False(t, okOld)
	assert.True(t, okNew)
}

func TestCollection_Filtered(t *testing.T) {
	hidden := new(MockHiddenStore)
	hidden.On("Load", mock.Anything, "u1").Return(map[string]bool{"A": true}, nil)

	svc, _ := newLoadedCollection(t, sampleOrders(), hidden)

	orders, err := svc.Filtered(context.Background(), "u1", Filter{Seller: "Cairo Crafts"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "B", orders[0].ID)
}

func TestCollection_Replace(t *testing.T) {
	svc, _ := newLoadedCollection(t, sampleOrders(), emptyHidden())

	// Existing order is swapped in place.
	svc.Replace(domain.Order{ID: "A", Status: domain.StatusDelivered, CreatedAt: day(1)})
	got, ok := svc.Find("A")
	require.True(t, ok)
	assert.Equal(t, domain.StatusDelivered, got.Status)

	// Unknown order is prepended.
	svc.Replace(domain.Order{ID: "Z", Status: domain.StatusNew, CreatedAt: day(5)})
	_, ok = svc.Find("Z")
	assert.True(t, ok)
}
