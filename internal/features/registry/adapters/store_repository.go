package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/storage"

	"go.uber.org/zap"
)

const hiddenKeyPrefix = "hidden_orders:"

// HiddenOrderRepository persists hidden order IDs as a JSON string array,
// one key per user, in the preference store.
type HiddenOrderRepository struct {
	store storage.Store
}

// NewHiddenOrderRepository creates a new HiddenOrderRepository.
func NewHiddenOrderRepository(s storage.Store) *HiddenOrderRepository {
	return &HiddenOrderRepository{store: s}
}

func hiddenKey(userKey string) string {
	if userKey == "" {
		userKey = "default"
	}
	return hiddenKeyPrefix + userKey
}

// Load reads the user's hidden set. A missing key or malformed payload is
// treated as an empty set; malformed data is logged and never surfaced.
func (r *HiddenOrderRepository) Load(ctx context.Context, userKey string) (map[string]bool, error) {
	data, err := r.store.Get(ctx, hiddenKey(userKey))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("failed to load hidden orders: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		logger.Get().Warn("malformed hidden-orders payload, treating as empty",
			zap.String("user", userKey),
			zap.Error(err),
		)
		return map[string]bool{}, nil
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}
	return set, nil
}

// Save persists the full hidden set as a sorted JSON array.
func (r *HiddenOrderRepository) Save(ctx context.Context, userKey string, ids map[string]bool) error {
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	sort.Strings(list)

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode hidden orders: %w", err)
	}
	if err := r.store.Set(ctx, hiddenKey(userKey), data, 0); err != nil {
		return fmt.Errorf("failed to save hidden orders: %w", err)
	}
	return nil
}
