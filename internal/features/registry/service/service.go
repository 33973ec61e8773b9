package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/ports"
)

// ErrHideDenied is returned when a seller tries to hide an order that has
// already moved past New.
var ErrHideDenied = errors.New("sellers may only hide orders that are still new")

// RegistryService manages the per-user set of hidden order IDs.
// Hides merge into the persisted set (load before save), so two overlapping
// hide actions union rather than clobber.
type RegistryService struct {
	store ports.HiddenStore
}

// NewRegistryService creates a RegistryService.
func NewRegistryService(store ports.HiddenStore) *RegistryService {
	return &RegistryService{store: store}
}

// Hide adds the order to the user's hidden set. Sellers may only hide
// orders still in the New status.
func (s *RegistryService) Hide(ctx context.Context, userKey string, role domain.Role, orderID string, status domain.Status) error {
	if role == domain.RoleSeller && status != domain.StatusNew {
		return ErrHideDenied
	}

	ids, err := s.store.Load(ctx, userKey)
	if err != nil {
		return fmt.Errorf("hide: %w", err)
	}
	ids[orderID] = true

	if err := s.store.Save(ctx, userKey, ids); err != nil {
		return fmt.Errorf("hide: %w", err)
	}
	return nil
}

// Restore removes the order from the hidden set unconditionally.
func (s *RegistryService) Restore(ctx context.Context, userKey, orderID string) error {
	ids, err := s.store.Load(ctx, userKey)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	delete(ids, orderID)

	if err := s.store.Save(ctx, userKey, ids); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

// RestoreAll clears the user's hidden set.
func (s *RegistryService) RestoreAll(ctx context.Context, userKey string) error {
	if err := s.store.Save(ctx, userKey, map[string]bool{}); err != nil {
		return fmt.Errorf("restore all: %w", err)
	}
	return nil
}

// Hidden returns the user's hidden order IDs.
func (s *RegistryService) Hidden(ctx context.Context, userKey string) (map[string]bool, error) {
	ids, err := s.store.Load(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("hidden: %w", err)
	}
	return ids, nil
}
