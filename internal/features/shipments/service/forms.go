package service

import (
	"context"
	"fmt"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/ports"
)

// FormService validates and submits order create/edit drafts.
type FormService struct {
	backend    ports.OrderBackend
	collection *CollectionService
}

// NewFormService creates a FormService.
func NewFormService(backend ports.OrderBackend, collection *CollectionService) *FormService {
	return &FormService{
		backend:    backend,
		collection: collection,
	}
}

// Detail fetches one order's full record from the backend and folds it into
// the snapshot.
func (s *FormService) Detail(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.backend.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.collection.Replace(*order)
	return order, nil
}

// Create validates the draft and submits it. The caller keeps the draft on
// failure so no input is lost.
func (s *FormService) Create(ctx context.Context, draft domain.Draft) (*domain.Order, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	order, err := s.backend.CreateOrder(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.collection.Replace(*order)
	return order, nil
}

// Update enforces the seller edit gate, validates, and submits the edit.
// The current status comes from the snapshot when available, otherwise from
// a detail fetch.
func (s *FormService) Update(ctx context.Context, role domain.Role, id string, draft domain.Draft) (*domain.Order, error) {
	current, ok := s.collection.Find(id)
	if !ok {
		fetched, err := s.backend.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		current = *fetched
	}

	if err := domain.CanEdit(role, current.Status); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	order, err := s.backend.UpdateOrder(ctx, id, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.collection.Replace(*order)
	return order, nil
}
