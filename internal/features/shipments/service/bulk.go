package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrPermissionDenied is returned when the role may not perform the
	// requested bulk action. Checked before any network call.
	ErrPermissionDenied = errors.New("your role is not allowed to perform this action")
	// ErrAgentRequired is returned when the target status needs a delivery
	// agent and none was chosen.
	ErrAgentRequired = errors.New("a delivery agent must be selected for this status")
	// ErrEmptySelection is returned when a bulk action is invoked with
	// nothing selected.
	ErrEmptySelection = errors.New("no orders selected")
	// ErrUnknownStatus is returned for a target status outside the closed set.
	ErrUnknownStatus = errors.New("unknown target status")
)

// BulkCoordinator validates and issues batched operations over a selection.
type BulkCoordinator struct {
	backend    ports.OrderBackend
	collection *CollectionService
	renderer   ports.BillRenderer
}

// NewBulkCoordinator creates a BulkCoordinator.
func NewBulkCoordinator(backend ports.OrderBackend, collection *CollectionService, renderer ports.BillRenderer) *BulkCoordinator {
	return &BulkCoordinator{
		backend:    backend,
		collection: collection,
		renderer:   renderer,
	}
}

// ChangeStatus moves every selected order to the target status in one
// batched request. All permission and parameter failures happen before the
// network call. On success the snapshot is patched optimistically and the
// selection is cleared.
func (c *BulkCoordinator) ChangeStatus(ctx context.Context, role domain.Role, sel *Selection, target domain.Status, agentID, agentName string) error {
	if sel.Len() == 0 {
		return ErrEmptySelection
	}
	if !domain.IsValidStatus(target) {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, target)
	}
	if role == domain.RoleSeller {
		return ErrPermissionDenied
	}
	if !domain.CanSetStatus(role, target) {
		return ErrPermissionDenied
	}
	if domain.RequiresAgent(target) && agentID == "" {
		return ErrAgentRequired
	}

	ids := sel.IDs()
	if err := c.backend.BulkUpdateStatus(ctx, ids, target, agentID); err != nil {
		return fmt.Errorf("bulk status update failed: %w", err)
	}

	c.collection.PatchStatus(ids, target, agentID, agentName)
	sel.Clear()

	logger.Get().Info("bulk status change applied",
		zap.Int("orders", len(ids)),
		zap.String("target", string(target)),
	)
	return nil
}

// AssignAgent hands every selected order to the chosen agent, moving them to
// DeliveredToAgent in the same batched request.
func (c *BulkCoordinator) AssignAgent(ctx context.Context, role domain.Role, sel *Selection, agentID, agentName string) error {
	if sel.Len() == 0 {
		return ErrEmptySelection
	}
	if role == domain.RoleSeller {
		return ErrPermissionDenied
	}
	if agentID == "" {
		return ErrAgentRequired
	}

	ids := sel.IDs()
	if err := c.backend.BulkUpdateStatus(ctx, ids, domain.StatusDeliveredToAgent, agentID); err != nil {
		return fmt.Errorf("bulk agent assignment failed: %w", err)
	}

	c.collection.PatchStatus(ids, domain.StatusDeliveredToAgent, agentID, agentName)
	sel.Clear()

	logger.Get().Info("bulk agent assignment applied",
		zap.Int("orders", len(ids)),
		zap.String("agent_id", agentID),
	)
	return nil
}

// Print fetches every selected order's full detail concurrently and renders
// one bill-of-lading document. Any single failed fetch aborts the whole
// batch; no partial document is produced.
func (c *BulkCoordinator) Print(ctx context.Context, sel *Selection) ([]byte, error) {
	if sel.Len() == 0 {
		return nil, ErrEmptySelection
	}

	ids := sel.IDs()
	orders := make([]domain.Order, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			order, err := c.backend.GetOrder(gctx, id)
			if err != nil {
				return fmt.Errorf("failed to fetch order %s: %w", id, err)
			}
			orders[i] = *order
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc, err := c.renderer.Render(ctx, orders)
	if err != nil {
		return nil, fmt.Errorf("failed to render bill of lading: %w", err)
	}
	return doc, nil
}
