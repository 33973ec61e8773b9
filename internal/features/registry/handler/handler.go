package handler

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/registry/service"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/adapters"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderLookup resolves an order's current status, preferring the in-memory
// snapshot over a backend round trip.
type OrderLookup interface {
	Find(id string) (domain.Order, bool)
}

// RegistryHandler handles HTTP requests for hiding and restoring orders.
type RegistryHandler struct {
	registry *service.RegistryService
	lookup   OrderLookup
	backend  ports.OrderBackend
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(registry *service.RegistryService, lookup OrderLookup, backend ports.OrderBackend) *RegistryHandler {
	return &RegistryHandler{
		registry: registry,
		lookup:   lookup,
		backend:  backend,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID(c),
	})
}

func userKeyFrom(c *fiber.Ctx) string {
	if key := strings.TrimSpace(c.Get("X-User-ID")); key != "" {
		return key
	}
	return "default"
}

func (h *RegistryHandler) statusOf(c *fiber.Ctx, id string) (domain.Status, error) {
	if order, ok := h.lookup.Find(id); ok {
		return order.Status, nil
	}
	order, err := h.backend.GetOrder(c.Context(), id)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

// HideOrder godoc
// @Summary Hide an order
// @Description Adds the order to the caller's hidden set; sellers may only hide orders still in New
// @Tags registry
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/hide [post]
func (h *RegistryHandler) HideOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	status, err := h.statusOf(c, id)
	if err != nil {
		if errors.Is(err, adapters.ErrNotFound) {
			return fail(c, http.StatusNotFound, "order not found")
		}
		logger.Get().Error("failed to resolve order for hide", zap.String("order_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to hide order")
	}

	role := domain.ParseRole(c.Get("X-User-Role"))
	if err := h.registry.Hide(c.Context(), userKeyFrom(c), role, id, status); err != nil {
		if errors.Is(err, service.ErrHideDenied) {
			return fail(c, http.StatusForbidden, err.Error())
		}
		logger.Get().Error("failed to hide order", zap.String("order_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to hide order")
	}
	return c.JSON(fiber.Map{"message": "order hidden"})
}

// RestoreOrder godoc
// @Summary Restore a hidden order
// @Description Removes the order from the caller's hidden set
// @Tags registry
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 500 {object} ErrorResponse
// @Router /orders/{id}/restore [post]
func (h *RegistryHandler) RestoreOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.registry.Restore(c.Context(), userKeyFrom(c), id); err != nil {
		logger.Get().Error("failed to restore order", zap.String("order_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to restore order")
	}
	return c.JSON(fiber.Map{"message": "order restored"})
}

// RestoreAll godoc
// @Summary Restore all hidden orders
// @Description Clears the caller's hidden set
// @Tags registry
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} ErrorResponse
// @Router /orders/restore-all [post]
func (h *RegistryHandler) RestoreAll(c *fiber.Ctx) error {
	if err := h.registry.RestoreAll(c.Context(), userKeyFrom(c)); err != nil {
		logger.Get().Error("failed to restore hidden orders", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to restore hidden orders")
	}
	return c.JSON(fiber.Map{"message": "hidden orders restored"})
}

// HiddenOrders godoc
// @Summary List hidden order IDs
// @Description Returns the caller's hidden order IDs, sorted
// @Tags registry
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 500 {object} ErrorResponse
// @Router /orders/hidden [get]
func (h *RegistryHandler) HiddenOrders(c *fiber.Ctx) error {
	hidden, err := h.registry.Hidden(c.Context(), userKeyFrom(c))
	if err != nil {
		logger.Get().Error("failed to load hidden orders", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load hidden orders")
	}

	ids := make([]string, 0, len(hidden))
	for id := range hidden {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return c.JSON(fiber.Map{"order_ids": ids})
}
