package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/adapters"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HeaderRole and HeaderUser carry the caller's identity; authentication
// itself happens upstream of this gateway.
const (
	HeaderRole = "X-User-Role"
	HeaderUser = "X-User-ID"
)

const defaultUserKey = "default"

const dateLayout = "2006-01-02"

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// OrderHandler handles HTTP requests for the order table and bulk actions.
type OrderHandler struct {
	collection *service.CollectionService
	forms      *service.FormService
	bulk       *service.BulkCoordinator
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(collection *service.CollectionService, forms *service.FormService, bulk *service.BulkCoordinator) *OrderHandler {
	return &OrderHandler{
		collection: collection,
		forms:      forms,
		bulk:       bulk,
	}
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

func roleFrom(c *fiber.Ctx) domain.Role {
	return domain.ParseRole(c.Get(HeaderRole))
}

func userKeyFrom(c *fiber.Ctx) string {
	if key := strings.TrimSpace(c.Get(HeaderUser)); key != "" {
		return key
	}
	return defaultUserKey
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID(c),
	})
}

// filterFrom builds the list filter from query parameters, restricted by
// the caller's role.
func filterFrom(c *fiber.Ctx) (service.Filter, error) {
	role := roleFrom(c)

	filter := service.Filter{
		Search: c.Query("q"),
		Seller: c.Query("seller"),
		Agent:  c.Query("agent"),
	}

	for _, raw := range strings.Split(c.Query("status"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		status := domain.Status(raw)
		if !domain.IsValidStatus(status) {
			return service.Filter{}, errors.New("unknown status: " + raw)
		}
		allowed := false
		for _, s := range domain.AvailableStatuses(role) {
			if s == status {
				allowed = true
				break
			}
		}
		if !allowed {
			return service.Filter{}, errors.New("status not available for role: " + raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return service.Filter{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return service.Filter{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		filter.To = t
	}

	return filter, nil
}

// ListOrders godoc
// @Summary List orders
// @Description Returns one filtered, paginated page of the order table plus stats and dropdown options
// @Tags orders
// @Produce json
// @Param q query string false "Search by client, seller, or order ID"
// @Param status query string false "Comma-separated status filter"
// @Param seller query string false "Seller name"
// @Param agent query string false "Agent name, or 'unassigned'"
// @Param from query string false "Creation date lower bound (YYYY-MM-DD)"
// @Param to query string false "Creation date upper bound (YYYY-MM-DD)"
// @Param page query int false "Page number, 1-based"
// @Success 200 {object} service.View
// @Failure 400 {object} ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	filter, err := filterFrom(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	view, err := h.collection.View(c.Context(), userKeyFrom(c), filter, c.QueryInt("page", 1))
	if err != nil {
		logger.Get().Error("failed to build order view", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load orders")
	}

	return c.JSON(view)
}

// GetOrder godoc
// @Summary Get one order
// @Description Returns a single order's full record including line items
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id := c.Params("id")

	// The snapshot is filled from the list endpoint, which carries no line
	// items; serve from it only once a detail fetch has populated them.
	if order, ok := h.collection.Find(id); ok && len(order.Items) > 0 {
		return c.JSON(order)
	}

	order, err := h.forms.Detail(c.Context(), id)
	if err != nil {
		if errors.Is(err, adapters.ErrNotFound) {
			return fail(c, http.StatusNotFound, "order not found")
		}
		logger.Get().Error("failed to fetch order detail", zap.String("order_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load order")
	}
	return c.JSON(order)
}

// RefreshOrders godoc
// @Summary Refresh the order snapshot
// @Description Re-fetches the order list from the backend and clears the stale flag
// @Tags orders
// @Produce json
// @Param from query string false "Creation date lower bound (YYYY-MM-DD)"
// @Param to query string false "Creation date upper bound (YYYY-MM-DD)"
// @Success 200 {object} map[string]bool
// @Failure 502 {object} ErrorResponse
// @Router /orders/refresh [post]
func (h *OrderHandler) RefreshOrders(c *fiber.Ctx) error {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		}
		to = t
	}

	if err := h.collection.Refresh(c.Context(), from, to); err != nil {
		logger.Get().Error("order refresh failed", zap.Error(err))
		return fail(c, http.StatusBadGateway, "failed to refresh orders from backend")
	}
	return c.JSON(fiber.Map{"stale": h.collection.Stale()})
}

// CreateOrder godoc
// @Summary Create an order
// @Description Validates the draft and submits it to the backend
// @Tags orders
// @Accept json
// @Produce json
// @Param draft body domain.Draft true "Order draft"
// @Success 201 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var draft domain.Draft
	if err := c.BodyParser(&draft); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	order, err := h.forms.Create(c.Context(), draft)
	if err != nil {
		if domain.IsValidation(err) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		logger.Get().Error("order creation failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to create order")
	}
	return c.Status(http.StatusCreated).JSON(order)
}

// UpdateOrder godoc
// @Summary Update an order
// @Description Validates the draft and replaces the order's editable fields; sellers may only edit orders still in New
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param draft body domain.Draft true "Order draft"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	var draft domain.Draft
	if err := c.BodyParser(&draft); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	order, err := h.forms.Update(c.Context(), roleFrom(c), c.Params("id"), draft)
	if err != nil {
		switch {
		case domain.IsValidation(err):
			return fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrOrderLocked):
			return fail(c, http.StatusForbidden, err.Error())
		case errors.Is(err, adapters.ErrNotFound):
			return fail(c, http.StatusNotFound, "order not found")
		}
		logger.Get().Error("order update failed", zap.String("order_id", c.Params("id")), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to update order")
	}
	return c.JSON(order)
}

// BulkRequest represents the request body for bulk actions over a selection.
type BulkRequest struct {
	OrderIDs  []string `json:"order_ids"`
	Status    string   `json:"status,omitempty"`
	AgentID   string   `json:"agent_id,omitempty"`
	AgentName string   `json:"agent_name,omitempty"`
}

func bulkError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptySelection),
		errors.Is(err, service.ErrUnknownStatus),
		errors.Is(err, service.ErrAgentRequired):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		return fail(c, http.StatusForbidden, err.Error())
	}
	logger.Get().Error("bulk action failed", zap.Error(err))
	return fail(c, http.StatusBadGateway, "bulk action failed")
}

// BulkStatus godoc
// @Summary Change status for a selection
// @Description Moves every selected order to the target status in one batched request
// @Tags orders
// @Accept json
// @Produce json
// @Param request body BulkRequest true "Selection and target status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /orders/bulk/status [post]
func (h *OrderHandler) BulkStatus(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	sel := service.NewSelection(req.OrderIDs...)
	err := h.bulk.ChangeStatus(c.Context(), roleFrom(c), sel, domain.Status(req.Status), req.AgentID, req.AgentName)
	if err != nil {
		return bulkError(c, err)
	}
	return c.JSON(fiber.Map{"updated": len(req.OrderIDs), "stale": h.collection.Stale()})
}

// BulkAgent godoc
// @Summary Assign an agent to a selection
// @Description Hands every selected order to the chosen agent, moving them to DeliveredToAgent
// @Tags orders
// @Accept json
// @Produce json
// @Param request body BulkRequest true "Selection and agent"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /orders/bulk/agent [post]
func (h *OrderHandler) BulkAgent(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	sel := service.NewSelection(req.OrderIDs...)
	err := h.bulk.AssignAgent(c.Context(), roleFrom(c), sel, req.AgentID, req.AgentName)
	if err != nil {
		return bulkError(c, err)
	}
	return c.JSON(fiber.Map{"updated": len(req.OrderIDs), "stale": h.collection.Stale()})
}

// BulkPrint godoc
// @Summary Print bills of lading for a selection
// @Description Fetches every selected order's full detail and renders one combined PDF; any failed fetch aborts the batch
// @Tags orders
// @Accept json
// @Produce application/pdf
// @Param request body BulkRequest true "Selection"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Router /orders/bulk/print [post]
func (h *OrderHandler) BulkPrint(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	pdf, err := h.bulk.Print(c.Context(), service.NewSelection(req.OrderIDs...))
	if err != nil {
		return bulkError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="bills-of-lading.pdf"`)
	return c.Send(pdf)
}
