package handler

import (
	"net/http"
	"strings"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/dashboard/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DashboardHandler handles HTTP requests for the landing dashboard.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
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

func userKeyFrom(c *fiber.Ctx) string {
	if key := strings.TrimSpace(c.Get("X-User-ID")); key != "" {
		return key
	}
	return "default"
}

// GetDashboard godoc
// @Summary Load the landing dashboard
// @Description Returns stat cards, option lists, the activity feed, and the active-agent count in one aggregate
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.Snapshot
// @Failure 502 {object} ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	snap, err := h.dashboard.Load(c.Context(), userKeyFrom(c))
	if err != nil {
		logger.Get().Error("dashboard load failed", zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "failed to load dashboard",
			RayID:   rayID(c),
		})
	}
	return c.JSON(snap)
}

// GetAgentSummary godoc
// @Summary Get one agent's workload summary
// @Description Returns the agent's order counts, overall or for today only
// @Tags dashboard
// @Produce json
// @Param id path string true "Agent ID"
// @Param today query bool false "Restrict to today's orders"
// @Success 200 {object} domain.AgentSummary
// @Failure 502 {object} ErrorResponse
// @Router /agents/{id}/summary [get]
func (h *DashboardHandler) GetAgentSummary(c *fiber.Ctx) error {
	summary, err := h.dashboard.AgentSummary(c.Context(), c.Params("id"), c.QueryBool("today"))
	if err != nil {
		logger.Get().Error("agent summary load failed",
			zap.String("agent_id", c.Params("id")),
			zap.Error(err),
		)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "failed to load agent summary",
			RayID:   rayID(c),
		})
	}
	return c.JSON(summary)
}
