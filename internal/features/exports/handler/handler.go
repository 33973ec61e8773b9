package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/exports/service"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"
	shipments "github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExportHandler handles spreadsheet export and import over the order list.
type ExportHandler struct {
	exports    *service.ExportService
	collection *shipments.CollectionService
	forms      *shipments.FormService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exports *service.ExportService, collection *shipments.CollectionService, forms *shipments.FormService) *ExportHandler {
	return &ExportHandler{
		exports:    exports,
		collection: collection,
		forms:      forms,
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

// ExportOrders godoc
// @Summary Export orders to a spreadsheet
// @Description Writes the currently visible orders (after the hidden veto and the active filter, or an explicit id list) to an xlsx file
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param q query string false "Search by client, seller, or order ID"
// @Param status query string false "Comma-separated status filter"
// @Param seller query string false "Seller name"
// @Param agent query string false "Agent name, or 'unassigned'"
// @Param from query string false "Creation date lower bound (YYYY-MM-DD)"
// @Param to query string false "Creation date upper bound (YYYY-MM-DD)"
// @Param ids query string false "Comma-separated order IDs; overrides the filter"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Router /orders/export [get]
func (h *ExportHandler) ExportOrders(c *fiber.Ctx) error {
	filter := shipments.Filter{
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
			return fail(c, http.StatusBadRequest, "unknown status: "+raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		}
		filter.To = t
	}

	orders, err := h.collection.Filtered(c.Context(), userKeyFrom(c), filter)
	if err != nil {
		logger.Get().Error("failed to collect orders for export", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to export orders")
	}

	// An explicit id list narrows the export to the selection.
	if raw := c.Query("ids"); raw != "" {
		wanted := map[string]bool{}
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				wanted[id] = true
			}
		}
		selected := orders[:0]
		for _, o := range orders {
			if wanted[o.ID] {
				selected = append(selected, o)
			}
		}
		orders = selected
	}

	data, filename, err := h.exports.Export(orders)
	if err != nil {
		if errors.Is(err, service.ErrNothingToExport) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		logger.Get().Error("spreadsheet export failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to export orders")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ImportOrders godoc
// @Summary Import orders from a spreadsheet
// @Description Reads an uploaded xlsx file and creates one order per row; a missing required column or an invalid row rejects the whole file
// @Tags exports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet file"
// @Success 201 {object} map[string]int
// @Failure 400 {object} ErrorResponse
// @Router /orders/import [post]
func (h *ExportHandler) ImportOrders(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "file upload is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "failed to read uploaded file")
	}
	defer file.Close()

	drafts, err := h.exports.Import(file)
	if err != nil {
		if errors.Is(err, service.ErrMissingHeader) || errors.Is(err, service.ErrEmptySheet) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return fail(c, http.StatusBadRequest, err.Error())
	}

	// The sheet carries no seller column; the whole file imports under one
	// seller, chosen explicitly or defaulting to the caller.
	sellerID := c.FormValue("seller_id")
	if sellerID == "" {
		sellerID = userKeyFrom(c)
	}

	// Validate every draft before creating any, so a bad row cannot leave a
	// half-imported file behind.
	for i := range drafts {
		drafts[i].SellerID = sellerID
		if err := drafts[i].Validate(); err != nil {
			return fail(c, http.StatusBadRequest, "row "+strconv.Itoa(i+2)+": "+err.Error())
		}
	}

	created := 0
	for _, draft := range drafts {
		if _, err := h.forms.Create(c.Context(), draft); err != nil {
			logger.Get().Error("import stopped on backend failure",
				zap.Int("created", created),
				zap.Error(err),
			)
			return fail(c, http.StatusBadGateway, "import stopped after "+strconv.Itoa(created)+" orders: "+err.Error())
		}
		created++
	}

	logger.Get().Info("spreadsheet imported",
		zap.String("filename", fileHeader.Filename),
		zap.Int("orders", created),
	)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"created": created})
}
