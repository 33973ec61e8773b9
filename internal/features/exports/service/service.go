package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	// ErrNothingToExport is returned for an empty order set; exporting
	// nothing is a reported error, not a silent no-op.
	ErrNothingToExport = errors.New("no orders to export")
	// ErrMissingHeader is returned when an imported sheet lacks a required
	// column; the whole file is rejected.
	ErrMissingHeader = errors.New("missing required column")
	// ErrEmptySheet is returned when the imported sheet has no data rows.
	ErrEmptySheet = errors.New("sheet contains no order rows")
)

// exportHeaders is the fixed column set, in order.
var exportHeaders = []string{
	"Tracking Number",
	"Sender Name",
	"Sender Phone",
	"Recipient Name",
	"Recipient Phone",
	"Address",
	"Status",
	"Branch",
	"Zone",
	"Price",
	"Delivery Charge",
	"Weight",
	"Description",
	"Created At",
	"Updated At",
	"Agent Name",
	"Notes",
}

// requiredImportHeaders is the subset an imported sheet must carry.
var requiredImportHeaders = []string{
	"Recipient Name",
	"Recipient Phone",
	"Address",
	"Zone",
	"Price",
	"Delivery Charge",
}

const dateLayout = "2006-01-02 15:04"

// ExportService writes and reads shipment spreadsheets.
type ExportService struct{}

// NewExportService creates an ExportService.
func NewExportService() *ExportService {
	return &ExportService{}
}

// Export writes one row per order under the fixed header set and returns
// the file bytes plus a timestamped filename.
func (s *ExportService) Export(orders []domain.Order) ([]byte, string, error) {
	if len(orders) == 0 {
		return nil, "", ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return nil, "", fmt.Errorf("failed to write header row: %w", err)
	}

	for i, o := range orders {
		row := orderRow(o)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build spreadsheet: %w", err)
	}

	filename := "shipments-" + time.Now().Format("20060102-150405") + ".xlsx"
	logger.Get().Info("spreadsheet exported",
		zap.Int("orders", len(orders)),
		zap.String("filename", filename),
	)
	return buf.Bytes(), filename, nil
}

func orderRow(o domain.Order) []interface{} {
	var updated string
	if o.UpdatedAt != nil {
		updated = o.UpdatedAt.Format(dateLayout)
	}
	return []interface{}{
		o.TrackingNumber,
		o.SellerName,
		"",
		o.ClientName,
		o.ClientPhone,
		o.Address,
		domain.Label(o.Status),
		o.Branch,
		o.Zone,
		o.ProductPrice,
		o.DeliveryCost,
		o.Weight,
		itemSummary(o.Items),
		o.CreatedAt.Format(dateLayout),
		updated,
		o.AgentName,
		o.Notes,
	}
}

func itemSummary(items []domain.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}

// Import reads the first sheet and builds order drafts. A missing required
// header or an unreadable row rejects the whole file.
func (s *ExportService) Import(r io.Reader) ([]domain.Draft, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range requiredImportHeaders {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingHeader, required)
		}
	}

	drafts := make([]domain.Draft, 0, len(rows)-1)
	for rowIdx, row := range rows[1:] {
		pick := func(header string) string {
			col, ok := columns[header]
			if !ok || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		price, err := parseAmount(pick("Price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price: %w", rowIdx+2, err)
		}
		delivery, err := parseAmount(pick("Delivery Charge"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid delivery charge: %w", rowIdx+2, err)
		}

		description := pick("Description")
		if description == "" {
			description = "Imported shipment"
		}

		item := domain.NewLineItem()
		item.Name = description
		item.Price = price

		// Columns the sheet cannot carry fall back to placeholders so an
		// imported row passes the same field checks as a typed form.
		region := pick("Region")
		if region == "" {
			region = pick("Zone")
		}
		apartment := pick("Apartment")
		if apartment == "" {
			apartment = "-"
		}
		building := pick("Building")
		if building == "" {
			building = "-"
		}

		drafts = append(drafts, domain.Draft{
			ClientName:      pick("Recipient Name"),
			ClientPhone:     pick("Recipient Phone"),
			Address:         pick("Address"),
			ApartmentNumber: apartment,
			BuildingNumber:  building,
			Zone:            pick("Zone"),
			Region:          region,
			Notes:           pick("Notes"),
			DeliveryCost:    delivery,
			Items:           []domain.LineItem{item},
		})
	}
	return drafts, nil
}

func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
