package adapters

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/core/logger"
	"github.com/omar-tarek-abdelfattah/CircleCodeFinal-sub001/internal/features/shipments/domain"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// RodRenderer implements ports.BillRenderer by printing an HTML bill of
// lading to PDF through a headless Chromium instance.
type RodRenderer struct {
	logger *zap.Logger
}

// NewRodRenderer creates a RodRenderer.
func NewRodRenderer() *RodRenderer {
	return &RodRenderer{
		logger: logger.Get(),
	}
}

// Render builds one document covering all given orders and prints it.
// The browser is launched per call and torn down afterwards.
func (r *RodRenderer) Render(ctx context.Context, orders []domain.Order) ([]byte, error) {
	html, err := BuildBillHTML(orders)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	r.logger.Debug("launching browser for bill of lading",
		zap.Int("orders", len(orders)),
	)

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to set document content: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print document: %w", err)
	}

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read printed document: %w", err)
	}

	r.logger.Debug("bill of lading rendered", zap.Int("bytes", len(pdf)))
	return pdf, nil
}

var billTemplate = template.Must(template.New("bill").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; font-size: 12px; color: #111; }
  .bill { border: 1px solid #333; padding: 16px; margin-bottom: 24px; page-break-after: always; }
  .bill h1 { font-size: 16px; margin: 0 0 4px 0; }
  .tracking { font-size: 20px; font-weight: bold; letter-spacing: 2px; }
  table { width: 100%; border-collapse: collapse; margin-top: 8px; }
  th, td { border: 1px solid #999; padding: 4px 6px; text-align: left; }
  .totals td { font-weight: bold; }
  .meta { margin-top: 8px; color: #444; }
</style>
</head>
<body>
{{range .Orders}}
<div class="bill">
  <h1>Bill of Lading</h1>
  <div class="tracking">{{.TrackingNumber}}</div>
  <table>
    <tr><th>Sender</th><td>{{.SellerName}}</td><th>Recipient</th><td>{{.ClientName}}</td></tr>
    <tr><th>Phone</th><td></td><th>Phone</th><td>{{.ClientPhone}}</td></tr>
    <tr><th>Zone</th><td>{{.Zone}}</td><th>Region</th><td>{{.Region}}</td></tr>
    <tr><th>Address</th><td colspan="3">{{.Address}}, Bldg {{.BuildingNumber}}, Apt {{.ApartmentNumber}}</td></tr>
  </table>
  <table>
    <tr><th>Item</th><th>Qty</th><th>Unit Price</th></tr>
    {{range .Items}}
    <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
    {{end}}
    <tr class="totals"><td>Delivery</td><td></td><td>{{printf "%.2f" .DeliveryCost}}</td></tr>
    <tr class="totals"><td>Total (EGP)</td><td></td><td>{{printf "%.2f" .TotalPrice}}</td></tr>
  </table>
  <div class="meta">
    Status: {{.StatusLabel}} | Created: {{.CreatedAt.Format "2006-01-02"}}{{if .AgentName}} | Agent: {{.AgentName}}{{end}}
    {{if .Notes}}<br>Notes: {{.Notes}}{{end}}
  </div>
</div>
{{end}}
</body>
</html>`))

type billOrder struct {
	domain.Order
	StatusLabel string
}

// BuildBillHTML renders the bill-of-lading HTML for a batch of orders.
func BuildBillHTML(orders []domain.Order) (string, error) {
	view := make([]billOrder, 0, len(orders))
	for _, o := range orders {
		view = append(view, billOrder{Order: o, StatusLabel: domain.Label(o.Status)})
	}

	var buf bytes.Buffer
	if err := billTemplate.Execute(&buf, struct{ Orders []billOrder }{Orders: view}); err != nil {
		return "", fmt.Errorf("failed to render bill template: %w", err)
	}
	return buf.String(), nil
}
