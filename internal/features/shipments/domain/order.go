package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a single shipment from a seller to a client.
// Prices are in EGP.
type Order struct {
	// ID is the unique identifier assigned by the backend.
	ID string `json:"id"`
	// TrackingNumber is the human-readable tracking reference.
	TrackingNumber string `json:"tracking_number"`

	ClientName      string `json:"client_name"`
	ClientPhone     string `json:"client_phone"`
	Address         string `json:"address"`
	ApartmentNumber string `json:"apartment_number"`
	BuildingNumber  string `json:"building_number"`
	Zone            string `json:"zone"`
	Region          string `json:"region"`
	Branch          string `json:"branch,omitempty"`

	SellerID   string `json:"seller_id"`
	SellerName string `json:"seller_name"`
	// AgentID is empty while no delivery agent is assigned.
	AgentID   string `json:"agent_id,omitempty"`
	AgentName string `json:"agent_name,omitempty"`

	// ProductPrice is the sum of all line items.
	ProductPrice float64 `json:"product_price"`
	// DeliveryCost is the shipping fee added on top of the products.
	DeliveryCost float64 `json:"delivery_cost"`
	// TotalPrice is always ProductPrice + DeliveryCost.
	TotalPrice float64 `json:"total_price"`

	Weight float64 `json:"weight,omitempty"`
	Notes  string  `json:"notes,omitempty"`

	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	Items []LineItem `json:"items,omitempty"`
}

// LineItem is a single product line inside an order. The ID is transient,
// generated client-side per edit session, and never persisted.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// NewLineItem creates an empty line item with a fresh transient ID.
func NewLineItem() LineItem {
	return LineItem{ID: uuid.NewString(), Quantity: 1}
}

// ProductsTotal sums quantity times unit price over all line items.
func (o *Order) ProductsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

// Recalculate recomputes ProductPrice and TotalPrice from the line items
// and delivery cost. Must be called after any change to either.
func (o *Order) Recalculate() {
	o.ProductPrice = o.ProductsTotal()
	o.TotalPrice = o.ProductPrice + o.DeliveryCost
}

// Unassigned reports whether the order has no delivery agent.
func (o *Order) Unassigned() bool {
	return o.AgentID == "" && o.AgentName == ""
}
