package domain

import (
	"errors"
	"fmt"
)

// ErrOrderLocked is returned when a seller tries to edit an order that has
// already moved past New. Distinct from field validation so the UI can show
// a different message.
var ErrOrderLocked = errors.New("cannot edit an order that is already being processed")

// ValidationError carries a single user-facing message for the first
// failing field. Validation short-circuits, so there is never more than one.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Draft is the payload collected by the create/edit order form.
type Draft struct {
	ClientName      string     `json:"client_name"`
	ClientPhone     string     `json:"client_phone"`
	Address         string     `json:"address"`
	ApartmentNumber string     `json:"apartment_number"`
	BuildingNumber  string     `json:"building_number"`
	Zone            string     `json:"zone"`
	Region          string     `json:"region"`
	SellerID        string     `json:"seller_id"`
	DeliveryCost    float64    `json:"delivery_cost"`
	Weight          float64    `json:"weight,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Items           []LineItem `json:"items"`
}

// Validate checks the draft top to bottom and returns the first failure.
// Field order mirrors the form layout.
func (d *Draft) Validate() error {
	if d.ClientName == "" {
		return invalid("customer name is required")
	}
	if d.ClientPhone == "" {
		return invalid("customer phone is required")
	}
	if d.Address == "" {
		return invalid("address is required")
	}
	if d.Zone == "" {
		return invalid("zone must be selected")
	}
	if d.Region == "" {
		return invalid("region must be selected")
	}
	if d.ApartmentNumber == "" {
		return invalid("apartment number is required")
	}
	if d.BuildingNumber == "" {
		return invalid("building number is required")
	}
	if d.SellerID == "" {
		return invalid("seller must be selected")
	}
	if len(d.Items) == 0 {
		return invalid("at least one product is required")
	}
	for i, item := range d.Items {
		if item.Name == "" {
			return invalid("product %d is missing a name", i+1)
		}
		if item.Price <= 0 {
			return invalid("product %d must have a price greater than zero", i+1)
		}
		if item.Quantity < 1 {
			return invalid("product %d must have a quantity of at least one", i+1)
		}
	}
	return nil
}

// ProductsTotal sums quantity times unit price over the draft's line items.
func (d *Draft) ProductsTotal() float64 {
	var total float64
	for _, item := range d.Items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

// GrandTotal is the products total plus the delivery fee. Derived on every
// read, never cached.
func (d *Draft) GrandTotal() float64 {
	return d.ProductsTotal() + d.DeliveryCost
}

// CanEdit enforces the seller edit gate: a seller may only modify an order
// while it is still New. All other roles edit freely.
func CanEdit(role Role, current Status) error {
	if role == RoleSeller && current != StatusNew {
		return ErrOrderLocked
	}
	return nil
}
