package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maison/storefront/internal/domain/shared"
)

// Status is the lifecycle state of an order. It is created server-side on
// successful payment confirmation and thereafter mutated only by admin
// actions.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists every valid status, in lifecycle order
var AllStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further status transition is permitted.
// The authoritative check lives server-side; the client gates its own
// controls with this as defense in depth.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Item is a product snapshot captured into the order at creation time
type Item struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price multiplied by quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ShippingDetails is the address block collected by the checkout flow
type ShippingDetails struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	State      string `json:"state"`
	District   string `json:"district"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

// Order as reported by the backend. The client treats it as immutable data;
// admin status changes go back through the backend.
type Order struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	UserEmail string          `json:"userEmail,omitempty"`
	Status    Status          `json:"status"`
	Items     []Item          `json:"items"`
	Shipping  ShippingDetails `json:"shipping"`
	PaymentID string          `json:"paymentId,omitempty"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CanTransition returns nil when the order may move to the target status.
// Orders in a terminal status reject every transition.
func (o *Order) CanTransition(to Status) error {
	if !to.Valid() {
		return shared.ErrInvalidInput
	}
	if o.Status.Terminal() {
		return shared.ErrTerminalStatus
	}
	return nil
}

// ItemsTotal recomputes the sum of item subtotals. Used by display code to
// cross-check the backend-reported total.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
