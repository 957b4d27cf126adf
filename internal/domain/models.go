package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a persisted record of a completed checkout
type Order struct {
	ID                uuid.UUID
	OrderNumber       string
	Customer          CustomerInfo
	Items             []OrderItem
	Subtotal          float64
	Shipping          float64
	Tax               float64
	Total             float64
	PaymentMethod     PaymentMethod
	PaymentDetails    *PaymentDetails
	Status            OrderStatus
	CurrentLocation   string
	EstimatedDelivery time.Time
	TrackingHistory   []TrackingEntry
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CustomerInfo is a point-in-time snapshot of the shipping form,
// not a reference to a customer profile. Immutable once set.
type CustomerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// OrderItem is a denormalized line item snapshot; later catalog edits
// do not change historical orders.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Image     string  `json:"image"`
}

// TrackingEntry is one entry of an order's append-only tracking history
type TrackingEntry struct {
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// PaymentDetails holds the gateway transaction identifiers for
// gateway-confirmed payments. Signature is internal-only and must never
// appear in customer-facing views.
type PaymentDetails struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature,omitempty"`
}

// ReconciliationRecord captures a payment that was confirmed by the
// gateway but whose order failed to persist. Worked off manually by
// support; never retried automatically.
type ReconciliationRecord struct {
	ID             uuid.UUID
	OrderNumber    string
	GatewayOrderID string
	PaymentID      string
	Amount         float64
	CustomerEmail  string
	Status         string // "open" | "resolved"
	CreatedAt      time.Time
}

// StatusCounts aggregates orders by status for the admin dashboard
type StatusCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
	Total      int `json:"total"`
}
