package service

import (
	"github.com/stitchline/orderapi/internal/domain"
)

// CheckoutRequest represents the checkout submission payload. Items are
// either the full cart or a single direct-purchase item. OrderNumber is
// set on online checkouts to the number quoted by the payment intent,
// so the saved order matches the gateway receipt.
type CheckoutRequest struct {
	Items         []CheckoutItem       `json:"items" binding:"required,min=1"`
	Customer      CustomerForm         `json:"customer" binding:"required"`
	PaymentMethod string               `json:"payment_method" binding:"required"`
	OrderNumber   string               `json:"order_number,omitempty"`
	Payment       *PaymentConfirmation `json:"payment,omitempty"`
}

type CheckoutItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"required,min=0"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Image     string  `json:"image"`
}

// CustomerForm is the shipping form; every field is required and the
// request is rejected before any state mutation when one is missing.
type CustomerForm struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Zip       string `json:"zip" binding:"required"`
	Country   string `json:"country" binding:"required"`
}

// PaymentConfirmation carries the gateway transaction identifiers from
// the client-side success callback of an online payment.
type PaymentConfirmation struct {
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	PaymentID      string `json:"payment_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// PaymentIntentRequest asks the gateway for a remote payment order
// covering the priced items. Totals are computed server-side.
type PaymentIntentRequest struct {
	Items []CheckoutItem `json:"items" binding:"required,min=1"`
}

// PaymentIntentResponse returns the gateway order, the order number
// used as its receipt, and the totals the client will be charged.
type PaymentIntentResponse struct {
	GatewayOrderID string  `json:"gateway_order_id"`
	OrderNumber    string  `json:"order_number"`
	Subtotal       float64 `json:"subtotal"`
	Shipping       float64 `json:"shipping"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	Currency       string  `json:"currency"`
}

// TrackingView is the public, customer-facing shape of an order. It
// never carries gateway secrets or internal product identifiers.
type TrackingView struct {
	OrderID           string                 `json:"order_id"`
	OrderNumber       string                 `json:"order_number"`
	Status            domain.OrderStatus     `json:"status"`
	EstimatedDelivery string                 `json:"estimated_delivery"`
	CurrentLocation   string                 `json:"current_location"`
	Customer          domain.CustomerInfo    `json:"customer"`
	Items             []TrackingItem         `json:"items"`
	Payment           PaymentSummary         `json:"payment"`
	TrackingHistory   []domain.TrackingEntry `json:"tracking_history"`
}

type TrackingItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
	Image    string  `json:"image"`
}

// PaymentSummary is the paymentDetails subset safe for public display
type PaymentSummary struct {
	Method   domain.PaymentMethod `json:"method"`
	Status   string               `json:"status"`
	Subtotal float64              `json:"subtotal"`
	Shipping float64              `json:"shipping"`
	Tax      float64              `json:"tax"`
	Total    float64              `json:"total"`
}
