package domain

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// statusRank orders the happy path; transitions only move forward.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo checks if a status transition is allowed. Transitions
// are forward-only (skipping intermediate states is allowed) and setting
// the same status again is permitted as an idempotent no-op. Delivered
// is terminal.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[newStatus]
	if !ok {
		return false
	}
	return to >= from
}

// PaymentMethod is the closed set of supported payment methods
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodOnline         PaymentMethod = "online_payment"
)

// NormalizePaymentMethod maps legacy gateway-specific labels onto the
// closed set. Unknown labels come back invalid.
func NormalizePaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(raw) {
	case PaymentMethodCashOnDelivery:
		return PaymentMethodCashOnDelivery, true
	case PaymentMethodOnline:
		return PaymentMethodOnline, true
	}
	// Older storefront clients sent the gateway name directly.
	switch raw {
	case "cod":
		return PaymentMethodCashOnDelivery, true
	case "razorpay", "online":
		return PaymentMethodOnline, true
	}
	return "", false
}

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCashOnDelivery || m == PaymentMethodOnline
}
