package payment

import "context"

// PaymentOrder is a remote payment intent created at the gateway before
// any local order exists.
type PaymentOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Gateway is the capability the checkout flow depends on for online
// payments. Create may fail; confirmation arrives from the client an
// arbitrary time later and is checked with VerifySignature before an
// order is created. Both outcomes must be treated as fallible.
type Gateway interface {
	// CreatePaymentOrder registers a payment intent for the given total.
	// On failure no local order may be created.
	CreatePaymentOrder(ctx context.Context, amount float64, receipt string) (*PaymentOrder, error)

	// VerifySignature checks the transaction identifiers reported by the
	// client-side confirmation callback against the gateway secret.
	VerifySignature(gatewayOrderID, paymentID, signature string) error
}
