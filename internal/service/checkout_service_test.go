package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/domain"
	apperrors "github.com/stitchline/orderapi/pkg/errors"
)

// TestComputeTotals verifies total = subtotal + flat shipping + 7% tax.
func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals([]CheckoutItem{
		{ProductID: "p1", Name: "Tee", Price: 50.00, Quantity: 2},
	})

	assert.Equal(t, 100.00, totals.Subtotal)
	assert.Equal(t, 10.00, totals.Shipping)
	assert.Equal(t, 7.00, totals.Tax)
	assert.Equal(t, 117.00, totals.Total)
}

// TestComputeTotals_Rounding verifies tax is rounded to cents.
func TestComputeTotals_Rounding(t *testing.T) {
	totals := ComputeTotals([]CheckoutItem{
		{ProductID: "p1", Name: "Socks", Price: 19.99, Quantity: 3},
	})

	assert.Equal(t, 59.97, totals.Subtotal)
	assert.Equal(t, 4.20, totals.Tax)
	assert.Equal(t, 74.17, totals.Total)
}

// TestCheckout_CashOnDelivery verifies the end-to-end cash path.
func TestCheckout_CashOnDelivery(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := NewCheckoutService(newTestRepos(orders, nil), &fakeGateway{}, nil, zap.NewNop())

	order, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{ProductID: "p1", Name: "Hoodie", Price: 50.00, Quantity: 2, Size: "M", Color: "black"},
		},
		Customer:      validCustomerForm(),
		PaymentMethod: "cash_on_delivery",
	})

	require.NoError(t, err)
	assert.Equal(t, 100.00, order.Subtotal)
	assert.Equal(t, 117.00, order.Total)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Nil(t, order.PaymentDetails)
	assert.Regexp(t, `^ORD-\d{6}-\d{3}$`, order.OrderNumber)

	require.Len(t, order.TrackingHistory, 1)
	assert.Equal(t, "Order Placed", order.TrackingHistory[0].Status)
	assert.Equal(t, "Processing at warehouse", order.TrackingHistory[0].Location)

	assert.WithinDuration(t, time.Now().Add(EstimatedDeliveryOffset), order.EstimatedDelivery, time.Minute)
	assert.Equal(t, 1, orders.createCalls)
}

// TestCheckout_CustomerSnapshot verifies the shipping form is captured on the order.
func TestCheckout_CustomerSnapshot(t *testing.T) {
	svc := NewCheckoutService(newTestRepos(nil, nil), &fakeGateway{}, nil, zap.NewNop())

	form := validCustomerForm()
	order, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: "p1", Name: "Tee", Price: 20, Quantity: 1}},
		Customer:      form,
		PaymentMethod: "cod",
	})

	require.NoError(t, err)
	assert.Equal(t, form.Email, order.Customer.Email)
	assert.Equal(t, form.Address, order.Customer.Address)
	assert.Equal(t, domain.PaymentMethodCashOnDelivery, order.PaymentMethod)
}

// TestCheckout_OnlinePayment verifies the gateway-confirmed path.
func TestCheckout_OnlinePayment(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := NewCheckoutService(newTestRepos(orders, nil), &fakeGateway{}, nil, zap.NewNop())

	order, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: "p1", Name: "Jacket", Price: 120, Quantity: 1}},
		Customer:      validCustomerForm(),
		PaymentMethod: "online_payment",
		Payment: &PaymentConfirmation{
			GatewayOrderID: "gw_order_123",
			PaymentID:      "pay_456",
			Signature:      "sig",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	require.NotNil(t, order.PaymentDetails)
	assert.Equal(t, "pay_456", order.PaymentDetails.PaymentID)

	require.Len(t, order.TrackingHistory, 1)
	assert.Equal(t, "Payment Confirmed", order.TrackingHistory[0].Status)
}

// TestCheckout_OnlinePayment_MissingConfirmation verifies the request is
// rejected before any state mutation.
func TestCheckout_OnlinePayment_MissingConfirmation(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := NewCheckoutService(newTestRepos(orders, nil), &fakeGateway{}, nil, zap.NewNop())

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: "p1", Name: "Jacket", Price: 120, Quantity: 1}},
		Customer:      validCustomerForm(),
		PaymentMethod: "online_payment",
	})

	var validationErr *apperrors.ErrValidation
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, orders.createCalls)
}

// TestCheckout_OnlinePayment_BadSignature verifies no order is created
// when the confirmation callback fails verification.
func TestCheckout_OnlinePayment_BadSignature(t *testing.T) {
	orders := newFakeOrderRepo()
	gateway := &fakeGateway{
		verifyErr: &apperrors.ErrPaymentFailed{Stage: "confirm", Message: "signature mismatch"},
	}
	svc := NewCheckoutService(newTestRepos(orders, nil), gateway, nil, zap.NewNop())

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: "p1", Name: "Jacket", Price: 120, Quantity: 1}},
		Customer:      validCustomerForm(),
		PaymentMethod: "online_payment",
		Payment:       &PaymentConfirmation{GatewayOrderID: "gw", PaymentID: "pay", Signature: "bad"},
	})

	var paymentErr *apperrors.ErrPaymentFailed
	require.ErrorAs(t, err, &paymentErr)
	assert.Equal(t, 0, orders.createCalls)
}

// TestCheckout_StoreFailureAfterPayment verifies the captured payment is
// recorded for manual reconciliation when the order cannot be persisted.
func TestCheckout_StoreFailureAfterPayment(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.createErr = errors.New("connection reset")
	recon := &fakeReconciliationRepo{}
	svc := NewCheckoutService(newTestRepos(orders, recon), &fakeGateway{}, nil, zap.NewNop())

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: "p1", Name: "Jacket", Price: 120, Quantity: 1}},
		Customer:      validCustomerForm(),
		PaymentMethod: "online_payment",
		Payment:       &PaymentConfirmation{GatewayOrderID: "gw_1", PaymentID: "pay_1", Signature: "sig"},
	})

	var reconErr *apperrors.ErrReconciliationRequired
	require.ErrorAs(t, err, &reconErr)
	assert.Equal(t, "pay_1", reconErr.PaymentID)

	require.Len(t, recon.records, 1)
	assert.Equal(t, "gw_1", recon.records[0].GatewayOrderID)
	assert.Equal(t, "ada@example.com", recon.records[0].CustomerEmail)
	assert.InDelta(t, 138.40, recon.records[0].Amount, 0.001)
}

// TestCheckout_UnknownPaymentMethod verifies the closed enum.
func TestCheckout_UnknownPaymentMethod(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := NewCheckoutService(newTestRepos(orders, nil), &fakeGateway{}, nil, zap.NewNop())

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: "p1", Name: "Tee", Price: 20, Quantity: 1}},
		Customer:      validCustomerForm(),
		PaymentMethod: "store_credit",
	})

	var validationErr *apperrors.ErrValidation
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, orders.createCalls)
}

// TestBeginOnlinePayment verifies the gateway receives the computed total.
func TestBeginOnlinePayment(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewCheckoutService(newTestRepos(nil, nil), gateway, nil, zap.NewNop())

	intent, err := svc.BeginOnlinePayment(context.Background(), PaymentIntentRequest{
		Items: []CheckoutItem{{ProductID: "p1", Name: "Tee", Price: 50, Quantity: 2}},
	})

	require.NoError(t, err)
	assert.Equal(t, "gw_order_123", intent.GatewayOrderID)
	assert.Equal(t, 117.00, intent.Total)
	assert.Equal(t, 117.00, gateway.lastAmount)
	assert.Regexp(t, `^ORD-\d{6}-\d{3}$`, intent.OrderNumber)
	assert.Equal(t, intent.OrderNumber, gateway.lastReceipt)
}

// TestCheckout_OnlinePayment_ReusesIntentOrderNumber verifies the order
// is saved under the number quoted to the gateway at intent time.
func TestCheckout_OnlinePayment_ReusesIntentOrderNumber(t *testing.T) {
	orders := newFakeOrderRepo()
	gateway := &fakeGateway{}
	svc := NewCheckoutService(newTestRepos(orders, nil), gateway, nil, zap.NewNop())

	intent, err := svc.BeginOnlinePayment(context.Background(), PaymentIntentRequest{
		Items: []CheckoutItem{{ProductID: "p1", Name: "Jacket", Price: 120, Quantity: 1}},
	})
	require.NoError(t, err)

	order, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: "p1", Name: "Jacket", Price: 120, Quantity: 1}},
		Customer:      validCustomerForm(),
		PaymentMethod: "online_payment",
		OrderNumber:   intent.OrderNumber,
		Payment: &PaymentConfirmation{
			GatewayOrderID: intent.GatewayOrderID,
			PaymentID:      "pay_456",
			Signature:      "sig",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, intent.OrderNumber, order.OrderNumber)
	assert.Equal(t, gateway.lastReceipt, order.OrderNumber)
}

// TestCheckout_MalformedOrderNumber verifies a client-supplied order
// number that doesn't match the generated shape is rejected.
func TestCheckout_MalformedOrderNumber(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := NewCheckoutService(newTestRepos(orders, nil), &fakeGateway{}, nil, zap.NewNop())

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: "p1", Name: "Tee", Price: 20, Quantity: 1}},
		Customer:      validCustomerForm(),
		PaymentMethod: "cash_on_delivery",
		OrderNumber:   "DROP TABLE orders",
	})

	var validationErr *apperrors.ErrValidation
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "order_number", validationErr.Field)
	assert.Equal(t, 0, orders.createCalls)
}

// TestBeginOnlinePayment_GatewayFailure verifies the checkout aborts
// with no order created when the gateway rejects the payment order.
func TestBeginOnlinePayment_GatewayFailure(t *testing.T) {
	orders := newFakeOrderRepo()
	gateway := &fakeGateway{
		createErr: &apperrors.ErrPaymentFailed{Stage: "create", Message: "gateway returned status 502"},
	}
	svc := NewCheckoutService(newTestRepos(orders, nil), gateway, nil, zap.NewNop())

	intent, err := svc.BeginOnlinePayment(context.Background(), PaymentIntentRequest{
		Items: []CheckoutItem{{ProductID: "p1", Name: "Tee", Price: 50, Quantity: 2}},
	})

	assert.Nil(t, intent)
	var paymentErr *apperrors.ErrPaymentFailed
	require.ErrorAs(t, err, &paymentErr)
	assert.Equal(t, 0, orders.createCalls)
}
