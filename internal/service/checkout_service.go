package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/domain"
	"github.com/stitchline/orderapi/internal/events"
	"github.com/stitchline/orderapi/internal/payment"
	"github.com/stitchline/orderapi/internal/repository"
	"github.com/stitchline/orderapi/pkg/errors"
)

const (
	// ShippingFlat is the flat shipping charge applied to every order
	ShippingFlat = 10.00
	// TaxRate is applied to the subtotal
	TaxRate = 0.07
	// EstimatedDeliveryOffset is added to the creation time once; the
	// estimate is never recalculated.
	EstimatedDeliveryOffset = 5 * 24 * time.Hour

	initialLocation = "Processing at warehouse"
)

type checkoutService struct {
	repos    *repository.Repositories
	gateway  payment.Gateway
	producer *events.Producer
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(repos *repository.Repositories, gateway payment.Gateway, producer *events.Producer, logger *zap.Logger) *checkoutService {
	return &checkoutService{
		repos:    repos,
		gateway:  gateway,
		producer: producer,
		logger:   logger,
	}
}

// Totals holds the computed monetary components of a checkout
type Totals struct {
	Subtotal float64
	Shipping float64
	Tax      float64
	Total    float64
}

// ComputeTotals sums the line items and applies the flat shipping charge
// and the tax rate, rounding to cents. Computed once at creation.
func ComputeTotals(items []CheckoutItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * TaxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: ShippingFlat,
		Tax:      tax,
		Total:    round2(subtotal + ShippingFlat + tax),
	}
}

// BeginOnlinePayment creates a remote payment order at the gateway for
// the priced items. The order number is minted here and used as the
// gateway receipt; the client hands it back at checkout so the
// persisted order carries the same number the gateway saw. No local
// order exists yet; on gateway failure the checkout aborts here.
func (s *checkoutService) BeginOnlinePayment(ctx context.Context, req PaymentIntentRequest) (*PaymentIntentResponse, error) {
	totals := ComputeTotals(req.Items)
	orderNumber := domain.NewOrderNumber()

	paymentOrder, err := s.gateway.CreatePaymentOrder(ctx, totals.Total, orderNumber)
	if err != nil {
		s.logger.Warn("Payment gateway rejected create order", zap.Error(err))
		return nil, err
	}

	return &PaymentIntentResponse{
		GatewayOrderID: paymentOrder.ID,
		OrderNumber:    orderNumber,
		Subtotal:       totals.Subtotal,
		Shipping:       totals.Shipping,
		Tax:            totals.Tax,
		Total:          totals.Total,
		Currency:       paymentOrder.Currency,
	}, nil
}

// Checkout turns a priced item selection plus customer info into a
// persisted order. Cash-on-delivery orders are created immediately as
// pending; online payments carry the gateway confirmation and are
// created as processing.
func (s *checkoutService) Checkout(ctx context.Context, req CheckoutRequest) (*domain.Order, error) {
	method, ok := domain.NormalizePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, &errors.ErrValidation{Field: "payment_method", Message: "unknown payment method"}
	}

	// Online checkouts carry back the number quoted to the gateway at
	// intent time; everything else gets a fresh one.
	orderNumber := req.OrderNumber
	if orderNumber != "" {
		if !domain.ValidOrderNumber(orderNumber) {
			return nil, &errors.ErrValidation{Field: "order_number", Message: "malformed order number"}
		}
	} else {
		orderNumber = domain.NewOrderNumber()
	}

	totals := ComputeTotals(req.Items)
	now := time.Now()

	order := &domain.Order{
		OrderNumber:       orderNumber,
		Customer:          snapshotCustomer(req.Customer),
		Items:             snapshotItems(req.Items),
		Subtotal:          totals.Subtotal,
		Shipping:          totals.Shipping,
		Tax:               totals.Tax,
		Total:             totals.Total,
		PaymentMethod:     method,
		CurrentLocation:   initialLocation,
		EstimatedDelivery: now.Add(EstimatedDeliveryOffset),
	}

	switch method {
	case domain.PaymentMethodCashOnDelivery:
		order.Status = domain.OrderStatusPending
		order.TrackingHistory = []domain.TrackingEntry{{
			Status:    "Order Placed",
			Location:  initialLocation,
			Timestamp: now,
		}}

		if err := s.repos.Order.Create(ctx, order); err != nil {
			return nil, err
		}

	case domain.PaymentMethodOnline:
		if req.Payment == nil {
			return nil, &errors.ErrValidation{Field: "payment", Message: "payment confirmation is required for online payment"}
		}
		if err := s.gateway.VerifySignature(req.Payment.GatewayOrderID, req.Payment.PaymentID, req.Payment.Signature); err != nil {
			s.logger.Warn("Payment confirmation rejected",
				zap.String("gateway_order_id", req.Payment.GatewayOrderID),
				zap.Error(err))
			return nil, err
		}

		order.Status = domain.OrderStatusProcessing
		order.PaymentDetails = &domain.PaymentDetails{
			GatewayOrderID: req.Payment.GatewayOrderID,
			PaymentID:      req.Payment.PaymentID,
			Signature:      req.Payment.Signature,
		}
		order.TrackingHistory = []domain.TrackingEntry{{
			Status:    "Payment Confirmed",
			Location:  initialLocation,
			Timestamp: now,
		}}

		if err := s.repos.Order.Create(ctx, order); err != nil {
			// Money is captured but no order exists. Record the payment
			// reference for manual reconciliation; never retried.
			return nil, s.recordReconciliation(ctx, order, err)
		}
	}

	if err := s.producer.PublishOrderCreated(events.OrderCreatedEvent{
		OrderID:       order.ID.String(),
		OrderNumber:   order.OrderNumber,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
	}); err != nil {
		s.logger.Warn("Failed to publish order created event", zap.Error(err))
	}

	return order, nil
}

func (s *checkoutService) recordReconciliation(ctx context.Context, order *domain.Order, cause error) error {
	s.logger.Error("Order persist failed after captured payment",
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_id", order.PaymentDetails.PaymentID),
		zap.Error(cause))

	record := &domain.ReconciliationRecord{
		OrderNumber:    order.OrderNumber,
		GatewayOrderID: order.PaymentDetails.GatewayOrderID,
		PaymentID:      order.PaymentDetails.PaymentID,
		Amount:         order.Total,
		CustomerEmail:  order.Customer.Email,
	}
	if err := s.repos.Reconciliation.Create(ctx, record); err != nil {
		s.logger.Error("Failed to record payment reconciliation", zap.Error(err))
	}

	return &errors.ErrReconciliationRequired{
		GatewayOrderID: order.PaymentDetails.GatewayOrderID,
		PaymentID:      order.PaymentDetails.PaymentID,
	}
}

func snapshotCustomer(form CustomerForm) domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     form.Phone,
		Address:   form.Address,
		City:      form.City,
		State:     form.State,
		Zip:       form.Zip,
		Country:   form.Country,
	}
}

func snapshotItems(items []CheckoutItem) []domain.OrderItem {
	snapshot := make([]domain.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			Image:     item.Image,
		}
	}
	return snapshot
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
