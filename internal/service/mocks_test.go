package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stitchline/orderapi/internal/domain"
	"github.com/stitchline/orderapi/internal/payment"
	"github.com/stitchline/orderapi/internal/repository"
	"github.com/stitchline/orderapi/pkg/errors"
)

// fakeOrderRepo is an in-memory OrderRepository for tests, with
// injectable failures.
type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      map[uuid.UUID]*domain.Order
	createErr   error
	createCalls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}
	stored := *order
	f.orders[order.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, order := range f.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: orderNumber}
}

func (f *fakeOrderRepo) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := make([]*domain.Order, 0, len(f.orders))
	for _, order := range f.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

func (f *fakeOrderRepo) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := make([]*domain.Order, 0)
	for _, order := range f.orders {
		if order.Status == status {
			copied := *order
			orders = append(orders, &copied)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, entry *domain.TrackingEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	if entry != nil {
		order.TrackingHistory = append(order.TrackingHistory, *entry)
		order.CurrentLocation = entry.Location
	}
	return nil
}

func (f *fakeOrderRepo) CountByStatus(ctx context.Context) (*domain.StatusCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := &domain.StatusCounts{}
	for _, order := range f.orders {
		switch order.Status {
		case domain.OrderStatusPending:
			counts.Pending++
		case domain.OrderStatusProcessing:
			counts.Processing++
		case domain.OrderStatusShipped:
			counts.Shipped++
		case domain.OrderStatusDelivered:
			counts.Delivered++
		}
		counts.Total++
	}
	return counts, nil
}

// fakeReconciliationRepo records created reconciliation records
type fakeReconciliationRepo struct {
	mu      sync.Mutex
	records []*domain.ReconciliationRecord
}

func (f *fakeReconciliationRepo) Create(ctx context.Context, record *domain.ReconciliationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeReconciliationRepo) ListOpen(ctx context.Context, limit, offset int) ([]*domain.ReconciliationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records, nil
}

// fakeGateway is a stub payment gateway
type fakeGateway struct {
	createErr   error
	verifyErr   error
	createCalls int
	lastAmount  float64
	lastReceipt string
}

func (f *fakeGateway) CreatePaymentOrder(ctx context.Context, amount float64, receipt string) (*payment.PaymentOrder, error) {
	f.createCalls++
	f.lastAmount = amount
	f.lastReceipt = receipt
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &payment.PaymentOrder{ID: "gw_order_123", Amount: amount, Currency: "USD"}, nil
}

func (f *fakeGateway) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	return f.verifyErr
}

func newTestRepos(orders *fakeOrderRepo, recon *fakeReconciliationRepo) *repository.Repositories {
	if orders == nil {
		orders = newFakeOrderRepo()
	}
	if recon == nil {
		recon = &fakeReconciliationRepo{}
	}
	return &repository.Repositories{Order: orders, Reconciliation: recon}
}

func validCustomerForm() CustomerForm {
	return CustomerForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "555-0100",
		Address:   "12 Analytical Way",
		City:      "London",
		State:     "LDN",
		Zip:       "10001",
		Country:   "UK",
	}
}
