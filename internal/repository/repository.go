package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/stitchline/orderapi/internal/domain"
)

// OrderRepository is the order store. It is the single source of truth
// for order state; components never cache order state across requests.
type OrderRepository interface {
	// Create persists a new order. The store assigns ID, CreatedAt and
	// UpdatedAt. Fails on order number conflict.
	Create(ctx context.Context, order *domain.Order) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// GetByOrderNumber looks up by the human-facing order number
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)

	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)

	ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error)

	// UpdateStatus sets the order status and refreshes UpdatedAt. When
	// entry is non-nil it is appended to the tracking history and its
	// location becomes the order's current location. Tracking history
	// never shrinks.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, entry *domain.TrackingEntry) error

	// CountByStatus aggregates order counts for the admin dashboard
	CountByStatus(ctx context.Context) (*domain.StatusCounts, error)
}

// ReconciliationRepository records captured payments whose order failed
// to persist, for manual follow-up.
type ReconciliationRepository interface {
	Create(ctx context.Context, record *domain.ReconciliationRecord) error
	ListOpen(ctx context.Context, limit, offset int) ([]*domain.ReconciliationRecord, error)
}

// Repositories groups all repository implementations
type Repositories struct {
	Order          OrderRepository
	Reconciliation ReconciliationRepository
}
