package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/cache"
	"github.com/stitchline/orderapi/internal/domain"
	"github.com/stitchline/orderapi/internal/events"
	"github.com/stitchline/orderapi/internal/repository"
	"github.com/stitchline/orderapi/pkg/errors"
)

type orderService struct {
	repos    *repository.Repositories
	producer *events.Producer
	cache    cache.Cache
	logger   *zap.Logger
}

// NewOrderService creates a new order service. The cache is optional;
// nil disables cache invalidation.
func NewOrderService(repos *repository.Repositories, producer *events.Producer, c cache.Cache, logger *zap.Logger) *orderService {
	return &orderService{
		repos:    repos,
		producer: producer,
		cache:    c,
		logger:   logger,
	}
}

// historyLabels are the human-readable tracking entry labels per status
var historyLabels = map[domain.OrderStatus]string{
	domain.OrderStatusPending:    "Order Placed",
	domain.OrderStatusProcessing: "Processing",
	domain.OrderStatusShipped:    "Shipped",
	domain.OrderStatusDelivered:  "Delivered",
}

// UpdateStatus transitions an order's status. Transitions are validated
// against the forward-only transition table; setting the current status
// again is an idempotent no-op that only refreshes UpdatedAt. On an
// actual change a tracking-history entry is appended, so the audit
// trail never misses a transition.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus, location, details string) (*domain.Order, error) {
	if !newStatus.IsValid() {
		return nil, &errors.ErrValidation{Field: "status", Message: "unknown status"}
	}

	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == newStatus {
		if err := s.repos.Order.UpdateStatus(ctx, orderID, newStatus, nil); err != nil {
			return nil, err
		}
		return order, nil
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return nil, &errors.ErrInvalidStateTransition{
			From: string(order.Status),
			To:   string(newStatus),
		}
	}

	if location == "" {
		location = order.CurrentLocation
	}
	entry := &domain.TrackingEntry{
		Status:    historyLabels[newStatus],
		Location:  location,
		Timestamp: time.Now(),
		Details:   details,
	}

	if err := s.repos.Order.UpdateStatus(ctx, orderID, newStatus, entry); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, order.OrderNumber)

	if err := s.producer.PublishOrderStatusChanged(events.OrderStatusChangedEvent{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		From:        order.Status,
		To:          newStatus,
		Location:    location,
	}); err != nil {
		s.logger.Warn("Failed to publish status changed event", zap.Error(err))
	}

	return s.repos.Order.GetByID(ctx, orderID)
}

// invalidateCaches drops the cached tracking view and the status
// counts after a transition, so lookups never serve the old status.
func (s *orderService) invalidateCaches(ctx context.Context, orderNumber string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, trackingCacheKey(orderNumber)); err != nil {
		s.logger.Warn("Failed to invalidate tracking cache", zap.String("order_number", orderNumber), zap.Error(err))
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", zap.Error(err))
	}
}

// ListOrders returns orders for the admin view, optionally filtered by status
func (s *orderService) ListOrders(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	if status != "" {
		return s.repos.Order.ListByStatus(ctx, status, limit, offset)
	}
	return s.repos.Order.List(ctx, limit, offset)
}
