package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/cache"
	"github.com/stitchline/orderapi/internal/domain"
	"github.com/stitchline/orderapi/internal/repository"
	"github.com/stitchline/orderapi/pkg/errors"
)

const (
	trackingCacheTTL = time.Minute
	statsCacheTTL    = 30 * time.Second

	statsCacheKey = "orders:stats"

	deliverySentinel = "N/A"
)

func trackingCacheKey(orderNumber string) string {
	return "tracking:" + orderNumber
}

type trackingService struct {
	repos  *repository.Repositories
	cache  cache.Cache
	logger *zap.Logger
}

// NewTrackingService creates a new tracking service. The cache is
// optional; nil disables caching.
func NewTrackingService(repos *repository.Repositories, c cache.Cache, logger *zap.Logger) *trackingService {
	return &trackingService{
		repos:  repos,
		cache:  c,
		logger: logger,
	}
}

// Track looks an order up by its tracking number and reshapes it into
// the public view. The lookup tries an exact order-number match first,
// then the canonical numeric form for legacy numeric order numbers.
func (s *trackingService) Track(ctx context.Context, trackingNumber string) (*TrackingView, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, trackingCacheKey(trackingNumber)); err == nil {
			var view TrackingView
			if err := json.Unmarshal(data, &view); err == nil {
				return &view, nil
			}
		}
	}

	order, err := s.lookup(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	view := s.reshape(order)

	// Cache under the canonical order number so a status update can
	// drop the entry without knowing which alias the lookup used.
	if s.cache != nil {
		if data, err := json.Marshal(view); err == nil {
			if err := s.cache.Set(ctx, trackingCacheKey(view.OrderNumber), data, trackingCacheTTL); err != nil {
				s.logger.Warn("Failed to cache tracking view", zap.Error(err))
			}
		}
	}

	return view, nil
}

func (s *trackingService) lookup(ctx context.Context, trackingNumber string) (*domain.Order, error) {
	order, err := s.repos.Order.GetByOrderNumber(ctx, trackingNumber)
	if err == nil {
		return order, nil
	}
	if _, ok := err.(*errors.ErrNotFound); !ok {
		return nil, err
	}

	// Legacy orders used plain numeric order numbers; retry with the
	// canonical numeric form (strips leading zeros).
	if n, perr := strconv.ParseInt(trackingNumber, 10, 64); perr == nil {
		canonical := strconv.FormatInt(n, 10)
		if canonical != trackingNumber {
			if order, err := s.repos.Order.GetByOrderNumber(ctx, canonical); err == nil {
				return order, nil
			}
		}
	}

	return nil, &errors.ErrNotFound{Resource: "order", ID: trackingNumber}
}

func (s *trackingService) reshape(order *domain.Order) *TrackingView {
	status := order.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	estimated := deliverySentinel
	if !order.EstimatedDelivery.IsZero() {
		estimated = order.EstimatedDelivery.Format(time.RFC3339)
	}

	location := order.CurrentLocation
	if location == "" {
		location = initialLocation
	}

	history := order.TrackingHistory
	if len(history) == 0 {
		// Older records may predate tracking history; synthesize the
		// creation entry so the view is never empty.
		history = []domain.TrackingEntry{{
			Status:    "Order Placed",
			Location:  location,
			Timestamp: order.CreatedAt,
		}}
	}

	items := make([]TrackingItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = TrackingItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Size:     item.Size,
			Color:    item.Color,
			Image:    item.Image,
		}
	}

	paymentStatus := "pending"
	if order.PaymentDetails != nil {
		paymentStatus = "paid"
	}

	return &TrackingView{
		OrderID:           order.ID.String(),
		OrderNumber:       order.OrderNumber,
		Status:            status,
		EstimatedDelivery: estimated,
		CurrentLocation:   location,
		Customer:          order.Customer,
		Items:             items,
		Payment: PaymentSummary{
			Method:   order.PaymentMethod,
			Status:   paymentStatus,
			Subtotal: order.Subtotal,
			Shipping: order.Shipping,
			Tax:      order.Tax,
			Total:    order.Total,
		},
		TrackingHistory: history,
	}
}

// Stats aggregates order counts by status for the admin dashboard,
// briefly cached since the dashboard polls it.
func (s *trackingService) Stats(ctx context.Context) (*domain.StatusCounts, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, statsCacheKey); err == nil {
			var counts domain.StatusCounts
			if err := json.Unmarshal(data, &counts); err == nil {
				return &counts, nil
			}
		}
	}

	counts, err := s.repos.Order.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(counts); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, data, statsCacheTTL); err != nil {
				s.logger.Warn("Failed to cache order stats", zap.Error(err))
			}
		}
	}

	return counts, nil
}
