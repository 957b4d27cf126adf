package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/domain"
	"github.com/stitchline/orderapi/pkg/errors"
)

const (
	uniqueViolation       = "23505"
	orderNumberConstraint = "orders_order_number_key"
)

// isOrderNumberConflict reports whether err is a unique violation on
// the order_number constraint specifically. A 23505 on any other
// constraint is a real error and must not trigger a regenerate.
func isOrderNumberConflict(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && string(pqErr.Code) == uniqueViolation && pqErr.Constraint == orderNumberConstraint
}

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `
	id, order_number, customer_info, items,
	subtotal, shipping, tax, total,
	payment_method, payment_details, status, current_location,
	estimated_delivery, tracking_history, created_at, updated_at
`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return err
	}
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	historyJSON, err := json.Marshal(order.TrackingHistory)
	if err != nil {
		return err
	}

	var paymentJSON []byte
	if order.PaymentDetails != nil {
		paymentJSON, err = json.Marshal(order.PaymentDetails)
		if err != nil {
			return err
		}
	}

	insert := func() error {
		_, err := r.db.ExecContext(ctx, query,
			order.ID,
			order.OrderNumber,
			customerJSON,
			itemsJSON,
			order.Subtotal,
			order.Shipping,
			order.Tax,
			order.Total,
			order.PaymentMethod,
			paymentJSON,
			order.Status,
			order.CurrentLocation,
			order.EstimatedDelivery,
			historyJSON,
			order.CreatedAt,
			order.UpdatedAt,
		)
		return err
	}

	if err := insert(); err != nil {
		// Timestamp-derived order numbers can collide; retry once
		// with a fresh number before giving up.
		if isOrderNumberConflict(err) {
			r.logger.Warn("Order number collision, regenerating",
				zap.String("order_number", order.OrderNumber))
			order.OrderNumber = domain.NewOrderNumber()
			if err := insert(); err != nil {
				r.logger.Error("Failed to create order", zap.Error(err))
				return err
			}
			return nil
		}
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.Error(err))
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order, err := r.scanOne(r.db.QueryRowContext(ctx, query, orderNumber))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderNumber}
	}
	if err != nil {
		r.logger.Error("Failed to get order by order number", zap.Error(err))
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *orderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders by status", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, entry *domain.TrackingEntry) error {
	var result sql.Result
	var err error

	if entry != nil {
		entryJSON, merr := json.Marshal(entry)
		if merr != nil {
			return merr
		}
		query := `
			UPDATE orders
			SET status = $2,
			    current_location = $3,
			    tracking_history = tracking_history || $4::jsonb,
			    updated_at = $5
			WHERE id = $1
		`
		result, err = r.db.ExecContext(ctx, query, id, status, entry.Location, entryJSON, time.Now())
	} else {
		query := `
			UPDATE orders
			SET status = $2, updated_at = $3
			WHERE id = $1
		`
		result, err = r.db.ExecContext(ctx, query, id, status, time.Now())
	}

	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}

	return nil
}

func (r *orderRepository) CountByStatus(ctx context.Context) (*domain.StatusCounts, error) {
	query := `SELECT status, COUNT(*) FROM orders GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to count orders by status", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	counts := &domain.StatusCounts{}
	for rows.Next() {
		var status domain.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch status {
		case domain.OrderStatusPending:
			counts.Pending = count
		case domain.OrderStatusProcessing:
			counts.Processing = count
		case domain.OrderStatusShipped:
			counts.Shipped = count
		case domain.OrderStatusDelivered:
			counts.Delivered = count
		}
		counts.Total += count
	}

	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *orderRepository) scanOne(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var customerJSON, itemsJSON, historyJSON []byte
	var paymentJSON sql.NullString

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&customerJSON,
		&itemsJSON,
		&order.Subtotal,
		&order.Shipping,
		&order.Tax,
		&order.Total,
		&order.PaymentMethod,
		&paymentJSON,
		&order.Status,
		&order.CurrentLocation,
		&order.EstimatedDelivery,
		&historyJSON,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(customerJSON, &order.Customer); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(historyJSON, &order.TrackingHistory); err != nil {
		return nil, err
	}
	if paymentJSON.Valid {
		var details domain.PaymentDetails
		if err := json.Unmarshal([]byte(paymentJSON.String), &details); err != nil {
			return nil, err
		}
		order.PaymentDetails = &details
	}

	return &order, nil
}

func (r *orderRepository) scanMany(rows *sql.Rows) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
