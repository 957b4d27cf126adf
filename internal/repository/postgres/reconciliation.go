package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/domain"
)

type reconciliationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReconciliationRepository creates a new reconciliation repository
func NewReconciliationRepository(db *sql.DB, logger *zap.Logger) *reconciliationRepository {
	return &reconciliationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *reconciliationRepository) Create(ctx context.Context, record *domain.ReconciliationRecord) error {
	query := `
		INSERT INTO payment_reconciliations
			(id, order_number, gateway_order_id, payment_id, amount, customer_email, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = "open"
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.OrderNumber,
		record.GatewayOrderID,
		record.PaymentID,
		record.Amount,
		record.CustomerEmail,
		record.Status,
		record.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create reconciliation record", zap.Error(err))
		return err
	}

	return nil
}

func (r *reconciliationRepository) ListOpen(ctx context.Context, limit, offset int) ([]*domain.ReconciliationRecord, error) {
	query := `
		SELECT id, order_number, gateway_order_id, payment_id, amount, customer_email, status, created_at
		FROM payment_reconciliations
		WHERE status = 'open'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list reconciliation records", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.ReconciliationRecord, 0)
	for rows.Next() {
		var record domain.ReconciliationRecord
		err := rows.Scan(
			&record.ID,
			&record.OrderNumber,
			&record.GatewayOrderID,
			&record.PaymentID,
			&record.Amount,
			&record.CustomerEmail,
			&record.Status,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
