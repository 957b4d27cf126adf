package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/config"
	"github.com/stitchline/orderapi/internal/repository"
)

// NewConnection opens a postgres connection pool
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewRepositories wires the postgres repository implementations
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Order:          NewOrderRepository(db, logger),
		Reconciliation: NewReconciliationRepository(db, logger),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	order_number TEXT NOT NULL UNIQUE,
	customer_info JSONB NOT NULL,
	items JSONB NOT NULL,
	subtotal DOUBLE PRECISION NOT NULL,
	shipping DOUBLE PRECISION NOT NULL,
	tax DOUBLE PRECISION NOT NULL,
	total DOUBLE PRECISION NOT NULL,
	payment_method TEXT NOT NULL,
	payment_details JSONB,
	status TEXT NOT NULL,
	current_location TEXT NOT NULL DEFAULT '',
	estimated_delivery TIMESTAMPTZ NOT NULL,
	tracking_history JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);

CREATE TABLE IF NOT EXISTS payment_reconciliations (
	id UUID PRIMARY KEY,
	order_number TEXT NOT NULL,
	gateway_order_id TEXT NOT NULL,
	payment_id TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	customer_email TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'open',
	created_at TIMESTAMPTZ NOT NULL
);
`

// InitSchema creates the tables if they do not exist yet
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
