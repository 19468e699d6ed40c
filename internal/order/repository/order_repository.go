package repository

import (
	"context"
	"database/sql"
	"fmt"

	"samplehub/internal/domain"
	"samplehub/internal/errors"
	"samplehub/internal/infrastructure/mysql"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) ExistsForSample(ctx context.Context, sampleID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM orders WHERE sample_request_id = ?)`

	var exists bool
	if err := mysql.Conn(ctx, r.db).QueryRowContext(ctx, query, sampleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking order for sample: %w", err)
	}

	return exists, nil
}

// Insert relies on UNIQUE(sample_request_id): a second order for the same
// sample fails with AlreadyPromotedError.
func (r *MySQLOrderRepository) Insert(ctx context.Context, o domain.Order) error {
	query := `
		INSERT INTO orders (id, sample_request_id, brand_id, factory_id, rep_id, quantity, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := mysql.Conn(ctx, r.db).ExecContext(ctx, query,
		o.ID, o.SampleRequestID, o.BrandID, o.FactoryID, o.RepID, o.Quantity, o.Status, o.CreatedAt,
	)
	if mysql.IsDuplicateEntry(err) {
		return errors.NewAlreadyPromotedError(o.SampleRequestID)
	}
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, sample_request_id, brand_id, factory_id, rep_id, quantity, status, created_at
		FROM orders
		WHERE id = ?
	`

	var o domain.Order
	err := mysql.Conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.SampleRequestID, &o.BrandID, &o.FactoryID, &o.RepID, &o.Quantity, &o.Status, &o.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &o, nil
}
