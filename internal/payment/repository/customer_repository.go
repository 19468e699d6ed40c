package repository

import (
	"context"
	"database/sql"
	"fmt"

	"samplehub/internal/domain"
	"samplehub/internal/infrastructure/mysql"
)

type MySQLCustomerRepository struct {
	db *sql.DB
}

func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

// FindByBrandID returns nil without error when the brand has no processor
// customer yet.
func (r *MySQLCustomerRepository) FindByBrandID(ctx context.Context, brandID string) (*domain.PaymentCustomer, error) {
	query := `SELECT brand_id, provider_customer_id, created_at FROM payment_customers WHERE brand_id = ?`

	var c domain.PaymentCustomer
	err := mysql.Conn(ctx, r.db).QueryRowContext(ctx, query, brandID).Scan(&c.BrandID, &c.ProviderCustomerID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment customer: %w", err)
	}

	return &c, nil
}

// InsertOrGet stores c unless a customer for the brand already exists, and
// returns whichever row won. brand_id is the primary key, so concurrent first
// requests collapse onto one row.
func (r *MySQLCustomerRepository) InsertOrGet(ctx context.Context, c domain.PaymentCustomer) (*domain.PaymentCustomer, error) {
	query := `
		INSERT INTO payment_customers (brand_id, provider_customer_id, created_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE brand_id = brand_id
	`

	if _, err := mysql.Conn(ctx, r.db).ExecContext(ctx, query, c.BrandID, c.ProviderCustomerID, c.CreatedAt); err != nil {
		return nil, fmt.Errorf("inserting payment customer: %w", err)
	}

	stored, err := r.FindByBrandID(ctx, c.BrandID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("payment customer for brand %s vanished after insert", c.BrandID)
	}

	return stored, nil
}
