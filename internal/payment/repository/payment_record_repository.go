package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"samplehub/internal/domain"
	"samplehub/internal/errors"
	"samplehub/internal/infrastructure/mysql"
)

type MySQLPaymentRecordRepository struct {
	db *sql.DB
}

func NewMySQLPaymentRecordRepository(db *sql.DB) *MySQLPaymentRecordRepository {
	return &MySQLPaymentRecordRepository{db: db}
}

func (r *MySQLPaymentRecordRepository) Insert(ctx context.Context, p domain.PaymentRecord) error {
	query := `
		INSERT INTO payment_records (id, sample_request_id, brand_id, customer_id, payment_intent_id,
		       amount, currency, due_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := mysql.Conn(ctx, r.db).ExecContext(ctx, query,
		p.ID, p.SampleRequestID, p.BrandID, p.CustomerID, p.PaymentIntentID,
		p.Amount, p.Currency, p.DueDate, string(p.Status), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting payment record: %w", err)
	}

	return nil
}

func (r *MySQLPaymentRecordRepository) FindByIntentID(ctx context.Context, intentID string) (*domain.PaymentRecord, error) {
	query := `
		SELECT id, sample_request_id, brand_id, customer_id, payment_intent_id,
		       amount, currency, due_date, status, created_at, paid_at
		FROM payment_records
		WHERE payment_intent_id = ?
		FOR UPDATE
	`

	var (
		p      domain.PaymentRecord
		status string
		paidAt sql.NullTime
	)
	err := mysql.Conn(ctx, r.db).QueryRowContext(ctx, query, intentID).Scan(
		&p.ID, &p.SampleRequestID, &p.BrandID, &p.CustomerID, &p.PaymentIntentID,
		&p.Amount, &p.Currency, &p.DueDate, &status, &p.CreatedAt, &paidAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("payment record for intent %s not found", intentID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment record: %w", err)
	}

	p.Status = domain.PaymentStatus(status)
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}

	return &p, nil
}

func (r *MySQLPaymentRecordRepository) MarkPaid(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE payment_records SET status = ?, paid_at = ? WHERE id = ? AND status = ?`

	result, err := mysql.Conn(ctx, r.db).ExecContext(ctx, query, string(domain.PaymentPaid), at, id, string(domain.PaymentPending))
	if err != nil {
		return fmt.Errorf("marking payment record paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewInvalidStateError(fmt.Sprintf("payment record %s is not pending", id))
	}

	return nil
}
