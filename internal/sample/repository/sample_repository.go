package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"samplehub/internal/domain"
	"samplehub/internal/errors"
	"samplehub/internal/infrastructure/mysql"
)

type MySQLSampleRepository struct {
	db *sql.DB
}

func NewMySQLSampleRepository(db *sql.DB) *MySQLSampleRepository {
	return &MySQLSampleRepository{db: db}
}

const sampleColumns = `
	id, brand_id, factory_id, rep_id, status, product_description, quantity,
	preferred_moq, delivery_address, file_urls, payment_intent_id,
	invoice_amount, invoice_currency, invoice_due_date, created_at, updated_at`

func (r *MySQLSampleRepository) Insert(ctx context.Context, s domain.SampleRequest) error {
	fileURLs, err := json.Marshal(s.FileURLs)
	if err != nil {
		return fmt.Errorf("encoding file urls: %w", err)
	}

	query := `
		INSERT INTO sample_requests (id, brand_id, factory_id, rep_id, status, product_description,
		       quantity, preferred_moq, delivery_address, file_urls, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = mysql.Conn(ctx, r.db).ExecContext(ctx, query,
		s.ID, s.BrandID, s.FactoryID, s.RepID, string(s.Status), s.ProductDescription,
		s.Quantity, s.PreferredMOQ, s.DeliveryAddress, fileURLs, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting sample request: %w", err)
	}

	return nil
}

func (r *MySQLSampleRepository) FindByID(ctx context.Context, id string) (*domain.SampleRequest, error) {
	query := `SELECT ` + sampleColumns + ` FROM sample_requests WHERE id = ?`
	return r.findOne(ctx, query, id)
}

// FindByIDForUpdate locks the row for the rest of the surrounding transaction.
func (r *MySQLSampleRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.SampleRequest, error) {
	query := `SELECT ` + sampleColumns + ` FROM sample_requests WHERE id = ? FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *MySQLSampleRepository) findOne(ctx context.Context, query, id string) (*domain.SampleRequest, error) {
	var (
		s          domain.SampleRequest
		status     string
		moq        sql.NullInt64
		fileURLs   []byte
		intentID   sql.NullString
		amount     decimal.NullDecimal
		currency   sql.NullString
		invoiceDue sql.NullTime
	)

	err := mysql.Conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.BrandID, &s.FactoryID, &s.RepID, &status, &s.ProductDescription, &s.Quantity,
		&moq, &s.DeliveryAddress, &fileURLs, &intentID,
		&amount, &currency, &invoiceDue, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("sample request with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying sample request by id: %w", err)
	}

	st, ok := domain.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("sample request %s has unknown status %q", id, status)
	}
	s.Status = st

	if moq.Valid {
		v := int(moq.Int64)
		s.PreferredMOQ = &v
	}
	if len(fileURLs) > 0 {
		if err := json.Unmarshal(fileURLs, &s.FileURLs); err != nil {
			return nil, fmt.Errorf("decoding file urls: %w", err)
		}
	}
	if intentID.Valid {
		s.PaymentIntentID = &intentID.String
	}
	if amount.Valid && invoiceDue.Valid {
		s.Invoice = &domain.InvoiceDetails{
			Amount:   amount.Decimal,
			Currency: currency.String,
			DueDate:  invoiceDue.Time,
		}
	}

	return &s, nil
}

// UpdateLifecycle writes the denormalized status together with the payment
// and invoice fields the transition produced.
func (r *MySQLSampleRepository) UpdateLifecycle(ctx context.Context, s domain.SampleRequest) error {
	var (
		amount   decimal.NullDecimal
		currency sql.NullString
		due      sql.NullTime
	)
	if s.Invoice != nil {
		amount = decimal.NewNullDecimal(s.Invoice.Amount)
		currency = sql.NullString{String: s.Invoice.Currency, Valid: true}
		due = sql.NullTime{Time: s.Invoice.DueDate, Valid: true}
	}

	query := `
		UPDATE sample_requests
		SET status = ?, payment_intent_id = ?, invoice_amount = ?, invoice_currency = ?,
		    invoice_due_date = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := mysql.Conn(ctx, r.db).ExecContext(ctx, query,
		string(s.Status), s.PaymentIntentID, amount, currency, due, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sample request status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("sample request with id %s not found", s.ID))
	}

	return nil
}
