package repository

import (
	"context"
	"database/sql"
	"fmt"

	"samplehub/internal/domain"
	"samplehub/internal/infrastructure/mysql"
)

type MySQLStatusHistoryRepository struct {
	db *sql.DB
}

func NewMySQLStatusHistoryRepository(db *sql.DB) *MySQLStatusHistoryRepository {
	return &MySQLStatusHistoryRepository{db: db}
}

// NextSeq returns the next sequence position for the sample. Callers hold the
// sample row lock, and UNIQUE(sample_request_id, seq) rejects any racer.
func (r *MySQLStatusHistoryRepository) NextSeq(ctx context.Context, sampleID string) (int, error) {
	query := `SELECT COALESCE(MAX(seq), 0) FROM sample_status_history WHERE sample_request_id = ?`

	var last int
	if err := mysql.Conn(ctx, r.db).QueryRowContext(ctx, query, sampleID).Scan(&last); err != nil {
		return 0, fmt.Errorf("querying last history seq: %w", err)
	}

	return last + 1, nil
}

func (r *MySQLStatusHistoryRepository) Insert(ctx context.Context, e domain.StatusEntry) error {
	query := `
		INSERT INTO sample_status_history (id, sample_request_id, seq, status, note, eta, tracking_number,
		       payment_intent_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := mysql.Conn(ctx, r.db).ExecContext(ctx, query,
		e.ID, e.SampleRequestID, e.Seq, string(e.Status), e.Note, e.ETA, e.TrackingNumber,
		e.PaymentIntentID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting status history entry: %w", err)
	}

	return nil
}

func (r *MySQLStatusHistoryRepository) ListBySample(ctx context.Context, sampleID string) ([]domain.StatusEntry, error) {
	query := `
		SELECT id, sample_request_id, seq, status, note, eta, tracking_number, payment_intent_id, created_at
		FROM sample_status_history
		WHERE sample_request_id = ?
		ORDER BY seq ASC
	`

	rows, err := mysql.Conn(ctx, r.db).QueryContext(ctx, query, sampleID)
	if err != nil {
		return nil, fmt.Errorf("querying status history: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusEntry
	for rows.Next() {
		var (
			e        domain.StatusEntry
			status   string
			note     sql.NullString
			eta      sql.NullTime
			tracking sql.NullString
			intentID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.SampleRequestID, &e.Seq, &status, &note, &eta, &tracking, &intentID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning status history row: %w", err)
		}

		st, ok := domain.ParseStatus(status)
		if !ok {
			return nil, fmt.Errorf("status history %s has unknown status %q", e.ID, status)
		}
		e.Status = st
		if note.Valid {
			e.Note = &note.String
		}
		if eta.Valid {
			d := domain.TruncateToDate(eta.Time)
			e.ETA = &d
		}
		if tracking.Valid {
			e.TrackingNumber = &tracking.String
		}
		if intentID.Valid {
			e.PaymentIntentID = &intentID.String
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status history rows: %w", err)
	}

	return entries, nil
}
