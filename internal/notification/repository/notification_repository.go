package repository

import (
	"context"
	"database/sql"
	"fmt"

	"samplehub/internal/domain"
	"samplehub/internal/infrastructure/mysql"
)

type MySQLNotificationRepository struct {
	db *sql.DB
}

func NewMySQLNotificationRepository(db *sql.DB) *MySQLNotificationRepository {
	return &MySQLNotificationRepository{db: db}
}

func (r *MySQLNotificationRepository) Insert(ctx context.Context, n domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, sample_request_id, type, title, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := mysql.Conn(ctx, r.db).ExecContext(ctx, query,
		n.ID, n.UserID, n.SampleRequestID, n.Type, n.Title, n.Body, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	return nil
}

func (r *MySQLNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, sample_request_id, type, title, body, created_at, read_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := mysql.Conn(ctx, r.db).QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n        domain.Notification
			sampleID sql.NullString
			readAt   sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.UserID, &sampleID, &n.Type, &n.Title, &n.Body, &n.CreatedAt, &readAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.SampleRequestID = sampleID.String
		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}
		out = append(out, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notification rows: %w", err)
	}

	return out, nil
}
