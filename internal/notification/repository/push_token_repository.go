package repository

import (
	"context"
	"database/sql"
	"fmt"

	"samplehub/internal/domain"
	"samplehub/internal/infrastructure/mysql"
)

type MySQLPushTokenRepository struct {
	db *sql.DB
}

func NewMySQLPushTokenRepository(db *sql.DB) *MySQLPushTokenRepository {
	return &MySQLPushTokenRepository{db: db}
}

// Upsert moves an existing token to the new user, since a device changes
// hands on re-login.
func (r *MySQLPushTokenRepository) Upsert(ctx context.Context, t domain.PushToken) error {
	query := `
		INSERT INTO push_tokens (token, user_id, platform, created_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE user_id = VALUES(user_id), platform = VALUES(platform)
	`

	if _, err := mysql.Conn(ctx, r.db).ExecContext(ctx, query, t.Token, t.UserID, t.Platform, t.CreatedAt); err != nil {
		return fmt.Errorf("upserting push token: %w", err)
	}

	return nil
}

func (r *MySQLPushTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := mysql.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM push_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("deleting push token: %w", err)
	}

	return nil
}

func (r *MySQLPushTokenRepository) ListByUser(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT token FROM push_tokens WHERE user_id = ? ORDER BY created_at`

	rows, err := mysql.Conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying push tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scanning push token row: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating push token rows: %w", err)
	}

	return tokens, nil
}
