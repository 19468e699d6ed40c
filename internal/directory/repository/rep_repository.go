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

type MySQLRepRepository struct {
	db *sql.DB
}

func NewMySQLRepRepository(db *sql.DB) *MySQLRepRepository {
	return &MySQLRepRepository{db: db}
}

const repColumns = `r.id, r.user_id, r.name, r.email, r.is_active, r.last_assigned_at`

func (r *MySQLRepRepository) FindByID(ctx context.Context, id string) (*domain.Rep, error) {
	query := `SELECT ` + repColumns + ` FROM reps r WHERE r.id = ?`

	rep, err := scanRep(mysql.Conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("rep with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying rep by id: %w", err)
	}

	return rep, nil
}

func (r *MySQLRepRepository) ListActive(ctx context.Context) ([]domain.Rep, error) {
	query := `SELECT ` + repColumns + ` FROM reps r WHERE r.is_active = 1 ORDER BY r.id`

	rows, err := mysql.Conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying active reps: %w", err)
	}
	defer rows.Close()

	var reps []domain.Rep
	for rows.Next() {
		rep, err := scanRep(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rep row: %w", err)
		}
		reps = append(reps, *rep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rep rows: %w", err)
	}

	return reps, nil
}

func (r *MySQLRepRepository) TouchAssigned(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE reps SET last_assigned_at = ? WHERE id = ?`

	if _, err := mysql.Conn(ctx, r.db).ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("updating rep last assigned: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRep(row rowScanner) (*domain.Rep, error) {
	var (
		rep          domain.Rep
		email        sql.NullString
		lastAssigned sql.NullTime
	)
	if err := row.Scan(&rep.ID, &rep.UserID, &rep.Name, &email, &rep.IsActive, &lastAssigned); err != nil {
		return nil, err
	}

	if email.Valid && email.String != "" {
		rep.Email = &email.String
	}
	if lastAssigned.Valid {
		rep.LastAssignedAt = &lastAssigned.Time
	}

	return &rep, nil
}
