package repository

import (
	"context"
	"database/sql"
	"fmt"

	"samplehub/internal/domain"
	"samplehub/internal/errors"
	"samplehub/internal/infrastructure/mysql"
)

type MySQLFactoryRepository struct {
	db *sql.DB
}

func NewMySQLFactoryRepository(db *sql.DB) *MySQLFactoryRepository {
	return &MySQLFactoryRepository{db: db}
}

func (r *MySQLFactoryRepository) FindByID(ctx context.Context, id string) (*domain.Factory, error) {
	query := `SELECT id, name, assigned_rep_ref FROM factories WHERE id = ?`

	var (
		factory domain.Factory
		repRef  sql.NullString
	)
	err := mysql.Conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&factory.ID, &factory.Name, &repRef)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("factory with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying factory by id: %w", err)
	}

	if repRef.Valid && repRef.String != "" {
		factory.AssignedRepRef = &repRef.String
	}

	return &factory, nil
}
