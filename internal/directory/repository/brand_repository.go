package repository

import (
	"context"
	"database/sql"
	"fmt"

	"samplehub/internal/domain"
	"samplehub/internal/errors"
	"samplehub/internal/infrastructure/mysql"
)

type MySQLBrandRepository struct {
	db *sql.DB
}

func NewMySQLBrandRepository(db *sql.DB) *MySQLBrandRepository {
	return &MySQLBrandRepository{db: db}
}

func (r *MySQLBrandRepository) FindByID(ctx context.Context, id string) (*domain.Brand, error) {
	query := `SELECT id, name, email FROM brands WHERE id = ?`

	var (
		brand domain.Brand
		email sql.NullString
	)
	err := mysql.Conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&brand.ID, &brand.Name, &email)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("brand with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying brand by id: %w", err)
	}

	if email.Valid && email.String != "" {
		brand.Email = &email.String
	}

	return &brand, nil
}
