package configs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/dbx"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Config) error {
	query :=
		`INSERT INTO config (id, admin, has_linear_emission)
		 VALUES (1, $1, $2)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, c.Admin, c.HasLinearEmission)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.RowsAffectedOne(res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.Config, error) {
	query :=
		`SELECT admin, has_linear_emission FROM config
		 WHERE id = 1
		 `

	c := &models.Config{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&c.Admin, &c.HasLinearEmission); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Config) error {
	query :=
		`UPDATE config SET has_linear_emission = $1
		 WHERE id = 1
		 `

	res, err := r.db.ExecContext(ctx, query, c.HasLinearEmission)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.RowsAffectedOne(res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
