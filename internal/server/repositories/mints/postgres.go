package mints

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

func (r *PostgresRepository) Create(ctx context.Context, m *models.Mint) error {
	query :=
		`INSERT INTO mints (id, authority, decimals, supply, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, query, m.ID, m.Authority, m.Decimals, m.Supply, m.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Mint, error) {
	return r.getOne(ctx,
		`SELECT id, authority, decimals, supply, created_at FROM mints
		 WHERE id = $1
		 `, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Mint, error) {
	return r.getOne(ctx,
		`SELECT id, authority, decimals, supply, created_at FROM mints
		 WHERE id = $1
		 FOR UPDATE
		 `, id)
}

func (r *PostgresRepository) SetSupply(ctx context.Context, id string, supply uint64) error {
	query :=
		`UPDATE mints SET supply = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, supply)
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

func (r *PostgresRepository) getOne(ctx context.Context, query string, id string) (*models.Mint, error) {
	m := &models.Mint{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Authority, &m.Decimals, &m.Supply, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}
