package accounts

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

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) error {
	query :=
		`INSERT INTO accounts (id, mint, authority, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query, a.ID, a.Mint, a.Authority, a.Amount, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, mint, authority, amount, closed, close_recipient, created_at FROM accounts
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, mint, authority, amount, closed, close_recipient, created_at FROM accounts
		 WHERE id = $1
		 FOR UPDATE
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) SetAmount(ctx context.Context, id string, amount uint64) error {
	query :=
		`UPDATE accounts SET amount = $2
		 WHERE id = $1 AND NOT closed
		 `
	return r.execOne(ctx, query, id, amount)
}

func (r *PostgresRepository) Close(ctx context.Context, id string, recipient string) error {
	query :=
		`UPDATE accounts SET closed = TRUE, close_recipient = $2
		 WHERE id = $1 AND NOT closed AND amount = 0
		 `
	return r.execOne(ctx, query, id, recipient)
}

func (r *PostgresRepository) ListByAuthority(ctx context.Context, authority string) ([]*models.Account, error) {
	query :=
		`SELECT id, mint, authority, amount, closed, close_recipient, created_at FROM accounts
		 WHERE authority = $1 AND NOT closed
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, authority)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Mint, &a.Authority, &a.Amount, &a.Closed, &a.CloseRecipient, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id string) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.Mint, &a.Authority, &a.Amount, &a.Closed, &a.CloseRecipient, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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
