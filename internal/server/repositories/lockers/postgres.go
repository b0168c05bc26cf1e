package lockers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/dbx"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

const lockerColumns = `id, owner, creator, vault, mint, deposited_amount, current_unlock_date,
		 original_unlock_date, start_emission, vault_bump, locker_bump, status, created_at, closed_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.Locker) error {
	query :=
		`INSERT INTO lockers (id, owner, creator, vault, mint, deposited_amount, current_unlock_date,
		 original_unlock_date, start_emission, vault_bump, locker_bump, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 `

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Owner, l.Creator, l.Vault, l.Mint, l.DepositedAmount, l.CurrentUnlockDate,
		l.OriginalUnlockDate, nullInt64(l.StartEmission), l.VaultBump, l.LockerBump, string(l.Status), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Locker, error) {
	query := `SELECT ` + lockerColumns + ` FROM lockers
		 WHERE id = $1 AND status = 'active'
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Locker, error) {
	query := `SELECT ` + lockerColumns + ` FROM lockers
		 WHERE id = $1 AND status = 'active'
		 FOR UPDATE
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) Update(ctx context.Context, l *models.Locker) error {
	query :=
		`UPDATE lockers SET owner = $2, deposited_amount = $3, current_unlock_date = $4,
		 status = $5, closed_at = $6
		 WHERE id = $1 AND status = 'active'
		 `

	res, err := r.db.ExecContext(ctx, query,
		l.ID, l.Owner, l.DepositedAmount, l.CurrentUnlockDate, string(l.Status), nullTime(l))
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

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Locker, error) {
	query := `SELECT ` + lockerColumns + ` FROM lockers
		 WHERE owner = $1 AND status = 'active'
		 ORDER BY created_at, id
		 `
	return r.list(ctx, query, owner)
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creator string) ([]*models.Locker, error) {
	query := `SELECT ` + lockerColumns + ` FROM lockers
		 WHERE creator = $1 AND status = 'active'
		 ORDER BY created_at, id
		 `
	return r.list(ctx, query, creator)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLocker(row scanner) (*models.Locker, error) {
	var (
		l        models.Locker
		status   string
		start    sql.NullInt64
		closedAt sql.NullTime
	)
	err := row.Scan(&l.ID, &l.Owner, &l.Creator, &l.Vault, &l.Mint, &l.DepositedAmount, &l.CurrentUnlockDate,
		&l.OriginalUnlockDate, &start, &l.VaultBump, &l.LockerBump, &status, &l.CreatedAt, &closedAt)
	if err != nil {
		return nil, err
	}
	l.Status = models.LockerStatus(status)
	if start.Valid {
		v := start.Int64
		l.StartEmission = &v
	}
	if closedAt.Valid {
		v := closedAt.Time
		l.ClosedAt = &v
	}
	return &l, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id string) (*models.Locker, error) {
	l, err := scanLocker(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]*models.Locker, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Locker
	for rows.Next() {
		l, err := scanLocker(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullTime(l *models.Locker) sql.NullTime {
	if l.ClosedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *l.ClosedAt, Valid: true}
}
