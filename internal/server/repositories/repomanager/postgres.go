package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophlocker/internal/dbx"
	"github.com/dmitrijs2005/gophlocker/internal/server/migrations"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/configs"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/lockers"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/mints"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories and exposes
// the schema migration hook.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// Lockers returns a lockers.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Lockers(db dbx.DBTX) lockers.Repository {
	return lockers.NewPostgresRepository(db)
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// Mints returns a mints.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Mints(db dbx.DBTX) mints.Repository {
	return mints.NewPostgresRepository(db)
}

// Configs returns a configs.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Configs(db dbx.DBTX) configs.Repository {
	return configs.NewPostgresRepository(db)
}

// WithTx runs fn in a single transaction. Row locks taken through the
// GetForUpdate methods are held until fn returns.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, m.bind(tx))
	})
}

func (m *PostgresRepositoryManager) Repositories() Repositories {
	return m.bind(m.db)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

// NewPostgresRepositoryManager wraps an open database handle.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db}
}

// OpenPostgres opens dsn with the pgx driver and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewPostgresRepositoryManager(db), nil
}

type boundRepositories struct {
	m  *PostgresRepositoryManager
	db dbx.DBTX
}

func (m *PostgresRepositoryManager) bind(db dbx.DBTX) boundRepositories {
	return boundRepositories{m: m, db: db}
}

func (b boundRepositories) Lockers() lockers.Repository   { return b.m.Lockers(b.db) }
func (b boundRepositories) Accounts() accounts.Repository { return b.m.Accounts(b.db) }
func (b boundRepositories) Mints() mints.Repository       { return b.m.Mints(b.db) }
func (b boundRepositories) Configs() configs.Repository   { return b.m.Configs(b.db) }
