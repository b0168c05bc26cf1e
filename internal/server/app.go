// Package server wires the locker ledger together: storage backend, services,
// archive and the gRPC endpoint, and runs it until a termination signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophlocker/internal/logging"
	"github.com/dmitrijs2005/gophlocker/internal/server/archive"
	"github.com/dmitrijs2005/gophlocker/internal/server/authority"
	"github.com/dmitrijs2005/gophlocker/internal/server/config"
	"github.com/dmitrijs2005/gophlocker/internal/server/ledger"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophlocker/internal/server/services"
	"github.com/dmitrijs2005/gophlocker/internal/timex"

	gs "github.com/dmitrijs2005/gophlocker/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	repomanager   repomanager.Manager
	configService *services.ConfigService
	walletService *services.WalletService
	lockerService *services.LockerService
}

// Seam for tests.
var openPostgres = func(ctx context.Context, dsn string) (*repomanager.PostgresRepositoryManager, error) {
	m, err := repomanager.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return m, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	rm, err := newRepositoryManager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	deriver, err := authority.NewDeriver([]byte(c.AuthoritySecret))
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	arch, err := newArchiver(ctx, c)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("archive init error: %w", err)
	}

	clock := timex.SystemClock{}
	l := ledger.New(clock)

	return &App{
		config:        c,
		logger:        logger,
		repomanager:   rm,
		configService: services.NewConfigService(rm, logger),
		walletService: services.NewWalletService(rm, l, logger),
		lockerService: services.NewLockerService(rm, l, deriver, arch, clock, logger),
	}, nil
}

func newRepositoryManager(ctx context.Context, c *config.Config) (repomanager.Manager, error) {
	switch c.Storage {
	case config.StorageMemory:
		return memory.NewRepositoryManager(), nil
	case config.StoragePostgres:
		m, err := openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}
}

func newArchiver(ctx context.Context, c *config.Config) (archive.Archiver, error) {
	if !c.ArchiveEnabled() {
		return archive.Nop{}, nil
	}
	return archive.NewS3Archiver(ctx, archive.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.configService, app.walletService, app.lockerService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage, "archive", app.config.ArchiveEnabled())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
