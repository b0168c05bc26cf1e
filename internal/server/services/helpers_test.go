package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophlocker/internal/logging"
	"github.com/dmitrijs2005/gophlocker/internal/server/authority"
	"github.com/dmitrijs2005/gophlocker/internal/server/ledger"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophlocker/internal/timex"
	"github.com/stretchr/testify/require"
)

var t0 = time.Unix(1_700_000_000, 0)

type recordingArchiver struct {
	archived []*models.Locker
	err      error
}

func (a *recordingArchiver) Archive(_ context.Context, l *models.Locker) error {
	a.archived = append(a.archived, l)
	return a.err
}

type env struct {
	ctx      context.Context
	clock    *timex.ManualClock
	manager  *memory.RepositoryManager
	ledger   *ledger.Ledger
	configs  *ConfigService
	wallet   *WalletService
	lockers  *LockerService
	archiver *recordingArchiver
	mint     *models.Mint
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctx := context.Background()
	clock := timex.NewManualClock(t0)
	m := memory.NewRepositoryManager()
	l := ledger.New(clock)
	d, err := authority.NewDeriver([]byte("authority-secret"))
	require.NoError(t, err)
	arch := &recordingArchiver{}

	e := &env{
		ctx:      ctx,
		clock:    clock,
		manager:  m,
		ledger:   l,
		configs:  NewConfigService(m, logging.Nop{}),
		wallet:   NewWalletService(m, l, logging.Nop{}),
		lockers:  NewLockerService(m, l, d, arch, clock, logging.Nop{}),
		archiver: arch,
	}

	e.mint, err = e.wallet.CreateMint(ctx, "issuer", 6)
	require.NoError(t, err)
	return e
}

// fund opens an account for owner holding amount tokens of the env mint.
func (e *env) fund(t *testing.T, owner string, amount uint64) string {
	t.Helper()
	a, err := e.wallet.OpenAccount(e.ctx, owner, e.mint.ID)
	require.NoError(t, err)
	if amount > 0 {
		require.NoError(t, e.wallet.MintTo(e.ctx, "issuer", e.mint.ID, a.ID, amount))
	}
	return a.ID
}

func (e *env) balance(t *testing.T, accountID string) uint64 {
	t.Helper()
	a, err := e.manager.Repositories().Accounts().Get(e.ctx, accountID)
	require.NoError(t, err)
	return a.Amount
}

func (e *env) enableLinear(t *testing.T) {
	t.Helper()
	_, err := e.configs.InitConfig(e.ctx, "admin", "admin", true)
	require.NoError(t, err)
}

func (e *env) createCliff(t *testing.T, owner string, amount uint64, after time.Duration) (*models.Locker, string) {
	t.Helper()
	funding := e.fund(t, owner, amount)
	l, err := e.lockers.CreateLocker(e.ctx, owner, CreateLockerArgs{
		Owner:          owner,
		Creator:        owner,
		FundingAccount: funding,
		Amount:         amount,
		UnlockDate:     e.clock.Now().Add(after).Unix(),
	})
	require.NoError(t, err)
	return l, funding
}

func (e *env) advance(d time.Duration) {
	e.clock.Advance(d)
}

// skimmingTransferer debits one unit less than requested.
type skimmingTransferer struct{}

func (skimmingTransferer) Transfer(ctx context.Context, r repomanager.Repositories, from, to, authority string, amount uint64) error {
	a, err := r.Accounts().Get(ctx, from)
	if err != nil {
		return err
	}
	if amount == 0 {
		return errors.New("nothing to skim")
	}
	return r.Accounts().SetAmount(ctx, from, a.Amount-(amount-1))
}
