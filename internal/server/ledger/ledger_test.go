package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophlocker/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx    context.Context
	ledger *Ledger
	repos  repomanager.Repositories
	mint   *models.Mint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	l := New(timex.NewManualClock(time.Unix(1_700_000_000, 0)))
	repos := memory.NewRepositoryManager().Repositories()

	m, err := l.CreateMint(ctx, repos, "issuer", 6)
	require.NoError(t, err)
	return &fixture{ctx: ctx, ledger: l, repos: repos, mint: m}
}

func (f *fixture) account(t *testing.T, authority string, amount uint64) *models.Account {
	t.Helper()
	a, err := f.ledger.OpenAccount(f.ctx, f.repos, f.mint.ID, authority)
	require.NoError(t, err)
	if amount > 0 {
		require.NoError(t, f.ledger.MintTo(f.ctx, f.repos, f.mint.ID, a.ID, "issuer", amount))
	}
	return a
}

func (f *fixture) balance(t *testing.T, id string) uint64 {
	t.Helper()
	a, err := f.repos.Accounts().Get(f.ctx, id)
	require.NoError(t, err)
	return a.Amount
}

func TestOpenAccount_UnknownMint(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.OpenAccount(f.ctx, f.repos, "missing", "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMintTo(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice", 100)

	assert.Equal(t, uint64(100), f.balance(t, a.ID))
	m, err := f.repos.Mints().Get(f.ctx, f.mint.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), m.Supply)

	assert.ErrorIs(t, f.ledger.MintTo(f.ctx, f.repos, f.mint.ID, a.ID, "alice", 1), common.ErrSignerMismatch)
	assert.ErrorIs(t, f.ledger.MintTo(f.ctx, f.repos, f.mint.ID, a.ID, "issuer", math.MaxUint64), common.ErrIntegerOverflow)
}

func TestTransfer(t *testing.T) {
	f := newFixture(t)
	src := f.account(t, "alice", 100)
	dst := f.account(t, "bob", 0)

	require.NoError(t, f.ledger.Transfer(f.ctx, f.repos, src.ID, dst.ID, "alice", 40))
	assert.Equal(t, uint64(60), f.balance(t, src.ID))
	assert.Equal(t, uint64(40), f.balance(t, dst.ID))
}

func TestTransfer_Rejections(t *testing.T) {
	f := newFixture(t)
	src := f.account(t, "alice", 100)
	dst := f.account(t, "bob", 0)

	other, err := f.ledger.CreateMint(f.ctx, f.repos, "issuer", 0)
	require.NoError(t, err)
	foreign, err := f.ledger.OpenAccount(f.ctx, f.repos, other.ID, "bob")
	require.NoError(t, err)

	assert.ErrorIs(t, f.ledger.Transfer(f.ctx, f.repos, src.ID, dst.ID, "bob", 1), common.ErrSignerMismatch)
	assert.ErrorIs(t, f.ledger.Transfer(f.ctx, f.repos, src.ID, foreign.ID, "alice", 1), common.ErrMintMismatch)
	assert.ErrorIs(t, f.ledger.Transfer(f.ctx, f.repos, src.ID, dst.ID, "alice", 101), common.ErrInsufficientFunds)
	assert.ErrorIs(t, f.ledger.Transfer(f.ctx, f.repos, src.ID, "missing", "alice", 1), common.ErrorNotFound)

	assert.Equal(t, uint64(100), f.balance(t, src.ID))
	assert.Equal(t, uint64(0), f.balance(t, dst.ID))
}

func TestTransfer_SelfIsNoop(t *testing.T) {
	f := newFixture(t)
	src := f.account(t, "alice", 100)

	require.NoError(t, f.ledger.Transfer(f.ctx, f.repos, src.ID, src.ID, "alice", 10))
	assert.Equal(t, uint64(100), f.balance(t, src.ID))
}

func TestCloseAccount(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "alice", 5)
	dst := f.account(t, "bob", 0)

	assert.ErrorIs(t, f.ledger.CloseAccount(f.ctx, f.repos, a.ID, "alice", "alice"), common.ErrNonZeroBalance)

	require.NoError(t, f.ledger.Transfer(f.ctx, f.repos, a.ID, dst.ID, "alice", 5))
	assert.ErrorIs(t, f.ledger.CloseAccount(f.ctx, f.repos, a.ID, "alice", "bob"), common.ErrSignerMismatch)
	require.NoError(t, f.ledger.CloseAccount(f.ctx, f.repos, a.ID, "alice", "alice"))

	got, err := f.repos.Accounts().Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Closed)
	assert.Equal(t, "alice", got.CloseRecipient)

	assert.ErrorIs(t, f.ledger.CloseAccount(f.ctx, f.repos, a.ID, "alice", "alice"), common.ErrAccountClosed)
	assert.ErrorIs(t, f.ledger.Transfer(f.ctx, f.repos, dst.ID, a.ID, "bob", 1), common.ErrAccountClosed)
}

// skimmer debits one unit less than asked, like a primitive that withholds a fee.
type skimmer struct {
	calls int
}

func (s *skimmer) Transfer(ctx context.Context, r repomanager.Repositories, from, to, authority string, amount uint64) error {
	s.calls++
	a, err := r.Accounts().Get(ctx, from)
	if err != nil {
		return err
	}
	return r.Accounts().SetAmount(ctx, from, a.Amount-(amount-1))
}

type failing struct{ err error }

func (f failing) Transfer(context.Context, repomanager.Repositories, string, string, string, uint64) error {
	return f.err
}

func TestVerifier_PassesExactTransfer(t *testing.T) {
	f := newFixture(t)
	src := f.account(t, "alice", 100)
	dst := f.account(t, "bob", 0)

	v := NewVerifier(f.ledger)
	require.NoError(t, v.Transfer(f.ctx, f.repos, TransferRequest{From: src.ID, To: dst.ID, Authority: "alice", Amount: 30}))
	assert.Equal(t, uint64(70), f.balance(t, src.ID))
}

func TestVerifier_DetectsMismatchWithoutRetry(t *testing.T) {
	f := newFixture(t)
	src := f.account(t, "alice", 100)
	dst := f.account(t, "bob", 0)

	s := &skimmer{}
	err := NewVerifier(s).Transfer(f.ctx, f.repos, TransferRequest{From: src.ID, To: dst.ID, Authority: "alice", Amount: 10})

	assert.ErrorIs(t, err, common.ErrInvalidAmountTransferred)
	assert.Equal(t, 1, s.calls)
}

func TestVerifier_SelfTransferIsMismatch(t *testing.T) {
	f := newFixture(t)
	src := f.account(t, "alice", 100)

	err := NewVerifier(f.ledger).Transfer(f.ctx, f.repos, TransferRequest{From: src.ID, To: src.ID, Authority: "alice", Amount: 10})
	assert.ErrorIs(t, err, common.ErrInvalidAmountTransferred)
}

func TestVerifier_PropagatesPrimitiveError(t *testing.T) {
	f := newFixture(t)
	src := f.account(t, "alice", 100)

	boom := errors.New("boom")
	err := NewVerifier(failing{err: boom}).Transfer(f.ctx, f.repos, TransferRequest{From: src.ID, To: "x", Authority: "alice", Amount: 1})
	assert.ErrorIs(t, err, boom)
}
