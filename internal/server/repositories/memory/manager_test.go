package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repomanager.Manager = (*RepositoryManager)(nil)

func newLocker(id, owner string, at time.Time) *models.Locker {
	return &models.Locker{
		ID:                id,
		Owner:             owner,
		Creator:           owner,
		Vault:             "vault-" + id,
		Mint:              "mint",
		DepositedAmount:   100,
		CurrentUnlockDate: 1000,
		Status:            models.LockerActive,
		CreatedAt:         at,
	}
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	m := NewRepositoryManager()

	err := m.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		return r.Lockers().Create(ctx, newLocker("l-1", "alice", time.Unix(1, 0)))
	})
	require.NoError(t, err)

	got, err := m.Repositories().Lockers().Get(ctx, "l-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	m := NewRepositoryManager()
	require.NoError(t, m.Repositories().Accounts().Create(ctx, &models.Account{ID: "a-1", Amount: 50}))

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if err := r.Accounts().SetAmount(ctx, "a-1", 0); err != nil {
			return err
		}
		if err := r.Lockers().Create(ctx, newLocker("l-1", "alice", time.Unix(1, 0))); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	a, err := m.Repositories().Accounts().Get(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), a.Amount)

	_, err = m.Repositories().Lockers().Get(ctx, "l-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestWithTx_CanceledContext(t *testing.T) {
	m := NewRepositoryManager()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := m.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestWithTx_Serializes(t *testing.T) {
	ctx := context.Background()
	m := NewRepositoryManager()
	require.NoError(t, m.Repositories().Accounts().Create(ctx, &models.Account{ID: "a-1"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
				a, err := r.Accounts().GetForUpdate(ctx, "a-1")
				if err != nil {
					return err
				}
				return r.Accounts().SetAmount(ctx, "a-1", a.Amount+1)
			})
		}()
	}
	wg.Wait()

	a, err := m.Repositories().Accounts().Get(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), a.Amount)
}

func TestLockers_ClosedIsTombstone(t *testing.T) {
	ctx := context.Background()
	r := NewRepositoryManager().Repositories().Lockers()

	l := newLocker("l-1", "alice", time.Unix(1, 0))
	require.NoError(t, r.Create(ctx, l))
	assert.ErrorIs(t, r.Create(ctx, l), common.ErrorAlreadyExists)

	l.Close(time.Unix(2, 0))
	require.NoError(t, r.Update(ctx, l))

	_, err := r.Get(ctx, "l-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.Update(ctx, l), common.ErrorNotFound)

	list, err := r.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLockers_ListOrderedAndIsolated(t *testing.T) {
	ctx := context.Background()
	r := NewRepositoryManager().Repositories().Lockers()

	require.NoError(t, r.Create(ctx, newLocker("l-2", "alice", time.Unix(2, 0))))
	require.NoError(t, r.Create(ctx, newLocker("l-1", "alice", time.Unix(1, 0))))
	require.NoError(t, r.Create(ctx, newLocker("l-3", "bob", time.Unix(3, 0))))

	list, err := r.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "l-1", list[0].ID)
	assert.Equal(t, "l-2", list[1].ID)

	list[0].Owner = "mallory"
	got, err := r.Get(ctx, "l-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner)

	byCreator, err := r.ListByCreator(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	assert.Equal(t, "l-3", byCreator[0].ID)
}

func TestAccounts_CloseRequiresZeroBalance(t *testing.T) {
	ctx := context.Background()
	r := NewRepositoryManager().Repositories().Accounts()

	require.NoError(t, r.Create(ctx, &models.Account{ID: "a-1", Authority: "alice", Amount: 5}))
	assert.ErrorIs(t, r.Close(ctx, "a-1", "alice"), common.ErrorNotFound)

	require.NoError(t, r.SetAmount(ctx, "a-1", 0))
	require.NoError(t, r.Close(ctx, "a-1", "alice"))

	a, err := r.Get(ctx, "a-1")
	require.NoError(t, err)
	assert.True(t, a.Closed)
	assert.Equal(t, "alice", a.CloseRecipient)
	assert.ErrorIs(t, r.SetAmount(ctx, "a-1", 1), common.ErrorNotFound)

	list, err := r.ListByAuthority(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMints_Supply(t *testing.T) {
	ctx := context.Background()
	r := NewRepositoryManager().Repositories().Mints()

	require.NoError(t, r.Create(ctx, &models.Mint{ID: "m-1", Decimals: 6}))
	require.NoError(t, r.SetSupply(ctx, "m-1", 42))

	m, err := r.Get(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), m.Supply)
	assert.ErrorIs(t, r.SetSupply(ctx, "missing", 1), common.ErrorNotFound)
}

func TestConfigs_Singleton(t *testing.T) {
	ctx := context.Background()
	r := NewRepositoryManager().Repositories().Configs()

	_, err := r.Get(ctx)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.Update(ctx, &models.Config{}), common.ErrorNotFound)

	require.NoError(t, r.Create(ctx, &models.Config{Admin: "admin"}))
	assert.ErrorIs(t, r.Create(ctx, &models.Config{Admin: "other"}), common.ErrorAlreadyExists)

	require.NoError(t, r.Update(ctx, &models.Config{Admin: "ignored", HasLinearEmission: true}))
	c, err := r.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", c.Admin)
	assert.True(t, c.HasLinearEmission)
}
