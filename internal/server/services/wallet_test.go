package services

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/authority"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		decimals uint8
		want     string
	}{
		{amount: 1_500_000, decimals: 6, want: "1.5"},
		{amount: 1, decimals: 9, want: "0.000000001"},
		{amount: 42, decimals: 0, want: "42"},
		{amount: 18446744073709551615, decimals: 2, want: "184467440737095516.15"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UIAmount(tt.amount, tt.decimals))
	}
}

func TestGetAccount(t *testing.T) {
	e := newEnv(t)
	id := e.fund(t, "alice", 2_500_000)

	info, err := e.wallet.GetAccount(e.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_500_000), info.Amount)
	assert.Equal(t, uint8(6), info.Decimals)
	assert.Equal(t, "2.5", info.UIAmount)

	_, err = e.wallet.GetAccount(e.ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestWalletTransfer(t *testing.T) {
	e := newEnv(t)
	from := e.fund(t, "alice", 100)
	to := e.fund(t, "bob", 0)

	require.ErrorIs(t, e.wallet.Transfer(e.ctx, "bob", from, to, 10), common.ErrSignerMismatch)
	require.NoError(t, e.wallet.Transfer(e.ctx, "alice", from, to, 10))

	assert.Equal(t, uint64(90), e.balance(t, from))
	assert.Equal(t, uint64(10), e.balance(t, to))
}

func TestMintTo_OnlyAuthority(t *testing.T) {
	e := newEnv(t)
	id := e.fund(t, "alice", 0)

	require.ErrorIs(t, e.wallet.MintTo(e.ctx, "alice", e.mint.ID, id, 5), common.ErrSignerMismatch)
	assert.Equal(t, uint64(0), e.balance(t, id))
}

func TestListAccounts(t *testing.T) {
	e := newEnv(t)
	e.fund(t, "alice", 1)
	e.fund(t, "alice", 2)
	e.fund(t, "bob", 3)

	list, err := e.wallet.ListAccounts(e.ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestWalletTransfer_VaultIsNeverASource(t *testing.T) {
	e := newEnv(t)
	l, _ := e.createCliff(t, "alice", 1000, time.Hour)
	thief := e.fund(t, "mallory", 0)

	vault, err := e.wallet.GetAccount(e.ctx, l.Vault)
	require.NoError(t, err)
	require.True(t, authority.IsDerived(vault.Authority))

	require.ErrorIs(t, e.wallet.Transfer(e.ctx, vault.Authority, l.Vault, thief, 1000), common.ErrAuthorityMismatch)
	require.ErrorIs(t, e.wallet.Transfer(e.ctx, "alice", l.Vault, thief, 1000), common.ErrAuthorityMismatch)

	assert.Equal(t, uint64(1000), e.balance(t, l.Vault))
	assert.Equal(t, uint64(0), e.balance(t, thief))

	st, err := e.lockers.GetLocker(e.ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, st.IsActive())
}

func TestWallet_RefusesDerivedCaller(t *testing.T) {
	e := newEnv(t)
	derived := authority.Prefix + "00ff"

	_, err := e.wallet.CreateMint(e.ctx, derived, 6)
	require.ErrorIs(t, err, common.ErrAuthorityMismatch)
	_, err = e.wallet.OpenAccount(e.ctx, derived, e.mint.ID)
	require.ErrorIs(t, err, common.ErrAuthorityMismatch)

	id := e.fund(t, "alice", 0)
	require.ErrorIs(t, e.wallet.MintTo(e.ctx, derived, e.mint.ID, id, 5), common.ErrAuthorityMismatch)
	assert.Equal(t, uint64(0), e.balance(t, id))
}
