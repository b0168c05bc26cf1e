// Package ledger keeps token balances: mints, accounts and the transfer
// primitive that moves value between accounts of the same mint.
package ledger

import (
	"context"
	"math/bits"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophlocker/internal/timex"
	"github.com/google/uuid"
)

// Transferer moves amount from one account to another on behalf of authority.
type Transferer interface {
	Transfer(ctx context.Context, r repomanager.Repositories, from, to, authority string, amount uint64) error
}

type Ledger struct {
	clock timex.Clock
}

func New(clock timex.Clock) *Ledger {
	return &Ledger{clock: clock}
}

func (l *Ledger) CreateMint(ctx context.Context, r repomanager.Repositories, authority string, decimals uint8) (*models.Mint, error) {
	m := &models.Mint{
		ID:        uuid.NewString(),
		Authority: authority,
		Decimals:  decimals,
		CreatedAt: l.clock.Now().UTC(),
	}
	if err := r.Mints().Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// OpenAccount creates an empty account of mintID controlled by authority.
func (l *Ledger) OpenAccount(ctx context.Context, r repomanager.Repositories, mintID, authority string) (*models.Account, error) {
	if _, err := r.Mints().Get(ctx, mintID); err != nil {
		return nil, err
	}

	a := &models.Account{
		ID:        uuid.NewString(),
		Mint:      mintID,
		Authority: authority,
		CreatedAt: l.clock.Now().UTC(),
	}
	if err := r.Accounts().Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// MintTo issues new supply into accountID. Only the mint authority may do it.
func (l *Ledger) MintTo(ctx context.Context, r repomanager.Repositories, mintID, accountID, authority string, amount uint64) error {
	m, err := r.Mints().GetForUpdate(ctx, mintID)
	if err != nil {
		return err
	}
	if m.Authority != authority {
		return common.ErrSignerMismatch
	}

	a, err := r.Accounts().GetForUpdate(ctx, accountID)
	if err != nil {
		return err
	}
	if a.Closed {
		return common.ErrAccountClosed
	}
	if a.Mint != m.ID {
		return common.ErrMintMismatch
	}

	supply, carry := bits.Add64(m.Supply, amount, 0)
	if carry != 0 {
		return common.ErrIntegerOverflow
	}
	balance, carry := bits.Add64(a.Amount, amount, 0)
	if carry != 0 {
		return common.ErrIntegerOverflow
	}

	if err := r.Mints().SetSupply(ctx, m.ID, supply); err != nil {
		return err
	}
	return r.Accounts().SetAmount(ctx, a.ID, balance)
}

func (l *Ledger) Transfer(ctx context.Context, r repomanager.Repositories, from, to, authority string, amount uint64) error {
	src, err := r.Accounts().GetForUpdate(ctx, from)
	if err != nil {
		return err
	}
	dst, err := r.Accounts().GetForUpdate(ctx, to)
	if err != nil {
		return err
	}

	if src.Authority != authority {
		return common.ErrSignerMismatch
	}
	if src.Closed || dst.Closed {
		return common.ErrAccountClosed
	}
	if src.Mint != dst.Mint {
		return common.ErrMintMismatch
	}
	if src.Amount < amount {
		return common.ErrInsufficientFunds
	}
	if src.ID == dst.ID {
		return nil
	}

	credited, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return common.ErrIntegerOverflow
	}

	if err := r.Accounts().SetAmount(ctx, src.ID, src.Amount-amount); err != nil {
		return err
	}
	return r.Accounts().SetAmount(ctx, dst.ID, credited)
}

// CloseAccount retires an empty account. destination is recorded as the
// recipient of whatever residue the account carried.
func (l *Ledger) CloseAccount(ctx context.Context, r repomanager.Repositories, accountID, destination, authority string) error {
	a, err := r.Accounts().GetForUpdate(ctx, accountID)
	if err != nil {
		return err
	}
	if a.Authority != authority {
		return common.ErrSignerMismatch
	}
	if a.Closed {
		return common.ErrAccountClosed
	}
	if a.Amount != 0 {
		return common.ErrNonZeroBalance
	}
	return r.Accounts().Close(ctx, a.ID, destination)
}
