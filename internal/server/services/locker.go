package services

import (
	"context"
	"errors"
	"math/bits"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/emission"
	"github.com/dmitrijs2005/gophlocker/internal/logging"
	"github.com/dmitrijs2005/gophlocker/internal/server/archive"
	"github.com/dmitrijs2005/gophlocker/internal/server/authority"
	"github.com/dmitrijs2005/gophlocker/internal/server/ledger"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophlocker/internal/timex"
	"github.com/google/uuid"
)

// CreateLockerArgs describes a new locker. StartEmission selects the linear
// schedule; nil means a cliff at UnlockDate.
type CreateLockerArgs struct {
	Owner          string
	Creator        string
	FundingAccount string
	Amount         uint64
	UnlockDate     int64
	StartEmission  *int64
}

// LockerState is a locker together with its live vault balance and what a
// withdrawal could release right now.
type LockerState struct {
	*models.Locker
	VaultBalance uint64
	Releasable   uint64
}

// LockerService runs the locker state machine. Each operation checks its
// caller, the vault's derived authority and every amount before the first
// write, and commits all effects or none.
type LockerService struct {
	repomanager repomanager.Manager
	ledger      *ledger.Ledger
	verifier    *ledger.Verifier
	deriver     *authority.Deriver
	archiver    archive.Archiver
	clock       timex.Clock
	log         logging.Logger
}

func NewLockerService(
	m repomanager.Manager,
	l *ledger.Ledger,
	d *authority.Deriver,
	a archive.Archiver,
	clock timex.Clock,
	log logging.Logger,
) *LockerService {
	return &LockerService{
		repomanager: m,
		ledger:      l,
		verifier:    ledger.NewVerifier(l),
		deriver:     d,
		archiver:    a,
		clock:       clock,
		log:         log.With("module", "locker"),
	}
}

func (s *LockerService) now() int64 {
	return s.clock.Now().Unix()
}

// checkCaller refuses derived vault identities acting as a caller.
func checkCaller(caller string) error {
	if authority.IsDerived(caller) {
		return common.ErrAuthorityMismatch
	}
	return nil
}

func validOwner(owner string) error {
	if owner == "" || authority.IsDerived(owner) {
		return common.ErrInvalidOwner
	}
	return nil
}

// validateCreate checks creation arguments against cfg and now.
func validateCreate(cfg models.Config, args CreateLockerArgs, now int64) error {
	if err := validOwner(args.Owner); err != nil {
		return err
	}
	if args.UnlockDate <= now {
		return common.ErrUnlockInThePast
	}
	if args.UnlockDate >= common.MaxUnlockDate {
		return common.ErrInvalidTimestamp
	}
	if args.Amount == 0 {
		return common.ErrNothingToLock
	}
	if args.StartEmission != nil {
		if !cfg.HasLinearEmission {
			return common.ErrLinearEmissionDisabled
		}
		if args.UnlockDate <= *args.StartEmission {
			return common.ErrStartEmissionAfterUnlock
		}
	}
	return nil
}

func (s *LockerService) CreateLocker(ctx context.Context, caller string, args CreateLockerArgs) (*models.Locker, error) {
	if err := checkCaller(caller); err != nil {
		return nil, err
	}
	if caller != args.Creator {
		return nil, common.ErrSignerMismatch
	}

	var locker *models.Locker
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		cfg, err := loadConfig(ctx, r)
		if err != nil {
			return err
		}
		now := s.now()
		if err := validateCreate(cfg, args, now); err != nil {
			return err
		}

		funding, err := r.Accounts().GetForUpdate(ctx, args.FundingAccount)
		if err != nil {
			return err
		}
		if funding.Authority != caller {
			return common.ErrSignerMismatch
		}

		locker = &models.Locker{
			ID:                 uuid.NewString(),
			Owner:              args.Owner,
			Creator:            args.Creator,
			Mint:               funding.Mint,
			DepositedAmount:    args.Amount,
			CurrentUnlockDate:  args.UnlockDate,
			OriginalUnlockDate: args.UnlockDate,
			LockerBump:         authority.NewBump(),
			Status:             models.LockerActive,
			CreatedAt:          s.clock.Now().UTC(),
		}
		if args.StartEmission != nil {
			start := *args.StartEmission
			locker.StartEmission = &start
		}

		vault, err := s.openVault(ctx, r, locker)
		if err != nil {
			return err
		}
		if err := r.Lockers().Create(ctx, locker); err != nil {
			return err
		}

		return s.verifier.Transfer(ctx, r, ledger.TransferRequest{
			From:      funding.ID,
			To:        vault.ID,
			Authority: caller,
			Amount:    args.Amount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "locker created",
		"locker_id", locker.ID, "owner", locker.Owner, "amount", locker.DepositedAmount,
		"unlock_date", locker.CurrentUnlockDate, "linear", locker.IsLinear())
	return locker, nil
}

func (s *LockerService) Relock(ctx context.Context, caller, lockerID string, unlockDate int64) error {
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		l, err := s.loadOwned(ctx, r, caller, lockerID)
		if err != nil {
			return err
		}
		if unlockDate <= l.CurrentUnlockDate {
			return common.ErrCannotUnlockToEarlierDate
		}
		if unlockDate >= common.MaxUnlockDate {
			return common.ErrInvalidTimestamp
		}
		l.CurrentUnlockDate = unlockDate
		return r.Lockers().Update(ctx, l)
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "locker relocked", "locker_id", lockerID, "unlock_date", unlockDate)
	return nil
}

func (s *LockerService) TransferOwnership(ctx context.Context, caller, lockerID, newOwner string) error {
	if err := validOwner(newOwner); err != nil {
		return err
	}
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		l, err := s.loadOwned(ctx, r, caller, lockerID)
		if err != nil {
			return err
		}
		l.Owner = newOwner
		return r.Lockers().Update(ctx, l)
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "locker ownership transferred", "locker_id", lockerID, "new_owner", newOwner)
	return nil
}

// IncrementLock tops up a locker from fundingAccount. Any holder of a funding
// account may do it; the locker owner is not consulted.
func (s *LockerService) IncrementLock(ctx context.Context, caller, lockerID, fundingAccount string, amount uint64) error {
	if err := checkCaller(caller); err != nil {
		return err
	}
	if amount == 0 {
		return common.ErrNothingToLock
	}

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		l, err := r.Lockers().GetForUpdate(ctx, lockerID)
		if err != nil {
			return err
		}
		vault, err := s.loadVault(ctx, r, l)
		if err != nil {
			return err
		}

		deposited, carry := bits.Add64(l.DepositedAmount, amount, 0)
		if carry != 0 {
			return common.ErrIntegerOverflow
		}

		if err := s.verifier.Transfer(ctx, r, ledger.TransferRequest{
			From:      fundingAccount,
			To:        vault.ID,
			Authority: caller,
			Amount:    amount,
		}); err != nil {
			return err
		}

		l.DepositedAmount = deposited
		return r.Lockers().Update(ctx, l)
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "locker incremented", "locker_id", lockerID, "amount", amount, "funder", caller)
	return nil
}

// WithdrawFunds releases up to amount from the vault into target and returns
// what target actually received. Draining the vault closes the locker.
func (s *LockerService) WithdrawFunds(ctx context.Context, caller, lockerID string, amount uint64, target string) (uint64, error) {
	var (
		withdrawn uint64
		closed    *models.Locker
	)
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		l, err := s.loadOwned(ctx, r, caller, lockerID)
		if err != nil {
			return err
		}
		vault, err := s.loadVault(ctx, r, l)
		if err != nil {
			return err
		}
		dst, err := r.Accounts().GetForUpdate(ctx, target)
		if err != nil {
			return err
		}
		if dst.Mint != l.Mint {
			return common.ErrMintMismatch
		}

		releasable, err := s.releasable(l, vault.Amount, amount)
		if err != nil {
			return err
		}

		if err := s.verifier.Transfer(ctx, r, ledger.TransferRequest{
			From:      vault.ID,
			To:        dst.ID,
			Authority: vault.Authority,
			Amount:    releasable,
		}); err != nil {
			return err
		}

		after, err := r.Accounts().Get(ctx, dst.ID)
		if err != nil {
			return err
		}
		withdrawn = after.Amount - dst.Amount

		closed, err = s.closeIfDrained(ctx, r, l)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "funds withdrawn", "locker_id", lockerID, "amount", withdrawn, "closed", closed != nil)
	s.archive(ctx, closed)
	return withdrawn, nil
}

// SplitLocker carves amount out of a locker into a new one owned by newOwner
// with the same schedule.
func (s *LockerService) SplitLocker(ctx context.Context, caller, lockerID string, amount uint64, newOwner string) (*models.Locker, error) {
	if err := validOwner(newOwner); err != nil {
		return nil, err
	}
	var (
		split  *models.Locker
		closed *models.Locker
	)
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		l, err := s.loadOwned(ctx, r, caller, lockerID)
		if err != nil {
			return err
		}
		vault, err := s.loadVault(ctx, r, l)
		if err != nil {
			return err
		}
		if amount == 0 || amount > vault.Amount {
			return common.ErrInvalidAmount
		}
		if amount > l.DepositedAmount {
			return common.ErrIntegerOverflow
		}

		split = &models.Locker{
			ID:                 uuid.NewString(),
			Owner:              newOwner,
			Creator:            l.Owner,
			Mint:               l.Mint,
			DepositedAmount:    amount,
			CurrentUnlockDate:  l.CurrentUnlockDate,
			OriginalUnlockDate: l.OriginalUnlockDate,
			LockerBump:         l.LockerBump,
			Status:             models.LockerActive,
			CreatedAt:          s.clock.Now().UTC(),
		}
		if l.StartEmission != nil {
			start := *l.StartEmission
			split.StartEmission = &start
		}

		newVault, err := s.openVault(ctx, r, split)
		if err != nil {
			return err
		}
		if err := r.Lockers().Create(ctx, split); err != nil {
			return err
		}

		if err := s.verifier.Transfer(ctx, r, ledger.TransferRequest{
			From:      vault.ID,
			To:        newVault.ID,
			Authority: vault.Authority,
			Amount:    amount,
		}); err != nil {
			return err
		}

		l.DepositedAmount -= amount
		if err := r.Lockers().Update(ctx, l); err != nil {
			return err
		}

		closed, err = s.closeIfDrained(ctx, r, l)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "locker split", "locker_id", lockerID, "new_locker_id", split.ID, "amount", amount, "closed", closed != nil)
	s.archive(ctx, closed)
	return split, nil
}

func (s *LockerService) GetLocker(ctx context.Context, id string) (*LockerState, error) {
	r := s.repomanager.Repositories()

	l, err := r.Lockers().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	vault, err := r.Accounts().Get(ctx, l.Vault)
	if err != nil {
		return nil, err
	}

	releasable, err := s.releasable(l, vault.Amount, vault.Amount)
	switch {
	case errors.Is(err, common.ErrTooEarlyToWithdraw), errors.Is(err, common.ErrInvalidAmount):
		releasable = 0
	case err != nil:
		return nil, err
	}
	return &LockerState{Locker: l, VaultBalance: vault.Amount, Releasable: releasable}, nil
}

// Releasable previews how much a withdrawal could release right now.
func (s *LockerService) Releasable(ctx context.Context, id string) (uint64, error) {
	st, err := s.GetLocker(ctx, id)
	if err != nil {
		return 0, err
	}
	return st.Releasable, nil
}

func (s *LockerService) ListLockersByOwner(ctx context.Context, owner string) ([]*models.Locker, error) {
	return s.repomanager.Repositories().Lockers().ListByOwner(ctx, owner)
}

func (s *LockerService) ListLockersByCreator(ctx context.Context, creator string) ([]*models.Locker, error) {
	return s.repomanager.Repositories().Lockers().ListByCreator(ctx, creator)
}

// releasable is the amount a withdrawal of requested may move now. Zero or
// more than the vault holds is rejected rather than trimmed silently.
func (s *LockerService) releasable(l *models.Locker, vault, requested uint64) (uint64, error) {
	now := s.now()

	available := vault
	if l.IsLinear() {
		var err error
		available, err = emission.Unreleased(l.DepositedAmount, vault, *l.StartEmission, l.CurrentUnlockDate, now)
		if err != nil {
			return 0, err
		}
	} else if now <= l.CurrentUnlockDate {
		return 0, common.ErrTooEarlyToWithdraw
	}

	amount := min(requested, available)
	if amount == 0 || amount > vault {
		return 0, common.ErrInvalidAmount
	}
	return amount, nil
}

// openVault assigns l a fresh vault bump and opens the vault account under
// the derived authority.
func (s *LockerService) openVault(ctx context.Context, r repomanager.Repositories, l *models.Locker) (*models.Account, error) {
	l.VaultBump = authority.NewBump()
	auth, err := s.deriver.Derive(l.ID, l.VaultBump)
	if err != nil {
		return nil, err
	}
	vault, err := s.ledger.OpenAccount(ctx, r, l.Mint, auth)
	if err != nil {
		return nil, err
	}
	l.Vault = vault.ID
	return vault, nil
}

func (s *LockerService) loadOwned(ctx context.Context, r repomanager.Repositories, caller, lockerID string) (*models.Locker, error) {
	l, err := r.Lockers().GetForUpdate(ctx, lockerID)
	if err != nil {
		return nil, err
	}
	if l.Owner != caller {
		return nil, common.ErrOwnerMismatch
	}
	return l, nil
}

// loadVault fetches the vault of l and proves it is controlled by the
// authority derived from l.
func (s *LockerService) loadVault(ctx context.Context, r repomanager.Repositories, l *models.Locker) (*models.Account, error) {
	vault, err := r.Accounts().GetForUpdate(ctx, l.Vault)
	if err != nil {
		return nil, err
	}
	if vault.ID != l.Vault {
		return nil, common.ErrVaultMismatch
	}
	if err := s.deriver.Verify(l.ID, l.VaultBump, vault.Authority); err != nil {
		return nil, err
	}
	if vault.Mint != l.Mint {
		return nil, common.ErrMintMismatch
	}
	return vault, nil
}

// closeIfDrained closes the vault and the locker once the vault is empty.
// It returns the closed locker, or nil when the vault still holds value.
func (s *LockerService) closeIfDrained(ctx context.Context, r repomanager.Repositories, l *models.Locker) (*models.Locker, error) {
	vault, err := r.Accounts().Get(ctx, l.Vault)
	if err != nil {
		return nil, err
	}
	if vault.Amount != 0 {
		return nil, nil
	}

	if err := s.ledger.CloseAccount(ctx, r, vault.ID, l.Owner, vault.Authority); err != nil {
		return nil, err
	}
	l.Close(s.clock.Now().UTC())
	if err := r.Lockers().Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LockerService) archive(ctx context.Context, l *models.Locker) {
	if l == nil {
		return
	}
	if err := s.archiver.Archive(ctx, l); err != nil {
		s.log.Warn(ctx, "archive failed", "locker_id", l.ID, "error", err)
	}
}
