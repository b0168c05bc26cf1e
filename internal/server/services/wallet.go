package services

import (
	"context"
	"math/big"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/logging"
	"github.com/dmitrijs2005/gophlocker/internal/server/authority"
	"github.com/dmitrijs2005/gophlocker/internal/server/ledger"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// AccountInfo is an account together with its balance in whole-token units.
type AccountInfo struct {
	*models.Account
	Decimals uint8
	UIAmount string
}

// WalletService exposes mints and plain token accounts. Vaults are opened and
// emptied only by LockerService.
type WalletService struct {
	repomanager repomanager.Manager
	ledger      *ledger.Ledger
	verifier    *ledger.Verifier
	log         logging.Logger
}

func NewWalletService(m repomanager.Manager, l *ledger.Ledger, log logging.Logger) *WalletService {
	return &WalletService{
		repomanager: m,
		ledger:      l,
		verifier:    ledger.NewVerifier(l),
		log:         log.With("module", "wallet"),
	}
}

func (s *WalletService) CreateMint(ctx context.Context, caller string, decimals uint8) (*models.Mint, error) {
	if err := checkCaller(caller); err != nil {
		return nil, err
	}

	var m *models.Mint
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		m, err = s.ledger.CreateMint(ctx, r, caller, decimals)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "mint created", "mint_id", m.ID, "decimals", decimals)
	return m, nil
}

func (s *WalletService) OpenAccount(ctx context.Context, caller, mintID string) (*models.Account, error) {
	if err := checkCaller(caller); err != nil {
		return nil, err
	}

	var a *models.Account
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		a, err = s.ledger.OpenAccount(ctx, r, mintID, caller)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "account opened", "account_id", a.ID, "mint_id", mintID)
	return a, nil
}

func (s *WalletService) MintTo(ctx context.Context, caller, mintID, accountID string, amount uint64) error {
	if err := checkCaller(caller); err != nil {
		return err
	}

	return s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		return s.ledger.MintTo(ctx, r, mintID, accountID, caller, amount)
	})
}

// Transfer moves tokens between two accounts the caller controls the source of.
// Vaults cannot be the source; they are emptied only by LockerService.
func (s *WalletService) Transfer(ctx context.Context, caller, from, to string, amount uint64) error {
	if err := checkCaller(caller); err != nil {
		return err
	}

	return s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		src, err := r.Accounts().GetForUpdate(ctx, from)
		if err != nil {
			return err
		}
		if authority.IsDerived(src.Authority) {
			return common.ErrAuthorityMismatch
		}
		return s.verifier.Transfer(ctx, r, ledger.TransferRequest{From: from, To: to, Authority: caller, Amount: amount})
	})
}

func (s *WalletService) GetAccount(ctx context.Context, id string) (*AccountInfo, error) {
	r := s.repomanager.Repositories()

	a, err := r.Accounts().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := r.Mints().Get(ctx, a.Mint)
	if err != nil {
		return nil, err
	}
	return &AccountInfo{Account: a, Decimals: m.Decimals, UIAmount: UIAmount(a.Amount, m.Decimals)}, nil
}

// ListAccounts returns the open accounts controlled by owner.
func (s *WalletService) ListAccounts(ctx context.Context, owner string) ([]*models.Account, error) {
	return s.repomanager.Repositories().Accounts().ListByAuthority(ctx, owner)
}

// UIAmount renders a raw amount in whole-token units, e.g. 1500000 with 6
// decimals is "1.5".
func UIAmount(amount uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).String()
}
