// Package accounts persists token accounts (wallets and vaults).
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Account) error
	Get(ctx context.Context, id string) (*models.Account, error)
	GetForUpdate(ctx context.Context, id string) (*models.Account, error)
	SetAmount(ctx context.Context, id string, amount uint64) error
	// Close marks the account closed and records who received its residue.
	Close(ctx context.Context, id string, recipient string) error
	ListByAuthority(ctx context.Context, authority string) ([]*models.Account, error)
}
