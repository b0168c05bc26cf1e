// Package mints persists token mints.
package mints

import (
	"context"

	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Mint) error
	Get(ctx context.Context, id string) (*models.Mint, error)
	GetForUpdate(ctx context.Context, id string) (*models.Mint, error)
	SetSupply(ctx context.Context, id string, supply uint64) error
}
