// Package configs persists the singleton Config record.
package configs

import (
	"context"

	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

type Repository interface {
	// Create stores the config; common.ErrorAlreadyExists if one is present.
	Create(ctx context.Context, c *models.Config) error
	Get(ctx context.Context) (*models.Config, error)
	Update(ctx context.Context, c *models.Config) error
}
