// Package lockers persists Locker records.
package lockers

import (
	"context"

	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

// Repository stores lockers. Closed lockers are tombstones: every read
// returns common.ErrorNotFound for them.
type Repository interface {
	Create(ctx context.Context, l *models.Locker) error
	Get(ctx context.Context, id string) (*models.Locker, error)
	// GetForUpdate is Get that also locks the row until the unit of work ends.
	GetForUpdate(ctx context.Context, id string) (*models.Locker, error)
	Update(ctx context.Context, l *models.Locker) error
	ListByOwner(ctx context.Context, owner string) ([]*models.Locker, error)
	ListByCreator(ctx context.Context, creator string) ([]*models.Locker, error)
}
