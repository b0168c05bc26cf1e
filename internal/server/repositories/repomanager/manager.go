// Package repomanager hands out repository sets bound to a unit of work.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/configs"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/lockers"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/mints"
)

// Repositories is the set of repositories visible inside one unit of work.
type Repositories interface {
	Lockers() lockers.Repository
	Accounts() accounts.Repository
	Mints() mints.Repository
	Configs() configs.Repository
}

// Manager runs units of work against a backing store. A unit of work either
// commits every write it made or none of them.
type Manager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	// Repositories returns non-transactional repositories for plain reads.
	Repositories() Repositories
	Close() error
}
