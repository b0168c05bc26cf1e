// Package memory is an in-process store implementing the repository
// interfaces. A unit of work runs against a private copy of the state under a
// single mutex; the copy replaces the live state only when the work succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/configs"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/lockers"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/mints"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
	"github.com/sasha-s/go-deadlock"
)

type state struct {
	lockers  map[string]*models.Locker
	accounts map[string]*models.Account
	mints    map[string]*models.Mint
	config   *models.Config
}

func newState() *state {
	return &state{
		lockers:  make(map[string]*models.Locker),
		accounts: make(map[string]*models.Account),
		mints:    make(map[string]*models.Mint),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.lockers {
		c.lockers[k] = v.Clone()
	}
	for k, v := range s.accounts {
		a := *v
		c.accounts[k] = &a
	}
	for k, v := range s.mints {
		m := *v
		c.mints[k] = &m
	}
	if s.config != nil {
		cfg := *s.config
		c.config = &cfg
	}
	return c
}

// view is how a repository reaches the state: through the manager's mutex for
// plain calls, or directly for calls made inside WithTx (which already holds it).
type view struct {
	lock  sync.Locker
	state func() *state
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

type RepositoryManager struct {
	mu deadlock.Mutex
	st *state
}

func NewRepositoryManager() *RepositoryManager {
	return &RepositoryManager{st: newState()}
}

func (m *RepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r repomanager.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.st.clone()
	v := &view{lock: noLock{}, state: func() *state { return work }}
	if err := fn(ctx, repositories{v: v}); err != nil {
		return err
	}
	m.st = work
	return nil
}

func (m *RepositoryManager) Repositories() repomanager.Repositories {
	return repositories{v: &view{lock: &m.mu, state: func() *state { return m.st }}}
}

func (m *RepositoryManager) Close() error { return nil }

type repositories struct {
	v *view
}

func (r repositories) Lockers() lockers.Repository   { return &LockerRepository{v: r.v} }
func (r repositories) Accounts() accounts.Repository { return &AccountRepository{v: r.v} }
func (r repositories) Mints() mints.Repository       { return &MintRepository{v: r.v} }
func (r repositories) Configs() configs.Repository   { return &ConfigRepository{v: r.v} }
