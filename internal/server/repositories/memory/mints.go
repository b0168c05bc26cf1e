package memory

import (
	"context"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

type MintRepository struct {
	v *view
}

func (r *MintRepository) Create(ctx context.Context, m *models.Mint) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	st := r.v.state()
	if _, ok := st.mints[m.ID]; ok {
		return common.ErrorAlreadyExists
	}
	c := *m
	st.mints[m.ID] = &c
	return nil
}

func (r *MintRepository) Get(ctx context.Context, id string) (*models.Mint, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	m, ok := r.v.state().mints[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

func (r *MintRepository) GetForUpdate(ctx context.Context, id string) (*models.Mint, error) {
	return r.Get(ctx, id)
}

func (r *MintRepository) SetSupply(ctx context.Context, id string, supply uint64) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	m, ok := r.v.state().mints[id]
	if !ok {
		return common.ErrorNotFound
	}
	m.Supply = supply
	return nil
}
