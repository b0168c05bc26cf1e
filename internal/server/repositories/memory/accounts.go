package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

type AccountRepository struct {
	v *view
}

func (r *AccountRepository) Create(ctx context.Context, a *models.Account) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	st := r.v.state()
	if _, ok := st.accounts[a.ID]; ok {
		return common.ErrorAlreadyExists
	}
	c := *a
	st.accounts[a.ID] = &c
	return nil
}

func (r *AccountRepository) Get(ctx context.Context, id string) (*models.Account, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	a, ok := r.v.state().accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *a
	return &c, nil
}

func (r *AccountRepository) GetForUpdate(ctx context.Context, id string) (*models.Account, error) {
	return r.Get(ctx, id)
}

func (r *AccountRepository) SetAmount(ctx context.Context, id string, amount uint64) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	a, ok := r.v.state().accounts[id]
	if !ok || a.Closed {
		return common.ErrorNotFound
	}
	a.Amount = amount
	return nil
}

func (r *AccountRepository) Close(ctx context.Context, id string, recipient string) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	a, ok := r.v.state().accounts[id]
	if !ok || a.Closed || a.Amount != 0 {
		return common.ErrorNotFound
	}
	a.Closed = true
	a.CloseRecipient = recipient
	return nil
}

func (r *AccountRepository) ListByAuthority(ctx context.Context, authority string) ([]*models.Account, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	var result []*models.Account
	for _, a := range r.v.state().accounts {
		if a.Authority == authority && !a.Closed {
			c := *a
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
