package memory

import (
	"context"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

type ConfigRepository struct {
	v *view
}

func (r *ConfigRepository) Create(ctx context.Context, c *models.Config) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	st := r.v.state()
	if st.config != nil {
		return common.ErrorAlreadyExists
	}
	cfg := *c
	st.config = &cfg
	return nil
}

func (r *ConfigRepository) Get(ctx context.Context) (*models.Config, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	st := r.v.state()
	if st.config == nil {
		return nil, common.ErrorNotFound
	}
	cfg := *st.config
	return &cfg, nil
}

func (r *ConfigRepository) Update(ctx context.Context, c *models.Config) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	st := r.v.state()
	if st.config == nil {
		return common.ErrorNotFound
	}
	st.config.HasLinearEmission = c.HasLinearEmission
	return nil
}
