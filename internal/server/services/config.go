// Package services contains server-side business logic. Every mutating
// operation runs in a single unit of work obtained from repomanager.Manager.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/logging"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/dmitrijs2005/gophlocker/internal/server/repositories/repomanager"
)

// ConfigService manages the admin feature switch.
type ConfigService struct {
	repomanager repomanager.Manager
	log         logging.Logger
}

func NewConfigService(m repomanager.Manager, log logging.Logger) *ConfigService {
	return &ConfigService{repomanager: m, log: log.With("module", "config")}
}

// InitConfig stores the config once. The caller becomes bound as admin and
// must sign for that identity.
func (s *ConfigService) InitConfig(ctx context.Context, caller, admin string, hasLinearEmission bool) (*models.Config, error) {
	if caller != admin {
		return nil, common.ErrSignerMismatch
	}

	cfg := &models.Config{Admin: admin, HasLinearEmission: hasLinearEmission}
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		return r.Configs().Create(ctx, cfg)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrConfigAlreadyInitialized
		}
		return nil, err
	}

	s.log.Info(ctx, "config initialized", "admin", admin, "has_linear_emission", hasLinearEmission)
	return cfg, nil
}

// UpdateConfig applies a partial update. Admin only.
func (s *ConfigService) UpdateConfig(ctx context.Context, caller string, u models.ConfigUpdate) (*models.Config, error) {
	var cfg *models.Config
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		cfg, err = r.Configs().Get(ctx)
		if err != nil {
			return err
		}
		if cfg.Admin != caller {
			return common.ErrNotAdmin
		}
		cfg.Apply(u)
		return r.Configs().Update(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "config updated", "has_linear_emission", cfg.HasLinearEmission)
	return cfg, nil
}

func (s *ConfigService) GetConfig(ctx context.Context) (*models.Config, error) {
	return s.repomanager.Repositories().Configs().Get(ctx)
}

// loadConfig returns the stored config, or the zero config when none was
// initialized yet (linear emission off, no admin).
func loadConfig(ctx context.Context, r repomanager.Repositories) (models.Config, error) {
	cfg, err := r.Configs().Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Config{}, nil
		}
		return models.Config{}, err
	}
	return *cfg, nil
}
