package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/worklane/worklane-backend-go/internal/domain/settings"
)

type ServiceImpl struct {
	repo settings.Repository
}

func NewService(repo settings.Repository) settings.Service {
	return &ServiceImpl{repo: repo}
}

// GetNumber resolves a numeric setting, falling back to the caller's
// default when the key has never been configured. Only the not-found case
// falls back; transport failures surface to the caller.
func (s *ServiceImpl) GetNumber(ctx context.Context, key string, fallback float64) (float64, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, settings.ErrSettingNotFound) {
			return fallback, nil
		}
		return 0, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return setting.Value, nil
}

func (s *ServiceImpl) Set(ctx context.Context, key string, value float64) (settings.Setting, error) {
	return s.repo.Upsert(ctx, settings.Setting{Key: key, Value: value})
}

func (s *ServiceImpl) List(ctx context.Context) ([]settings.Setting, error) {
	return s.repo.List(ctx)
}
