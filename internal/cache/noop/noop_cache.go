package noop

import (
	"context"

	"github.com/google/uuid"

	"gstengine/internal/domain"
	"gstengine/internal/port"
)

type noopCache struct{}

// NewConfigurationCache returns a cache that never hits. Used when Redis is disabled.
func NewConfigurationCache() port.ConfigurationCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, domain.RuleQuery) (*domain.TaxConfiguration, int64, error) {
	return nil, 0, nil
}

func (noopCache) Set(context.Context, domain.RuleQuery, int64, *domain.TaxConfiguration) error {
	return nil
}

func (noopCache) Invalidate(context.Context, uuid.UUID, string) error {
	return nil
}
