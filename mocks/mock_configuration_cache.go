package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstengine/internal/domain"
)

// MockConfigurationCache is a mock implementation of port.ConfigurationCache.
type MockConfigurationCache struct {
	mock.Mock
}

func (m *MockConfigurationCache) Get(ctx context.Context, q domain.RuleQuery) (*domain.TaxConfiguration, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*domain.TaxConfiguration), args.Get(1).(int64), args.Error(2)
}

func (m *MockConfigurationCache) Set(ctx context.Context, q domain.RuleQuery, generation int64, cfg *domain.TaxConfiguration) error {
	args := m.Called(ctx, q, generation, cfg)
	return args.Error(0)
}

func (m *MockConfigurationCache) Invalidate(ctx context.Context, codeID uuid.UUID, businessType string) error {
	args := m.Called(ctx, codeID, businessType)
	return args.Error(0)
}
