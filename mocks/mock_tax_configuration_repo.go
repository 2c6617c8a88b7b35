package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstengine/internal/domain"
)

// MockTaxConfigurationRepo is a mock implementation of port.TaxConfigurationRepository.
type MockTaxConfigurationRepo struct {
	mock.Mock
}

func (m *MockTaxConfigurationRepo) Create(ctx context.Context, cfg *domain.TaxConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockTaxConfigurationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaxConfiguration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfiguration), args.Error(1)
}

func (m *MockTaxConfigurationRepo) FindCandidates(ctx context.Context, q domain.RuleQuery) ([]domain.TaxConfiguration, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxConfiguration), args.Error(1)
}

func (m *MockTaxConfigurationRepo) ListScope(ctx context.Context, scope domain.Scope) ([]domain.TaxConfiguration, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxConfiguration), args.Error(1)
}

func (m *MockTaxConfigurationRepo) ListByCode(ctx context.Context, codeID uuid.UUID) ([]domain.TaxConfiguration, error) {
	args := m.Called(ctx, codeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxConfiguration), args.Error(1)
}

func (m *MockTaxConfigurationRepo) SetEffectiveTo(ctx context.Context, id uuid.UUID, effectiveTo time.Time) error {
	args := m.Called(ctx, id, effectiveTo)
	return args.Error(0)
}

func (m *MockTaxConfigurationRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
