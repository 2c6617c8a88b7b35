package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstengine/internal/domain"
)

// MockTaxRateRepo is a mock implementation of port.TaxRateRepository.
type MockTaxRateRepo struct {
	mock.Mock
}

func (m *MockTaxRateRepo) Create(ctx context.Context, rate *domain.TaxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockTaxRateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaxRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepo) FindCandidates(ctx context.Context, q domain.RuleQuery) ([]domain.TaxRate, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepo) ListScope(ctx context.Context, scope domain.Scope) ([]domain.TaxRate, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepo) ListByCode(ctx context.Context, codeID uuid.UUID) ([]domain.TaxRate, error) {
	args := m.Called(ctx, codeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepo) NextVersion(ctx context.Context, scope domain.Scope) (int, error) {
	args := m.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

func (m *MockTaxRateRepo) SetEffectiveTo(ctx context.Context, id uuid.UUID, effectiveTo time.Time) error {
	args := m.Called(ctx, id, effectiveTo)
	return args.Error(0)
}

func (m *MockTaxRateRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
