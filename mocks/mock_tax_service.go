package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstengine/internal/domain"
	"gstengine/internal/service"
)

// MockTaxService is a mock implementation of service.TaxService.
type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) ResolveConfiguration(ctx context.Context, in service.ResolveConfigurationInput) (*domain.TaxConfiguration, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfiguration), args.Error(1)
}

func (m *MockTaxService) ResolveRate(ctx context.Context, in service.ResolveRateInput) (*domain.TaxRate, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxService) CalculateTax(ctx context.Context, req *domain.TaxCalculationRequest) (*domain.TaxCalculationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxCalculationResult), args.Error(1)
}

func (m *MockTaxService) CalculateBulkTax(ctx context.Context, reqs []domain.TaxCalculationRequest) (*domain.BulkTaxCalculationResult, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkTaxCalculationResult), args.Error(1)
}

func (m *MockTaxService) CreateConfiguration(ctx context.Context, actor string, in *service.CreateConfigurationInput) (*domain.TaxConfiguration, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfiguration), args.Error(1)
}

func (m *MockTaxService) SupersedeConfiguration(ctx context.Context, actor string, id uuid.UUID, terms *service.ConfigurationTerms) (*domain.TaxConfiguration, error) {
	args := m.Called(ctx, actor, id, terms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfiguration), args.Error(1)
}

func (m *MockTaxService) MaterializeConfiguration(ctx context.Context, actor string, in *service.MaterializeInput) (*domain.TaxConfiguration, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfiguration), args.Error(1)
}

func (m *MockTaxService) ExpireConfiguration(ctx context.Context, actor string, id uuid.UUID, effectiveTo time.Time) (*domain.TaxConfiguration, error) {
	args := m.Called(ctx, actor, id, effectiveTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfiguration), args.Error(1)
}

func (m *MockTaxService) DeactivateConfiguration(ctx context.Context, actor string, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockTaxService) CreateRate(ctx context.Context, actor string, in *service.CreateRateInput) (*domain.TaxRate, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxService) ExpireRate(ctx context.Context, actor string, id uuid.UUID, effectiveTo time.Time) (*domain.TaxRate, error) {
	args := m.Called(ctx, actor, id, effectiveTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxService) DeactivateRate(ctx context.Context, actor string, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockTaxService) ValidateTaxConfiguration(ctx context.Context, code string, asOf *time.Time) (*domain.TaxValidationResult, error) {
	args := m.Called(ctx, code, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxValidationResult), args.Error(1)
}

func (m *MockTaxService) ListConfigurations(ctx context.Context, code string) ([]domain.TaxConfiguration, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxConfiguration), args.Error(1)
}
