package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstengine/internal/domain"
	"gstengine/internal/service"
)

// MockClassificationService is a mock implementation of service.ClassificationService.
type MockClassificationService struct {
	mock.Mock
}

func (m *MockClassificationService) Lookup(ctx context.Context, code string) (*domain.ClassificationCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassificationCode), args.Error(1)
}

func (m *MockClassificationService) Children(ctx context.Context, parentCode string) ([]domain.ClassificationCode, error) {
	args := m.Called(ctx, parentCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassificationCode), args.Error(1)
}

func (m *MockClassificationService) Hierarchy(ctx context.Context, code string) ([]domain.ClassificationCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassificationCode), args.Error(1)
}

func (m *MockClassificationService) Create(ctx context.Context, actor string, in *service.ClassificationInput) (*domain.ClassificationCode, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassificationCode), args.Error(1)
}

func (m *MockClassificationService) Update(ctx context.Context, actor string, id uuid.UUID, in *service.ClassificationInput) (*domain.ClassificationCode, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassificationCode), args.Error(1)
}

func (m *MockClassificationService) List(ctx context.Context, offset, limit int) ([]domain.ClassificationCode, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ClassificationCode), args.Int(1), args.Error(2)
}
