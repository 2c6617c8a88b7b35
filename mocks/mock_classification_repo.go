package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstengine/internal/domain"
)

// MockClassificationRepo is a mock implementation of port.ClassificationRepository.
type MockClassificationRepo struct {
	mock.Mock
}

func (m *MockClassificationRepo) Create(ctx context.Context, code *domain.ClassificationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockClassificationRepo) Update(ctx context.Context, code *domain.ClassificationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockClassificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassificationCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassificationCode), args.Error(1)
}

func (m *MockClassificationRepo) GetByCode(ctx context.Context, code string) (*domain.ClassificationCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassificationCode), args.Error(1)
}

func (m *MockClassificationRepo) ListChildren(ctx context.Context, parent *domain.ClassificationCode) ([]domain.ClassificationCode, error) {
	args := m.Called(ctx, parent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassificationCode), args.Error(1)
}

func (m *MockClassificationRepo) List(ctx context.Context, offset, limit int) ([]domain.ClassificationCode, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ClassificationCode), args.Int(1), args.Error(2)
}

func (m *MockClassificationRepo) ListAfter(ctx context.Context, afterCode string, limit int) ([]domain.ClassificationCode, error) {
	args := m.Called(ctx, afterCode, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassificationCode), args.Error(1)
}
