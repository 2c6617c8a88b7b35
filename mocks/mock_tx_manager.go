package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstengine/internal/domain"
)

// MockTxManager is a mock implementation of port.TxManager. RunInTx invokes
// fn with the caller's context unless the expectation returns an error.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *MockTxManager) LockScope(ctx context.Context, scope domain.Scope) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}
