package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstengine/internal/domain"
)

// MockAuditSink is a mock implementation of port.AuditSink.
type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) Record(ctx context.Context, event *domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
