package port

import (
	"context"

	"gstengine/internal/domain"
)

// AuditSink is the write-only destination for rule change events.
type AuditSink interface {
	Record(ctx context.Context, event *domain.AuditEvent) error
}
