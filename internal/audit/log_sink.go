package audit

import (
	"context"

	"gstengine/internal/domain"
	"gstengine/internal/port"
	"gstengine/pkg/logger"
)

type logSink struct {
	log *logger.Logger
}

// NewLogSink creates a no-op AuditSink that only logs events. Used when
// audit.sink is noop.
func NewLogSink(log *logger.Logger) port.AuditSink {
	return &logSink{log: log.WithComponent("audit")}
}

func (s *logSink) Record(_ context.Context, e *domain.AuditEvent) error {
	s.log.Infow("[NOOP AUDIT] rule change",
		"action", e.Action,
		"entity_type", e.EntityType,
		"entity_id", e.EntityID,
		"actor", e.Actor,
	)
	return nil
}
