package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"gstengine/internal/domain"
	"gstengine/internal/port"
	"gstengine/pkg/logger"
)

// auditor records rule changes. Failures are logged but never block the
// write that has already committed.
type auditor struct {
	sink port.AuditSink
	log  *logger.Logger
}

func (a auditor) record(ctx context.Context, actor string, action domain.AuditAction, entity domain.AuditEntity, id uuid.UUID, details interface{}) {
	if a.sink == nil {
		return
	}
	raw := json.RawMessage("{}")
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			a.log.Warnw("failed to encode audit details",
				"action", action,
				"entity_id", id,
				"error", err,
			)
		} else {
			raw = b
		}
	}
	event := &domain.AuditEvent{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entity,
		EntityID:   id,
		Actor:      actor,
		Details:    raw,
	}
	if err := a.sink.Record(ctx, event); err != nil {
		a.log.Warnw("failed to write audit event",
			"action", action,
			"entity_id", id,
			"error", err,
		)
	}
}
