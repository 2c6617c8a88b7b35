package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstengine/internal/domain"
	"gstengine/internal/port"
)

type auditEventRepo struct {
	db *sqlx.DB
}

// NewAuditEventRepo creates a PostgreSQL-backed AuditSink writing to tax_audit_events.
func NewAuditEventRepo(db *sqlx.DB) port.AuditSink {
	return &auditEventRepo{db: db}
}

func (r *auditEventRepo) Record(ctx context.Context, e *domain.AuditEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	details := []byte(e.Details)
	if len(details) == 0 {
		details = []byte("{}")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tax_audit_events (id, action, entity_type, entity_id, actor, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Action, e.EntityType, e.EntityID, e.Actor, details, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("auditEventRepo.Record: %w", err)
	}
	return nil
}
