// Package audit provides AuditSink adapters other than the Postgres table.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"gstengine/internal/domain"
	"gstengine/internal/port"
)

type objectSink struct {
	store  port.ObjectStorage
	bucket string
	prefix string
	now    func() time.Time
}

// NewObjectSink archives each event as one JSON object under
// <prefix>/<yyyy>/<mm>/<dd>/<entity_type>/<entity_id>/<event_id>.json.
func NewObjectSink(store port.ObjectStorage, bucket, prefix string) port.AuditSink {
	return &objectSink{store: store, bucket: bucket, prefix: prefix, now: time.Now}
}

// ObjectKey is the archive key for e.
func ObjectKey(prefix string, e *domain.AuditEvent) string {
	return path.Join(prefix,
		e.CreatedAt.UTC().Format("2006/01/02"),
		string(e.EntityType),
		e.EntityID.String(),
		e.ID.String()+".json")
}

func (s *objectSink) Record(ctx context.Context, e *domain.AuditEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("objectSink.Record encode: %w", err)
	}
	_, err = s.store.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         ObjectKey(s.prefix, e),
		Body:        bytes.NewReader(body),
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("objectSink.Record: %w", err)
	}
	return nil
}
