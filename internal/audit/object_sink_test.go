package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstengine/internal/audit"
	"gstengine/internal/domain"
	"gstengine/internal/port"
	"gstengine/mocks"
	"gstengine/pkg/logger"
)

func TestObjectKey(t *testing.T) {
	e := &domain.AuditEvent{
		ID:         uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		EntityType: domain.AuditEntityConfiguration,
		EntityID:   uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		CreatedAt:  time.Date(2024, 4, 1, 23, 30, 0, 0, time.UTC),
	}

	assert.Equal(t,
		"audit/2024/04/01/tax_configuration/aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee/11111111-2222-3333-4444-555555555555.json",
		audit.ObjectKey("audit", e))
}

func TestObjectSink_Record_UploadsJSON(t *testing.T) {
	store := new(mocks.MockObjectStorage)
	sink := audit.NewObjectSink(store, "gst-audit", "events")

	var uploaded port.UploadInput
	store.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		uploaded = in
		return in.Bucket == "gst-audit" && in.ContentType == "application/json"
	})).Return(&port.UploadOutput{Location: "s3://gst-audit/x"}, nil)

	e := &domain.AuditEvent{
		Action:     domain.AuditExpireRate,
		EntityType: domain.AuditEntityRate,
		EntityID:   uuid.New(),
		Actor:      "rates-admin",
		Details:    json.RawMessage(`{"effective_to":"2024-03-31"}`),
	}
	require.NoError(t, sink.Record(context.Background(), e))

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, audit.ObjectKey("events", e), uploaded.Key)

	body, err := io.ReadAll(uploaded.Body)
	require.NoError(t, err)
	var got domain.AuditEvent
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, domain.AuditExpireRate, got.Action)
	assert.Equal(t, "rates-admin", got.Actor)
	assert.JSONEq(t, `{"effective_to":"2024-03-31"}`, string(got.Details))
	store.AssertExpectations(t)
}

func TestObjectSink_Record_WrapsUploadError(t *testing.T) {
	store := new(mocks.MockObjectStorage)
	sink := audit.NewObjectSink(store, "gst-audit", "")
	store.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	err := sink.Record(context.Background(), &domain.AuditEvent{EntityType: domain.AuditEntityRate, EntityID: uuid.New()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "objectSink.Record")
	assert.Contains(t, err.Error(), "access denied")
}

func TestLogSink_NeverFails(t *testing.T) {
	sink := audit.NewLogSink(logger.Nop())

	assert.NoError(t, sink.Record(context.Background(), &domain.AuditEvent{Action: domain.AuditCreateRate}))
}
