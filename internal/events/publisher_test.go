package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (s *recordingSender) Publish(subject string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.subjects = append(s.subjects, subject)
	s.payloads = append(s.payloads, data)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPublisher_Publish(t *testing.T) {
	sender := &recordingSender{}
	p := NewPublisherWithSender(sender, "admin.console.audit", quietLogger())

	event := NewAuditEvent("category", ActionDeleted, "12", "ops@example.com")
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, sender.subjects, 1)
	assert.Equal(t, "admin.console.audit.category.deleted", sender.subjects[0])

	var decoded AuditEvent
	require.NoError(t, json.Unmarshal(sender.payloads[0], &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "12", decoded.EntityID)
	assert.True(t, p.Enabled())
	assert.False(t, p.IsConnected())
}

func TestPublisher_SendFailure(t *testing.T) {
	p := NewPublisherWithSender(&recordingSender{err: errors.New("no responders")}, "audit", quietLogger())
	err := p.Publish(context.Background(), NewAuditEvent("order", ActionStatusChanged, "5", "ops"))
	assert.Error(t, err)
}

func TestPublisher_LogOnly(t *testing.T) {
	p, err := NewPublisher("", "audit", quietLogger())
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Publish(context.Background(), NewAuditEvent("banner", ActionCreated, "1", "ops")))
	p.Close()

	var nilPublisher *Publisher
	assert.NoError(t, nilPublisher.Publish(context.Background(), AuditEvent{}))
	assert.False(t, nilPublisher.IsConnected())
	nilPublisher.Close()
}

func TestPublisher_CancelledContext(t *testing.T) {
	sender := &recordingSender{}
	p := NewPublisherWithSender(sender, "audit", quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Publish(ctx, NewAuditEvent("product", ActionUpdated, "3", "ops")), context.Canceled)
	assert.Empty(t, sender.subjects)
}
