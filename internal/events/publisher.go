package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Actions recorded by the console
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
	ActionImported      = "imported"
	ActionLoggedIn      = "logged_in"
	ActionLoggedOut     = "logged_out"
)

// AuditEvent records one operator action on the backend.
type AuditEvent struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	EntityID   string            `json:"entity_id,omitempty"`
	Actor      string            `json:"actor"`
	RequestID  string            `json:"request_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewAuditEvent stamps an event with an id and the current time.
func NewAuditEvent(entity, action, entityID, actor string) AuditEvent {
	return AuditEvent{
		ID:         uuid.New().String(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}

// Sender is the NATS publish surface the publisher needs.
type Sender interface {
	Publish(subject string, data []byte) error
}

// Publisher sends console audit events to NATS. Without a connection it
// only logs, so the console runs without a broker.
type Publisher struct {
	sender  Sender
	conn    *nats.Conn
	subject string
	logger  *logrus.Entry
}

// NewPublisher connects to natsURL. An empty URL yields a log-only publisher.
func NewPublisher(natsURL, subject string, logger *logrus.Logger) (*Publisher, error) {
	p := &Publisher{
		subject: subject,
		logger:  logger.WithField("component", "events.publisher"),
	}
	if natsURL == "" {
		return p, nil
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("admin-console"),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				p.logger.WithError(err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			p.logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	p.conn = conn
	p.sender = conn
	return p, nil
}

// NewPublisherWithSender builds a publisher on an existing sender.
func NewPublisherWithSender(sender Sender, subject string, logger *logrus.Logger) *Publisher {
	return &Publisher{
		sender:  sender,
		subject: subject,
		logger:  logger.WithField("component", "events.publisher"),
	}
}

// Subject returns the subject an event is published on:
// <base>.<entity>.<action>.
func (p *Publisher) Subject(event AuditEvent) string {
	return strings.Join([]string{p.subject, event.Entity, event.Action}, ".")
}

// Publish sends event. Failures are logged and returned; callers treat
// them as non-fatal.
func (p *Publisher) Publish(ctx context.Context, event AuditEvent) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := p.logger.WithFields(logrus.Fields{
		"entity":    event.Entity,
		"action":    event.Action,
		"entity_id": event.EntityID,
		"actor":     event.Actor,
	})
	if p.sender == nil {
		entry.Debug("audit event")
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.sender.Publish(p.Subject(event), data); err != nil {
		entry.WithError(err).Warn("Failed to publish audit event")
		return err
	}
	return nil
}

// IsConnected reports whether the NATS connection is up. A log-only
// publisher is never connected.
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn != nil && p.conn.IsConnected()
}

// Enabled reports whether events leave the process.
func (p *Publisher) Enabled() bool {
	return p != nil && p.sender != nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
