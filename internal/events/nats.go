package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/news-crud-lab/internal/metrics"
	"github.com/news-crud-lab/internal/models"
	"github.com/rs/zerolog"
)

// Conn is the subset of *nats.Conn the publisher needs
type Conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// NATSPublisher forwards store events to a NATS subject
type NATSPublisher struct {
	conn    Conn
	subject string
	log     zerolog.Logger
}

// EventMessage represents the structure sent to NATS
type EventMessage struct {
	Event     models.StoreEvent `json:"event"`
	Timestamp time.Time         `json:"timestamp"`
	Source    string            `json:"source"`
	Version   string            `json:"version"`
}

// NewNATSPublisher connects to url and publishes on subject
func NewNATSPublisher(url, subject string, log zerolog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("news-crud-lab"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewNATSPublisherWithConn(nc, subject, log), nil
}

// NewNATSPublisherWithConn wraps an existing connection
func NewNATSPublisherWithConn(conn Conn, subject string, log zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		log:     log.With().Str("component", "nats").Logger(),
	}
}

// Publish implements Publisher
func (p *NATSPublisher) Publish(event models.StoreEvent) error {
	message := EventMessage{
		Event:     event,
		Timestamp: time.Now(),
		Source:    "news-crud-lab",
		Version:   "1.0",
	}

	data, err := json.Marshal(message)
	if err != nil {
		metrics.NatsMessagesPublished.WithLabelValues(p.subject, "error").Inc()
		return err
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		metrics.NatsMessagesPublished.WithLabelValues(p.subject, "error").Inc()
		p.log.Warn().Err(err).Str("event", string(event.Type)).Msg("Failed to publish store event")
		return err
	}

	metrics.NatsMessagesPublished.WithLabelValues(p.subject, "success").Inc()
	p.log.Debug().
		Str("event", string(event.Type)).
		Str("session_id", event.SessionID).
		Msg("Published store event to NATS")
	return nil
}

// Close closes the NATS connection
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
