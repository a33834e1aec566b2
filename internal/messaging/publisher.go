package messaging

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

const DefaultSubjectPrefix = "sprawl"

// Publisher sends raw payloads to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the wire form of a world event.
type Envelope struct {
	Type        string         `json:"type"`
	Data        map[string]any `json:"data"`
	PublishedAt time.Time      `json:"published_at"`
}

// EventPublisher forwards world events to NATS as JSON envelopes on
// "<prefix>.<eventType>". Delivery is best effort.
type EventPublisher struct {
	pub    Publisher
	prefix string
	now    func() time.Time
}

func NewEventPublisher(pub Publisher, prefix string) *EventPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &EventPublisher{
		pub:    pub,
		prefix: prefix,
		now:    time.Now,
	}
}

// Subject returns the subject eventType is published on.
func (p *EventPublisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

func (p *EventPublisher) Publish(eventType string, data map[string]any) {
	payload, err := json.Marshal(Envelope{
		Type:        eventType,
		Data:        data,
		PublishedAt: p.now().UTC(),
	})
	if err != nil {
		slog.Error("marshalling event", "event", eventType, "error", err)
		return
	}

	err = p.pub.Publish(p.Subject(eventType), payload)
	switch {
	case errors.Is(err, ErrNotStarted):
		slog.Debug("dropping event before nats is ready", "event", eventType)
	case err != nil:
		slog.Error("publishing event", "event", eventType, "error", err)
	}
}
