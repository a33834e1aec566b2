package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-sprawl/internal/report"
	"github.com/pixil98/go-sprawl/internal/world"
)

// Responder is the request/reply side of the bus.
type Responder interface {
	Ready() <-chan struct{}
	Respond(subject string, handler func(data []byte) []byte) (func(), error)
}

// StatusSource reports the current world status.
type StatusSource interface {
	Status() world.Status
}

// StatusResponder answers "<prefix>.status" requests. A request body of
// "json" gets the raw status, anything else gets the text report.
type StatusResponder struct {
	bus     Responder
	source  StatusSource
	subject string
}

func NewStatusResponder(bus Responder, source StatusSource, prefix string) *StatusResponder {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &StatusResponder{
		bus:     bus,
		source:  source,
		subject: prefix + ".status",
	}
}

func (r *StatusResponder) Start(ctx context.Context) error {
	return serve(ctx, r.bus, r.subject, r.handle)
}

// serve registers handle on subject once the bus is ready and keeps the
// subscription until ctx is cancelled.
func serve(ctx context.Context, bus Responder, subject string, handle func([]byte) []byte) error {
	select {
	case <-ctx.Done():
		return nil
	case <-bus.Ready():
	}

	unsubscribe, err := bus.Respond(subject, handle)
	if err != nil {
		return fmt.Errorf("registering responder on %s: %w", subject, err)
	}
	defer unsubscribe()

	slog.InfoContext(ctx, "answering requests", "subject", subject)

	<-ctx.Done()
	return nil
}

func (r *StatusResponder) handle(req []byte) []byte {
	status := r.source.Status()

	if string(req) == "json" {
		data, err := json.Marshal(status)
		if err != nil {
			slog.Error("marshalling status", "error", err)
			return []byte(`{"error":"status unavailable"}`)
		}
		return data
	}

	text, err := report.Status(status)
	if err != nil {
		slog.Error("rendering status report", "error", err)
		return []byte("status unavailable")
	}
	return []byte(text)
}
