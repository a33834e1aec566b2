package world

import "log/slog"

// Event types published by the world engine.
const (
	EventWorldInitialized       = "world.initialized"
	EventTimeTransition         = "world.timeTransition"
	EventWeatherChanged         = "world.weatherChanged"
	EventDistrictCreated        = "district.created"
	EventDistrictControlChanged = "district.controlChanged"
	EventDistrictDiscovered     = "district.discovered"
	EventLocationCreated        = "location.created"
	EventLocationDiscovered     = "location.discovered"
	EventTravelCompleted        = "travel.completed"
)

// Transition directions carried by EventTimeTransition.
const (
	TransitionDawn      = "Dawn"
	TransitionNightFall = "NightFall"
)

// EventSink receives world events. Publish is best effort: it cannot fail the
// mutation that raised the event.
type EventSink interface {
	Publish(eventType string, data map[string]any)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Publish(string, map[string]any) {}

type event struct {
	typ  string
	data map[string]any
}

// emit queues an event for delivery once the world lock is released.
// Callers must hold w.mu.
func (w *WorldState) emit(typ string, data map[string]any) {
	w.pending = append(w.pending, event{typ: typ, data: data})
}

func (w *WorldState) dispatch(events []event) {
	for _, e := range events {
		w.publish(e)
	}
}

func (w *WorldState) publish(e event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event sink panicked", "event", e.typ, "panic", r)
		}
	}()
	w.sink.Publish(e.typ, e.data)
}
