package world

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-sprawl/internal/gamemap"
)

// WorldState is the single source of truth for the simulated city: clock,
// weather, districts, locations and loaded maps. All access goes through its
// methods, and every operation runs under one lock so that partial updates
// are never observable.
type WorldState struct {
	mu   sync.RWMutex
	cfg  Config
	sink EventSink
	rng  Rand

	clock     gameClock
	weather   WeatherKind
	districts map[string]*District
	locations map[string]*Location
	maps      map[string]*gamemap.Map

	// Events raised while mu is held, delivered by unlock.
	pending []event
}

type Option func(*WorldState)

// WithEventSink routes world events to sink. Without it events are dropped.
func WithEventSink(sink EventSink) Option {
	return func(w *WorldState) {
		if sink != nil {
			w.sink = sink
		}
	}
}

// WithRand overrides the random source, mostly for deterministic tests.
func WithRand(r Rand) Option {
	return func(w *WorldState) {
		w.rng = r
	}
}

// New validates cfg and builds a world at the configured start time and weather.
func New(cfg Config, opts ...Option) (*WorldState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating world config: %w", err)
	}
	start, err := cfg.startTime()
	if err != nil {
		return nil, err
	}

	w := &WorldState{
		cfg:       cfg,
		sink:      NopSink{},
		clock:     gameClock{now: start},
		weather:   cfg.StartWeather,
		districts: make(map[string]*District),
		locations: make(map[string]*Location),
		maps:      make(map[string]*gamemap.Map),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = NewRand(cfg.Seed)
	}

	w.lock()
	w.emit(EventWorldInitialized, map[string]any{
		"startTime": start,
		"weather":   w.weather.String(),
	})
	w.unlock()

	slog.Info("world initialized", "start", start, "weather", w.weather)
	return w, nil
}

// Config returns the configuration the world was built with.
func (w *WorldState) Config() Config {
	return w.cfg
}

// Tick advances game time by the real elapsed duration scaled by TimeScale.
// Every full hour of ticked game time rolls once for a weather change.
func (w *WorldState) Tick(_ context.Context, elapsed time.Duration) error {
	d := time.Duration(float64(elapsed) * w.cfg.TimeScale)
	if d <= 0 {
		return nil
	}

	w.lock()
	defer w.unlock()
	w.tick(d)
	return nil
}

func (w *WorldState) lock() {
	w.mu.Lock()
}

// unlock releases the world lock and then hands queued events to the sink,
// so a slow sink never holds up other callers.
func (w *WorldState) unlock() {
	events := w.pending
	w.pending = nil
	w.mu.Unlock()

	w.dispatch(events)
}
