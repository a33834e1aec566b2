package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// Manager is advanced once per tick by the real time that tick represents.
type Manager interface {
	Tick(ctx context.Context, elapsed time.Duration) error
}

type Driver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick", d.tickLength, "managers", len(d.managers))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

// Tick advances every manager by one tick length, stopping at the first error.
func (d *Driver) Tick(ctx context.Context) error {
	for i, m := range d.managers {
		if err := m.Tick(ctx, d.tickLength); err != nil {
			return fmt.Errorf("ticking manager %d: %w", i, err)
		}
	}
	return nil
}
