package command

import (
	"encoding/json"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-sprawl/internal/world"
)

// WorldConfig wraps world.Config so that a missing "world" block still starts
// from the engine defaults.
type WorldConfig struct {
	world.Config
	set bool
}

func (c *WorldConfig) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &c.Config); err != nil {
		return err
	}
	c.set = true
	return nil
}

// resolve returns the configured options with SPRAWL_* environment
// overrides applied on top.
func (c *WorldConfig) resolve() (world.Config, error) {
	cfg := c.Config
	if !c.set {
		cfg = world.DefaultConfig()
	}

	if err := env.Parse(&cfg); err != nil {
		return world.Config{}, fmt.Errorf("parsing world environment: %w", err)
	}
	return cfg, nil
}

func (c *WorldConfig) validate() error {
	cfg, err := c.resolve()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	return nil
}

func (c *WorldConfig) BuildWorld(sink world.EventSink) (*world.WorldState, error) {
	cfg, err := c.resolve()
	if err != nil {
		return nil, err
	}
	return world.New(cfg, world.WithEventSink(sink))
}
