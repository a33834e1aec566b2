package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string           `json:"tick_interval"`
	World        WorldConfig      `json:"world"`
	Atlas        AtlasConfig      `json:"atlas"`
	Nats         NatsConfig       `json:"nats"`
	Listeners    []ListenerConfig `json:"listeners"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	_, err := c.tickInterval()
	if err != nil {
		el.Add(err)
	}

	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.World.validate())
	el.Add(c.Atlas.validate())
	el.Add(c.Nats.validate())

	return el.Err()
}

// tickInterval parses tick_interval. An empty value uses the driver default.
func (c *Config) tickInterval() (time.Duration, error) {
	if c.TickInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("parsing tick_interval: %w", err)
	}
	if d < 100*time.Millisecond {
		return 0, fmt.Errorf("tick_interval must be at least 100ms")
	}
	return d, nil
}
