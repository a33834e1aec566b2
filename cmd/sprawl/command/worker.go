package command

import (
	"fmt"

	"github.com/pixil98/go-service"
	"github.com/pixil98/go-sprawl/internal/driver"
	"github.com/pixil98/go-sprawl/internal/listener"
	"github.com/pixil98/go-sprawl/internal/messaging"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Event bus
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewEventPublisher(natsServer, cfg.Nats.SubjectPrefix)

	// World
	w, err := cfg.World.BuildWorld(publisher)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}
	if err := cfg.Atlas.Load(w); err != nil {
		return nil, fmt.Errorf("loading atlas: %w", err)
	}

	// Create Listeners
	console := listener.NewStatusConsole(w)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		worker, err := l.BuildListener(console)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = worker
	}

	// Setup the driver
	tick, err := cfg.tickInterval()
	if err != nil {
		return nil, err
	}
	drv := driver.NewDriver([]driver.Manager{w}, driver.WithTickLength(tick))

	// Create a worker list
	return service.WorkerList{
		"nats":      natsServer,
		"status":    messaging.NewStatusResponder(natsServer, w, cfg.Nats.SubjectPrefix),
		"travel":    messaging.NewTravelResponder(natsServer, w, cfg.Nats.SubjectPrefix),
		"driver":    drv,
		"listeners": &listeners,
	}, nil
}
