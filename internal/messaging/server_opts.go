package messaging

import "time"

const (
	defaultStartTimeout = 10 * time.Second
	defaultHost         = "127.0.0.1"
	defaultClientName   = "sprawl-internal"
)

// NatsServerOpt tunes the embedded event bus before it is created.
type NatsServerOpt func(*NatsServer)

// WithStartTimeout bounds how long Start waits before the bus accepts
// world events.
func WithStartTimeout(d time.Duration) NatsServerOpt {
	return func(n *NatsServer) {
		if d > 0 {
			n.startupTimeout = d
		}
	}
}

// WithHost binds the bus to one interface. Status and travel clients on other
// hosts need a non-loopback address.
func WithHost(host string) NatsServerOpt {
	return func(n *NatsServer) {
		n.host = host
	}
}

// WithPort sets the client port. -1 picks a random free port.
func WithPort(port int) NatsServerOpt {
	return func(n *NatsServer) {
		n.port = port
	}
}

// WithClientName names the connection world events are published on, as
// shown in the server's connection list.
func WithClientName(name string) NatsServerOpt {
	return func(n *NatsServer) {
		if name != "" {
			n.clientName = name
		}
	}
}

// WithMaxPayload caps the size of a single event envelope or reply. Zero keeps
// the server default.
func WithMaxPayload(bytes int32) NatsServerOpt {
	return func(n *NatsServer) {
		n.maxPayload = bytes
	}
}
