package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

var ErrNotStarted = errors.New("nats server not started")

// NatsServer embeds a NATS server and holds one internal client connection
// used for every publish and subscription made through it.
type NatsServer struct {
	ns *server.Server

	mu    sync.RWMutex
	conn  *nats.Conn
	ready chan struct{}

	startupTimeout time.Duration
	host           string
	port           int
	clientName     string
	maxPayload     int32
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		ready:          make(chan struct{}),
		startupTimeout: defaultStartTimeout,
		host:           defaultHost,
		clientName:     defaultClientName,
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:       s.host,
		Port:       s.port,
		MaxPayload: s.maxPayload,
		NoLog:      true,
		NoSigs:     true, // Let the application handle signals
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		n.ns.Shutdown()
		return fmt.Errorf("nats server not ready for connections")
	}

	conn, err := nats.Connect(n.ns.ClientURL(), nats.Name(n.clientName))
	if err != nil {
		n.ns.Shutdown()
		return fmt.Errorf("creating nats client connection: %w", err)
	}

	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()

	n.mu.Lock()
	n.conn = nil
	n.mu.Unlock()

	conn.Close()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Ready is closed once the internal connection is open.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// ClientURL is the address external clients connect to.
func (n *NatsServer) ClientURL() string {
	return n.ns.ClientURL()
}

func (n *NatsServer) connection() (*nats.Conn, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.conn == nil {
		return nil, ErrNotStarted
	}
	return n.conn, nil
}

// Respond answers request/reply messages on subject with the handler's
// return value. Messages without a reply subject are ignored.
func (n *NatsServer) Respond(subject string, handler func(data []byte) []byte) (func(), error) {
	return n.subscribe(subject, func(msg *nats.Msg) {
		if msg.Reply == "" {
			return
		}
		if err := msg.Respond(handler(msg.Data)); err != nil {
			slog.Warn("responding to request", "subject", subject, "error", err)
		}
	})
}

func (n *NatsServer) subscribe(subject string, cb nats.MsgHandler) (func(), error) {
	conn, err := n.connection()
	if err != nil {
		return nil, err
	}

	sub, err := conn.Subscribe(subject, cb)
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	if err := conn.Flush(); err != nil {
		return nil, fmt.Errorf("flushing subscription to %s: %w", subject, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			slog.Warn("unsubscribing", "subject", subject, "error", err)
		}
	}, nil
}

// Publish sends a message to the given subject
func (n *NatsServer) Publish(subject string, data []byte) error {
	conn, err := n.connection()
	if err != nil {
		return err
	}
	return conn.Publish(subject, data)
}
