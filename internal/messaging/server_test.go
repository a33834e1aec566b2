package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pixil98/go-testutil"
)

func startTestServer(t *testing.T) *NatsServer {
	t.Helper()

	s, err := NewNatsServer(WithPort(-1), WithStartTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("stopping server: %v", err)
		}
	})

	select {
	case <-s.Ready():
	case err := <-done:
		done <- nil
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server not ready")
	}
	return s
}

func connectTestClient(t *testing.T, s *NatsServer) *nats.Conn {
	t.Helper()

	client, err := nats.Connect(s.ClientURL())
	if err != nil {
		t.Fatalf("connecting client: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestNewNatsServer_Options(t *testing.T) {
	tests := map[string]struct {
		opts       []NatsServerOpt
		expTimeout time.Duration
		expHost    string
		expName    string
		expPayload int32
	}{
		"defaults": {
			expTimeout: defaultStartTimeout,
			expHost:    defaultHost,
			expName:    defaultClientName,
		},
		"overrides": {
			opts:       []NatsServerOpt{WithStartTimeout(time.Second), WithHost("0.0.0.0"), WithClientName("sprawl-edge"), WithMaxPayload(4096)},
			expTimeout: time.Second,
			expHost:    "0.0.0.0",
			expName:    "sprawl-edge",
			expPayload: 4096,
		},
		"empty values keep defaults": {
			opts:       []NatsServerOpt{WithStartTimeout(0), WithClientName("")},
			expTimeout: defaultStartTimeout,
			expHost:    defaultHost,
			expName:    defaultClientName,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := NewNatsServer(append([]NatsServerOpt{WithPort(-1)}, tt.opts...)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "timeout", s.startupTimeout, tt.expTimeout)
			testutil.AssertEqual(t, "host", s.host, tt.expHost)
			testutil.AssertEqual(t, "client name", s.clientName, tt.expName)
			testutil.AssertEqual(t, "max payload", s.maxPayload, tt.expPayload)
		})
	}
}

func TestNatsServer_NotStarted(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "publish", errors.Is(s.Publish("a", nil), ErrNotStarted), true)

	_, err = s.Respond("a", func([]byte) []byte { return nil })
	testutil.AssertEqual(t, "respond", errors.Is(err, ErrNotStarted), true)
}

func TestNatsServer_Publish(t *testing.T) {
	s := startTestServer(t)
	client := connectTestClient(t, s)

	conn, err := s.connection()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "client name", conn.Opts.Name, defaultClientName)

	sub, err := client.SubscribeSync("sprawl.weather.changed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Publish("sprawl.weather.changed", []byte("fog")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("message not delivered: %v", err)
	}
	testutil.AssertEqual(t, "payload", string(msg.Data), "fog")
}

func TestNatsServer_Respond(t *testing.T) {
	s := startTestServer(t)

	unsubscribe, err := s.Respond("sprawl.echo", func(data []byte) []byte {
		return append([]byte("echo: "), data...)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer unsubscribe()

	client := connectTestClient(t, s)

	msg, err := client.Request("sprawl.echo", []byte("ping"), 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "reply", string(msg.Data), "echo: ping")
}
