package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	server "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// Messenger encapsulates a NATS connection, optionally backed by an
// embedded server for standalone runs.
type Messenger struct {
	NC       *nats.Conn
	embedded *server.Server
}

// NewMessenger connects to the NATS server at url.
func NewMessenger(url string) (*Messenger, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Messenger{NC: nc}, nil
}

// NewEmbeddedMessenger starts an in-process NATS server on a random port
// and connects to it. Used when no external NATS_URL is configured.
func NewEmbeddedMessenger() (*Messenger, error) {
	srv, err := server.NewServer(&server.Options{Port: server.RANDOM_PORT})
	if err != nil {
		return nil, fmt.Errorf("embedded nats server: %w", err)
	}
	go srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		srv.Shutdown()
		return nil, fmt.Errorf("embedded nats server not ready")
	}

	nc, err := nats.Connect(srv.ClientURL())
	if err != nil {
		srv.Shutdown()
		return nil, err
	}
	return &Messenger{NC: nc, embedded: srv}, nil
}

// PublishJSON marshals v and publishes it on subject.
func (m *Messenger) PublishJSON(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", subject, err)
	}
	return m.NC.Publish(subject, data)
}

// Subscribe subscribes a raw handler to a subject.
func (m *Messenger) Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	return m.NC.Subscribe(subject, handler)
}

// Close drains the connection and stops the embedded server if one is running.
func (m *Messenger) Close() {
	if m.NC != nil {
		m.NC.Close()
	}
	if m.embedded != nil {
		m.embedded.Shutdown()
	}
}
