package transport

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/renderloop/configsync/logging"
)

// Subject layout for renderer sessions. Commands flow client-to-renderer,
// events renderer-to-client.
const (
	subjectPrefix  = "configurator.session."
	commandsSuffix = ".commands"
	eventsSuffix   = ".events"
)

// NATSTransport implements Transport over NATS subjects. It is used when
// the renderer (or a simulator) is bridged onto a NATS fabric instead of a
// direct socket.
type NATSTransport struct {
	conn      *nats.Conn
	config    NATSConfig
	sessionID string
	ownsConn  bool

	sub  *nats.Subscription
	recv chan []byte

	mu     sync.Mutex
	closed bool
}

// NATSConfig holds NATS transport configuration.
type NATSConfig struct {
	Config // Embed base config

	// URL is the NATS server URL (e.g., "nats://localhost:4222").
	URL string

	// Name is the client name for identification.
	Name string

	// SessionID identifies the renderer session. Generated when empty.
	SessionID string

	// ReconnectWait is the time to wait between reconnection attempts.
	ReconnectWait time.Duration

	// MaxReconnects is the maximum number of reconnection attempts.
	// -1 = unlimited
	MaxReconnects int

	// ConnectTimeout for initial connection.
	ConnectTimeout time.Duration

	// Logger for connectivity transitions. nil disables logging.
	Logger *logging.Logger
}

// DefaultNATSConfig returns configuration with sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		Config:         DefaultConfig(),
		URL:            nats.DefaultURL,
		ReconnectWait:  2 * time.Second,
		MaxReconnects:  -1, // Unlimited
		ConnectTimeout: 5 * time.Second,
	}
}

// NewNATSTransport connects to NATS and opens a session transport.
func NewNATSTransport(cfg NATSConfig) (*NATSTransport, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.Timeout(cfg.ConnectTimeout),
	}
	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	t, err := NewNATSTransportFromConn(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	t.ownsConn = true
	return t, nil
}

// NewNATSTransportFromConn opens a session transport on an existing
// connection. The connection is not closed on Disconnect.
func NewNATSTransportFromConn(conn *nats.Conn, cfg NATSConfig) (*NATSTransport, error) {
	if cfg.RecvBufferSize <= 0 {
		cfg.RecvBufferSize = DefaultConfig().RecvBufferSize
	}

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New().WithComponent("transport")
		cfg.Logger.SetOutput(io.Discard)
	}
	cfg.Logger = cfg.Logger.WithSessionID(sessionID)

	t := &NATSTransport{
		conn:      conn,
		config:    cfg,
		sessionID: sessionID,
		recv:      make(chan []byte, cfg.RecvBufferSize),
	}

	// Unsubscribe does not wait for an in-flight delivery, so the handler
	// must check closed under the same mutex Disconnect closes recv under.
	sub, err := conn.Subscribe(EventsSubject(sessionID), func(m *nats.Msg) {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed {
			return
		}
		select {
		case t.recv <- m.Data:
		default:
			// Buffer full, drop
		}
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe: %w", err)
	}
	t.sub = sub

	cfg.Logger.ConnectionChanged(StateConnected.String())
	return t, nil
}

// CommandsSubject returns the client-to-renderer subject for a session.
func CommandsSubject(sessionID string) string {
	return subjectPrefix + sessionID + commandsSuffix
}

// EventsSubject returns the renderer-to-client subject for a session.
func EventsSubject(sessionID string) string {
	return subjectPrefix + sessionID + eventsSuffix
}

// SessionID returns the renderer session ID.
func (t *NATSTransport) SessionID() string {
	return t.sessionID
}

// State returns current connectivity.
func (t *NATSTransport) State() ConnectionState {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed || t.conn.IsClosed() {
		return StateDisconnected
	}
	if t.conn.IsReconnecting() {
		return StateConnecting
	}
	return StateConnected
}

// Send publishes a message on the session's command subject.
func (t *NATSTransport) Send(data []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed || t.conn.IsClosed() {
		return ErrClosed
	}

	if err := t.conn.Publish(CommandsSubject(t.sessionID), data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Inbound returns the channel of inbound payloads.
func (t *NATSTransport) Inbound() <-chan []byte {
	return t.recv
}

// Disconnect terminates the session. Idempotent.
func (t *NATSTransport) Disconnect() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	// Closed under the mutex so the subscription handler can never send
	// on a closed channel.
	close(t.recv)
	t.mu.Unlock()

	t.config.Logger.ConnectionChanged(StateDisconnected.String())

	if t.sub != nil {
		t.sub.Unsubscribe()
	}
	if t.ownsConn {
		t.conn.Close()
	}
	return nil
}
