package transport

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/renderloop/configsync/logging"
)

// ClientIDHeader carries the per-session client ID on the dial request.
const ClientIDHeader = "X-Configurator-Client"

// WebSocketTransport implements Transport over WebSocket.
type WebSocketTransport struct {
	conn     *websocket.Conn
	config   WebSocketConfig
	clientID string

	recv chan []byte
	send chan []byte
	done chan struct{}

	mu     sync.Mutex
	state  ConnectionState
	closed bool
}

// WebSocketConfig holds WebSocket transport configuration.
type WebSocketConfig struct {
	Config // Embed base config

	// WriteTimeout for write operations.
	WriteTimeout time.Duration

	// MaxMessageSize limits incoming message size.
	MaxMessageSize int64

	// PingInterval for keepalive pings (0 = disabled).
	PingInterval time.Duration

	// DialTimeout for establishing the session.
	DialTimeout time.Duration

	// Logger for connectivity transitions. nil disables logging.
	Logger *logging.Logger
}

// DefaultWebSocketConfig returns configuration with sensible defaults.
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		Config:         DefaultConfig(),
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 1024 * 1024, // 1MB
		PingInterval:   30 * time.Second,
		DialTimeout:    10 * time.Second,
	}
}

// DialWebSocket establishes a renderer session and returns a transport for
// it. The caller must start Run.
func DialWebSocket(ctx context.Context, url string, cfg WebSocketConfig) (*WebSocketTransport, error) {
	dialer := websocket.Dialer{HandshakeTimeout: cfg.DialTimeout}
	clientID := uuid.NewString()

	header := http.Header{}
	header.Set(ClientIDHeader, clientID)

	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	t := NewWebSocketTransport(conn, cfg)
	t.clientID = clientID
	return t, nil
}

// NewWebSocketTransport creates a transport from an existing connection.
func NewWebSocketTransport(conn *websocket.Conn, cfg WebSocketConfig) *WebSocketTransport {
	if cfg.RecvBufferSize <= 0 {
		cfg.RecvBufferSize = DefaultConfig().RecvBufferSize
	}
	if cfg.SendBufferSize <= 0 {
		cfg.SendBufferSize = DefaultConfig().SendBufferSize
	}

	if cfg.Logger == nil {
		cfg.Logger = logging.New().WithComponent("transport")
		cfg.Logger.SetOutput(io.Discard)
	}

	conn.SetReadLimit(cfg.MaxMessageSize)

	t := &WebSocketTransport{
		conn:     conn,
		config:   cfg,
		clientID: uuid.NewString(),
		state:    StateConnected,
		recv:     make(chan []byte, cfg.RecvBufferSize),
		send:     make(chan []byte, cfg.SendBufferSize),
		done:     make(chan struct{}),
	}
	cfg.Logger.ConnectionChanged(StateConnected.String())
	return t
}

// ClientID returns the per-session client ID.
func (t *WebSocketTransport) ClientID() string {
	return t.clientID
}

// State returns current connectivity.
func (t *WebSocketTransport) State() ConnectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Inbound returns the channel of inbound payloads.
func (t *WebSocketTransport) Inbound() <-chan []byte {
	return t.recv
}

// Send queues a message for delivery.
func (t *WebSocketTransport) Send(data []byte) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.mu.Unlock()

	select {
	case t.send <- data:
		return nil
	case <-t.done:
		return ErrClosed
	default:
		return ErrSendTimeout
	}
}

// Run starts the transport, blocking until ctx is cancelled or the
// connection drops.
func (t *WebSocketTransport) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		t.readLoop(ctx)
	}()

	go func() {
		defer wg.Done()
		t.writeLoop(ctx)
	}()

	select {
	case <-ctx.Done():
	case <-t.done:
	}

	t.Disconnect()
	wg.Wait()

	return ctx.Err()
}

// Disconnect terminates the session. Idempotent.
func (t *WebSocketTransport) Disconnect() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.state = StateDisconnected
	close(t.done)
	t.mu.Unlock()

	t.config.Logger.ConnectionChanged(StateDisconnected.String())

	// Best effort close handshake
	t.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)

	return t.conn.Close()
}

// readLoop reads WebSocket messages into the recv channel.
func (t *WebSocketTransport) readLoop(ctx context.Context) {
	defer close(t.recv)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		default:
		}

		_, data, err := t.conn.ReadMessage()
		if err != nil {
			return
		}

		select {
		case t.recv <- data:
		case <-t.done:
			return
		default:
			// Buffer full, drop
		}
	}
}

// writeLoop drains the send channel onto the connection.
func (t *WebSocketTransport) writeLoop(ctx context.Context) {
	var pingC <-chan time.Time
	if t.config.PingInterval > 0 {
		ticker := time.NewTicker(t.config.PingInterval)
		defer ticker.Stop()
		pingC = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case data := <-t.send:
			t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
			if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-pingC:
			t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
			if err := t.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// NewWebSocketUpgrader creates an upgrader for accepting connections in a
// simulated renderer.
func NewWebSocketUpgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true }, // Override in production
	}
}
