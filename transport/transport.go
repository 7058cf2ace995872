// Package transport provides pluggable session transports for the remote
// renderer connection.
package transport

import (
	"errors"
)

// Common errors.
var (
	ErrClosed      = errors.New("transport closed")
	ErrSendTimeout = errors.New("send timeout")
)

// ConnectionState describes transport connectivity.
type ConnectionState int

const (
	// StateDisconnected means no session is established.
	StateDisconnected ConnectionState = iota
	// StateConnecting means the session is being established.
	StateConnecting
	// StateConnected means the session is live.
	StateConnected
)

// String returns the state name.
func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Transport is the session link to the remote renderer. Implementations
// must be safe for concurrent use; Send is a best-effort enqueue that never
// blocks on network I/O.
type Transport interface {
	// State returns current connectivity.
	State() ConnectionState

	// Send queues a serialized message for delivery.
	// Returns ErrClosed if the session is torn down.
	Send(data []byte) error

	// Inbound returns the channel of inbound message payloads.
	// The channel is closed when the session is torn down.
	Inbound() <-chan []byte

	// Disconnect terminates the session. Idempotent.
	Disconnect() error
}

// Config holds common transport configuration.
type Config struct {
	// RecvBufferSize is the size of the inbound channel buffer.
	// Default: 100
	RecvBufferSize int

	// SendBufferSize is the size of the internal send buffer.
	// Default: 100
	SendBufferSize int
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RecvBufferSize: 100,
		SendBufferSize: 100,
	}
}
