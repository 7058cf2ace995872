package transport

import (
	"sync"
	"sync/atomic"
)

// MemoryTransport implements Transport in-process. It records outbound
// frames and lets a test inject inbound payloads, standing in for the
// remote renderer.
type MemoryTransport struct {
	mu     sync.Mutex
	sent   [][]byte
	state  ConnectionState
	closed bool

	inbound chan []byte

	disconnects atomic.Int32
}

// NewMemoryTransport creates a connected in-memory transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		state:   StateConnected,
		inbound: make(chan []byte, 64),
	}
}

// State returns current connectivity.
func (t *MemoryTransport) State() ConnectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SetState overrides connectivity (for tests).
func (t *MemoryTransport) SetState(s ConnectionState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// Send records an outbound frame.
func (t *MemoryTransport) Send(data []byte) error {
	frame := make([]byte, len(data))
	copy(frame, data)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.sent = append(t.sent, frame)
	return nil
}

// Inbound returns the inbound payload channel.
func (t *MemoryTransport) Inbound() <-chan []byte {
	return t.inbound
}

// Disconnect tears down the session. Idempotent.
func (t *MemoryTransport) Disconnect() error {
	t.disconnects.Add(1)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.state = StateDisconnected
	// Closed under the mutex so Push can never send on a closed channel.
	close(t.inbound)
	return nil
}

// Push injects an inbound payload, as if the renderer sent it.
// Returns ErrClosed after Disconnect, ErrSendTimeout when the buffer is full.
func (t *MemoryTransport) Push(data []byte) error {
	frame := make([]byte, len(data))
	copy(frame, data)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	select {
	case t.inbound <- frame:
		return nil
	default:
		return ErrSendTimeout
	}
}

// Sent returns a copy of all recorded outbound frames.
func (t *MemoryTransport) Sent() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.sent))
	copy(out, t.sent)
	return out
}

// SentCount returns the number of recorded outbound frames.
func (t *MemoryTransport) SentCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent)
}

// ClearSent drops recorded outbound frames.
func (t *MemoryTransport) ClearSent() {
	t.mu.Lock()
	t.sent = nil
	t.mu.Unlock()
}

// DisconnectCalls returns how many times Disconnect was invoked.
func (t *MemoryTransport) DisconnectCalls() int {
	return int(t.disconnects.Load())
}
