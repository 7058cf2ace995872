// Package transport provides pluggable session transports for the remote
// renderer connection.
//
// # Overview
//
// The transport package moves serialized protocol messages between the
// client and the remote renderer. The reconciliation store only depends on
// the Transport interface: current connectivity, a best-effort Send, an
// inbound payload channel, and an idempotent Disconnect.
//
// # Available Transports
//
//   - WebSocketTransport: bidirectional over WebSocket (the streaming SDK's
//     control channel shape)
//   - NATSTransport: publish/subscribe over NATS subjects derived from a
//     session ID (for bridged or simulated renderers)
//   - MemoryTransport: in-process fake for tests
//
// # Usage
//
//	t, err := transport.DialWebSocket(ctx, "wss://renderer.example/session", transport.DefaultWebSocketConfig())
//	if err != nil { ... }
//	go t.Run(ctx)
//
//	t.Send(payload)
//	for data := range t.Inbound() {
//	    // decode completion notifications
//	}
//
// # Thread Safety
//
// All transport methods are safe for concurrent use. The Inbound() channel
// is closed when the session is torn down.
package transport
