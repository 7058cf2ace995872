package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// --- Unit Tests ---

func TestWebSocketConfig_Defaults(t *testing.T) {
	cfg := DefaultWebSocketConfig()
	if cfg.MaxMessageSize != 1024*1024 {
		t.Errorf("MaxMessageSize = %d, want 1MB", cfg.MaxMessageSize)
	}
	if cfg.WriteTimeout != 10*time.Second {
		t.Errorf("WriteTimeout = %v, want 10s", cfg.WriteTimeout)
	}
	if cfg.PingInterval != 30*time.Second {
		t.Errorf("PingInterval = %v, want 30s", cfg.PingInterval)
	}
}

// --- Integration Tests ---

// startRendererStub upgrades one connection and echoes a canned completion
// for every command received.
func startRendererStub(t *testing.T, reply []byte) (*httptest.Server, string) {
	t.Helper()
	upgrader := NewWebSocketUpgrader()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		go func() {
			defer conn.Close()
			for {
				_, _, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if reply != nil {
					conn.WriteMessage(websocket.TextMessage, reply)
				}
			}
		}()
	}))

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return server, wsURL
}

func TestWebSocketTransport_RoundTrip(t *testing.T) {
	reply := []byte(`{"Type":"switchVariantComplete","variantSetName":"viewingMode"}`)
	server, wsURL := startRendererStub(t, reply)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tr, err := DialWebSocket(ctx, wsURL, DefaultWebSocketConfig())
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tr.Run(ctx)
	}()

	if tr.State() != StateConnected {
		t.Errorf("state = %v, want connected", tr.State())
	}
	if tr.ClientID() == "" {
		t.Error("expected a generated client ID")
	}

	if err := tr.Send([]byte(`{"type":"setVariantSelection","variantSetName":"viewingMode","variantName":"portal"}`)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case data := <-tr.Inbound():
		if string(data) != string(reply) {
			t.Errorf("inbound = %s, want %s", data, reply)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for inbound payload")
	}

	tr.Disconnect()
	wg.Wait()

	if tr.State() != StateDisconnected {
		t.Errorf("state after disconnect = %v, want disconnected", tr.State())
	}
}

func TestWebSocketTransport_SendAfterDisconnect(t *testing.T) {
	server, wsURL := startRendererStub(t, nil)
	defer server.Close()

	ctx := context.Background()
	tr, err := DialWebSocket(ctx, wsURL, DefaultWebSocketConfig())
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}

	tr.Disconnect()
	tr.Disconnect() // idempotent

	if err := tr.Send([]byte("x")); err != ErrClosed {
		t.Errorf("Send after disconnect = %v, want ErrClosed", err)
	}
}

func TestWebSocketTransport_InboundClosedOnPeerClose(t *testing.T) {
	server, wsURL := startRendererStub(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tr, err := DialWebSocket(ctx, wsURL, DefaultWebSocketConfig())
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	go tr.Run(ctx)

	// Tear the server down; the read loop should end and close Inbound.
	server.Close()

	select {
	case _, ok := <-tr.Inbound():
		if ok {
			t.Error("expected inbound channel to close, got payload")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for inbound channel to close")
	}

	tr.Disconnect()
}
