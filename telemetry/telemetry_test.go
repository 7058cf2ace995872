package telemetry

import (
	"context"
	"testing"
)

func TestGetTracer_NoopWhenUnset(t *testing.T) {
	SetGlobalTracer(nil)

	tracer := GetTracer()
	if tracer == nil {
		t.Fatal("GetTracer should never return nil")
	}

	// Span helpers must be safe on the no-op tracer.
	ctx, span := tracer.StartReconcileSpan(context.Background())
	if ctx == nil {
		t.Error("expected a context from StartReconcileSpan")
	}
	tracer.EndReconcileSpan(span, ReconcileSpanOptions{Trigger: "set", Sent: 1}, nil)

	_, span = tracer.StartAckSpan(context.Background())
	tracer.EndAckSpan(span, AckSpanOptions{VariantSet: "viewingMode", Resolved: 1}, nil)
}

func TestSetGlobalTracer(t *testing.T) {
	tracer := NewTracer("test")
	SetGlobalTracer(tracer)
	defer SetGlobalTracer(nil)

	if GetTracer() != tracer {
		t.Error("GetTracer should return the tracer set globally")
	}
}

func TestNewResource_SessionAttribute(t *testing.T) {
	res, err := newResource(ProviderConfig{
		ServiceName: "configsync",
		SessionID:   "sess-42",
	})
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}

	found := false
	for _, attr := range res.Attributes() {
		if string(attr.Key) == "renderer.session.id" {
			found = true
			if got := attr.Value.AsString(); got != "sess-42" {
				t.Errorf("renderer.session.id = %q, want sess-42", got)
			}
		}
	}
	if !found {
		t.Error("resource should carry the renderer session ID")
	}
}

func TestInitProvider_RequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	_, err := InitProvider(context.Background(), ProviderConfig{ServiceName: "test"})
	if err == nil {
		t.Error("InitProvider without an endpoint should fail")
	}
}

func TestInitProvider_UnknownProtocol(t *testing.T) {
	_, err := InitProvider(context.Background(), ProviderConfig{
		ServiceName: "test",
		Endpoint:    "localhost:4317",
		Protocol:    "carrier-pigeon",
	})
	if err == nil {
		t.Error("InitProvider with an unknown protocol should fail")
	}
}
