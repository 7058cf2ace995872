// OpenTelemetry tracing support for the reconciliation loop.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with reconciliation-specific helpers.
type Tracer struct {
	tracer trace.Tracer
}

var (
	globalTracer *Tracer
	tracerMu     sync.RWMutex
)

// SetGlobalTracer sets the global tracer instance.
func SetGlobalTracer(t *Tracer) {
	tracerMu.Lock()
	defer tracerMu.Unlock()
	globalTracer = t
}

// GetTracer returns the global tracer, or a no-op tracer if not set.
func GetTracer() *Tracer {
	tracerMu.RLock()
	defer tracerMu.RUnlock()
	if globalTracer == nil {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer("")}
	}
	return globalTracer
}

// NewTracer creates a new tracer with the given name.
func NewTracer(name string) *Tracer {
	return &Tracer{
		tracer: otel.Tracer(name),
	}
}

// StartSpan starts a new span with the given name.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// --- Reconciliation Spans ---

// ReconcileSpanOptions contains attributes for a reconciliation pass span.
type ReconcileSpanOptions struct {
	Trigger string // set, poll, resync
	Sent    int    // messages sent during the pass
	Pending int    // keys still awaiting completion after the pass
}

// StartReconcileSpan starts a span for a reconciliation pass.
func (t *Tracer) StartReconcileSpan(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "reconcile.pass", trace.WithSpanKind(trace.SpanKindInternal))
}

// EndReconcileSpan ends a reconciliation span with attributes.
func (t *Tracer) EndReconcileSpan(span trace.Span, opts ReconcileSpanOptions, err error) {
	span.SetAttributes(
		attribute.String("reconcile.trigger", opts.Trigger),
		attribute.Int("reconcile.sent", opts.Sent),
		attribute.Int("reconcile.pending", opts.Pending),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// --- Acknowledgment Spans ---

// AckSpanOptions contains attributes for an acknowledgment span.
type AckSpanOptions struct {
	VariantSet string
	Resolved   int // keys resolved by this notification
}

// StartAckSpan starts a span for inbound acknowledgment processing.
func (t *Tracer) StartAckSpan(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "reconcile.ack", trace.WithSpanKind(trace.SpanKindConsumer))
}

// EndAckSpan ends an acknowledgment span with attributes.
func (t *Tracer) EndAckSpan(span trace.Span, opts AckSpanOptions, err error) {
	span.SetAttributes(
		attribute.String("ack.variant_set", opts.VariantSet),
		attribute.Int("ack.resolved", opts.Resolved),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}
