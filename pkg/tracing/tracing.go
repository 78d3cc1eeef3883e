// Package tracing records dispatcher activity as OpenTelemetry spans.
//
// Spans are created after the fact from dispatcher events and backdated with
// the event timestamps, so handlers never run inside an open span owned by
// this package.
//
// The tracer defaults to the global provider. Configure it before creating
// the observer:
//
//	otel.SetTracerProvider(tp)
//	d := deeplink.New[Link](deeplink.WithObserver(tracing.NewObserver()))
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bft-labs/deeplink/pkg/deeplink"
)

// Default tracer name.
const defaultTracerName = "github.com/bft-labs/deeplink"

// Span and event names.
const (
	SpanDispatch  = "deeplink.dispatch"
	SpanReplay    = "deeplink.replay"
	SpanViolation = "deeplink.contract_violation"
	EventHandler  = "deeplink.handler"
)

// Option configures the tracing observer.
type Option func(*Observer)

// WithTracer sets the tracer explicitly instead of resolving one from the
// global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Observer) {
		o.tracer = tracer
	}
}

// WithTracerName sets the name used to resolve the tracer from the global
// provider.
func WithTracerName(name string) Option {
	return func(o *Observer) {
		o.tracerName = name
	}
}

// Observer implements deeplink.Observer by emitting spans.
type Observer struct {
	deeplink.BaseObserver

	tracer     trace.Tracer
	tracerName string
}

// NewObserver creates a tracing observer.
func NewObserver(opts ...Option) *Observer {
	o := &Observer{tracerName: defaultTracerName}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(o.tracerName)
	}
	return o
}

func (o *Observer) OnDispatch(e deeplink.DispatchEvent) {
	_, span := o.tracer.Start(context.Background(), SpanDispatch,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(attribute.Int("deeplink.handler_count", len(e.Outcomes))),
	)

	// handlers run back to back, so each one ends at the running sum
	at := e.Start
	for _, out := range e.Outcomes {
		at = at.Add(out.Duration)
		span.AddEvent(EventHandler,
			trace.WithTimestamp(at),
			trace.WithAttributes(
				attribute.String("deeplink.handler_id", out.ID),
				attribute.String("deeplink.result", out.Result.String()),
				attribute.Int64("deeplink.duration_ns", out.Duration.Nanoseconds()),
			),
		)
	}

	span.SetAttributes(
		attribute.Bool("deeplink.pending", e.Pending),
		attribute.Bool("deeplink.handling", e.Handling),
	)
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(e.Start.Add(e.Duration)))
}

func (o *Observer) OnReplay(e deeplink.ReplayEvent) {
	_, span := o.tracer.Start(context.Background(), SpanReplay,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(
			attribute.String("deeplink.handler_id", e.ID),
			attribute.String("deeplink.result", e.Result.String()),
			attribute.Bool("deeplink.pending", e.Pending),
		),
	)
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(e.Start.Add(e.Duration)))
}

func (o *Observer) OnContractViolation(v deeplink.ContractViolation) {
	_, span := o.tracer.Start(context.Background(), SpanViolation,
		trace.WithAttributes(attribute.String("deeplink.handler_id", v.ID)),
	)
	span.RecordError(&v)
	span.SetStatus(codes.Error, v.Error())
	span.End()
}

var _ deeplink.Observer = (*Observer)(nil)
