// Package telemetry provides OpenTelemetry tracing for the pipeline, with
// span propagation carried over MQTT v5 user-properties instead of HTTP
// headers.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// InitTracer sets the global tracer provider once for the process,
// exporting spans over OTLP/gRPC to endpoint. The returned function must
// be called on shutdown to flush pending spans.
func InitTracer(ctx context.Context, serviceName, endpoint string, useTLS bool) (func(context.Context) error, error) {
	var opts []otlptracegrpc.Option
	opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))
	if !useTLS {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create trace exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// UserPropertyCarrier adapts an MQTT v5 user-properties map to the W3C
// TextMapCarrier interface so trace context can ride alongside a publish.
type UserPropertyCarrier map[string]string

func (c UserPropertyCarrier) Get(key string) string { return c[key] }

func (c UserPropertyCarrier) Set(key, value string) { c[key] = value }

func (c UserPropertyCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Inject writes the active span context from ctx into properties.
func Inject(ctx context.Context, properties UserPropertyCarrier) {
	otel.GetTextMapPropagator().Inject(ctx, properties)
}

// Extract reads an upstream span context carried in properties and
// returns a context a new span can be made a child of.
func Extract(ctx context.Context, properties UserPropertyCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, properties)
}

// ExecuteInSpan creates a span named name, makes it current, runs fn, and
// ends the span regardless of fn's outcome. carrier, if non-nil, supplies
// an upstream trace context to attach the new span to.
func ExecuteInSpan(ctx context.Context, tracerName, name string, kind oteltrace.SpanKind, carrier UserPropertyCarrier, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	if carrier != nil {
		ctx = Extract(ctx, carrier)
	}
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, name, oteltrace.WithSpanKind(kind), oteltrace.WithAttributes(attrs...))
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return err
}
