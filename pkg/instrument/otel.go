package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// Default tracer name.
const defaultTracerName = "vbind"

// TracingConfig configures the OpenTelemetry hooks.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "vbind").
	TracerName string

	// Tracer overrides the tracer from the global provider.
	Tracer trace.Tracer

	// Context returns the parent context for each span.
	// Default: context.Background.
	Context func() context.Context

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TracingOption configures OpenTelemetry.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) TracingOption {
	return func(c *TracingConfig) {
		c.Tracer = tracer
	}
}

// WithParentContext sets the source of parent contexts.
func WithParentContext(fn func() context.Context) TracingOption {
	return func(c *TracingConfig) {
		c.Context = fn
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// OpenTelemetry returns hooks that trace every Set.
//
// Each Set becomes a span named "vbind.set" carrying the key and, when the
// fan-out finishes, the number of observers refreshed. Refresh failures are
// recorded on the span and set its status to Error.
//
// The tracer uses the global OpenTelemetry tracer provider unless WithTracer
// is given. Configure it in main() before mounting:
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...TracingOption) reactive.Hooks {
	config := TracingConfig{
		TracerName: defaultTracerName,
		Context:    context.Background,
	}
	for _, opt := range opts {
		opt(&config)
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(config.TracerName)
	}

	return reactive.Hooks{
		OnSet: func(key string) func(int, error) {
			attrs := append([]attribute.KeyValue{
				attribute.String("vbind.key", key),
			}, config.Attributes...)

			_, span := tracer.Start(config.Context(), "vbind.set",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			return func(refreshed int, err error) {
				defer span.End()
				span.SetAttributes(attribute.Int("vbind.observers", refreshed))
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					return
				}
				span.SetStatus(codes.Ok, "")
			}
		},
	}
}
