// Package tracing wraps vtree.Diff in an OpenTelemetry span, grounded on
// the teacher's pkg/middleware OpenTelemetry() pattern: a functional-options
// config resolved against the global tracer provider, one span per traced
// operation, with errors recorded via span.RecordError and outcome carried
// as span attributes.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vtree-dev/vtree/pkg/vtree"
)

const defaultTracerName = "vtree"

// DiffFunc computes a patch between two trees. vtree.Diff satisfies this
// signature directly; a caller that also wants Prometheus instrumentation
// passes metrics.InstrumentedDiff instead via WithDiffFunc.
type DiffFunc func(old, new *vtree.Node) vtree.NodeOp

// Config configures the OpenTelemetry instrumentation.
type Config struct {
	// TracerName names the tracer (default: "vtree").
	TracerName string

	// DiffFunc is the underlying diff implementation to wrap in a span.
	DiffFunc DiffFunc

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// Option configures the OpenTelemetry instrumentation.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) { c.TracerName = name }
}

// WithDiffFunc overrides the diff implementation the Tracer wraps, so that
// tracing can compose with metrics instrumentation instead of calling
// vtree.Diff directly.
func WithDiffFunc(fn DiffFunc) Option {
	return func(c *Config) { c.DiffFunc = fn }
}

func defaultConfig() Config {
	return Config{TracerName: defaultTracerName, DiffFunc: vtree.Diff}
}

// Tracer wraps Diff calls in spans.
type Tracer struct {
	tracer trace.Tracer
	diff   DiffFunc
}

// New resolves a Tracer against the global OpenTelemetry tracer provider.
// Configure that provider in main() before calling New.
func New(opts ...Option) *Tracer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tracer{tracer: otel.Tracer(cfg.TracerName), diff: cfg.DiffFunc}
}

// Diff runs the configured DiffFunc (vtree.Diff unless overridden with
// WithDiffFunc) inside a "vtree.diff" span, recording the resulting
// patch kind and child-op count as span attributes.
func (t *Tracer) Diff(ctx context.Context, old, new *vtree.Node) (vtree.NodeOp, error) {
	_, span := t.tracer.Start(ctx, "vtree.diff", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	op, err := safeDiff(t.diff, old, new)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return vtree.NodeOp{}, err
	}

	span.SetAttributes(
		attribute.String("vtree.patch_kind", op.Kind.String()),
		attribute.Int("vtree.child_op_count", len(op.ChildDiff)),
	)
	span.SetStatus(codes.Ok, "")
	return op, nil
}

// safeDiff recovers a Defect panic into an error so a malformed tree (an
// unkeyed child among keyed siblings) surfaces as a recorded span error
// instead of unwinding through the tracer.
func safeDiff(fn DiffFunc, old, new *vtree.Node) (op vtree.NodeOp, err error) {
	defer func() {
		if r := recover(); r != nil {
			if d, ok := r.(vtree.Defect); ok {
				err = d
				return
			}
			panic(r)
		}
	}()
	return fn(old, new), nil
}
