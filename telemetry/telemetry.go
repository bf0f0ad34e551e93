// Copyright © 2024 The ELPS authors

// Package telemetry wraps program operations in OpenTelemetry spans, the
// same tracer-from-context idiom the teacher's profiler package uses to
// annotate evaluator calls, generalized here from "one span per runtime
// call" to "one span per program operation" (AddFile,
// AddDescriptorFile).
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ContextTracerNameKey names the context key a caller may set to override
// the tracer name spans are recorded under (default "bsc-analyze").
const ContextTracerNameKey = "otelParentTracer"

func tracer(ctx context.Context) trace.Tracer {
	name, ok := ctx.Value(ContextTracerNameKey).(string)
	if !ok {
		name = "bsc-analyze"
	}
	return otel.GetTracerProvider().Tracer(name)
}

// StartOperation starts a span named op scoped to file (pkgPath), and
// returns a context carrying the new span plus a func to end it. Callers
// defer the returned func.
func StartOperation(ctx context.Context, op, pkgPath string) (context.Context, func()) {
	ctx, span := tracer(ctx).Start(ctx, op)
	if pkgPath != "" {
		span.SetAttributes(attribute.String("bsc.package_path", pkgPath))
	}
	return ctx, func() { span.End() }
}

// RecordDiagnosticCount annotates the current span in ctx with the number
// of diagnostics an operation produced.
func RecordDiagnosticCount(ctx context.Context, n int) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("bsc.diagnostic_count", n))
}
