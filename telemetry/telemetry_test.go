// Copyright © 2024 The ELPS authors

package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/bsc-analyze/bsc/telemetry"
)

// withRecordingProvider installs an in-memory exporter as the global
// TracerProvider for the duration of a test, the same fixture the
// teacher's profiler package uses to assert on recorded spans rather
// than the no-op provider StartOperation otherwise records against.
func withRecordingProvider(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		require.NoError(t, tp.Shutdown(context.Background()))
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestStartOperationRecordsSpanWithPackagePath(t *testing.T) {
	exporter := withRecordingProvider(t)

	ctx, end := telemetry.StartOperation(context.Background(), "AddFile", "components/dog.brs")
	telemetry.RecordDiagnosticCount(ctx, 3)
	end()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "AddFile", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("bsc.package_path", "components/dog.brs"))
	assert.Contains(t, spans[0].Attributes, attribute.Int("bsc.diagnostic_count", 3))
}

func TestStartOperationWithoutPackagePathOmitsAttribute(t *testing.T) {
	exporter := withRecordingProvider(t)

	_, end := telemetry.StartOperation(context.Background(), "Validate", "")
	end()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	for _, attr := range spans[0].Attributes {
		assert.NotEqual(t, attribute.Key("bsc.package_path"), attr.Key)
	}
}

func TestTracerNameOverrideFromContext(t *testing.T) {
	exporter := withRecordingProvider(t)

	ctx := context.WithValue(context.Background(), telemetry.ContextTracerNameKey, "custom-tracer")
	_, end := telemetry.StartOperation(ctx, "RemoveFile", "")
	end()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "custom-tracer", spans[0].InstrumentationLibrary.Name)
}
