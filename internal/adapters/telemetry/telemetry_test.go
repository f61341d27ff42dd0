package telemetry_test

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/pixelmill/pixelmill/internal/adapters/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func TestOTelTracerRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := telemetry.NewProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	tracer := telemetry.NewOTelTracer("pixelmill-test")

	ctx, span := tracer.Start(context.Background(), "dispatch")
	span.SetAttribute("operation", "resize")
	span.SetAttribute("images", 2)
	span.RecordError(zerr.New("decode failed"))
	span.End()

	_, child := tracer.Start(ctx, "executor.run")
	child.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	dispatch := spans[0]
	assert.Equal(t, "dispatch", dispatch.Name())

	attrs := dispatch.Attributes()
	found := 0
	for _, a := range attrs {
		switch string(a.Key) {
		case "operation":
			assert.Equal(t, "resize", a.Value.AsString())
			found++
		case "images":
			assert.Equal(t, int64(2), a.Value.AsInt64())
			found++
		}
	}
	assert.Equal(t, 2, found)
	require.Len(t, dispatch.Events(), 1, "RecordError adds an exception event")

	// The second span is parented under the first through the context.
	run := spans[1]
	assert.Equal(t, "executor.run", run.Name())
	assert.Equal(t, dispatch.SpanContext().SpanID(), run.Parent().SpanID())
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx, span := tracer.Start(context.Background(), "anything")
	assert.NotNil(t, ctx)

	// All operations are safe no-ops.
	span.SetAttribute("k", "v")
	span.RecordError(zerr.New("ignored"))
	span.End()
}
