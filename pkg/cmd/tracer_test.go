package cmd_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycrm/relay/pkg/cmd"
)

func TestNewTracer_NoEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	tracer := cmd.NewTracer(context.Background(), "relay-test", slog.Default())
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "test.span")
	defer span.End()

	assert.False(t, span.SpanContext().IsValid())
}

func TestNewTracer_EndpointEnablesRecording(t *testing.T) {
	// The exporter only dials on batch export, so no collector is needed.
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://127.0.0.1:4318")

	tracer := cmd.NewTracer(context.Background(), "relay-test", slog.Default())
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "test.span")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.IsRecording())
}
