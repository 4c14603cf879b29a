package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/relaycrm/relay/pkg/otelhelper"
)

const otlpEndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// NewTracer returns an OTLP-backed tracer when OTEL_EXPORTER_OTLP_ENDPOINT
// is set and a no-op tracer otherwise, so local runs need no collector.
//
// nolint:ireturn // Returning interface is intentional for OpenTelemetry tracing
func NewTracer(ctx context.Context, serviceName string, logger *slog.Logger) trace.Tracer {
	if os.Getenv(otlpEndpointEnv) == "" {
		return noop.NewTracerProvider().Tracer(serviceName)
	}

	tracer, err := otelhelper.NewTracer(ctx, serviceName)
	if err != nil {
		panic(fmt.Errorf("failed to initialize tracer: %w", err))
	}

	logger.InfoContext(ctx, "OTLP trace export enabled", "service", serviceName)

	return tracer
}
