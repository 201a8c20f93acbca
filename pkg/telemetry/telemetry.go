// pkg/telemetry/telemetry.go
package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/shared"
)

var tracer trace.Tracer

// Init configures OpenTelemetry; call this early in main().
func Init(service string) error {
	if !IsEnabled() {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		tracer = tp.Tracer(service)
		return nil
	}

	// Create telemetry log directory
	telemetryDir := shared.HarmoniaLogDir
	if err := os.MkdirAll(telemetryDir, shared.DirPermStandard); err != nil {
		// Fallback to user home if system directory fails
		telemetryDir = filepath.Join(os.Getenv("HOME"), ".harmonia", "telemetry")
		if err := os.MkdirAll(telemetryDir, shared.DirPermStandard); err != nil {
			return cerr.Wrap(err, "failed to create telemetry directory")
		}
	}

	// Open telemetry file for appending (JSONL format)
	telemetryFile := filepath.Join(telemetryDir, "telemetry.jsonl")
	file, err := os.OpenFile(telemetryFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, shared.FilePermStandard)
	if err != nil {
		return cerr.Wrap(err, "failed to open telemetry file")
	}

	// Use stdout exporter but write to file instead of stdout
	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(file),
		stdouttrace.WithoutTimestamps(), // Spans already have timestamps
	)
	if err != nil {
		file.Close()
		return cerr.Wrap(err, "failed to create file exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(
			sdkresource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("service.name", service),
				attribute.String("host.name", hostname()),
			),
		),
	)

	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(service)
	return nil
}

// Start a telemetry span with optional attributes.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(shared.HarmoniaID)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// MarkerPath returns the opt-in marker file consulted by IsEnabled.
func MarkerPath() string {
	return filepath.Join(os.Getenv("HOME"), ".harmonia", "telemetry_on")
}

// IsEnabled reports whether the user has opted into local telemetry.
func IsEnabled() bool {
	_, err := os.Stat(MarkerPath())
	return err == nil
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}

// AnonTelemetryID returns a stable anonymous install identifier.
func AnonTelemetryID() string {
	path := filepath.Join(os.Getenv("HOME"), ".harmonia", "telemetry_id")

	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data))
	}

	id := "anon-" + uuid.New().String()
	_ = os.MkdirAll(filepath.Dir(path), shared.FilePermOwnerRWX)
	_ = os.WriteFile(path, []byte(id), shared.FilePermOwnerReadWrite)

	return id
}
