// Package telemetry wires OpenTelemetry tracing, metrics and log export plus
// Pyroscope profiling for the journey engine.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/nestapp/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

// Stack bundles every telemetry provider so main can start and stop them together.
type Stack struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts the providers enabled in cfg. Disabled providers are returned
// as no-op wrappers so callers never need nil checks.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Stack, error) {
	s := &Stack{}
	var err error

	if s.Profiler, err = NewProfiler(cfg, logger); err != nil {
		return nil, err
	}
	if s.Tracer, err = NewTracerProvider(ctx, cfg, logger); err != nil {
		return nil, errors.Join(err, s.Profiler.Stop())
	}
	if s.Profiler.IsEnabled() {
		s.Tracer.EnableSpanProfiles()
	}
	if s.Meter, err = NewMeterProvider(ctx, cfg, logger); err != nil {
		return nil, errors.Join(err, s.Tracer.Shutdown(ctx), s.Profiler.Stop())
	}
	if s.Logs, err = NewLoggerProvider(ctx, cfg, logger); err != nil {
		return nil, errors.Join(err, s.Meter.Shutdown(ctx), s.Tracer.Shutdown(ctx), s.Profiler.Stop())
	}
	return s, nil
}

// Shutdown flushes and stops every provider, returning all failures joined.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.Logs != nil {
		errs = append(errs, s.Logs.Shutdown(ctx))
	}
	if s.Meter != nil {
		errs = append(errs, s.Meter.Shutdown(ctx))
	}
	if s.Tracer != nil {
		errs = append(errs, s.Tracer.Shutdown(ctx))
	}
	if s.Profiler != nil {
		errs = append(errs, s.Profiler.Stop())
	}
	return errors.Join(errs...)
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
