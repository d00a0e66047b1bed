package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/nestapp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup_Disabled(t *testing.T) {
	stack, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "nest-test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, stack.Tracer.IsEnabled())
	assert.False(t, stack.Meter.IsEnabled())
	assert.False(t, stack.Logs.IsEnabled())
	assert.False(t, stack.Profiler.IsEnabled())
	assert.False(t, stack.Tracer.SpanProfilesEnabled())
	assert.NotNil(t, stack.Tracer.Tracer("test"))
	assert.NotNil(t, stack.Meter.Meter("test"))

	assert.NoError(t, stack.Tracer.ForceFlush(context.Background()))
	assert.NoError(t, stack.Shutdown(context.Background()))
}

func TestStack_ShutdownNil(t *testing.T) {
	var s *Stack
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestMeterProvider_MetricsSwitch(t *testing.T) {
	// Telemetry on but metrics off stays no-op without dialing the collector.
	mp, err := NewMeterProvider(context.Background(), config.TelemetryConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
}

func TestNewProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(config.TelemetryConfig{ProfilingEnabled: true, ServiceName: "nest"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address is required")

	_, err = NewProfiler(config.TelemetryConfig{ProfilingEnabled: true, ProfilingAddress: "http://localhost:4040"}, zap.NewNop())
	assert.ErrorContains(t, err, "application name is required")
}

func TestProfiler_StopIdempotent(t *testing.T) {
	p, err := NewProfiler(config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{1.5, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, samplerFor(tt.ratio).Description(), tt.want)
	}
}

func TestLoggerProvider_Tee(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	disabled := &LoggerProvider{}
	assert.Same(t, base, disabled.Tee(base))

	sdk := sdklog.NewLoggerProvider()
	t.Cleanup(func() { _ = sdk.Shutdown(context.Background()) })
	enabled := &LoggerProvider{provider: sdk, serviceName: "nest-test", logger: zap.NewNop()}

	teed := enabled.Tee(base)
	assert.NotSame(t, base, teed)
	teed.Info("deal moved", zap.String("deal_id", "d-1"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "deal moved", logs.All()[0].Message)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, enabled.Shutdown(ctx))
}
