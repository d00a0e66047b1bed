package telemetry

import (
	"context"
	"fmt"

	"github.com/nestapp/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const journeyMeterName = "github.com/nestapp/backend/journey"

// JourneyMetrics counts deal engine actions by outcome.
type JourneyMetrics struct {
	actions   metric.Int64Counter
	conflicts metric.Int64Counter
}

// NewJourneyMetrics registers the journey counters with mp.
func NewJourneyMetrics(mp metric.MeterProvider) (*JourneyMetrics, error) {
	meter := mp.Meter(journeyMeterName)

	actions, err := meter.Int64Counter("nest.journey.actions",
		metric.WithDescription("Deal journey actions by outcome"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create actions counter: %w", err)
	}
	conflicts, err := meter.Int64Counter("nest.journey.conflicts",
		metric.WithDescription("Deal journey actions rejected by state or version conflicts"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conflicts counter: %w", err)
	}
	return &JourneyMetrics{actions: actions, conflicts: conflicts}, nil
}

// RecordAction implements the engine's action recorder.
func (m *JourneyMetrics) RecordAction(ctx context.Context, action, outcome string) {
	attrs := metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	)
	m.actions.Add(ctx, 1, attrs)
	if outcome == shared.CodeStateConfl || outcome == shared.CodeConcurrency {
		m.conflicts.Add(ctx, 1, attrs)
	}
}
