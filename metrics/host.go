package metrics

import (
	"context"
	"time"

	api "go.opentelemetry.io/otel/metric"
)

type HostMetrics struct {
	startTimeGauge api.Int64ObservableGauge
	uptimeGauge    api.Float64ObservableGauge
}

// NewHostMetrics initializes metrics related to the bridge host
func NewHostMetrics(ctx context.Context, meter api.Meter, opts api.MeasurementOption) (*HostMetrics, error) {
	start := time.Now()
	startTimeGauge, err := meter.Int64ObservableGauge(
		"bridge.StartTimeSeconds",
		api.WithDescription("Start time of the bridge node"),
		api.WithInt64Callback(func(ctx context.Context, result api.Int64Observer) error {
			result.Observe(start.Unix(), opts)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	uptimeGauge, err := meter.Float64ObservableGauge(
		"bridge.UptimeSeconds",
		api.WithDescription("Seconds since the bridge node started"),
		api.WithFloat64Callback(func(ctx context.Context, result api.Float64Observer) error {
			result.Observe(time.Since(start).Seconds(), opts)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return &HostMetrics{
		startTimeGauge: startTimeGauge,
		uptimeGauge:    uptimeGauge,
	}, nil
}
