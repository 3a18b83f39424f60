// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "axon-bridge"

// InitMetricProvider creates a meter provider exporting to the OTLP
// collector at collectorRawURL.
func InitMetricProvider(ctx context.Context, collectorRawURL string, interval time.Duration) (*sdkmetric.MeterProvider, error) {
	collectorURL, err := url.Parse(collectorRawURL)
	if err != nil {
		return nil, err
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(collectorURL.Host),
		otlpmetrichttp.WithURLPath(collectorURL.Path),
	}
	if collectorURL.Scheme != "https" {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	metricHTTPExporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricHTTPExporter, sdkmetric.WithInterval(interval))),
	)
	return meterProvider, nil
}

// DefaultMeter returns a meter exporting to collectorRawURL and a shutdown
// function flushing it. An empty URL disables exporting.
func DefaultMeter(ctx context.Context, collectorRawURL string, interval time.Duration) (api.Meter, func(context.Context) error, error) {
	if collectorRawURL == "" {
		return noop.NewMeterProvider().Meter(meterName), func(context.Context) error { return nil }, nil
	}

	meterProvider, err := InitMetricProvider(ctx, collectorRawURL, interval)
	if err != nil {
		return nil, nil, err
	}
	return meterProvider.Meter(meterName), meterProvider.Shutdown, nil
}
