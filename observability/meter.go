package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/seqkit/logger"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on application exit.
func InitMeter(ctx context.Context, cfg *Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded for sequence passes.
type Metrics struct {
	passTotal    metric.Int64Counter
	passDuration metric.Float64Histogram
	passActive   metric.Int64UpDownCounter
	pullTotal    metric.Int64Counter
	errorTotal   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	passTotal, err := meter.Int64Counter("seq.passes",
		metric.WithDescription("Total number of finished passes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seq.passes counter: %w", err)
	}

	passDuration, err := meter.Float64Histogram("seq.pass.duration",
		metric.WithDescription("Duration of passes in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seq.pass.duration histogram: %w", err)
	}

	passActive, err := meter.Int64UpDownCounter("seq.pass.active",
		metric.WithDescription("Number of currently open passes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seq.pass.active gauge: %w", err)
	}

	pullTotal, err := meter.Int64Counter("seq.pulls",
		metric.WithDescription("Total number of elements pulled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seq.pulls counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("seq.errors",
		metric.WithDescription("Total pass errors by code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seq.errors counter: %w", err)
	}

	return &Metrics{
		passTotal:    passTotal,
		passDuration: passDuration,
		passActive:   passActive,
		pullTotal:    pullTotal,
		errorTotal:   errorTotal,
	}, nil
}

// RecordPassStart increments the open pass count.
func (m *Metrics) RecordPassStart(ctx context.Context, sequence string) {
	m.passActive.Add(ctx, 1, metric.WithAttributes(attribute.String("sequence", sequence)))
}

// RecordPassEnd decrements open passes and records the finished pass.
func (m *Metrics) RecordPassEnd(ctx context.Context, sequence, status string, pulled int64, duration time.Duration) {
	seqAttr := attribute.String("sequence", sequence)
	m.passActive.Add(ctx, -1, metric.WithAttributes(seqAttr))
	m.passTotal.Add(ctx, 1, metric.WithAttributes(seqAttr, attribute.String("status", status)))
	m.passDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(seqAttr))
	if pulled > 0 {
		m.pullTotal.Add(ctx, pulled, metric.WithAttributes(seqAttr))
	}
}

// RecordError records a pass error by code.
func (m *Metrics) RecordError(ctx context.Context, sequence, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sequence", sequence),
		attribute.String("code", code),
	))
}
