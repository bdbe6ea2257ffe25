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

	"github.com/kbukum/simbank/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the metric instruments for the login and transfer flows.
type Metrics struct {
	loginTotal      metric.Int64Counter
	loginDuration   metric.Float64Histogram
	transferTotal   metric.Int64Counter
	transferBlocked metric.Int64Counter
	simswapLookups  metric.Int64Counter
	simswapDuration metric.Float64Histogram
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	loginTotal, err := meter.Int64Counter("login.total",
		metric.WithDescription("Completed login attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating login.total counter: %w", err)
	}

	loginDuration, err := meter.Float64Histogram("login.duration",
		metric.WithDescription("Duration of callback handling in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating login.duration histogram: %w", err)
	}

	transferTotal, err := meter.Int64Counter("transfer.total",
		metric.WithDescription("Transfer attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transfer.total counter: %w", err)
	}

	transferBlocked, err := meter.Int64Counter("transfer.blocked",
		metric.WithDescription("Transfers blocked by a recent SIM change"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transfer.blocked counter: %w", err)
	}

	simswapLookups, err := meter.Int64Counter("simswap.lookups",
		metric.WithDescription("SIM-swap date lookups by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simswap.lookups counter: %w", err)
	}

	simswapDuration, err := meter.Float64Histogram("simswap.duration",
		metric.WithDescription("Duration of SIM-swap lookups in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simswap.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		loginTotal:      loginTotal,
		loginDuration:   loginDuration,
		transferTotal:   transferTotal,
		transferBlocked: transferBlocked,
		simswapLookups:  simswapLookups,
		simswapDuration: simswapDuration,
		errorTotal:      errorTotal,
	}, nil
}

// RecordLogin records a completed login attempt.
func (m *Metrics) RecordLogin(ctx context.Context, outcome string, duration time.Duration) {
	m.loginTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
	m.loginDuration.Record(ctx, duration.Seconds())
}

// RecordTransfer records a transfer attempt.
func (m *Metrics) RecordTransfer(ctx context.Context, outcome string) {
	m.transferTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordTransferBlocked records a transfer denied by the SIM-swap check.
func (m *Metrics) RecordTransferBlocked(ctx context.Context) {
	m.transferBlocked.Add(ctx, 1)
}

// RecordSimSwapLookup records a SIM-swap date lookup.
func (m *Metrics) RecordSimSwapLookup(ctx context.Context, outcome string, duration time.Duration) {
	m.simswapLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
	m.simswapDuration.Record(ctx, duration.Seconds())
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
