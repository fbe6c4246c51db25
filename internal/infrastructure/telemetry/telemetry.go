// Package telemetry owns the Prometheus-backed meter provider shared by the
// greeter usecase, both transports and the /metrics endpoint.
//
// The provider is deliberately not installed as the otel global: the
// observability bootstrap may own the global for push export, and every
// instrument here must land in the scraped registry regardless.
package telemetry

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/bionicotaku/lingo-utils/observability"
	"github.com/go-kratos/kratos/v2/log"
	kmetrics "github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexp "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	scopeName       = "github.com/bionicotaku/lingo-services-hello"
	shutdownTimeout = 5 * time.Second
)

// ProviderSet exposes Telemetry and its meter provider to Wire graphs.
var ProviderSet = wire.NewSet(New, ProvideMeterProvider)

// HTTPInstruments are the Kratos metrics middleware instruments.
type HTTPInstruments struct {
	Requests metric.Int64Counter
	Seconds  metric.Float64Histogram
}

// Telemetry is the service-local metrics pipeline.
type Telemetry struct {
	MeterProvider *sdkmetric.MeterProvider
	Registry      *prometheus.Registry
	HTTP          HTTPInstruments
}

// New builds the registry, the exporter and the meter provider, plus the
// HTTP server instruments. The returned cleanup flushes and stops the provider.
func New(logger log.Logger) (*Telemetry, func(), error) {
	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, nil, err
		}
	}

	reader, err := promexp.New(promexp.WithRegisterer(registry), promexp.WithoutUnits())
	if err != nil {
		return nil, nil, err
	}
	t := &Telemetry{
		MeterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(reader),
			sdkmetric.WithView(kmetrics.DefaultSecondsHistogramView(kmetrics.DefaultServerSecondsHistogramName)),
		),
		Registry: registry,
	}

	meter := t.MeterProvider.Meter(scopeName)
	if t.HTTP.Requests, err = kmetrics.DefaultRequestsCounter(meter, kmetrics.DefaultServerRequestsCounterName); err != nil {
		return nil, nil, err
	}
	if t.HTTP.Seconds, err = kmetrics.DefaultSecondsHistogram(meter, kmetrics.DefaultServerSecondsHistogramName); err != nil {
		return nil, nil, err
	}

	return t, func() { t.shutdown(log.NewHelper(logger)) }, nil
}

// ProvideMeterProvider exposes the provider under the otel interface type.
func ProvideMeterProvider(t *Telemetry) metric.MeterProvider {
	return t.MeterProvider
}

// ScrapeHandler serves the registry in the Prometheus text format.
func (t *Telemetry) ScrapeHandler() stdhttp.Handler {
	return promhttp.HandlerFor(t.Registry, promhttp.HandlerOpts{})
}

func (t *Telemetry) shutdown(helper *log.Helper) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		helper.Warnf("shutdown meter provider: %v", err)
	}
}

// GRPCMetrics reports whether otelgrpc instrumentation is on and whether
// health checks are recorded. A nil config means on, health excluded.
func GRPCMetrics(cfg *observability.MetricsConfig) (enabled, includeHealth bool) {
	if cfg == nil {
		return true, false
	}
	return cfg.GRPCEnabled, cfg.GRPCIncludeHealth
}
