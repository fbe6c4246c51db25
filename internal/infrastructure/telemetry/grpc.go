package telemetry

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc/filters"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc/stats"
)

// ServerStatsHandler records inbound RPC metrics on mp.
func ServerStatsHandler(mp metric.MeterProvider, includeHealth bool) stats.Handler {
	return otelgrpc.NewServerHandler(statsOptions(mp, includeHealth)...)
}

// ClientStatsHandler records outbound RPC metrics on mp.
func ClientStatsHandler(mp metric.MeterProvider, includeHealth bool) stats.Handler {
	return otelgrpc.NewClientHandler(statsOptions(mp, includeHealth)...)
}

func statsOptions(mp metric.MeterProvider, includeHealth bool) []otelgrpc.Option {
	opts := []otelgrpc.Option{otelgrpc.WithMeterProvider(mp)}
	if !includeHealth {
		opts = append(opts, otelgrpc.WithFilter(filters.Not(filters.HealthCheck())))
	}
	return opts
}
