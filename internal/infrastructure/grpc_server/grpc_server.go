// Package grpcserver wires the inbound gRPC server and its middleware stack.
package grpcserver

import (
	v1 "github.com/bionicotaku/lingo-services-hello/api/greeter/v1"
	"github.com/bionicotaku/lingo-services-hello/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/telemetry"

	"github.com/bionicotaku/lingo-utils/observability"
	obsTrace "github.com/bionicotaku/lingo-utils/observability/tracing"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/metadata"
	"github.com/go-kratos/kratos/v2/middleware/ratelimit"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	"go.opentelemetry.io/otel/metric"
	stdgrpc "google.golang.org/grpc"
)

// PropagatedPrefix is the metadata prefix forwarded between hello services.
const PropagatedPrefix = "x-hello-"

// NewGRPCServer builds the Kratos gRPC server exposing the Greeter service.
// RPC metrics go to mp; a nil mp or a config with GRPCEnabled=false leaves
// the server uninstrumented. Names are not validated.
func NewGRPCServer(c *loader.Server, metricsCfg *observability.MetricsConfig, mp metric.MeterProvider, greeter *controllers.GreeterHandler, logger log.Logger) *grpc.Server {
	opts := append([]grpc.ServerOption{grpc.Middleware(serverMiddleware(logger)...)}, listenerOptions(c.GetGRPC())...)
	if enabled, includeHealth := telemetry.GRPCMetrics(metricsCfg); enabled && mp != nil {
		opts = append(opts, grpc.Options(stdgrpc.StatsHandler(telemetry.ServerStatsHandler(mp, includeHealth))))
	}
	srv := grpc.NewServer(opts...)
	v1.RegisterGreeterServer(srv, greeter)
	return srv
}

// serverMiddleware: tracing first so recovery and logging see the span.
func serverMiddleware(logger log.Logger) []middleware.Middleware {
	return []middleware.Middleware{
		obsTrace.Server(),
		recovery.Recovery(),
		metadata.Server(metadata.WithPropagatedPrefix(PropagatedPrefix)),
		ratelimit.Server(),
		logging.Server(logger),
	}
}

func listenerOptions(t *loader.Transport) []grpc.ServerOption {
	var opts []grpc.ServerOption
	if network := t.GetNetwork(); network != "" {
		opts = append(opts, grpc.Network(network))
	}
	if addr := t.GetAddr(); addr != "" {
		opts = append(opts, grpc.Address(addr))
	}
	if timeout := t.GetTimeout(); timeout > 0 {
		opts = append(opts, grpc.Timeout(timeout))
	}
	return opts
}
