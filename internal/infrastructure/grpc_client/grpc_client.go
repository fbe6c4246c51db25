// Package grpcclient configures outbound gRPC connections to the Greeter service.
package grpcclient

import (
	"context"
	"fmt"

	loader "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/telemetry"

	"github.com/bionicotaku/lingo-utils/observability"
	obsTrace "github.com/bionicotaku/lingo-utils/observability/tracing"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/circuitbreaker"
	"github.com/go-kratos/kratos/v2/middleware/metadata"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	kgrpc "github.com/go-kratos/kratos/v2/transport/grpc"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
)

// Dial 按配置建立到 Greeter 的非 TLS 连接，连接是惰性的，不会阻塞等待对端。
// target 为空时返回 nil 连接和空 cleanup，调用方据此进入 disabled 模式。
// mp 为 nil 时不挂载 otelgrpc 指标。
func Dial(c *loader.Client, metricsCfg *observability.MetricsConfig, mp metric.MeterProvider, logger log.Logger) (*grpc.ClientConn, func(), error) {
	helper := log.NewHelper(logger)
	target := c.GetTarget()
	if target == "" {
		helper.Warn("greeter target not configured; remote calls disabled")
		return nil, func() {}, nil
	}

	opts := []kgrpc.ClientOption{
		kgrpc.WithEndpoint(target),
		kgrpc.WithMiddleware(
			recovery.Recovery(),
			metadata.Client(),
			obsTrace.Client(),
			circuitbreaker.Client(),
		),
	}
	if timeout := c.GetTimeout(); timeout > 0 {
		opts = append(opts, kgrpc.WithTimeout(timeout))
	}
	if enabled, includeHealth := telemetry.GRPCMetrics(metricsCfg); enabled && mp != nil {
		opts = append(opts, kgrpc.WithOptions(grpc.WithStatsHandler(telemetry.ClientStatsHandler(mp, includeHealth))))
	}

	conn, err := kgrpc.DialInsecure(context.Background(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial greeter %s: %w", target, err)
	}
	return conn, func() {
		if err := conn.Close(); err != nil {
			helper.Errorf("close greeter connection: %v", err)
		}
	}, nil
}
