// Package main boots the Kratos entrypoint serving the Greeter over gRPC and HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	loader "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/config_loader"
	loginfra "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/logger"

	"github.com/bionicotaku/lingo-utils/observability"
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	"github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Name=hello -X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name string
	// Version is the version of the compiled software.
	Version string
)

const observabilityShutdownTimeout = 5 * time.Second

func newApp(meta loader.ServiceMetadata, logger log.Logger, gs *grpc.Server, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(meta.InstanceID),
		kratos.Name(meta.Name),
		kratos.Version(meta.Version),
		kratos.Metadata(map[string]string{"environment": meta.Environment}),
		kratos.Logger(logger),
		kratos.Server(gs, hs),
	)
}

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run 加载配置、初始化日志与 observability，然后阻塞运行 Kratos app 直到收到退出信号。
func run(args []string) error {
	confPath, err := loader.ParseConfPath(flag.NewFlagSet(args[0], flag.ExitOnError), args[1:])
	if err != nil {
		return err
	}
	bundle, err := loader.Build(loader.Params{ConfPath: confPath, Name: Name, Version: Version})
	if err != nil {
		return err
	}
	logger, err := loginfra.NewLogger(bundle.Service.LoggerConfig())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	shutdown, err := initObservability(bundle.ObsConfig, bundle.Service.ObservabilityInfo(), logger)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer shutdown()

	app, cleanup, err := wireApp(bundle, logger)
	if err != nil {
		return fmt.Errorf("wire app: %w", err)
	}
	defer cleanup()

	return app.Run()
}

// initObservability starts the tracing/metrics exporters; the returned func
// flushes them with a bounded timeout.
func initObservability(cfg observability.ObservabilityConfig, info observability.ServiceInfo, logger log.Logger) (func(), error) {
	shutdown, err := observability.Init(context.Background(), cfg,
		observability.WithLogger(logger),
		observability.WithServiceName(info.Name),
		observability.WithServiceVersion(info.Version),
		observability.WithEnvironment(info.Environment),
	)
	if err != nil {
		return nil, err
	}
	return func() {
		if shutdown == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), observabilityShutdownTimeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.NewHelper(logger).Warnf("shutdown observability: %v", err)
		}
	}, nil
}
