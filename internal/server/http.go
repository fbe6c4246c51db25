// Package server wires the inbound HTTP server.
package server

import (
	stdhttp "net/http"

	"github.com/bionicotaku/lingo-services-hello/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/config_loader"
	grpcserver "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/grpc_server"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/telemetry"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/metadata"
	kmetrics "github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer builds the Kratos HTTP server exposing the Greeter routes,
// /healthz, /readyz and the Prometheus scrape endpoint.
func NewHTTPServer(c *loader.Server, greeter *controllers.GreeterHandler, tel *telemetry.Telemetry, logger log.Logger) *http.Server {
	opts := append([]http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			metadata.Server(metadata.WithPropagatedPrefix(grpcserver.PropagatedPrefix)),
			kmetrics.Server(kmetrics.WithRequests(tel.HTTP.Requests), kmetrics.WithSeconds(tel.HTTP.Seconds)),
			logging.Server(logger),
		),
	}, listenerOptions(c.GetHTTP())...)

	srv := http.NewServer(opts...)
	// The greeter has no dependencies, so ready == alive.
	srv.Handle("/healthz", alwaysOK)
	srv.Handle("/readyz", alwaysOK)
	srv.Handle("/metrics", tel.ScrapeHandler())
	greeter.RegisterHTTPRoutes(srv)
	return srv
}

var alwaysOK = stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
	w.WriteHeader(stdhttp.StatusOK)
})

func listenerOptions(t *loader.Transport) []http.ServerOption {
	var opts []http.ServerOption
	if network := t.GetNetwork(); network != "" {
		opts = append(opts, http.Network(network))
	}
	if addr := t.GetAddr(); addr != "" {
		opts = append(opts, http.Address(addr))
	}
	if timeout := t.GetTimeout(); timeout > 0 {
		opts = append(opts, http.Timeout(timeout))
	}
	return opts
}
