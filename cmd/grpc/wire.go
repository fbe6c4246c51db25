//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/bionicotaku/lingo-services-hello/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/config_loader"
	grpcserver "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/grpc_server"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/telemetry"
	"github.com/bionicotaku/lingo-services-hello/internal/server"
	"github.com/bionicotaku/lingo-services-hello/internal/services"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*loader.Bundle, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(loader.ProviderSet, telemetry.ProviderSet, server.ProviderSet, grpcserver.ProviderSet, services.ProviderSet, controllers.ProviderSet, newApp))
}
