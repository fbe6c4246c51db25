// Package services contains application use case orchestration.
package services

import "github.com/google/wire"

// ProviderSet wires the greeting usecase.
var ProviderSet = wire.NewSet(NewGreeterUsecase)
