//go:build wireinject
// +build wireinject

package main

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/geoleowills/SQL-Library-Manager/internal/config"
)

func initializeServer(cfg *config.Config, logger *slog.Logger) (*Server, func(), error) {
	wire.Build(
		provideStore,
		provideHandler,
		provideRouter,
		provideHTTPServer,
		wire.Struct(new(Server), "*"),
	)
	return nil, nil, nil
}
