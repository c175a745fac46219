package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geoleowills/SQL-Library-Manager/internal/api"
	"github.com/geoleowills/SQL-Library-Manager/internal/config"
	"github.com/geoleowills/SQL-Library-Manager/internal/logging"
	"github.com/geoleowills/SQL-Library-Manager/internal/store"
	"github.com/geoleowills/SQL-Library-Manager/internal/store/gormstore"
	"github.com/geoleowills/SQL-Library-Manager/internal/store/sqlstore"
)

const openTimeout = 15 * time.Second

// Server is everything main needs once dependencies are built.
type Server struct {
	Config *config.Config
	Logger *slog.Logger
	Store  store.Store
	Router *gin.Engine
	HTTP   *http.Server
}

// provideStore picks the backend by driver name: the gorm store for "sqlite",
// the sqlx store for the database/sql drivers.
func provideStore(cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	var (
		s   store.Store
		err error
	)

	switch cfg.Database.Driver {
	case store.DriverGormSQLite:
		s, err = gormstore.Open(cfg.Database.DSN,
			gormstore.WithLogger(logger),
			gormstore.WithMaxOpenConns(cfg.Database.MaxOpenConns),
		)
	case store.DriverSQLite3, store.DriverPostgres, store.DriverPGX:
		ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
		defer cancel()
		s, err = sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN,
			sqlstore.WithLogger(logger),
			sqlstore.WithMaxOpenConns(cfg.Database.MaxOpenConns),
		)
	default:
		return nil, nil, fmt.Errorf("%w: %q", sqlstore.ErrUnsupportedDriver, cfg.Database.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	cleanup := func() {
		if err := s.Close(); err != nil {
			logger.Error("close store", logging.AttrError, err)
		}
	}
	return s, cleanup, nil
}

func provideHandler(s store.Store, logger *slog.Logger, cfg *config.Config) *api.BookHandler {
	return api.NewBookHandler(s, logger, cfg.PageRadius)
}

func provideRouter(h *api.BookHandler, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	return api.NewRouter(h, api.RouterConfig{
		AllowOrigins: cfg.AllowOrigins,
		Logger:       logger,
	})
}

func provideHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
