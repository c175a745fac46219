package api

import (
	"log/slog"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowOrigins []string
	Logger       *slog.Logger
}

func NewRouter(h *BookHandler, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.SetHTMLTemplate(loadTemplates())

	r.Use(requestID(), accessLog(logger), recovery(logger))
	r.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	r.GET("/health", h.Health)
	r.GET("/", h.Index)

	books := r.Group(booksPath)
	{
		books.GET("", h.List)
		books.POST("", h.Search)
		books.GET("/new", h.New)
		books.POST("/new", h.Create)
		books.GET("/:id", h.Edit)
		books.POST("/:id", h.Update)
		books.POST("/:id/delete", h.Delete)
	}

	r.NoRoute(h.NotFound)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
