// Package api assembles the gin router and its middleware chain.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/api/handler"
	"github.com/use-agent/distill/api/middleware"
	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/renderer"
	"github.com/use-agent/distill/scrape"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(svc *scrape.Service, r renderer.Renderer, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	e := gin.New()
	e.Use(gin.Recovery())
	e.Use(gin.Logger())

	v1 := e.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(r, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/scrape", handler.Scrape(svc, cc, cfg.Scraper.RequestTimeout))
	protected.POST("/scrape/batch", handler.Batch(svc, cfg.Scraper.RequestTimeout))
	protected.POST("/summary", handler.Summary())

	return e
}
