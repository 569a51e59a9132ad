package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finwatch/ratecrawl/api/handler"
	"github.com/finwatch/ratecrawl/api/middleware"
	"github.com/finwatch/ratecrawl/config"
	"github.com/finwatch/ratecrawl/crawler"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(cr *crawler.Crawler, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(startTime))

	// Protected group — auth + rate limit. Crawls drive a real browser,
	// so the limiter defaults are deliberately tight.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/crawl", handler.Crawl(cr))

	return r
}
