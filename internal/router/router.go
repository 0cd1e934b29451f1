package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// Options configures the engine built by SetupRouter.
type Options struct {
	CORSOrigins []string
	// MediaDir is served under /media when images are stored locally.
	MediaDir string
	// Registry receives the HTTP metrics and is exposed at /metrics.
	Registry *prometheus.Registry
	Services api.Services
}

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(opts.CORSOrigins))

	if opts.Registry != nil {
		router.Use(middleware.NewMetrics(opts.Registry).Handler())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry})))
	}

	if opts.MediaDir != "" {
		router.Static("/media", opts.MediaDir)
	}

	api.RegisterRoutes(router, opts.Services)
	return router
}
