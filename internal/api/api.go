// Package api exposes the guide over HTTP: channel discovery, favorites,
// settings, the rendered guide read model, and a refresh trigger.
package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cmilne/telegrid/internal/catalog"
	"github.com/cmilne/telegrid/internal/circuitbreaker"
	"github.com/cmilne/telegrid/internal/clock"
	"github.com/cmilne/telegrid/internal/refresher"
	"github.com/cmilne/telegrid/internal/settings"
	"github.com/cmilne/telegrid/internal/store"
)

// Server represents the API server
type Server struct {
	router    *gin.Engine
	catalog   *catalog.Catalog
	programs  *store.ProgramStore
	settings  *settings.Store
	refresher *refresher.Refresher
	fetcher   refresher.Fetcher
	breaker   *circuitbreaker.Breaker
	cal       *clock.Calendar
	feedURL   string
	health    func() error
	now       func() time.Time
}

// Options carries the server's collaborators.
type Options struct {
	Catalog   *catalog.Catalog
	Programs  *store.ProgramStore
	Settings  *settings.Store
	Refresher *refresher.Refresher
	Fetcher   refresher.Fetcher
	Calendar  *clock.Calendar
	FeedURL   string
	// HealthCheck reports backing-store health for /health.
	HealthCheck func() error
}

// NewServer creates a new API server instance
func NewServer(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware())
	router.Use(cors.Default())

	s := &Server{
		router:    router,
		catalog:   opts.Catalog,
		programs:  opts.Programs,
		settings:  opts.Settings,
		refresher: opts.Refresher,
		fetcher:   opts.Fetcher,
		breaker:   circuitbreaker.New(circuitbreaker.DefaultConfig()),
		cal:       opts.Calendar,
		feedURL:   opts.FeedURL,
		health:    opts.HealthCheck,
		now:       time.Now,
	}

	s.setupRoutes()

	return s
}

// Handler returns the underlying HTTP handler, for embedding in an
// http.Server with its own lifecycle.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Run starts the API server on the specified port
func (s *Server) Run(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Channel discovery (live feed catalog annotated with favorites)
		v1.GET("/channels", s.listChannels)

		// Favorites endpoints
		v1.GET("/favorites", s.listFavorites)
		v1.POST("/favorites", s.addFavorite)
		v1.DELETE("/favorites/:id", s.removeFavorite)

		// Settings endpoints
		v1.GET("/settings", s.getSettings)
		v1.PUT("/settings", s.updateSettings)

		// Guide read model
		v1.GET("/guide", s.getGuide)

		// Refresh trigger
		v1.POST("/refresh", s.triggerRefresh)
	}
}
