// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/datavault/internal/metrics"
	recordsHTTP "github.com/allisson/datavault/internal/records/http"
)

// Server represents the API HTTP server.
type Server struct {
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
	db     *sql.DB
}

// NewServer creates a new HTTP server. The database handle is used only for
// readiness checks and may be nil for backends without one.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures middleware and registers all API routes. A nil
// metrics provider disables request metrics.
func (s *Server) SetupRouter(
	recordHandler *recordsHTTP.RecordHandler,
	corsEnabled bool,
	corsAllowOrigins string,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(corsEnabled, corsAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// Liveness and readiness endpoints
	router.GET("/healthz", s.healthHandler)
	router.GET("/readyz", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		records := v1.Group("/records")
		{
			records.POST("", recordHandler.EncryptHandler)
			records.GET("", recordHandler.ListHandler)
			records.GET("/stats", recordHandler.StatsHandler)
			records.POST("/decrypt", recordHandler.DecryptInlineHandler)
			records.GET("/:id", recordHandler.GetHandler)
			records.POST("/:id/decrypt", recordHandler.DecryptHandler)
			records.POST("/:id/rewrap", recordHandler.RewrapHandler)
		}
	}

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the configured http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. A configured
// database must answer a ping; backends without a database have no external
// dependency to probe.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			components["database"] = "error"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"components": components,
			})
			return
		}
		components["database"] = "ok"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router != nil {
		s.server.Handler = s.router
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
