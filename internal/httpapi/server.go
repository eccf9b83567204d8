package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jengatrack/jengatrack/internal/config"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

// ReadyFunc reports whether downstream dependencies can serve traffic.
type ReadyFunc func(ctx context.Context) error

// Server hosts the webhook, the dashboard API, and the probe endpoints on a
// single gin router.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	ready      ReadyFunc
}

// NewServer builds the router and registers all routes.
func NewServer(cfg *config.Config, webhook *WebhookHandler, dashboard *DashboardHandler, ready ReadyFunc, baseLogger *zap.Logger) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestContext(baseLogger))

	s := &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: engine,
		},
		logger: baseLogger.Named("http"),
		ready:  ready,
	}

	api := engine.Group("/api")
	{
		api.GET("/webhook", webhook.Verify)
		api.POST("/webhook", webhook.Receive)
		api.GET("/webhook/debug", webhook.Debug)

		api.GET("/projects", dashboard.Projects)
		api.GET("/projects/:id/summary", dashboard.ProjectSummary)
		api.GET("/projects/:id/expenses", dashboard.ProjectExpenses)
		api.GET("/categories", dashboard.Categories)
	}

	engine.GET("/health", s.handleHealth)
	engine.GET("/ready", s.handleReady)
	if cfg.Metrics.Enabled {
		baseLogger.Info("Registering /metrics endpoint")
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	utils.SafeGo(func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}, nil)
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (s *Server) handleReady(c *gin.Context) {
	if s.ready != nil {
		if err := s.ready(c.Request.Context()); err != nil {
			s.logger.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "READY",
		"timestamp": utils.FormatISO8601(utils.Now()),
	})
}
