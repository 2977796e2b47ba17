package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashboard/internal/handler"
	"dashboard/internal/metrics"
	"dashboard/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	router  *gin.Engine
	service handler.DashboardService
	logger  *zap.Logger
}

func NewServer(service handler.DashboardService, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(logger))

	s := &Server{
		router:  router,
		service: service,
		logger:  logger,
	}

	s.setupRoutes()

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	dashboardHandler := handler.NewDashboardHandler(s.service, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	s.router.GET("/metrics", metrics.MetricsHandler())

	dashboard := s.router.Group("/api/dashboard")
	{
		dashboard.GET("/incidents", dashboardHandler.GetIncidents)
		dashboard.GET("/incidents/recent", dashboardHandler.GetRecentIncidents)
		dashboard.GET("/incidents/raw", dashboardHandler.GetRawIncidents)
		dashboard.GET("/stats", dashboardHandler.GetStats)
		dashboard.GET("/trends", dashboardHandler.GetTrends)
		dashboard.GET("/trends/monthly", dashboardHandler.GetMonthlyTrends)
	}

	api := s.router.Group("/api")
	{
		api.GET("/models", dashboardHandler.GetModels)
		api.POST("/predict", dashboardHandler.Predict)
		api.POST("/compare", dashboardHandler.Compare)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
