package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"dashboard/internal/config"
	"dashboard/internal/incident_api"
	"dashboard/internal/logging"
	"dashboard/internal/metrics"
	"dashboard/internal/ml_client"
	"dashboard/internal/repository"
	"dashboard/internal/server"
	"dashboard/internal/service"
)

func main() {
	if err := config.LoadEnv(config.DefaultEnvFile); err != nil {
		log.Fatalf("failed to load %s: %v", config.DefaultEnvFile, err)
	}

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Database connection
	db, err := repository.NewDB(cfg.Database.Type, cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := repository.MigrateDB(db, logger); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	incidentRepo := repository.NewIncidentRepository(db, logger)

	// Initialize model service client
	mlClient := ml_client.NewClient(ml_client.Endpoints{
		Predict:       cfg.ModelService.PredictURL,
		DomainPredict: cfg.ModelService.DomainPredictURL,
		Models:        cfg.ModelService.ModelsURL,
		Compare:       cfg.ModelService.CompareURL,
	}, cfg.ModelService.Timeout, logger)

	incidentFeed := incident_api.NewClient(cfg.IncidentAPI.URL, cfg.IncidentAPI.Timeout, logger)

	dashboardService := service.NewDashboardService(incidentRepo, mlClient, incidentFeed, logger)

	metrics.Init()

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.NewServer(dashboardService, logger)
	if err := srv.Run(ctx, ":"+cfg.Server.Port); err != nil {
		logger.Error("Server failed", zap.Error(err))
		return
	}

	logger.Info("Application stopped.")
}
