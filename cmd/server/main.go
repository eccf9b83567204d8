package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jengatrack/jengatrack/internal/config"
	"github.com/jengatrack/jengatrack/internal/events"
	"github.com/jengatrack/jengatrack/internal/gateway"
	"github.com/jengatrack/jengatrack/internal/httpapi"
	"github.com/jengatrack/jengatrack/internal/intent"
	"github.com/jengatrack/jengatrack/internal/observer"
	"github.com/jengatrack/jengatrack/internal/storage"
	"github.com/jengatrack/jengatrack/internal/usecase"
	"github.com/jengatrack/jengatrack/pkg/logger"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

func main() {
	// Set timezone to UTC
	time.Local = time.UTC

	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize metrics conditionally
	metricsEnabled := cfg.Metrics.Enabled
	observer.InitMetrics(metricsEnabled)

	logger.Log.Info("Starting JengaTrack",
		zap.String("environment", cfg.Environment),
		zap.Int("port", cfg.Server.Port),
		zap.String("nats_url", cfg.NATS.URL),
	)

	// Initialize repositories
	postgresRepo, err := storage.NewPostgresRepo(cfg.Database.PostgresDSN, cfg.Database.PostgresAutoMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize Postgres repository", zap.Error(err))
	}

	// Create repository adapters for the services
	profileRepo := storage.NewProfileRepoAdapter(postgresRepo)
	projectRepo := storage.NewProjectRepoAdapter(postgresRepo)
	expenseRepo := storage.NewExpenseRepoAdapter(postgresRepo)
	taskRepo := storage.NewTaskRepoAdapter(postgresRepo)
	messageLogRepo := storage.NewMessageLogRepoAdapter(postgresRepo)
	aiUsageRepo := storage.NewAIUsageRepoAdapter(postgresRepo)
	categoryRepo := storage.NewCategoryRepoAdapter(postgresRepo)

	// Build the intent parser from the stored category keyword lists
	parser := intent.NewParser(loadCategoryMatcher(categoryRepo))

	// Optional NATS event publisher; empty URL yields a no-op publisher
	publisher, err := events.NewPublisher(cfg.NATS)
	if err != nil {
		logger.Log.Fatal("Failed to initialize event publisher", zap.Error(err))
	}

	// WhatsApp Cloud API gateway
	sender := gateway.NewWhatsAppClient(cfg.WhatsApp)

	// Chat flow service and its worker pool
	chatService := usecase.NewChatService(
		profileRepo, projectRepo, expenseRepo, taskRepo, messageLogRepo, aiUsageRepo,
		parser, sender, publisher,
	)
	messageWorker, err := usecase.NewMessageWorker(cfg.WorkerPool, chatService, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to initialize message worker pool", zap.Error(err))
	}

	// Dashboard read-side service
	dashboardService := usecase.NewDashboardService(profileRepo, projectRepo, expenseRepo, categoryRepo)

	// HTTP server: webhook, dashboard API, probes, metrics
	webhookHandler := httpapi.NewWebhookHandler(cfg.WhatsApp.VerifyToken, messageWorker, messageLogRepo)
	dashboardHandler := httpapi.NewDashboardHandler(dashboardService)
	server := httpapi.NewServer(cfg, webhookHandler, dashboardHandler, postgresRepo.Ping, logger.Log)
	server.Start()

	logger.Log.Info("Endpoints available",
		zap.String("webhook", fmt.Sprintf("http://localhost:%d/api/webhook", cfg.Server.Port)),
		zap.String("health", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.String("readiness", fmt.Sprintf("http://localhost:%d/ready", cfg.Server.Port)),
	)

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Log.Info("Received termination signal", zap.String("signal", sig.String()))

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Log.Info("Starting graceful shutdown", zap.Duration("timeout", 30*time.Second))

	var wg sync.WaitGroup
	wg.Add(4)

	// Shutdown HTTP server first so no new messages get queued
	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Stopping HTTP server")
		start := time.Now()
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Failed to stop HTTP server", zap.Error(err))
		}
		logger.Log.Info("[shutdown] HTTP server stopped",
			zap.Duration("duration", time.Since(start)))
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while stopping HTTP server",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	// Shutdown message worker pool
	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Stopping message worker pool")
		start := time.Now()
		messageWorker.Stop()
		logger.Log.Info("[shutdown] Message worker pool stopped",
			zap.Duration("duration", time.Since(start)))
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while stopping message worker pool",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	// Shutdown event publisher
	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Stopping event publisher")
		start := time.Now()
		publisher.Close()
		logger.Log.Info("[shutdown] Event publisher stopped",
			zap.Duration("duration", time.Since(start)))
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while stopping event publisher",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	// Close database connection
	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Closing database connection")
		start := time.Now()
		if err := postgresRepo.Close(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Failed to close database connection", zap.Error(err))
		}
		logger.Log.Info("[shutdown] Database connection closed",
			zap.Duration("duration", time.Since(start)))
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while closing database connection",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	// Wait for all components with timeout
	done := make(chan struct{})
	utils.SafeGo(func() {
		wg.Wait()
		close(done)
	}, nil)

	select {
	case <-done:
		logger.Log.Info("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		logger.Log.Warn("Graceful shutdown timed out")
	}
}

// loadCategoryMatcher builds the keyword matcher from the expense_categories
// table, falling back to the built-in defaults when the table is unreadable
// or empty.
func loadCategoryMatcher(categories storage.CategoryRepo) *intent.CategoryMatcher {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := categories.List(ctx)
	if err != nil || len(rows) == 0 {
		if err != nil {
			logger.Log.Warn("Failed to load expense categories, using defaults", zap.Error(err))
		}
		return intent.NewCategoryMatcher(intent.DefaultCategories())
	}

	keywordSets := make(map[string][]string, len(rows))
	for _, row := range rows {
		var keywords []string
		if len(row.Keywords) > 0 {
			if err := utils.UnmarshalJSON(row.Keywords, &keywords); err != nil {
				logger.Log.Warn("Skipping category with malformed keywords",
					zap.String("category", row.Name),
					zap.Error(err))
				continue
			}
		}
		keywordSets[row.Name] = keywords
	}
	return intent.NewCategoryMatcher(keywordSets)
}
