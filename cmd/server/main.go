// Package main provides the API server entry point for the creative studio.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creative-studio/internal/adapter"
	"github.com/creative-studio/internal/api"
	"github.com/creative-studio/internal/config"
	"github.com/creative-studio/internal/job"
	"github.com/creative-studio/internal/logging"
	"github.com/creative-studio/internal/ratelimit"
	"github.com/creative-studio/internal/service"
	"github.com/creative-studio/internal/storage"
)

func main() {
	fmt.Println("Creative Studio API Server")
	log.Println("Server starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logging.InitGlobalLogger(logging.ParseLogLevel(cfg.Logging.Level), logging.ParseLogFormat(cfg.Logging.Format))
	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	ctx := context.Background()

	// Initialize database connections
	logger.Info("Connecting to databases...")

	postgres, err := storage.NewPostgresDB(ctx, &cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	redis, err := storage.NewRedisCache(ctx, &cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	checks := []api.HealthCheck{
		{Name: "postgres", Check: postgres.Ping},
		{Name: "redis", Check: redis.Ping},
	}

	// ClickHouse is optional; without it usage summaries are unavailable
	var (
		events service.EventRecorder
		usage  service.UsageReader
	)
	if cfg.Analytics.Enabled {
		clickhouse, err := storage.NewClickHouseDB(ctx, &cfg.Database.ClickHouse)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to ClickHouse")
		}
		defer clickhouse.Close()

		eventRepo := storage.NewEventRepository(clickhouse)
		if err := eventRepo.EnsureSchema(ctx); err != nil {
			logger.WithError(err).Warn("Failed to ensure generation event schema")
		}
		events, usage = eventRepo, eventRepo
		checks = append(checks, api.HealthCheck{Name: "clickhouse", Check: clickhouse.Ping})
	}

	logger.Info("Database connections established")

	// Generator stack: provider, circuit breaker, shared call budget
	guarded := adapter.NewGuardedGenerator(newProvider(ctx, cfg, logger), nil)
	var generator adapter.Generator = guarded

	var (
		tracker  *ratelimit.BudgetTracker
		registry *ratelimit.CostRegistry
	)
	if cfg.Budget.Enabled {
		tracker, err = ratelimit.NewBudgetTracker(&ratelimit.BudgetTrackerConfig{
			Redis:          redis.Client(),
			TotalBudget:    cfg.Budget.Units,
			ReservedBudget: &cfg.Budget.Reserved,
			WindowSize:     cfg.Budget.Window,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to create generation budget tracker")
		}
		registry = ratelimit.NewCostRegistry(nil)

		generator, err = ratelimit.NewBudgetedGenerator(&ratelimit.BudgetedGeneratorConfig{
			Generator:    guarded,
			Tracker:      tracker,
			CostRegistry: registry,
			Priority:     ratelimit.PriorityHigh,
			MaxWait:      cfg.Budget.MaxWait,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to create budgeted generator")
		}
		logger.WithFields(map[string]interface{}{
			"units":    cfg.Budget.Units,
			"reserved": cfg.Budget.Reserved,
			"window":   cfg.Budget.Window.String(),
		}).Info("Generation budget enabled")
	}

	// Initialize stores
	guard := storage.NewPanelGuard(redis)
	outputs := storage.NewOutputStore(redis, cfg.Studio.OutputTTL)
	history := storage.NewHistoryStore(redis, cfg.Studio.HistoryLimit, cfg.Studio.HistoryTTL)
	sessions := storage.NewSessionStore(redis, cfg.Studio.HistoryTTL)
	jobs := storage.NewVideoJobStore(redis, cfg.Studio.HistoryTTL)
	userRepo := storage.NewUserRepository(postgres)

	// Initialize services
	logger.Info("Initializing services...")

	monitor := service.NewGenerationMonitor()
	studio := service.NewStudio(service.StudioDeps{
		Users:     userRepo,
		Guard:     guard,
		Outputs:   outputs,
		History:   history,
		Events:    events,
		Generator: generator,
		Monitor:   monitor,
		GuardTTL:  cfg.Studio.GuardTTL,
	})

	services := api.Services{
		Users:      service.NewUserService(userRepo, cfg.Credits),
		Navigation: service.NewNavigationService(studio, sessions),
		Logo:       service.NewLogoService(studio),
		Pixel:      service.NewPixelService(studio),
		Copy:       service.NewCopyService(studio),
		Site:       service.NewSiteService(studio),
		Flyer:      service.NewFlyerService(studio),
		Social:     service.NewSocialService(studio),
		Motion:     service.NewMotionService(studio, jobs, cfg.Video.Timeout+cfg.Studio.GuardTTL),
		History:    service.NewHistoryService(studio),
		Usage:      service.NewUsageService(studio, usage),
		Monitor:    monitor,
	}

	logger.Info("Services initialized")

	// Video workers share the budget at low priority so interactive panels keep the reserve
	var videoWorker *job.VideoWorker
	if cfg.Video.InProcess {
		var workerGen adapter.Generator = guarded
		if tracker != nil {
			workerGen, err = ratelimit.NewBudgetedGenerator(&ratelimit.BudgetedGeneratorConfig{
				Generator:    guarded,
				Tracker:      tracker,
				CostRegistry: registry,
				Priority:     ratelimit.PriorityLow,
				MaxWait:      cfg.Budget.MaxWait,
			})
			if err != nil {
				logger.WithError(err).Fatal("Failed to create worker generator")
			}
		}

		videoWorker, err = job.NewVideoWorker(job.VideoWorkerDeps{
			Jobs:      jobs,
			Guard:     guard,
			Outputs:   outputs,
			Events:    events,
			Monitor:   monitor,
			Generator: workerGen,
		}, job.VideoWorkerConfig{
			Workers:      cfg.Video.Workers,
			PollInterval: cfg.Video.PollInterval,
			Timeout:      cfg.Video.Timeout,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to create video worker")
		}
		if err := videoWorker.Start(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to start video worker")
		}
		logger.WithField("workers", cfg.Video.Workers).Info("Video worker started in-process")
	}

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		FreeTierRPS:     cfg.RateLimit.FreeTier,
		ProTierRPS:      cfg.RateLimit.ProTier,
	}

	opts := []api.Option{
		api.WithHealthChecks(checks...),
		api.WithBreakerStats(guarded),
	}
	if tracker != nil {
		opts = append(opts, api.WithBudget(tracker, registry.KnownMethods()))
	}
	server := api.NewServer(serverConfig, services, opts...)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	// In-flight video jobs are handed back to the queue
	if videoWorker != nil {
		if err := videoWorker.Stop(); err != nil {
			logger.WithError(err).Error("Failed to stop video worker")
		}
	}

	logger.Info("Server exited")
}

// newProvider returns the Gemini generator, or a generator that reports the
// provider as unavailable when no key is configured.
func newProvider(ctx context.Context, cfg *config.Config, logger *logging.Logger) adapter.Generator {
	gen, err := adapter.NewGenAIGenerator(ctx, cfg.GenAI)
	if err != nil {
		logger.WithError(err).Warn("Generative provider not configured, generation requests will fail")
		return adapter.Unavailable{}
	}
	return gen
}
