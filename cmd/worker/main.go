// Package main provides the standalone video worker for the creative studio.
// It drains the same Redis queue the API server submits to, so it replaces
// the in-process worker (VIDEO_IN_PROCESS=false) in split deployments.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/creative-studio/internal/adapter"
	"github.com/creative-studio/internal/config"
	"github.com/creative-studio/internal/job"
	"github.com/creative-studio/internal/logging"
	"github.com/creative-studio/internal/ratelimit"
	"github.com/creative-studio/internal/storage"
)

func main() {
	fmt.Println("Creative Studio Video Worker")
	log.Println("Worker starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.InitGlobalLogger(logging.ParseLogLevel(cfg.Logging.Level), logging.ParseLogFormat(cfg.Logging.Format))
	logger := logging.GetGlobalLogger()

	ctx := context.Background()

	redis, err := storage.NewRedisCache(ctx, &cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	// Generation events are optional
	var events job.EventRecorder
	if cfg.Analytics.Enabled {
		clickhouse, err := storage.NewClickHouseDB(ctx, &cfg.Database.ClickHouse)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to ClickHouse")
		}
		defer clickhouse.Close()
		events = storage.NewEventRepository(clickhouse)
	}

	provider, err := adapter.NewGenAIGenerator(ctx, cfg.GenAI)
	if err != nil {
		logger.WithError(err).Fatal("Video worker needs a generative provider")
	}
	guarded := adapter.NewGuardedGenerator(provider, nil)
	var generator adapter.Generator = guarded

	// Spend from the shared pool; the reserve belongs to interactive requests
	if cfg.Budget.Enabled {
		tracker, err := ratelimit.NewBudgetTracker(&ratelimit.BudgetTrackerConfig{
			Redis:          redis.Client(),
			TotalBudget:    cfg.Budget.Units,
			ReservedBudget: &cfg.Budget.Reserved,
			WindowSize:     cfg.Budget.Window,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to create generation budget tracker")
		}
		generator, err = ratelimit.NewBudgetedGenerator(&ratelimit.BudgetedGeneratorConfig{
			Generator:    guarded,
			Tracker:      tracker,
			CostRegistry: ratelimit.NewCostRegistry(nil),
			Priority:     ratelimit.PriorityLow,
			MaxWait:      cfg.Budget.MaxWait,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to create budgeted generator")
		}
	}

	worker, err := job.NewVideoWorker(job.VideoWorkerDeps{
		Jobs:      storage.NewVideoJobStore(redis, cfg.Studio.HistoryTTL),
		Guard:     storage.NewPanelGuard(redis),
		Outputs:   storage.NewOutputStore(redis, cfg.Studio.OutputTTL),
		Events:    events,
		Generator: generator,
	}, job.VideoWorkerConfig{
		Workers:      cfg.Video.Workers,
		PollInterval: cfg.Video.PollInterval,
		Timeout:      cfg.Video.Timeout,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create video worker")
	}

	if err := worker.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start video worker")
	}
	logger.WithFields(map[string]interface{}{
		"workers":      cfg.Video.Workers,
		"pollInterval": cfg.Video.PollInterval.String(),
		"timeout":      cfg.Video.Timeout.String(),
	}).Info("Video worker started")

	// Set up graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.WithField("activeJobs", worker.ActiveJobs()).Info("Shutdown signal received, stopping worker...")
	if err := worker.Stop(); err != nil {
		logger.WithError(err).Error("Error stopping video worker")
	}

	logger.Info("Video worker stopped. Goodbye!")
}
