package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carbon-track/footprint-backend/internal/challenges"
	"carbon-track/footprint-backend/internal/config"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// LeaderboardWorker periodically recomputes challenge leaderboards
type LeaderboardWorker struct {
	service *challenges.Service
	logger  *zap.Logger
	config  LeaderboardWorkerConfig
}

// LeaderboardWorkerConfig configuration for the leaderboard worker
type LeaderboardWorkerConfig struct {
	CronSpec   string
	RunTimeout time.Duration
}

// DefaultLeaderboardWorkerConfig returns default configuration
func DefaultLeaderboardWorkerConfig() LeaderboardWorkerConfig {
	return LeaderboardWorkerConfig{
		CronSpec:   "@every 5m",
		RunTimeout: 2 * time.Minute,
	}
}

// NewLeaderboardWorker creates a new leaderboard worker
func NewLeaderboardWorker(service *challenges.Service, logger *zap.Logger, config LeaderboardWorkerConfig) *LeaderboardWorker {
	return &LeaderboardWorker{
		service: service,
		logger:  logger,
		config:  config,
	}
}

// Start schedules the refresh job and blocks until the context is cancelled
func (w *LeaderboardWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting leaderboard worker",
		zap.String("schedule", w.config.CronSpec))

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(w.config.CronSpec, func() { w.refresh(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}

	// Refresh once on startup so a restart never leaves leaderboards stale
	w.refresh(ctx)

	scheduler.Start()

	<-ctx.Done()
	w.logger.Info("Leaderboard worker shutting down")

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}

// refresh recomputes leaderboards for all active challenges
func (w *LeaderboardWorker) refresh(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, w.config.RunTimeout)
	defer cancel()

	startTime := time.Now()

	refreshed, err := w.service.RefreshLeaderboards(runCtx)
	if err != nil {
		w.logger.Error("Failed to refresh leaderboards", zap.Error(err))
		return
	}

	w.logger.Info("Leaderboards refreshed",
		zap.Int("challenges", refreshed),
		zap.Duration("duration", time.Since(startTime)))
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connectCancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	logger.Info("Connected to MongoDB", zap.String("database", cfg.Database.DBName))

	db := client.Database(cfg.Database.DBName)
	repo := challenges.NewRepository(db)
	service := challenges.NewService(repo, logger)

	workerConfig := DefaultLeaderboardWorkerConfig()
	workerConfig.CronSpec = cfg.Worker.LeaderboardCron
	worker := NewLeaderboardWorker(service, logger, workerConfig)

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	logger.Info("Leaderboard worker starting")
	if err := worker.Start(ctx); err != nil {
		logger.Error("Worker error", zap.Error(err))
	}

	logger.Info("Leaderboard worker stopped")
}
