package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/app"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/infra/config"
	idb "github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/infra/database"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/infra/httpserver"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/infra/logger"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/infra/scheduler"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Environment)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	if err := migrations.Run(db); err != nil {
		log.Fatalf("FATAL: Could not apply database migrations: %v", err)
	}
	log.Info("Database migrations applied.")

	// Initialize Repositories
	subRepo := idb.NewPostgresSubscriptionRepository(db)
	notifRepo := idb.NewPostgresNotificationRepository(db)

	probe := storeProbe(db)
	now := time.Now

	// Initialize Services
	notifier := app.NewNotifierService(
		subRepo, notifRepo, probe, now, log,
		cfg.DedupWindow, cfg.RetentionWindow, cfg.Currency,
	)
	reports := app.NewReportService(subRepo, now)

	// Background notifier worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker := scheduler.NewNotifierWorker(notifier, log, cfg.TickInterval, cfg.BackoffInterval)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(workerCtx)
	}()

	// Admin sessions with scheduled purge
	sessions := httpserver.NewSessionStore(cfg.SessionTTL, now)
	purge := scheduler.NewSessionPurgeScheduler(sessions, log, cfg.SessionPurgeCronSpec)
	if err := purge.Start(); err != nil {
		log.Fatalf("FATAL: Could not schedule session purge: %v", err)
	}

	// HTTP server
	server := httpserver.NewServer(
		subRepo, notifRepo, reports, sessions, probe, now, log,
		cfg.AdminUsername, cfg.AdminPassword,
	)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Handler(),
	}
	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	stopWorker()
	purge.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	<-workerDone
	log.Info("Application shut down gracefully.")
}

// storeProbe adapts the database availability check to the service-layer
// probe signature.
func storeProbe(db *sql.DB) app.StoreProbe {
	return func(ctx context.Context) bool {
		return idb.IsAvailable(ctx, db)
	}
}
