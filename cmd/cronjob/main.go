package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"kabadi-client/internal/config"
	"kabadi-client/internal/jobs"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/repository/rest"
	"kabadi-client/internal/scheduler"
	"kabadi-client/internal/security"
	"kabadi-client/internal/service"
	"kabadi-client/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Optional env file loaded before the configuration")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'refresh-kcoins', 'poll-bookings', 'all')")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Kabadi Cronjob Runner...", "log_level", cfg.Log.Level)

	// The session is read from the store the workflow server writes to
	if cfg.Storage.Type == "memory" {
		logger.Warn("Memory session storage is not shared with the workflow server; jobs will find no session")
	}
	store, closeStore, err := storage.Open(storage.Config{Type: cfg.Storage.Type, Path: cfg.Storage.Path, DSN: cfg.Storage.DSN})
	if err != nil {
		logger.Error("Failed to open session storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to open session storage: %v", err)
	}
	defer closeStore()

	session := service.NewSession(store, security.NewTokenDecoder(cfg.JWT.Secret))
	if err := session.Load(context.Background()); err != nil {
		logger.Warn("Failed to restore session", "error", err)
	}

	// Initialize Repositories
	backend := rest.NewStore(rest.NewClient(cfg.Backend.BaseURL, cfg.BackendTimeout(), session))

	// Initialize Services
	jobServices := &jobs.Services{
		KCoins:   service.NewKCoinsService(backend.KabadiRepository, session),
		Bookings: service.NewBookingService(backend.BookingRepository, session),
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(session, jobServices, cfg, service.LogNotifier{})

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "refresh-kcoins":
		jobRunner.RefreshKCoins()
	case "poll-bookings":
		jobRunner.PollBookings()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - refresh-kcoins\n")
		fmt.Printf("  - poll-bookings\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
