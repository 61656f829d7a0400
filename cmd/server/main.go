package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	httpapi "kabadi-client/internal/api/http"
	"kabadi-client/internal/clock"
	"kabadi-client/internal/config"
	"kabadi-client/internal/domain"
	"kabadi-client/internal/geo"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/repository/rest"
	"kabadi-client/internal/security"
	"kabadi-client/internal/service"
	"kabadi-client/internal/storage"
)

// submitConcurrency caps in-flight booking create calls per submission
const submitConcurrency = 8

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Optional env file loaded before the configuration")
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
	logger.Info("Starting Kabadi workflow server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Backend configuration", "base_url", cfg.Backend.BaseURL, "timeout", cfg.BackendTimeout())
	logger.Info("Search configuration", "mode", cfg.Search.Mode, "priority_window", cfg.PriorityWindow())

	// Initialize session storage
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

	// Location
	geocoder := geo.NewNominatimGeocoder(geo.NominatimConfig{
		BaseURL:       cfg.Geocoder.BaseURL,
		Country:       cfg.Geocoder.Country,
		UserAgent:     cfg.Geocoder.UserAgent,
		RatePerSecond: cfg.Geocoder.RatePerSecond,
		Timeout:       cfg.BackendTimeout(),
	})
	anchors := geo.NewAnchorResolver(geocoder, geo.NewStaticLocator(devicePosition(cfg)), cfg.GeolocationTimeout())

	// Notifications fan out to the polling inbox, live sockets and the log
	inbox := service.NewInbox(0)
	hub := httpapi.NewNotificationHub()
	notifier := service.MultiNotifier{inbox, hub, service.LogNotifier{}}

	// Initialize Services
	authSvc := service.NewAuthService(backend.AuthRepository, session)
	profileSvc := service.NewProfileService(backend.CitizenRepository, backend.KabadiRepository, session)
	dashboardSvc := service.NewDashboardService(backend.CitizenRepository, backend.KabadiRepository, session)
	bookingSvc := service.NewBookingService(backend.BookingRepository, session)
	kcoinsSvc := service.NewKCoinsService(backend.KabadiRepository, session)

	// Workflows
	realClock := clock.New()
	search := service.NewSearchController(backend.CollectorRepository, anchors, realClock, notifier, service.SearchOptions{
		Policy:         radiusPolicy(cfg.ActivePolicy()),
		PriorityWindow: cfg.Search.PriorityWindowSeconds,
		Tick:           time.Second,
	})
	bookingFlow := service.NewBookingWorkflow(
		session,
		profileSvc,
		anchors,
		service.NewCartManager(notifier, service.NewItemID),
		search,
		service.NewBookingSubmitter(backend.BookingRepository, submitConcurrency),
		notifier,
	)
	transactionFlow := service.NewTransactionWorkflow(backend.TransactionRepository, session, realClock, notifier, service.NewItemID)

	router := httpapi.NewRouter(&httpapi.Services{
		Session:      session,
		Auth:         authSvc,
		Profiles:     profileSvc,
		Dashboards:   dashboardSvc,
		Bookings:     bookingSvc,
		KCoins:       kcoinsSvc,
		Booking:      bookingFlow,
		Transactions: transactionFlow,
		Inbox:        inbox,
		Hub:          hub,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Workflow API listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down workflow server...")
	search.Stop()
	hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Workflow server stopped. Goodbye!")
}

// devicePosition is the configured stand-in for the device location API
func devicePosition(cfg *config.Config) *domain.Coordinate {
	if cfg.Geolocation.Latitude == nil || cfg.Geolocation.Longitude == nil {
		return nil
	}
	return &domain.Coordinate{Lat: *cfg.Geolocation.Latitude, Lng: *cfg.Geolocation.Longitude}
}

func radiusPolicy(p config.RadiusPolicyConfig) service.RadiusPolicy {
	return service.RadiusPolicy{
		StartKm:  p.StartKm,
		StepKm:   p.StepKm,
		MaxKm:    p.MaxKm,
		Interval: p.Interval(),
	}
}
