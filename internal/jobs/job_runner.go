package jobs

import (
	"context"
	"sync"
	"time"

	"kabadi-client/internal/config"
	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/service"
)

// jobTimeout bounds the backend calls of one job run
const jobTimeout = 30 * time.Second

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	session  *service.Session
	services *Services
	config   *config.Config
	notifier service.Notifier

	mu            sync.Mutex
	kcoins        *domain.KCoinsStatus
	kcoinsOwner   int64
	bookingStatus map[int64]domain.BookingStatus
	seeded        bool
	seededAs      service.SessionUser
}

// Services holds all service dependencies needed by jobs
type Services struct {
	KCoins   service.KCoinsService
	Bookings service.BookingService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(session *service.Session, services *Services, cfg *config.Config, notifier service.Notifier) *JobRunner {
	if notifier == nil {
		notifier = service.LogNotifier{}
	}
	return &JobRunner{
		session:       session,
		services:      services,
		config:        cfg,
		notifier:      notifier,
		bookingStatus: make(map[int64]domain.BookingStatus),
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	// The session may be shared with the local API process
	if jr.session != nil {
		if err := jr.session.Load(ctx); err != nil {
			logger.Warn("Failed to reload session", "job", jobName, "error", err)
		}
	}

	logger.Debug("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Debug("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.RefreshKCoins()
	jr.PollBookings()
}
