package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"kabadi-client/internal/jobs"
	"kabadi-client/internal/logger"
)

// Scheduler runs the session jobs on their cron specs
type Scheduler struct {
	cron    *cron.Cron
	jobs    *jobs.JobRunner
	entries map[string]cron.EntryID
}

type scheduledJob struct {
	name string
	spec string
	run  func()
}

// cronLogger routes cron's own messages (skipped ticks, recovered panics)
// into the application log
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// NewScheduler creates a scheduler and registers every job the runner offers
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Seconds precision; a tick is skipped while the previous run is busy
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)

	s := &Scheduler{
		cron:    c,
		jobs:    jobRunner,
		entries: make(map[string]cron.EntryID),
	}
	s.registerJobs()
	return s
}

func (s *Scheduler) jobTable() []scheduledJob {
	cfg := s.jobs.Config().Scheduler
	return []scheduledJob{
		// Loyalty status for collector sessions
		{name: "refresh-kcoins", spec: cfg.RefreshKCoins, run: s.jobs.RefreshKCoins},
		// Booking status changes for any session
		{name: "poll-bookings", spec: cfg.PollBookings, run: s.jobs.PollBookings},
	}
}

// registerJobs adds each job; a bad spec drops that job only
func (s *Scheduler) registerJobs() {
	for _, j := range s.jobTable() {
		id, err := s.cron.AddFunc(j.spec, j.run)
		if err != nil {
			logger.Error("Failed to register job", "job", j.name, "spec", j.spec, "error", err)
			continue
		}
		s.entries[j.name] = id
	}
	logger.Info("Cron jobs registered", "entries", len(s.entries))
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	for name, next := range s.NextRuns() {
		logger.Info("Job scheduled", "job", name, "next_run", next)
	}
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// NextRuns reports the next activation of each registered job. Times are
// zero until the scheduler has started.
func (s *Scheduler) NextRuns() map[string]time.Time {
	out := make(map[string]time.Time, len(s.entries))
	for name, id := range s.entries {
		out[name] = s.cron.Entry(id).Next
	}
	return out
}

// IsRunning returns true if any job is registered
func (s *Scheduler) IsRunning() bool {
	return len(s.entries) > 0
}
