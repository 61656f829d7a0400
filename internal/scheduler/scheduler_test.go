package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabadi-client/internal/config"
	"kabadi-client/internal/jobs"
	"kabadi-client/internal/service"
	"kabadi-client/internal/storage"
)

func TestNewScheduler_RegistersJobs(t *testing.T) {
	cfg, err := config.Parse([]byte("backend:\n  base_url: http://localhost:8080/api\n"))
	require.NoError(t, err)

	runner := jobs.NewJobRunner(service.NewSession(storage.NewMemoryStore(), nil), &jobs.Services{}, cfg, nil)
	s := NewScheduler(runner)
	assert.True(t, s.IsRunning())
	assert.Len(t, s.cron.Entries(), 2)

	for _, next := range s.NextRuns() {
		assert.True(t, next.IsZero())
	}

	s.Start()
	defer s.Stop()
	runs := s.NextRuns()
	require.Contains(t, runs, "refresh-kcoins")
	require.Contains(t, runs, "poll-bookings")
	assert.False(t, runs["poll-bookings"].IsZero())
}

func TestNewScheduler_BadSpec(t *testing.T) {
	cfg, err := config.Parse([]byte("backend:\n  base_url: http://localhost:8080/api\nscheduler:\n  poll_bookings: \"not a spec\"\n"))
	require.NoError(t, err)

	s := NewScheduler(jobs.NewJobRunner(nil, &jobs.Services{}, cfg, nil))
	assert.Len(t, s.cron.Entries(), 1)
	assert.NotContains(t, s.NextRuns(), "poll-bookings")
}
