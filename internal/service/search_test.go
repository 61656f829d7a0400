package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kabadi-client/internal/clock"
	"kabadi-client/internal/domain"
	"kabadi-client/internal/geo"
)

var home = domain.Coordinate{Lat: 12.9716, Lng: 77.5946}

func candidate(id int64, lat, lng float64) domain.CollectorCandidate {
	return domain.CollectorCandidate{ID: id, Name: "K" + string(rune('A'+id-1)), Latitude: &lat, Longitude: &lng}
}

type searchFixture struct {
	repo   *MockCollectorRepo
	clock  *clock.Fake
	notes  *recordingNotifier
	search *SearchController
}

func newSearchFixture(policy RadiusPolicy) *searchFixture {
	f := &searchFixture{
		repo:  new(MockCollectorRepo),
		clock: clock.NewFake(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
		notes: &recordingNotifier{},
	}
	anchors := geo.NewAnchorResolver(nil, nil, 0)
	anchors.Set(home)
	f.search = NewSearchController(f.repo, anchors, f.clock, f.notes, SearchOptions{Policy: policy})
	return f
}

func TestSearch_PriorityCountdownExpiresOnce(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	ctx := context.Background()
	priority := []domain.CollectorCandidate{candidate(1, 12.97, 77.59)}
	nearby := []domain.CollectorCandidate{candidate(2, 12.98, 77.60), candidate(3, 12.99, 77.61)}

	f.repo.On("FindPriority", mock.Anything, home).Return(priority, nil).Once()
	f.repo.On("FindNearby", mock.Anything, home, 5.0).Return(nearby, nil).Once()

	require.NoError(t, f.search.StartSearch(ctx))
	st := f.search.State()
	assert.Equal(t, PhasePriority, st.Phase)
	assert.Equal(t, 30, st.Countdown)
	assert.Equal(t, priority, st.Candidates)

	f.clock.Advance(29 * time.Second)
	st = f.search.State()
	assert.Equal(t, PhasePriority, st.Phase)
	assert.Equal(t, 1, st.Countdown)
	f.repo.AssertNotCalled(t, "FindNearby", mock.Anything, mock.Anything, mock.Anything)

	f.clock.Advance(time.Second)
	st = f.search.State()
	assert.Equal(t, PhaseNormal, st.Phase)
	assert.Equal(t, 0, st.Countdown)
	assert.Equal(t, 5.0, st.RadiusKm)
	assert.Len(t, st.Candidates, 2)

	// Skip after natural expiry does not trigger a second transition
	require.NoError(t, f.search.SkipPriority(ctx))
	f.clock.Advance(time.Minute)
	f.repo.AssertNumberOfCalls(t, "FindNearby", 1)
	assert.Equal(t, 0, f.clock.Pending())
}

func TestSearch_SkipCancelsCountdown(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	ctx := context.Background()
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{candidate(1, 12.97, 77.59)}, nil)
	f.repo.On("FindNearby", mock.Anything, home, 5.0).Return([]domain.CollectorCandidate{candidate(2, 12.98, 77.60)}, nil)

	require.NoError(t, f.search.StartSearch(ctx))
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, 25, f.search.State().Countdown)

	require.NoError(t, f.search.SkipPriority(ctx))
	assert.Equal(t, PhaseNormal, f.search.State().Phase)
	assert.Equal(t, 0, f.clock.Pending())

	require.NoError(t, f.search.SkipPriority(ctx))
	f.clock.Advance(time.Minute)
	f.repo.AssertNumberOfCalls(t, "FindNearby", 1)
}

func TestSearch_SkipWhenIdle(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	assert.ErrorIs(t, f.search.SkipPriority(context.Background()), ErrWrongPhase)
}

func TestSearch_NoPriorityGoesStraightToNormal(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{}, nil)
	f.repo.On("FindNearby", mock.Anything, home, 5.0).Return([]domain.CollectorCandidate{}, nil)

	require.NoError(t, f.search.StartSearch(context.Background()))
	st := f.search.State()
	assert.Equal(t, PhaseNormal, st.Phase)
	assert.Empty(t, st.Candidates)

	// Fixed policy never expands
	assert.Equal(t, 0, f.clock.Pending())
	assert.Equal(t, NotifyInfo, f.notes.last().Level)
}

func TestSearch_RadiusExpansion(t *testing.T) {
	f := newSearchFixture(DiscoveryRadiusPolicy)
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{}, nil)
	for _, r := range []float64{1, 2, 3, 4, 5} {
		f.repo.On("FindNearby", mock.Anything, home, r).Return([]domain.CollectorCandidate{}, nil).Once()
	}

	require.NoError(t, f.search.StartSearch(context.Background()))
	assert.Equal(t, 1.0, f.search.State().RadiusKm)

	for _, r := range []float64{2, 3, 4, 5} {
		f.clock.Advance(29 * time.Second)
		assert.Equal(t, r-1, f.search.State().RadiusKm)
		f.clock.Advance(time.Second)
		assert.Equal(t, r, f.search.State().RadiusKm)
	}

	// Ceiling reached: no more queries, no error, nothing scheduled
	f.clock.Advance(5 * time.Minute)
	f.repo.AssertNumberOfCalls(t, "FindNearby", 5)
	f.repo.AssertExpectations(t)
	assert.Equal(t, 0, f.clock.Pending())
	assert.Equal(t, PhaseNormal, f.search.State().Phase)
	assert.NotContains(t, f.notes.levels(), NotifyError)
}

func TestSearch_ExpansionStopsOnResults(t *testing.T) {
	f := newSearchFixture(DiscoveryRadiusPolicy)
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{}, nil)
	f.repo.On("FindNearby", mock.Anything, home, 1.0).Return([]domain.CollectorCandidate{}, nil).Once()
	f.repo.On("FindNearby", mock.Anything, home, 2.0).Return([]domain.CollectorCandidate{candidate(4, 12.98, 77.60)}, nil).Once()

	require.NoError(t, f.search.StartSearch(context.Background()))
	f.clock.Advance(30 * time.Second)
	assert.Len(t, f.search.State().Candidates, 1)

	f.clock.Advance(5 * time.Minute)
	f.repo.AssertNumberOfCalls(t, "FindNearby", 2)
}

func TestSearch_RestartCancelsStaleCountdown(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	ctx := context.Background()
	first := []domain.CollectorCandidate{candidate(1, 12.97, 77.59)}
	second := []domain.CollectorCandidate{candidate(9, 12.96, 77.58)}
	f.repo.On("FindPriority", mock.Anything, home).Return(first, nil).Once()
	f.repo.On("FindPriority", mock.Anything, home).Return(second, nil).Once()
	f.repo.On("FindNearby", mock.Anything, home, 5.0).Return([]domain.CollectorCandidate{candidate(2, 12.98, 77.60)}, nil)

	require.NoError(t, f.search.StartSearch(ctx))
	f.clock.Advance(10 * time.Second)

	require.NoError(t, f.search.StartSearch(ctx))
	st := f.search.State()
	assert.Equal(t, 30, st.Countdown)
	assert.Equal(t, second, st.Candidates)
	assert.Equal(t, 1, f.clock.Pending())

	// The first countdown would have expired 20s from here
	f.clock.Advance(25 * time.Second)
	st = f.search.State()
	assert.Equal(t, PhasePriority, st.Phase)
	assert.Equal(t, 5, st.Countdown)
	f.repo.AssertNotCalled(t, "FindNearby", mock.Anything, mock.Anything, mock.Anything)

	f.clock.Advance(5 * time.Second)
	assert.Equal(t, PhaseNormal, f.search.State().Phase)
	f.repo.AssertNumberOfCalls(t, "FindNearby", 1)
}

func TestSearch_RestartCancelsStaleExpansion(t *testing.T) {
	f := newSearchFixture(DiscoveryRadiusPolicy)
	ctx := context.Background()
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{}, nil)
	f.repo.On("FindNearby", mock.Anything, home, 1.0).Return([]domain.CollectorCandidate{}, nil).Twice()
	f.repo.On("FindNearby", mock.Anything, home, 2.0).Return([]domain.CollectorCandidate{candidate(3, 12.98, 77.60)}, nil).Once()

	require.NoError(t, f.search.StartSearch(ctx))
	f.clock.Advance(20 * time.Second)
	require.NoError(t, f.search.StartSearch(ctx))

	// Only the second chain's expansion runs, 30s after the restart
	f.clock.Advance(10 * time.Second)
	f.repo.AssertNumberOfCalls(t, "FindNearby", 2)
	f.clock.Advance(20 * time.Second)
	f.repo.AssertNumberOfCalls(t, "FindNearby", 3)
	assert.Equal(t, 2.0, f.search.State().RadiusKm)
}

func TestSearch_LocationFailureStaysIdle(t *testing.T) {
	repo := new(MockCollectorRepo)
	notes := &recordingNotifier{}
	anchors := geo.NewAnchorResolver(nil, geo.NewStaticLocator(nil), 8*time.Second)
	search := NewSearchController(repo, anchors, clock.NewFake(time.Now()), notes, SearchOptions{})

	err := search.StartSearch(context.Background())
	assert.ErrorIs(t, err, ErrLocationUnavailable)
	assert.Equal(t, PhaseIdle, search.State().Phase)
	assert.Equal(t, NotifyError, notes.last().Level)
	repo.AssertNotCalled(t, "FindPriority", mock.Anything, mock.Anything)
}

func TestSearch_QueryErrorKeepsLastPhase(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	ctx := context.Background()
	found := []domain.CollectorCandidate{candidate(2, 12.98, 77.60)}
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{}, nil).Once()
	f.repo.On("FindNearby", mock.Anything, home, 5.0).Return(found, nil).Once()
	require.NoError(t, f.search.StartSearch(ctx))

	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate(nil), errors.New("boom")).Once()
	err := f.search.StartSearch(ctx)
	assert.Error(t, err)

	st := f.search.State()
	assert.Equal(t, PhaseNormal, st.Phase)
	assert.Equal(t, found, st.Candidates)
	assert.Equal(t, Notification{Level: NotifyError, Message: GenericErrorMessage}, f.notes.last())
}

func TestSearch_FailedRestartResumesCountdown(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	ctx := context.Background()
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{candidate(1, 12.97, 77.59)}, nil).Once()
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate(nil), errors.New("boom")).Once()
	f.repo.On("FindNearby", mock.Anything, home, 5.0).Return([]domain.CollectorCandidate{candidate(2, 12.98, 77.60)}, nil).Once()

	require.NoError(t, f.search.StartSearch(ctx))
	f.clock.Advance(10 * time.Second)

	assert.Error(t, f.search.StartSearch(ctx))
	st := f.search.State()
	assert.Equal(t, PhasePriority, st.Phase)
	assert.Equal(t, 20, st.Countdown)
	assert.Equal(t, 1, f.clock.Pending())

	f.clock.Advance(20 * time.Second)
	st = f.search.State()
	assert.Equal(t, PhaseNormal, st.Phase)
	assert.Equal(t, 0, st.Countdown)
	f.repo.AssertNumberOfCalls(t, "FindNearby", 1)

	f.clock.Advance(10 * time.Minute)
	f.repo.AssertNumberOfCalls(t, "FindNearby", 1)
	assert.Equal(t, 0, f.clock.Pending())
}

func TestSearch_SkipWhileRestartResolving(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	ctx := context.Background()
	second := []domain.CollectorCandidate{candidate(9, 12.96, 77.58)}
	entered := make(chan struct{})
	release := make(chan struct{})

	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{candidate(1, 12.97, 77.59)}, nil).Once()
	f.repo.On("FindPriority", mock.Anything, home).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(second, nil).Once()

	require.NoError(t, f.search.StartSearch(ctx))

	done := make(chan error, 1)
	go func() { done <- f.search.StartSearch(ctx) }()
	<-entered

	assert.ErrorIs(t, f.search.SkipPriority(ctx), ErrWrongPhase)

	close(release)
	require.NoError(t, <-done)

	st := f.search.State()
	assert.Equal(t, PhasePriority, st.Phase)
	assert.Equal(t, 30, st.Countdown)
	assert.Equal(t, second, st.Candidates)
	assert.Equal(t, 1, f.clock.Pending())
	f.repo.AssertNotCalled(t, "FindNearby", mock.Anything, mock.Anything, mock.Anything)

	// Once resolved the window can be skipped again
	f.repo.On("FindNearby", mock.Anything, home, 5.0).Return([]domain.CollectorCandidate{}, nil).Once()
	require.NoError(t, f.search.SkipPriority(ctx))
	assert.Equal(t, PhaseNormal, f.search.State().Phase)
}

func TestSearch_NearbyErrorDuringExpansion(t *testing.T) {
	f := newSearchFixture(DiscoveryRadiusPolicy)
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{}, nil)
	f.repo.On("FindNearby", mock.Anything, home, 1.0).Return([]domain.CollectorCandidate{}, nil).Once()
	f.repo.On("FindNearby", mock.Anything, home, 2.0).Return([]domain.CollectorCandidate(nil), errors.New("timeout")).Once()

	require.NoError(t, f.search.StartSearch(context.Background()))
	f.clock.Advance(30 * time.Second)

	assert.Equal(t, PhaseNormal, f.search.State().Phase)
	assert.Equal(t, NotifyError, f.notes.last().Level)
	// A failed step does not schedule further expansion
	assert.Equal(t, 0, f.clock.Pending())
}

func TestSearch_StopClearsTimers(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{candidate(1, 12.97, 77.59)}, nil)

	require.NoError(t, f.search.StartSearch(context.Background()))
	f.search.Stop()
	assert.Equal(t, 0, f.clock.Pending())
	assert.Equal(t, PhaseIdle, f.search.State().Phase)

	f.clock.Advance(time.Minute)
	f.repo.AssertNotCalled(t, "FindNearby", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_SelectAndOrdering(t *testing.T) {
	f := newSearchFixture(BookingRadiusPolicy)
	far := candidate(1, 13.05, 77.70)
	near := candidate(2, 12.972, 77.595)
	unknown := domain.CollectorCandidate{ID: 3, Name: "no position"}
	boosted := candidate(4, 13.10, 77.80)
	boosted.PriorityActive = true

	f.repo.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{}, nil)
	f.repo.On("FindNearby", mock.Anything, home, 5.0).Return([]domain.CollectorCandidate{unknown, far, near, boosted}, nil)
	require.NoError(t, f.search.StartSearch(context.Background()))

	var ids []int64
	for _, k := range f.search.State().Candidates {
		ids = append(ids, k.ID)
	}
	assert.Equal(t, []int64{4, 2, 1, 3}, ids)

	_, err := f.search.Select(99)
	assert.ErrorIs(t, err, ErrCollectorNotFound)

	k, err := f.search.Select(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), k.ID)
	sel, ok := f.search.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.ID)

	f.search.ClearSelection()
	_, ok = f.search.Selected()
	assert.False(t, ok)
}
