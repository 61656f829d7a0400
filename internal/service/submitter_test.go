package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kabadi-client/internal/domain"
)

func TestExpandBookingRequests(t *testing.T) {
	at := time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC)
	items := []domain.PickupItem{
		{ID: "a", Materials: []domain.MaterialType{domain.MaterialPlastic, domain.MaterialPaper}, WeightKg: ptr(10.0), ScheduledAt: &at, PickupAddress: "  5 Park St "},
		{ID: "b", Materials: []domain.MaterialType{domain.MaterialEWaste}, PickupAddress: "   "},
	}

	reqs := ExpandBookingRequests(items, 8, 42, nil)
	require.Len(t, reqs, 3)

	assert.Equal(t, domain.MaterialPlastic, reqs[0].MaterialType)
	assert.Equal(t, domain.MaterialPaper, reqs[1].MaterialType)
	for _, r := range reqs[:2] {
		assert.Equal(t, 5.0, *r.ExpectedWeightKg)
		assert.Equal(t, "5 Park St", *r.PickupAddress)
		assert.True(t, r.ScheduledAt.Equal(at))
		assert.Nil(t, r.Latitude)
	}
	// Each request owns its pointers
	assert.NotSame(t, reqs[0].ExpectedWeightKg, reqs[1].ExpectedWeightKg)

	assert.Nil(t, reqs[2].ExpectedWeightKg)
	assert.Nil(t, reqs[2].PickupAddress)
	assert.Nil(t, reqs[2].ScheduledAt)
	assert.Equal(t, int64(8), *reqs[2].KabadiWalaID)
	assert.Equal(t, int64(42), reqs[2].UserID)
}

func TestBookingSubmitter_AllSucceed(t *testing.T) {
	repo := new(MockBookingRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.BookingRequest) bool {
		return r.ExpectedWeightKg != nil && *r.ExpectedWeightKg == 5.0
	})).Return(&domain.BookingRecord{ID: 1, Status: domain.BookingStatusPending}, nil).Twice()

	items := []domain.PickupItem{{ID: "a", Materials: []domain.MaterialType{domain.MaterialPlastic, domain.MaterialPaper}, WeightKg: ptr(10.0)}}
	res, err := NewBookingSubmitter(repo, 0).Submit(context.Background(), items, &domain.CollectorCandidate{ID: 3}, 42, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Count())
	repo.AssertExpectations(t)
}

func TestBookingSubmitter_PartialFailureKeepsCreated(t *testing.T) {
	repo := new(MockBookingRepo)
	boom := errors.New("boom")
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.BookingRequest) bool {
		return r.MaterialType == domain.MaterialGlass
	})).Return(nil, boom)
	repo.On("Create", mock.Anything, mock.Anything).Return(&domain.BookingRecord{ID: 9}, nil)

	items := []domain.PickupItem{
		{ID: "a", Materials: []domain.MaterialType{domain.MaterialPlastic, domain.MaterialGlass}},
		{ID: "b", Materials: []domain.MaterialType{domain.MaterialMetal}},
	}
	res, err := NewBookingSubmitter(repo, 1).Submit(context.Background(), items, &domain.CollectorCandidate{ID: 3}, 42, nil)

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "created 2 of 3 bookings")
	assert.Equal(t, 2, res.Count())
	assert.Equal(t, 3, res.Requested)
	repo.AssertNumberOfCalls(t, "Create", 3)
}

func TestBookingSubmitter_Guards(t *testing.T) {
	s := NewBookingSubmitter(new(MockBookingRepo), 0)
	_, err := s.Submit(context.Background(), nil, &domain.CollectorCandidate{ID: 1}, 1, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = s.Submit(context.Background(), []domain.PickupItem{{ID: "a", Materials: []domain.MaterialType{domain.MaterialPaper}}}, nil, 1, nil)
	assert.ErrorIs(t, err, ErrNoCollectorSelected)
}
