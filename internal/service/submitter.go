package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/repository"
)

// SubmissionResult reports a batch booking submission
type SubmissionResult struct {
	Requested int                    `json:"requested"`
	Created   []domain.BookingRecord `json:"created"`
}

// Count is the number of bookings created
func (r *SubmissionResult) Count() int {
	return len(r.Created)
}

// BookingSubmitter turns a pickup cart into backend booking records, one per
// (item, material) pair.
//
// The batch is best-effort with no rollback: every request is issued and
// awaited, and bookings that succeeded stay persisted even when another
// request of the same batch fails.
type BookingSubmitter struct {
	repo  repository.BookingRepository
	limit int
}

// NewBookingSubmitter caps in-flight requests at limit; 0 means unbounded
func NewBookingSubmitter(repo repository.BookingRepository, limit int) *BookingSubmitter {
	return &BookingSubmitter{repo: repo, limit: limit}
}

// ExpandBookingRequests builds the create payloads for items. Each item's
// weight is split evenly across its materials.
func ExpandBookingRequests(items []domain.PickupItem, collectorID, ownerID int64, at *domain.Coordinate) []domain.BookingRequest {
	var reqs []domain.BookingRequest
	for _, item := range items {
		weight := item.WeightPerMaterial()
		var scheduled *domain.LocalTime
		if item.ScheduledAt != nil {
			scheduled = domain.NewLocalTime(*item.ScheduledAt)
		}
		var address *string
		if a := strings.TrimSpace(item.PickupAddress); a != "" {
			address = &a
		}

		for _, m := range item.Materials {
			kid := collectorID
			req := domain.BookingRequest{
				UserID:        ownerID,
				KabadiWalaID:  &kid,
				MaterialType:  m,
				ScheduledAt:   scheduled,
				PickupAddress: address,
			}
			if weight != nil {
				w := *weight
				req.ExpectedWeightKg = &w
			}
			if at != nil {
				lat, lng := at.Lat, at.Lng
				req.Latitude = &lat
				req.Longitude = &lng
			}
			reqs = append(reqs, req)
		}
	}
	return reqs
}

// Submit issues all creation calls concurrently and waits for every one to
// settle. On failure the returned result still lists what was created.
func (s *BookingSubmitter) Submit(ctx context.Context, items []domain.PickupItem, collector *domain.CollectorCandidate, ownerID int64, at *domain.Coordinate) (*SubmissionResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if collector == nil {
		return nil, ErrNoCollectorSelected
	}

	reqs := ExpandBookingRequests(items, collector.ID, ownerID, at)
	logger.EnterMethod("BookingSubmitter.Submit", "items", len(items), "bookings", len(reqs), "collectorId", collector.ID)

	records := make([]*domain.BookingRecord, len(reqs))
	var failed atomic.Int32

	// No shared context cancellation: a failure must not abort siblings
	var g errgroup.Group
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}
	for i := range reqs {
		g.Go(func() error {
			rec, err := s.repo.Create(ctx, &reqs[i])
			if err != nil {
				failed.Add(1)
				return err
			}
			records[i] = rec
			return nil
		})
	}
	err := g.Wait()

	result := &SubmissionResult{Requested: len(reqs)}
	for _, rec := range records {
		if rec != nil {
			result.Created = append(result.Created, *rec)
		}
	}

	if err != nil {
		logger.ExitMethodWithError("BookingSubmitter.Submit", err, "created", len(result.Created), "failed", failed.Load())
		return result, fmt.Errorf("created %d of %d bookings: %w", len(result.Created), len(reqs), err)
	}
	logger.ExitMethod("BookingSubmitter.Submit", "created", len(result.Created))
	return result, nil
}
