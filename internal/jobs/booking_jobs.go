package jobs

import (
	"context"
	"fmt"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/service"
)

// PollBookings lists the session's bookings and reports new pickups and
// status changes since the previous poll. The first poll after a login only
// records the current state.
func (jr *JobRunner) PollBookings() {
	jr.runWithRecovery("PollBookings", func(ctx context.Context) {
		if _, err := jr.pollBookings(ctx); err != nil {
			logger.Error("Failed to poll bookings", "error", err)
		}
	})
}

func (jr *JobRunner) pollBookings(ctx context.Context) (int, error) {
	u, ok := jr.session.Current()
	if !ok {
		jr.resetBookings()
		return 0, nil
	}

	var (
		list []domain.BookingRecord
		err  error
	)
	switch u.UserType {
	case domain.UserTypeCitizen:
		list, err = jr.services.Bookings.ListCitizenBookings(ctx)
	case domain.UserTypeKabadi:
		list, err = jr.services.Bookings.ListKabadiBookings(ctx)
	default:
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	jr.mu.Lock()
	if jr.seeded && jr.seededAs != u {
		jr.bookingStatus = make(map[int64]domain.BookingStatus)
		jr.seeded = false
	}
	var messages []string
	for _, b := range list {
		prev, known := jr.bookingStatus[b.ID]
		jr.bookingStatus[b.ID] = b.Status
		if !jr.seeded {
			continue
		}
		switch {
		case !known && u.UserType == domain.UserTypeKabadi:
			messages = append(messages, fmt.Sprintf("New pickup request #%d: %s", b.ID, b.MaterialType))
		case known && prev != b.Status:
			messages = append(messages, fmt.Sprintf("Booking #%d is now %s", b.ID, b.Status))
		}
	}
	jr.seeded = true
	jr.seededAs = u
	jr.mu.Unlock()

	for _, msg := range messages {
		jr.notifier.Notify(service.NotifyInfo, msg)
	}
	logger.Debug("Bookings polled", "count", len(list), "changes", len(messages))
	return len(messages), nil
}

func (jr *JobRunner) resetBookings() {
	jr.mu.Lock()
	jr.bookingStatus = make(map[int64]domain.BookingStatus)
	jr.seeded = false
	jr.mu.Unlock()
}
