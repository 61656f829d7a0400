package service

import (
	"context"
	"slices"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/repository"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	session     *Session
}

func NewBookingService(bookingRepo repository.BookingRepository, session *Session) BookingService {
	return &bookingService{bookingRepo: bookingRepo, session: session}
}

func (s *bookingService) ListCitizenBookings(ctx context.Context) ([]domain.BookingRecord, error) {
	if _, err := s.session.Require(domain.UserTypeCitizen); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListByCitizen(ctx)
}

func (s *bookingService) ListKabadiBookings(ctx context.Context) ([]domain.BookingRecord, error) {
	if _, err := s.session.Require(domain.UserTypeKabadi); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListByKabadi(ctx)
}

// CancelBooking cancels one of the citizen's bookings. Only PENDING bookings
// can be cancelled; this is checked before the call.
func (s *bookingService) CancelBooking(ctx context.Context, id int64) error {
	logger.EnterMethod("bookingService.CancelBooking", "bookingId", id)

	if _, err := s.session.Require(domain.UserTypeCitizen); err != nil {
		return err
	}
	b, err := s.find(ctx, s.bookingRepo.ListByCitizen, id)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "bookingId", id)
		return err
	}
	if b.Status != domain.BookingStatusPending {
		logger.ExitMethodWithError("bookingService.CancelBooking", ErrBookingNotPending, "bookingId", id, "status", b.Status)
		return ErrBookingNotPending
	}
	if err := s.bookingRepo.Cancel(ctx, id); err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "bookingId", id)
		return err
	}

	logger.ExitMethod("bookingService.CancelBooking", "bookingId", id)
	return nil
}

// UpdateStatus moves a collector's booking to COMPLETED or CANCELLED
func (s *bookingService) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.BookingRecord, error) {
	logger.EnterMethod("bookingService.UpdateStatus", "bookingId", id, "status", status)

	if _, err := s.session.Require(domain.UserTypeKabadi); err != nil {
		return nil, err
	}
	b, err := s.find(ctx, s.bookingRepo.ListByKabadi, id)
	if err != nil {
		logger.ExitMethodWithError("bookingService.UpdateStatus", err, "bookingId", id)
		return nil, err
	}
	if !b.Status.CanTransitionTo(status) {
		logger.ExitMethodWithError("bookingService.UpdateStatus", domain.ErrInvalidTransition, "from", b.Status, "to", status)
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		logger.ExitMethodWithError("bookingService.UpdateStatus", err, "bookingId", id)
		return nil, err
	}
	logger.ExitMethod("bookingService.UpdateStatus", "bookingId", id, "status", updated.Status)
	return updated, nil
}

// UpdateBooking edits material or weight of a PENDING booking
func (s *bookingService) UpdateBooking(ctx context.Context, id int64, upd *domain.BookingUpdate) (*domain.BookingRecord, error) {
	if _, err := s.session.Require(domain.UserTypeKabadi); err != nil {
		return nil, err
	}
	if upd.MaterialType != nil && !upd.MaterialType.Valid() {
		return nil, domain.ErrUnknownMaterial
	}
	if upd.ExpectedWeightKg != nil && !domain.ValidAmount(*upd.ExpectedWeightKg) {
		return nil, ErrInvalidWeight
	}

	b, err := s.find(ctx, s.bookingRepo.ListByKabadi, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingStatusPending {
		return nil, ErrBookingNotPending
	}
	return s.bookingRepo.Update(ctx, id, upd)
}

func (s *bookingService) find(ctx context.Context, list func(context.Context) ([]domain.BookingRecord, error), id int64) (*domain.BookingRecord, error) {
	bookings, err := list(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(bookings, func(b domain.BookingRecord) bool { return b.ID == id })
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	return &bookings[idx], nil
}
