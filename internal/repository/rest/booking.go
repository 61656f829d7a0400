package rest

import (
	"context"
	"fmt"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/repository"
)

type bookingRepository struct {
	client *Client
}

func NewBookingRepository(client *Client) repository.BookingRepository {
	return &bookingRepository{client: client}
}

func (r *bookingRepository) Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRecord, error) {
	var b domain.BookingRecord
	if err := r.client.post(ctx, "/bookings", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) ListByCitizen(ctx context.Context) ([]domain.BookingRecord, error) {
	var list []domain.BookingRecord
	if err := r.client.get(ctx, "/bookings/citizen", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *bookingRepository) ListByKabadi(ctx context.Context) ([]domain.BookingRecord, error) {
	var list []domain.BookingRecord
	if err := r.client.get(ctx, "/bookings/kabadi", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.BookingRecord, error) {
	var b domain.BookingRecord
	body := map[string]domain.BookingStatus{"status": status}
	if err := r.client.patch(ctx, fmt.Sprintf("/bookings/%d/status", id), body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Update(ctx context.Context, id int64, upd *domain.BookingUpdate) (*domain.BookingRecord, error) {
	var b domain.BookingRecord
	if err := r.client.put(ctx, fmt.Sprintf("/bookings/%d", id), upd, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id int64) error {
	return r.client.delete(ctx, fmt.Sprintf("/bookings/%d", id))
}

type transactionRepository struct {
	client *Client
}

func NewTransactionRepository(client *Client) repository.TransactionRepository {
	return &transactionRepository{client: client}
}

func (r *transactionRepository) Log(ctx context.Context, req *domain.TransactionRequest) (*domain.TransactionResult, error) {
	var res domain.TransactionResult
	if err := r.client.post(ctx, "/transactions", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
