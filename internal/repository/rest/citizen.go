package rest

import (
	"context"
	"net/url"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/repository"
)

type citizenRepository struct {
	client *Client
}

func NewCitizenRepository(client *Client) repository.CitizenRepository {
	return &citizenRepository{client: client}
}

func (r *citizenRepository) GetProfile(ctx context.Context) (*domain.CitizenProfile, error) {
	var p domain.CitizenProfile
	if err := r.client.get(ctx, "/citizen/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *citizenRepository) UpdateProfile(ctx context.Context, fields map[string]string) (*domain.CitizenProfile, error) {
	var p domain.CitizenProfile
	if err := r.client.put(ctx, "/citizen/profile", fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *citizenRepository) GetDashboard(ctx context.Context, period domain.Period) (*domain.CitizenDashboard, error) {
	var d domain.CitizenDashboard
	if err := r.client.get(ctx, "/citizen/dashboard", periodQuery(period), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *citizenRepository) ListTransactions(ctx context.Context, period domain.Period) ([]domain.TransactionRecord, error) {
	var txs []domain.TransactionRecord
	if err := r.client.get(ctx, "/citizen/transactions", periodQuery(period), &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *citizenRepository) UpdateLanguage(ctx context.Context, language string) error {
	return r.client.put(ctx, "/citizen/language", map[string]string{"language": language}, nil)
}

func periodQuery(period domain.Period) url.Values {
	if period == domain.PeriodAll {
		return nil
	}
	return url.Values{"filter": {string(period)}}
}
