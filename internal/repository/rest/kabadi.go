package rest

import (
	"context"
	"net/url"
	"strconv"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/repository"
)

type kabadiRepository struct {
	client *Client
}

func NewKabadiRepository(client *Client) repository.KabadiRepository {
	return &kabadiRepository{client: client}
}

func (r *kabadiRepository) GetProfile(ctx context.Context) (*domain.KabadiProfile, error) {
	var p domain.KabadiProfile
	if err := r.client.get(ctx, "/kabadi/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *kabadiRepository) UpdateProfile(ctx context.Context, fields map[string]string) (*domain.KabadiProfile, error) {
	var p domain.KabadiProfile
	if err := r.client.put(ctx, "/kabadi/profile", fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *kabadiRepository) GetDashboard(ctx context.Context, period domain.Period) (*domain.KabadiDashboard, error) {
	var d domain.KabadiDashboard
	if err := r.client.get(ctx, "/kabadi/dashboard", periodQuery(period), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *kabadiRepository) ListTransactions(ctx context.Context, period domain.Period) ([]domain.TransactionRecord, error) {
	var txs []domain.TransactionRecord
	if err := r.client.get(ctx, "/kabadi/transactions", periodQuery(period), &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *kabadiRepository) UpdateLanguage(ctx context.Context, language string) error {
	return r.client.put(ctx, "/kabadi/language", map[string]string{"language": language}, nil)
}

func (r *kabadiRepository) GetKCoins(ctx context.Context) (*domain.KCoinsStatus, error) {
	var st domain.KCoinsStatus
	if err := r.client.get(ctx, "/kabadi/kcoins", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *kabadiRepository) RedeemKCoins(ctx context.Context, commodity string) (*domain.RedeemResult, error) {
	var res domain.RedeemResult
	body := map[string]string{"selectedCommodity": commodity}
	if err := r.client.post(ctx, "/kabadi/kcoins/redeem", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type collectorRepository struct {
	client *Client
}

func NewCollectorRepository(client *Client) repository.CollectorRepository {
	return &collectorRepository{client: client}
}

func (r *collectorRepository) FindPriority(ctx context.Context, at domain.Coordinate) ([]domain.CollectorCandidate, error) {
	var list []domain.CollectorCandidate
	if err := r.client.get(ctx, "/kabadi/priority", coordQuery(at), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *collectorRepository) FindNearby(ctx context.Context, at domain.Coordinate, radiusKm float64) ([]domain.CollectorCandidate, error) {
	q := coordQuery(at)
	q.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	var list []domain.CollectorCandidate
	if err := r.client.get(ctx, "/kabadi/nearby", q, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func coordQuery(at domain.Coordinate) url.Values {
	return url.Values{
		"lat": {strconv.FormatFloat(at.Lat, 'f', -1, 64)},
		"lng": {strconv.FormatFloat(at.Lng, 'f', -1, 64)},
	}
}
