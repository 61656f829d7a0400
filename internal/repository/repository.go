package repository

import (
	"context"

	"kabadi-client/internal/domain"
)

type AuthRepository interface {
	SendOTP(ctx context.Context, mobile string, userType domain.UserType) (*domain.OTPResult, error)
	VerifyOTP(ctx context.Context, mobile, otp string, userType domain.UserType) (*domain.AuthResult, error)
	RegisterCitizen(ctx context.Context, req *domain.CitizenRegistration) (*domain.AuthResult, error)
	RegisterKabadi(ctx context.Context, req *domain.KabadiRegistration) (*domain.AuthResult, error)
	AdminLogin(ctx context.Context, username, password string) (*domain.AuthResult, error)
}

type CitizenRepository interface {
	GetProfile(ctx context.Context) (*domain.CitizenProfile, error)
	UpdateProfile(ctx context.Context, fields map[string]string) (*domain.CitizenProfile, error)
	GetDashboard(ctx context.Context, period domain.Period) (*domain.CitizenDashboard, error)
	ListTransactions(ctx context.Context, period domain.Period) ([]domain.TransactionRecord, error)
	UpdateLanguage(ctx context.Context, language string) error
}

type KabadiRepository interface {
	GetProfile(ctx context.Context) (*domain.KabadiProfile, error)
	UpdateProfile(ctx context.Context, fields map[string]string) (*domain.KabadiProfile, error)
	GetDashboard(ctx context.Context, period domain.Period) (*domain.KabadiDashboard, error)
	ListTransactions(ctx context.Context, period domain.Period) ([]domain.TransactionRecord, error)
	UpdateLanguage(ctx context.Context, language string) error
	GetKCoins(ctx context.Context) (*domain.KCoinsStatus, error)
	RedeemKCoins(ctx context.Context, commodity string) (*domain.RedeemResult, error)
}

// CollectorRepository runs the two discovery queries. Priority is a separate
// query because eligibility is time-windowed server-side.
type CollectorRepository interface {
	FindPriority(ctx context.Context, at domain.Coordinate) ([]domain.CollectorCandidate, error)
	FindNearby(ctx context.Context, at domain.Coordinate, radiusKm float64) ([]domain.CollectorCandidate, error)
}

type BookingRepository interface {
	Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRecord, error)
	ListByCitizen(ctx context.Context) ([]domain.BookingRecord, error)
	ListByKabadi(ctx context.Context) ([]domain.BookingRecord, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.BookingRecord, error)
	Update(ctx context.Context, id int64, upd *domain.BookingUpdate) (*domain.BookingRecord, error)
	Cancel(ctx context.Context, id int64) error
}

type TransactionRepository interface {
	Log(ctx context.Context, req *domain.TransactionRequest) (*domain.TransactionResult, error)
}
