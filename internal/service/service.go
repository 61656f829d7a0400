package service

import (
	"context"

	"kabadi-client/internal/domain"
)

type AuthService interface {
	SendOTP(ctx context.Context, mobile string, userType domain.UserType) (*domain.OTPResult, error)
	VerifyOTP(ctx context.Context, mobile, otp string, userType domain.UserType) (*domain.AuthResult, error)
	RegisterCitizen(ctx context.Context, req *domain.CitizenRegistration) (*domain.AuthResult, error)
	RegisterKabadi(ctx context.Context, req *domain.KabadiRegistration) (*domain.AuthResult, error)
	AdminLogin(ctx context.Context, username, password string) (*domain.AuthResult, error)
	Logout(ctx context.Context) error
}

type ProfileService interface {
	GetCitizenProfile(ctx context.Context) (*domain.CitizenProfile, error)
	UpdateCitizenProfile(ctx context.Context, fields map[string]string) (*domain.CitizenProfile, error)
	GetKabadiProfile(ctx context.Context) (*domain.KabadiProfile, error)
	UpdateKabadiProfile(ctx context.Context, fields map[string]string) (*domain.KabadiProfile, error)
	UpdateLanguage(ctx context.Context, language string) error
}

type DashboardService interface {
	CitizenDashboard(ctx context.Context, period domain.Period) (*domain.CitizenDashboard, []domain.TransactionRecord, error)
	KabadiDashboard(ctx context.Context, period domain.Period) (*domain.KabadiDashboard, []domain.TransactionRecord, error)
}

type KCoinsService interface {
	GetStatus(ctx context.Context) (*domain.KCoinsStatus, error)
	Redeem(ctx context.Context, commodity string) (*domain.RedeemResult, error)
}

type BookingService interface {
	ListCitizenBookings(ctx context.Context) ([]domain.BookingRecord, error)
	ListKabadiBookings(ctx context.Context) ([]domain.BookingRecord, error)
	CancelBooking(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.BookingRecord, error)
	UpdateBooking(ctx context.Context, id int64, upd *domain.BookingUpdate) (*domain.BookingRecord, error)
}
