package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/stretchr/testify/mock"

	"kabadi-client/internal/domain"
)

// MockAuthRepo
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) SendOTP(ctx context.Context, mobile string, userType domain.UserType) (*domain.OTPResult, error) {
	args := m.Called(ctx, mobile, userType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OTPResult), args.Error(1)
}
func (m *MockAuthRepo) VerifyOTP(ctx context.Context, mobile, otp string, userType domain.UserType) (*domain.AuthResult, error) {
	args := m.Called(ctx, mobile, otp, userType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}
func (m *MockAuthRepo) RegisterCitizen(ctx context.Context, req *domain.CitizenRegistration) (*domain.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}
func (m *MockAuthRepo) RegisterKabadi(ctx context.Context, req *domain.KabadiRegistration) (*domain.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}
func (m *MockAuthRepo) AdminLogin(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

// MockCitizenRepo
type MockCitizenRepo struct {
	mock.Mock
}

func (m *MockCitizenRepo) GetProfile(ctx context.Context) (*domain.CitizenProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CitizenProfile), args.Error(1)
}
func (m *MockCitizenRepo) UpdateProfile(ctx context.Context, fields map[string]string) (*domain.CitizenProfile, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CitizenProfile), args.Error(1)
}
func (m *MockCitizenRepo) GetDashboard(ctx context.Context, period domain.Period) (*domain.CitizenDashboard, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CitizenDashboard), args.Error(1)
}
func (m *MockCitizenRepo) ListTransactions(ctx context.Context, period domain.Period) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, period)
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}
func (m *MockCitizenRepo) UpdateLanguage(ctx context.Context, language string) error {
	args := m.Called(ctx, language)
	return args.Error(0)
}

// MockKabadiRepo
type MockKabadiRepo struct {
	mock.Mock
}

func (m *MockKabadiRepo) GetProfile(ctx context.Context) (*domain.KabadiProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KabadiProfile), args.Error(1)
}
func (m *MockKabadiRepo) UpdateProfile(ctx context.Context, fields map[string]string) (*domain.KabadiProfile, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KabadiProfile), args.Error(1)
}
func (m *MockKabadiRepo) GetDashboard(ctx context.Context, period domain.Period) (*domain.KabadiDashboard, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KabadiDashboard), args.Error(1)
}
func (m *MockKabadiRepo) ListTransactions(ctx context.Context, period domain.Period) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, period)
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}
func (m *MockKabadiRepo) UpdateLanguage(ctx context.Context, language string) error {
	args := m.Called(ctx, language)
	return args.Error(0)
}
func (m *MockKabadiRepo) GetKCoins(ctx context.Context) (*domain.KCoinsStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KCoinsStatus), args.Error(1)
}
func (m *MockKabadiRepo) RedeemKCoins(ctx context.Context, commodity string) (*domain.RedeemResult, error) {
	args := m.Called(ctx, commodity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RedeemResult), args.Error(1)
}

// MockCollectorRepo
type MockCollectorRepo struct {
	mock.Mock
}

func (m *MockCollectorRepo) FindPriority(ctx context.Context, at domain.Coordinate) ([]domain.CollectorCandidate, error) {
	args := m.Called(ctx, at)
	return args.Get(0).([]domain.CollectorCandidate), args.Error(1)
}
func (m *MockCollectorRepo) FindNearby(ctx context.Context, at domain.Coordinate, radiusKm float64) ([]domain.CollectorCandidate, error) {
	args := m.Called(ctx, at, radiusKm)
	return args.Get(0).([]domain.CollectorCandidate), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRecord), args.Error(1)
}
func (m *MockBookingRepo) ListByCitizen(ctx context.Context) ([]domain.BookingRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingRecord), args.Error(1)
}
func (m *MockBookingRepo) ListByKabadi(ctx context.Context) ([]domain.BookingRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingRecord), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.BookingRecord, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRecord), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, id int64, upd *domain.BookingUpdate) (*domain.BookingRecord, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRecord), args.Error(1)
}
func (m *MockBookingRepo) Cancel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Log(ctx context.Context, req *domain.TransactionRequest) (*domain.TransactionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionResult), args.Error(1)
}

// recordingNotifier keeps every notification for assertions
type recordingNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recordingNotifier) Notify(level NotificationLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

func (r *recordingNotifier) levels() []NotificationLevel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]NotificationLevel, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Level)
	}
	return out
}

func (r *recordingNotifier) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}
	}
	return r.items[len(r.items)-1]
}

// sequentialIDs returns "item-1", "item-2", ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "item-" + strconv.Itoa(n)
	}
}

func ptr[T any](v T) *T {
	return &v
}
