package service

import (
	"context"
	"strings"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/repository"
	"kabadi-client/internal/utils"
)

// supportedLanguages are the UI translations available
var supportedLanguages = map[string]bool{"en": true, "hi": true, "kn": true, "ta": true, "te": true, "mr": true}

type profileService struct {
	citizenRepo repository.CitizenRepository
	kabadiRepo  repository.KabadiRepository
	session     *Session
}

func NewProfileService(citizenRepo repository.CitizenRepository, kabadiRepo repository.KabadiRepository, session *Session) ProfileService {
	return &profileService{citizenRepo: citizenRepo, kabadiRepo: kabadiRepo, session: session}
}

func (s *profileService) GetCitizenProfile(ctx context.Context) (*domain.CitizenProfile, error) {
	if _, err := s.session.Require(domain.UserTypeCitizen); err != nil {
		return nil, err
	}
	return s.citizenRepo.GetProfile(ctx)
}

func (s *profileService) UpdateCitizenProfile(ctx context.Context, fields map[string]string) (*domain.CitizenProfile, error) {
	if _, err := s.session.Require(domain.UserTypeCitizen); err != nil {
		return nil, err
	}
	if name, ok := fields["name"]; ok && strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if pin, ok := fields["pincode"]; ok && !utils.IsValidPincode(pin) {
		return nil, ErrInvalidPincode
	}
	return s.citizenRepo.UpdateProfile(ctx, fields)
}

func (s *profileService) GetKabadiProfile(ctx context.Context) (*domain.KabadiProfile, error) {
	if _, err := s.session.Require(domain.UserTypeKabadi); err != nil {
		return nil, err
	}
	return s.kabadiRepo.GetProfile(ctx)
}

func (s *profileService) UpdateKabadiProfile(ctx context.Context, fields map[string]string) (*domain.KabadiProfile, error) {
	if _, err := s.session.Require(domain.UserTypeKabadi); err != nil {
		return nil, err
	}
	if name, ok := fields["name"]; ok && strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if pin, ok := fields["pincode"]; ok && pin != "" && !utils.IsValidPincode(pin) {
		return nil, ErrInvalidPincode
	}
	return s.kabadiRepo.UpdateProfile(ctx, fields)
}

// UpdateLanguage stores the preferred language on whichever profile is
// logged in. Unknown languages fall back to English.
func (s *profileService) UpdateLanguage(ctx context.Context, language string) error {
	u, err := s.session.Require()
	if err != nil {
		return err
	}
	if !supportedLanguages[language] {
		language = "en"
	}
	switch u.UserType {
	case domain.UserTypeCitizen:
		return s.citizenRepo.UpdateLanguage(ctx, language)
	case domain.UserTypeKabadi:
		return s.kabadiRepo.UpdateLanguage(ctx, language)
	default:
		return ErrForbidden
	}
}

type dashboardService struct {
	citizenRepo repository.CitizenRepository
	kabadiRepo  repository.KabadiRepository
	session     *Session
}

func NewDashboardService(citizenRepo repository.CitizenRepository, kabadiRepo repository.KabadiRepository, session *Session) DashboardService {
	return &dashboardService{citizenRepo: citizenRepo, kabadiRepo: kabadiRepo, session: session}
}

func (s *dashboardService) CitizenDashboard(ctx context.Context, period domain.Period) (*domain.CitizenDashboard, []domain.TransactionRecord, error) {
	if _, err := s.session.Require(domain.UserTypeCitizen); err != nil {
		return nil, nil, err
	}
	summary, err := s.citizenRepo.GetDashboard(ctx, period)
	if err != nil {
		return nil, nil, err
	}
	txns, err := s.citizenRepo.ListTransactions(ctx, period)
	if err != nil {
		return nil, nil, err
	}
	return summary, txns, nil
}

func (s *dashboardService) KabadiDashboard(ctx context.Context, period domain.Period) (*domain.KabadiDashboard, []domain.TransactionRecord, error) {
	if _, err := s.session.Require(domain.UserTypeKabadi); err != nil {
		return nil, nil, err
	}
	summary, err := s.kabadiRepo.GetDashboard(ctx, period)
	if err != nil {
		return nil, nil, err
	}
	txns, err := s.kabadiRepo.ListTransactions(ctx, period)
	if err != nil {
		return nil, nil, err
	}
	return summary, txns, nil
}
