package service

import (
	"context"
	"strings"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/repository"
	"kabadi-client/internal/utils"
)

type authService struct {
	authRepo repository.AuthRepository
	session  *Session
}

func NewAuthService(authRepo repository.AuthRepository, session *Session) AuthService {
	return &authService{authRepo: authRepo, session: session}
}

func (s *authService) SendOTP(ctx context.Context, mobile string, userType domain.UserType) (*domain.OTPResult, error) {
	if !utils.IsValidMobile(mobile) {
		return nil, ErrInvalidMobile
	}
	if err := checkPortalType(userType); err != nil {
		return nil, err
	}
	return s.authRepo.SendOTP(ctx, mobile, userType)
}

func (s *authService) VerifyOTP(ctx context.Context, mobile, otp string, userType domain.UserType) (*domain.AuthResult, error) {
	logger.EnterMethod("authService.VerifyOTP", "userType", userType)

	if !utils.IsValidMobile(mobile) {
		return nil, ErrInvalidMobile
	}
	if strings.TrimSpace(otp) == "" {
		return nil, ErrOTPRequired
	}
	if err := checkPortalType(userType); err != nil {
		return nil, err
	}

	res, err := s.authRepo.VerifyOTP(ctx, mobile, otp, userType)
	if err != nil {
		logger.ExitMethodWithError("authService.VerifyOTP", err)
		return nil, err
	}

	// New users get no token until they register
	if !res.IsNewUser && res.Token != "" {
		if err := s.login(ctx, res, userType); err != nil {
			logger.ExitMethodWithError("authService.VerifyOTP", err)
			return nil, err
		}
	}

	logger.ExitMethod("authService.VerifyOTP", "isNewUser", res.IsNewUser)
	return res, nil
}

func (s *authService) RegisterCitizen(ctx context.Context, req *domain.CitizenRegistration) (*domain.AuthResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if !utils.IsValidMobile(req.Mobile) {
		return nil, ErrInvalidMobile
	}
	if !utils.IsValidPincode(req.Pincode) {
		return nil, ErrInvalidPincode
	}

	res, err := s.authRepo.RegisterCitizen(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.login(ctx, res, domain.UserTypeCitizen); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *authService) RegisterKabadi(ctx context.Context, req *domain.KabadiRegistration) (*domain.AuthResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if !utils.IsValidMobile(req.Mobile) {
		return nil, ErrInvalidMobile
	}
	if req.Pincode != "" && !utils.IsValidPincode(req.Pincode) {
		return nil, ErrInvalidPincode
	}

	res, err := s.authRepo.RegisterKabadi(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.login(ctx, res, domain.UserTypeKabadi); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *authService) AdminLogin(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrCredentials
	}

	res, err := s.authRepo.AdminLogin(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := s.login(ctx, res, domain.UserTypeAdmin); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if u, ok := s.session.Current(); ok {
		logger.WithSession(string(u.UserType), u.UserID).Info("Logging out")
	}
	return s.session.Logout(ctx)
}

func (s *authService) login(ctx context.Context, res *domain.AuthResult, fallback domain.UserType) error {
	userType := res.UserType
	if userType == "" {
		userType = fallback
	}
	return s.session.Login(ctx, res.Token, SessionUser{
		UserType: userType,
		UserID:   res.UserID,
		Name:     res.Name,
	})
}

func checkPortalType(t domain.UserType) error {
	if t != domain.UserTypeCitizen && t != domain.UserTypeKabadi {
		return ErrUnknownUserType
	}
	return nil
}
