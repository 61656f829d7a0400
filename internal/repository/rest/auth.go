package rest

import (
	"context"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/repository"
)

type authRepository struct {
	client *Client
}

func NewAuthRepository(client *Client) repository.AuthRepository {
	return &authRepository{client: client}
}

func (r *authRepository) SendOTP(ctx context.Context, mobile string, userType domain.UserType) (*domain.OTPResult, error) {
	body := map[string]any{"mobile": mobile, "userType": userType}
	var res domain.OTPResult
	if err := r.client.post(ctx, "/auth/send-otp", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *authRepository) VerifyOTP(ctx context.Context, mobile, otp string, userType domain.UserType) (*domain.AuthResult, error) {
	body := map[string]any{"mobile": mobile, "otp": otp, "userType": userType}
	var res domain.AuthResult
	if err := r.client.post(ctx, "/auth/verify-otp", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *authRepository) RegisterCitizen(ctx context.Context, req *domain.CitizenRegistration) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := r.client.post(ctx, "/auth/register/citizen", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *authRepository) RegisterKabadi(ctx context.Context, req *domain.KabadiRegistration) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := r.client.post(ctx, "/auth/register/kabadi", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *authRepository) AdminLogin(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res domain.AuthResult
	if err := r.client.post(ctx, "/auth/admin/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
