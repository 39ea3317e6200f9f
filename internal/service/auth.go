package service

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/roach88/smartfarm/internal/api"
	"github.com/roach88/smartfarm/internal/domain"
)

// AuthService covers the /auth endpoints.
type AuthService struct {
	doer api.Doer
}

func NewAuthService(doer api.Doer) *AuthService {
	return &AuthService{doer: doer}
}

// Login exchanges credentials for an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	var out domain.LoginResponse
	if err := s.doer.Do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new user. The response body is returned as-is.
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.doer.Do(ctx, http.MethodPost, "/auth/signup", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RequestPasswordReset asks the server to send a reset token to the mobile number.
func (s *AuthService) RequestPasswordReset(ctx context.Context, mobileNumber string) (json.RawMessage, error) {
	var out json.RawMessage
	req := domain.PasswordResetRequest{MobileNumber: mobileNumber}
	if err := s.doer.Do(ctx, http.MethodPost, "/auth/request-password-reset", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResetPassword sets a new password using a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (json.RawMessage, error) {
	var out json.RawMessage
	req := domain.ResetPasswordRequest{Token: token, NewPassword: newPassword}
	if err := s.doer.Do(ctx, http.MethodPost, "/auth/reset-password", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
