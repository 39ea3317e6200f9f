package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/roach88/smartfarm/internal/api"
	"github.com/roach88/smartfarm/internal/domain"
)

// UserService covers the /users endpoints.
type UserService struct {
	doer api.Doer
}

func NewUserService(doer api.Doer) *UserService {
	return &UserService{doer: doer}
}

// GetMyProfile fetches the authenticated user.
func (s *UserService) GetMyProfile(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := s.doer.Do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditUser updates the authenticated user's name and mobile number.
func (s *UserService) EditUser(ctx context.Context, req domain.UserEditRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.doer.Do(ctx, http.MethodPut, "/users/edit", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAllUsers lists every user. Admin only, enforced server-side.
func (s *UserService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := s.doer.Do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes a user by id.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.doer.Do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
