package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/roach88/smartfarm/internal/api"
	"github.com/roach88/smartfarm/internal/domain"
)

// AdminService covers /admin.
type AdminService struct {
	doer api.Doer
}

func NewAdminService(doer api.Doer) *AdminService {
	return &AdminService{doer: doer}
}

// ApproveCrop moves a pending crop to the marketplace.
func (s *AdminService) ApproveCrop(ctx context.Context, cropID int64) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.doer.Do(ctx, http.MethodPost, fmt.Sprintf("/admin/approve-crop/%d", cropID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRole replaces a user's roles.
func (s *AdminService) UpdateRole(ctx context.Context, req domain.RoleUpdateRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.doer.Do(ctx, http.MethodPost, "/admin/update-role", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
