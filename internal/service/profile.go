package service

import (
	"context"
	"net/http"

	"github.com/roach88/smartfarm/internal/api"
	"github.com/roach88/smartfarm/internal/domain"
)

// FarmerService covers /farmer/profile.
type FarmerService struct {
	doer api.Doer
}

func NewFarmerService(doer api.Doer) *FarmerService {
	return &FarmerService{doer: doer}
}

func (s *FarmerService) GetFarmerProfile(ctx context.Context) (*domain.FarmerProfile, error) {
	var out domain.FarmerProfile
	if err := s.doer.Do(ctx, http.MethodGet, "/farmer/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FarmerService) SaveFarmerProfile(ctx context.Context, req domain.FarmerProfileRequest) (*domain.FarmerProfile, error) {
	var out domain.FarmerProfile
	if err := s.doer.Do(ctx, http.MethodPost, "/farmer/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuyerService covers /buyer/profile.
type BuyerService struct {
	doer api.Doer
}

func NewBuyerService(doer api.Doer) *BuyerService {
	return &BuyerService{doer: doer}
}

func (s *BuyerService) GetBuyerProfile(ctx context.Context) (*domain.BuyerProfile, error) {
	var out domain.BuyerProfile
	if err := s.doer.Do(ctx, http.MethodGet, "/buyer/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BuyerService) SaveBuyerProfile(ctx context.Context, req domain.BuyerProfileRequest) (*domain.BuyerProfile, error) {
	var out domain.BuyerProfile
	if err := s.doer.Do(ctx, http.MethodPost, "/buyer/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
