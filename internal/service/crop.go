package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/roach88/smartfarm/internal/api"
	"github.com/roach88/smartfarm/internal/domain"
)

// CropService covers /crops and /recommendation.
type CropService struct {
	doer api.Doer
}

func NewCropService(doer api.Doer) *CropService {
	return &CropService{doer: doer}
}

// CreateCrop lists a new crop for the authenticated farmer.
func (s *CropService) CreateCrop(ctx context.Context, req domain.CropCreateRequest) (*domain.Crop, error) {
	var out domain.Crop
	if err := s.doer.Do(ctx, http.MethodPost, "/crops", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadCropImage attaches a JPEG image to a crop. The part is named
// "image" with file name crop_<id>.jpg.
func (s *CropService) UploadCropImage(ctx context.Context, cropID int64, image io.Reader) (json.RawMessage, error) {
	var out json.RawMessage
	file := api.File{
		Field:       "image",
		Name:        fmt.Sprintf("crop_%d.jpg", cropID),
		ContentType: "image/jpeg",
		Content:     image,
	}
	if err := s.doer.PostMultipart(ctx, fmt.Sprintf("/crops/%d/image", cropID), file, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMyCrops lists the authenticated farmer's crops.
func (s *CropService) GetMyCrops(ctx context.Context) ([]domain.Crop, error) {
	var out []domain.Crop
	if err := s.doer.Do(ctx, http.MethodGet, "/crops/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetApprovedCrops lists the marketplace.
func (s *CropService) GetApprovedCrops(ctx context.Context) ([]domain.Crop, error) {
	var out []domain.Crop
	if err := s.doer.Do(ctx, http.MethodGet, "/crops/approved", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCropRecommendation asks the recommendation engine for suitable crops.
func (s *CropService) GetCropRecommendation(ctx context.Context, req domain.CropRecommendationRequest) (*domain.CropRecommendationResponse, error) {
	var out domain.CropRecommendationResponse
	if err := s.doer.Do(ctx, http.MethodPost, "/recommendation", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
