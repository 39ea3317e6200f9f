package domain

import "encoding/json"

// CropStatus is the moderation state of a listed crop.
type CropStatus string

const (
	CropPending  CropStatus = "PENDING"
	CropApproved CropStatus = "APPROVED"
	CropRejected CropStatus = "REJECTED"
)

// Crop is a crop listing owned by a farmer.
type Crop struct {
	ID           int64          `json:"id"`
	Farmer       *FarmerProfile `json:"farmer,omitempty"`
	CropName     string         `json:"cropName"`
	Quantity     float64        `json:"quantity"`
	PricePerUnit float64        `json:"pricePerUnit"`
	HarvestDate  string         `json:"harvestDate"`
	ImageURL     *string        `json:"imageUrl"`
	Status       CropStatus     `json:"status"`
}

// CropCreateRequest is the body of POST /crops.
type CropCreateRequest struct {
	CropName     string  `json:"cropName" validate:"required,nonblank"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
	PricePerUnit float64 `json:"pricePerUnit" validate:"gt=0"`
	HarvestDate  string  `json:"harvestDate" validate:"required,datetime=2006-01-02"`
}

// CropRecommendationRequest is the body of POST /recommendation.
type CropRecommendationRequest struct {
	District string `json:"district" validate:"required,nonblank"`
	State    string `json:"state" validate:"required,nonblank"`
	SoilType string `json:"soilType" validate:"required,nonblank"`
	Season   string `json:"season" validate:"required,nonblank"`
}

// CropRecommendationResponse lists recommended crops. Any other fields the
// server returns are kept in Extra.
type CropRecommendationResponse struct {
	Recommendations []string                   `json:"recommendations"`
	Extra           map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known field and keeps the rest.
func (r *CropRecommendationResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if recs, ok := raw["recommendations"]; ok {
		if err := json.Unmarshal(recs, &r.Recommendations); err != nil {
			return err
		}
		delete(raw, "recommendations")
	}
	if len(raw) > 0 {
		r.Extra = raw
	}
	return nil
}

// FilterCrops returns the crops with the given status, preserving order.
func FilterCrops(crops []Crop, status CropStatus) []Crop {
	var out []Crop
	for _, c := range crops {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}
