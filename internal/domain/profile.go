package domain

// FarmerProfile is the farmer-specific profile attached to a user.
type FarmerProfile struct {
	ID       int64   `json:"id"`
	User     *User   `json:"user,omitempty"`
	Address  string  `json:"address"`
	District string  `json:"district"`
	State    string  `json:"state"`
	LandSize float64 `json:"landSize"`
	SoilType string  `json:"soilType"`
}

// BuyerProfile is the buyer-specific profile attached to a user.
type BuyerProfile struct {
	ID      int64  `json:"id"`
	User    *User  `json:"user,omitempty"`
	Address string `json:"address"`
}

// FarmerProfileRequest is the body of POST /farmer/profile.
type FarmerProfileRequest struct {
	Address  string  `json:"address" validate:"required,nonblank"`
	District string  `json:"district" validate:"required,nonblank"`
	State    string  `json:"state" validate:"required,oneof_state"`
	LandSize float64 `json:"landSize" validate:"gt=0"`
	SoilType string  `json:"soilType" validate:"required,oneof_soil"`
}

// BuyerProfileRequest is the body of POST /buyer/profile.
type BuyerProfileRequest struct {
	Address string `json:"address" validate:"required,nonblank"`
}
