package domain

// Order is a buyer's order against a crop listing.
type Order struct {
	ID          int64         `json:"id"`
	Buyer       *BuyerProfile `json:"buyer,omitempty"`
	Crop        *Crop         `json:"crop,omitempty"`
	Quantity    float64       `json:"quantity"`
	TotalAmount float64       `json:"totalAmount"`
	Status      string        `json:"status"`
	CreatedAt   string        `json:"createdAt"`
}

// OrderCreateRequest is the body of POST /orders.
type OrderCreateRequest struct {
	CropID   int64   `json:"cropId" validate:"gt=0"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
}
