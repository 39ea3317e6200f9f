package service

import (
	"context"
	"net/http"

	"github.com/roach88/smartfarm/internal/api"
	"github.com/roach88/smartfarm/internal/domain"
)

// OrderService covers /orders.
type OrderService struct {
	doer api.Doer
}

func NewOrderService(doer api.Doer) *OrderService {
	return &OrderService{doer: doer}
}

// PlaceOrder orders a quantity of a crop.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.OrderCreateRequest) (*domain.Order, error) {
	var out domain.Order
	if err := s.doer.Do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMyOrders lists the authenticated buyer's orders.
func (s *OrderService) GetMyOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := s.doer.Do(ctx, http.MethodGet, "/orders/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
