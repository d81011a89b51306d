package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/models"
)

type OrderService interface {
	Create(ctx context.Context, payload models.OrderPayload) (*models.Order, error)
	ListMine(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)

	// Admin
	ListAll(ctx context.Context) ([]models.Order, error)
	Search(ctx context.Context, q models.OrderSearch) ([]models.Order, error)
	MarkPaid(ctx context.Context, id string) (*models.Order, error)
	MarkDelivered(ctx context.Context, id string) (*models.Order, error)
	Cancel(ctx context.Context, id string) error
}

type orderService struct {
	api *clients.APIClient
}

func NewOrderService(api *clients.APIClient) OrderService {
	return &orderService{api: api}
}

// Create places an order. Nested items and the shipping address are validated
// along with the payload.
func (s *orderService) Create(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	if payload.PaymentMethod == "" {
		payload.PaymentMethod = models.DefaultPaymentMethod
	}
	if err := Validate(payload); err != nil {
		return nil, err
	}
	var out models.Order
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPost, Path: "/orders", Body: payload, Auth: true,
		Fallback: "Could not place the order!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *orderService) ListMine(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/orders/myorders", Auth: true,
		Fallback: "Could not load your orders!",
	}, &out)
	return out, err
}

func (s *orderService) Get(ctx context.Context, id string) (*models.Order, error) {
	if err := requireID("order", id); err != nil {
		return nil, err
	}
	var out models.Order
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/orders/" + url.PathEscape(id), Auth: true,
		Fallback: "Could not load the order!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/orders", Auth: true,
		Fallback: "Could not load orders!",
	}, &out)
	return out, err
}

func (s *orderService) Search(ctx context.Context, q models.OrderSearch) ([]models.Order, error) {
	var out []models.Order
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/orders/search", Auth: true,
		Query:    url.Values{"userName": {q.UserName}},
		Fallback: "Could not search orders!",
	}, &out)
	return out, err
}

func (s *orderService) MarkPaid(ctx context.Context, id string) (*models.Order, error) {
	return s.setStatus(ctx, id, "/pay", "Could not mark the order as paid!")
}

func (s *orderService) MarkDelivered(ctx context.Context, id string) (*models.Order, error) {
	return s.setStatus(ctx, id, "/deliver", "Could not mark the order as delivered!")
}

func (s *orderService) setStatus(ctx context.Context, id, suffix, fallback string) (*models.Order, error) {
	if err := requireID("order", id); err != nil {
		return nil, err
	}
	var out models.Order
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPut, Path: "/orders/" + url.PathEscape(id) + suffix, Auth: true,
		Fallback: fallback,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *orderService) Cancel(ctx context.Context, id string) error {
	if err := requireID("order", id); err != nil {
		return err
	}
	return s.api.JSON(ctx, clients.Call{
		Method: http.MethodDelete, Path: "/orders/" + url.PathEscape(id), Auth: true,
		Fallback: "Could not cancel the order!",
	}, nil)
}
