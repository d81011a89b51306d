package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/models"
)

// CartService talks to the signed-in user's cart. Every call needs a token.
type CartService interface {
	Add(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	Get(ctx context.Context) (*models.CartSummary, error)
	UpdateItem(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, productID string) (*models.Cart, error)
}

type cartService struct {
	api *clients.APIClient
}

func NewCartService(api *clients.APIClient) CartService {
	return &cartService{api: api}
}

func (s *cartService) Add(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	req := models.AddToCartRequest{ProductID: productID, Quantity: quantity}
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out models.Cart
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPost, Path: "/cart/add", Body: req, Auth: true,
		Fallback: "Could not add the product to the cart!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *cartService) Get(ctx context.Context) (*models.CartSummary, error) {
	var out models.CartSummary
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/cart", Auth: true,
		Fallback: "Could not load the cart!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *cartService) UpdateItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	req := models.AddToCartRequest{ProductID: productID, Quantity: quantity}
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out models.Cart
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPut, Path: "/cart/update", Body: req, Auth: true,
		Fallback: "Could not update the cart!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *cartService) RemoveItem(ctx context.Context, productID string) (*models.Cart, error) {
	if err := requireID("product", productID); err != nil {
		return nil, err
	}
	var out models.Cart
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodDelete, Path: "/cart/remove/" + url.PathEscape(productID), Auth: true,
		Fallback: "Could not remove the product from the cart!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
