package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
	"github.com/yashrajoria/storefront/session"
)

// CartController is the cart screen. Prices always come from the backend.
type CartController struct {
	cart    services.CartService
	session *session.Store

	mu      sync.RWMutex
	summary models.CartSummary
}

func NewCartController(cart services.CartService, store *session.Store) *CartController {
	return &CartController{cart: cart, session: store}
}

func (c *CartController) Load(ctx context.Context) (models.CartSummary, error) {
	sum, err := c.cart.Get(ctx)
	if err != nil {
		return models.CartSummary{}, err
	}
	c.mu.Lock()
	c.summary = *sum
	c.mu.Unlock()
	return *sum, nil
}

func (c *CartController) Summary() models.CartSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.summary
}

// Total is itemsPrice + shippingPrice + taxPrice exactly as the backend sent
// them.
func (c *CartController) Total() decimal.Decimal {
	s := c.Summary()
	return s.ItemsPrice.Add(s.ShippingPrice).Add(s.TaxPrice)
}

// AddToCart refuses guests and sold-out products without a round trip.
func (c *CartController) AddToCart(ctx context.Context, p models.Product, quantity int) error {
	if !c.session.IsAuthenticated() {
		return apperrors.Unauthenticated("Please log in to add products to your cart")
	}
	if !p.InStock() {
		return apperrors.Validation(fmt.Sprintf("%s is out of stock", p.Name))
	}
	if quantity > p.CountInStock {
		return apperrors.Validation(fmt.Sprintf("Only %d of %s left in stock", p.CountInStock, p.Name))
	}
	_, err := c.cart.Add(ctx, p.ID, quantity)
	return err
}

// SetQuantity changes a line and reloads the priced summary.
func (c *CartController) SetQuantity(ctx context.Context, productID string, quantity int) (models.CartSummary, error) {
	for _, item := range c.Summary().Cart.CartItems {
		if item.Product.ID == productID && quantity > item.Product.CountInStock {
			return models.CartSummary{}, apperrors.Validation(
				fmt.Sprintf("Only %d of %s left in stock", item.Product.CountInStock, item.Product.Name))
		}
	}
	if _, err := c.cart.UpdateItem(ctx, productID, quantity); err != nil {
		return models.CartSummary{}, err
	}
	return c.Load(ctx)
}

func (c *CartController) Remove(ctx context.Context, productID string) (models.CartSummary, error) {
	if _, err := c.cart.RemoveItem(ctx, productID); err != nil {
		return models.CartSummary{}, err
	}
	return c.Load(ctx)
}

// CheckoutIntent hands the current lines to the checkout screen.
func (c *CartController) CheckoutIntent() (Intent, error) {
	s := c.Summary()
	if s.Empty() {
		return Intent{}, apperrors.Validation("Your cart is empty")
	}
	return FromCart(s.Cart.CartItems), nil
}
