package controllers

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
)

type IntentKind int

const (
	IntentBuyNow IntentKind = iota + 1
	IntentCart
)

// Intent is what the buyer asked to check out. It lives only as long as the
// checkout screen.
type Intent struct {
	Kind  IntentKind
	Items []models.OrderItem
}

// BuyNow checks out a single unit of p.
func BuyNow(p models.Product) Intent {
	return Intent{
		Kind: IntentBuyNow,
		Items: []models.OrderItem{{
			Name: p.Name, Quantity: 1, Image: p.Image, Price: p.Price, Product: p.ID,
		}},
	}
}

func FromCart(lines []models.CartItem) Intent {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			Name: l.Product.Name, Quantity: l.Quantity, Image: l.Product.Image,
			Price: l.Product.Price, Product: l.Product.ID,
		})
	}
	return Intent{Kind: IntentCart, Items: items}
}

type CheckoutState int

const (
	CheckoutEditing CheckoutState = iota
	CheckoutSubmitting
	CheckoutSucceeded
)

// Checkout assembles one order from an intent and submits it once. Success
// is terminal.
type Checkout struct {
	orders services.OrderService
	intent Intent

	mu    sync.Mutex
	state CheckoutState
	order *models.Order
}

func NewCheckout(orders services.OrderService, intent Intent) (*Checkout, error) {
	if len(intent.Items) == 0 {
		return nil, apperrors.Validation("Nothing to check out")
	}
	return &Checkout{orders: orders, intent: intent}, nil
}

func (c *Checkout) Intent() Intent {
	return c.intent
}

// Subtotal is the client-side preview of the item total; the order's
// totalPrice is what the backend charges.
func (c *Checkout) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.intent.Items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Payload builds the order body. An empty payment method becomes the
// default.
func (c *Checkout) Payload(addr models.ShippingAddress, paymentMethod string) models.OrderPayload {
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		paymentMethod = models.DefaultPaymentMethod
	}
	return models.OrderPayload{
		OrderItems:      append([]models.OrderItem(nil), c.intent.Items...),
		ShippingAddress: trimAddress(addr),
		PaymentMethod:   paymentMethod,
	}
}

func trimAddress(a models.ShippingAddress) models.ShippingAddress {
	return models.ShippingAddress{
		Fullname: strings.TrimSpace(a.Fullname),
		Phone:    strings.TrimSpace(a.Phone),
		Address:  strings.TrimSpace(a.Address),
		City:     strings.TrimSpace(a.City),
		Country:  strings.TrimSpace(a.Country),
	}
}

func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Order is the placed order once the checkout succeeded.
func (c *Checkout) Order() *models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

// Submit places the order. A failed submit returns to editing; after a
// success every further submit is rejected.
func (c *Checkout) Submit(ctx context.Context, addr models.ShippingAddress, paymentMethod string) (*models.Order, error) {
	c.mu.Lock()
	switch c.state {
	case CheckoutSucceeded:
		c.mu.Unlock()
		return nil, apperrors.Validation("This order has already been placed")
	case CheckoutSubmitting:
		c.mu.Unlock()
		return nil, apperrors.Validation("The order is already being submitted")
	}
	c.state = CheckoutSubmitting
	c.mu.Unlock()

	order, err := c.orders.Create(ctx, c.Payload(addr, paymentMethod))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = CheckoutEditing
		return nil, err
	}
	c.state = CheckoutSucceeded
	c.order = order
	logger.Info(ctx, "order placed", zap.String("order_id", order.ID), zap.Int("items", len(order.OrderItems)))
	return order, nil
}
