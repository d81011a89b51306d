package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartProduct is the denormalized product snapshot stored on a cart line.
type CartProduct struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	CountInStock int             `json:"countInStock"`
}

type CartItem struct {
	Product  CartProduct `json:"product"`
	Quantity int         `json:"quantity"`
}

// LineTotal is price × quantity for display.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AtStockLimit reports whether the quantity can no longer be increased.
func (i CartItem) AtStockLimit() bool {
	return i.Quantity >= i.Product.CountInStock
}

type Cart struct {
	ID        string     `json:"_id"`
	User      string     `json:"user"`
	CartItems []CartItem `json:"cartItems"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartSummary is GET /cart: the cart plus prices the server computed.
type CartSummary struct {
	Cart          Cart            `json:"cart"`
	ItemsPrice    decimal.Decimal `json:"itemsPrice"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	TaxPrice      decimal.Decimal `json:"taxPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// Empty reports whether there is nothing to check out.
func (s CartSummary) Empty() bool {
	return len(s.Cart.CartItems) == 0
}

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}
