package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentMethod is recorded on orders when the buyer picks nothing else.
const DefaultPaymentMethod = "VNPay"

type OrderUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderItem struct {
	Name     string          `json:"name" validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=1"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Product  string          `json:"product" validate:"required"`
}

type ShippingAddress struct {
	Fullname string `json:"fullname" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

type Order struct {
	ID              string          `json:"_id"`
	OrderCode       string          `json:"orderCode,omitempty"`
	User            *OrderUser      `json:"user,omitempty"`
	OrderItems      []OrderItem     `json:"orderItems,omitempty"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	IsDelivered     bool            `json:"isDelivered"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Customer is the buyer's display name, or a placeholder when the backend
// did not populate the user.
func (o Order) Customer() string {
	if o.User == nil || o.User.Name == "" {
		return "Unknown"
	}
	return o.User.Name
}

// OrderPayload is the body of POST /orders.
type OrderPayload struct {
	OrderItems      []OrderItem     `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" validate:"required"`
}

// OrderSearch filters the admin order list.
type OrderSearch struct {
	UserName string
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}
