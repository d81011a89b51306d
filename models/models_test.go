package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUnmarshal_RoleAndIDAliases(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","name":"A","role":"admin"}`), &u))
	assert.Equal(t, "u1", u.ID)
	assert.True(t, u.IsAdmin)

	var v User
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"u2","name":"B","isAdmin":false,"role":"user"}`), &v))
	assert.Equal(t, "u2", v.ID)
	assert.False(t, v.IsAdmin)
}

func TestOrderPayload_PricesAreJSONNumbers(t *testing.T) {
	p := OrderPayload{
		OrderItems:    []OrderItem{{Name: "Phone", Quantity: 2, Price: decimal.RequireFromString("199.90"), Product: "p1"}},
		PaymentMethod: DefaultPaymentMethod,
	}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":199.9`)
}

func TestCartItem_LineTotalAndStockLimit(t *testing.T) {
	item := CartItem{
		Product:  CartProduct{Price: decimal.RequireFromString("0.1"), CountInStock: 3},
		Quantity: 3,
	}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("0.3")))
	assert.True(t, item.AtStockLimit())
}

func TestOrderCustomer(t *testing.T) {
	assert.Equal(t, "Unknown", Order{}.Customer())
	assert.Equal(t, "Lan", Order{User: &OrderUser{Name: "Lan"}}.Customer())
}
