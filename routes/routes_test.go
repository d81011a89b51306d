package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yashrajoria/storefront/models"
)

func TestAfterLogin(t *testing.T) {
	assert.Equal(t, Home, AfterLogin(&models.User{ID: "u1", Name: "A"}))
	assert.Equal(t, Admin, AfterLogin(&models.User{ID: "u1", IsAdmin: true}))
	assert.Equal(t, Home, AfterLogin(nil))
}

func TestGuard(t *testing.T) {
	customer := &models.User{ID: "u1"}
	admin := &models.User{ID: "u2", IsAdmin: true}

	tests := []struct {
		path string
		user *models.User
		want string
	}{
		{Products, nil, Products},
		{Cart, nil, Login},
		{Cart, customer, Cart},
		{AdminOrders, nil, Login},
		{AdminOrders, customer, Home},
		{AdminOrders, admin, AdminOrders},
		{Admin, admin, Admin},
		{"/administrator", customer, "/administrator"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Guard(tt.path, tt.user))
		})
	}
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/products/abc", ProductPath("abc"))
	assert.Equal(t, "/reset-password/a%2Fb", ResetPasswordPath("a/b"))
	assert.Len(t, Table, 16)
}
