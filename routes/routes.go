package routes

import (
	"net/url"
	"strings"

	"github.com/yashrajoria/storefront/models"
)

// Route paths, as the browser build exposed them.
const (
	Home           = "/"
	Products       = "/products"
	ProductSearch  = "/products/search"
	ProductDetail  = "/products/:id"
	Login          = "/login"
	Register       = "/register"
	ForgotPassword = "/forgot-password"
	ResetPassword  = "/reset-password/:token"
	Cart           = "/cart"
	Orders         = "/orders"
	Checkout       = "/create"

	Admin           = "/admin"
	AdminProducts   = "/admin/products"
	AdminOrders     = "/admin/orders"
	AdminUsers      = "/admin/users"
	AdminCategories = "/admin/categories"
)

// Table lists every route in display order.
var Table = []string{
	Home, Products, ProductSearch, ProductDetail,
	Login, Register, ForgotPassword, ResetPassword,
	Cart, Orders, Checkout,
	Admin, AdminProducts, AdminOrders, AdminUsers, AdminCategories,
}

// AfterLogin is where a freshly signed-in user lands.
func AfterLogin(u *models.User) string {
	if u != nil && u.IsAdmin {
		return Admin
	}
	return Home
}

func ProductPath(id string) string {
	return strings.Replace(ProductDetail, ":id", url.PathEscape(id), 1)
}

func ResetPasswordPath(token string) string {
	return strings.Replace(ResetPassword, ":token", url.PathEscape(token), 1)
}

func requiresLogin(path string) bool {
	switch path {
	case Cart, Orders, Checkout:
		return true
	}
	return requiresAdmin(path)
}

func requiresAdmin(path string) bool {
	return path == Admin || strings.HasPrefix(path, Admin+"/")
}

// Guard returns path when u may open it, otherwise the route to send them to
// instead: guests go to the login screen, signed-in non-admins go home.
func Guard(path string, u *models.User) string {
	if !requiresLogin(path) {
		return path
	}
	if u == nil {
		return Login
	}
	if requiresAdmin(path) && !u.IsAdmin {
		return Home
	}
	return path
}
