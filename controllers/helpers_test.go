package controllers_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/mockapi"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
	"github.com/yashrajoria/storefront/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const fallbackImage = "/images/no-image.png"

type backend struct {
	server *mockapi.Server
	url    string
	store  *session.Store
	api    *clients.APIClient
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	s, err := mockapi.New(mockapi.Config{
		JWTSecret:     "test-secret",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
		BcryptCost:    bcrypt.MinCost,
	})
	require.NoError(t, err)
	require.NoError(t, s.SeedDemoCatalog())

	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryStorage())
	return &backend{
		server: s,
		url:    srv.URL,
		store:  store,
		api:    clients.NewAPIClient(srv.URL+"/api", 5*time.Second, store),
	}
}

func (b *backend) login(t *testing.T, email, password string) {
	t.Helper()
	out, err := services.NewUserService(b.api).Login(context.Background(), email, password)
	require.NoError(t, err)
	require.NoError(t, b.store.Login(context.Background(), out.User, out.Token))
}

func (b *backend) registerCustomer(t *testing.T) {
	t.Helper()
	out, err := services.NewUserService(b.api).Register(context.Background(),
		models.RegisterRequest{Name: "Lan", Email: "lan@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, b.store.Login(context.Background(), out.User, out.Token))
}

func (b *backend) product(t *testing.T, keyword string) models.Product {
	t.Helper()
	page, err := services.NewProductService(b.api).List(context.Background(), models.ProductQuery{Keyword: keyword})
	require.NoError(t, err)
	require.NotEmpty(t, page.Products)
	return page.Products[0]
}

var shipping = models.ShippingAddress{Fullname: "Lan", Phone: "090", Address: "1 Road", City: "Hanoi", Country: "VN"}
