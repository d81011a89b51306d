package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/routes"
	"github.com/yashrajoria/storefront/services"
	"github.com/yashrajoria/storefront/session"
)

// loginStub answers POST /api/users/login with a fixed body.
func loginStub(t *testing.T, status int, body gin.H) (*controllers.AuthController, *session.Store) {
	t.Helper()
	r := gin.New()
	r.POST("/api/users/login", func(c *gin.Context) {
		c.JSON(status, body)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryStorage())
	api := clients.NewAPIClient(srv.URL+"/api", 5*time.Second, store)
	return controllers.NewAuthController(services.NewUserService(api), store), store
}

func TestAuthController_LoginCustomer(t *testing.T) {
	auth, store := loginStub(t, http.StatusOK, gin.H{
		"token": "t1",
		"user":  gin.H{"id": "u1", "name": "A", "isAdmin": false},
	})

	route, err := auth.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, routes.Home, route)
	assert.Equal(t, "t1", store.Token())
	require.NotNil(t, store.User())
	assert.Equal(t, "u1", store.User().ID)
	assert.Equal(t, "A", store.User().Name)
	assert.False(t, store.IsAdmin())
}

func TestAuthController_LoginAdminGoesToDashboard(t *testing.T) {
	auth, store := loginStub(t, http.StatusOK, gin.H{
		"token": "t2",
		"user":  gin.H{"_id": "u2", "name": "Root", "isAdmin": true},
	})

	route, err := auth.Login(context.Background(), "root@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, routes.Admin, route)
	assert.True(t, store.IsAdmin())
}

func TestAuthController_FailedLoginKeepsSession(t *testing.T) {
	auth, store := loginStub(t, http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
	require.NoError(t, store.Login(context.Background(), models.User{ID: "u0", Name: "Old"}, "old-token"))

	_, err := auth.Login(context.Background(), "a@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", apperrors.MessageOf(err))
	assert.Equal(t, "old-token", store.Token())
	assert.Equal(t, "u0", store.User().ID)
}

func TestAuthController_PasswordMismatch(t *testing.T) {
	b := newBackend(t)
	auth := controllers.NewAuthController(services.NewUserService(b.api), b.store)

	_, err := auth.Register(context.Background(),
		models.RegisterRequest{Name: "Lan", Email: "lan@example.com", Password: "secret1"}, "secret2")
	assert.ErrorIs(t, err, controllers.ErrPasswordMismatch)
	assert.False(t, b.store.IsAuthenticated())

	_, err = auth.ResetPassword(context.Background(), "tok", "abcdef", "abcdeg")
	assert.ErrorIs(t, err, controllers.ErrPasswordMismatch)
}

func TestAuthController_RegisterUpdateLogout(t *testing.T) {
	b := newBackend(t)
	auth := controllers.NewAuthController(services.NewUserService(b.api), b.store)
	ctx := context.Background()

	route, err := auth.Register(ctx,
		models.RegisterRequest{Name: "Lan", Email: "lan@example.com", Password: "secret1"}, "secret1")
	require.NoError(t, err)
	assert.Equal(t, routes.Home, route)

	u, err := auth.UpdateProfile(ctx, models.ProfileUpdate{Name: "Lan Nguyen", Phone: "0901"})
	require.NoError(t, err)
	assert.Equal(t, "Lan Nguyen", u.Name)
	assert.Equal(t, "Lan Nguyen", b.store.User().Name)

	require.NoError(t, auth.ChangePassword(ctx, "secret1", "secret2", "secret2"))

	route, err = auth.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, routes.Login, route)
	assert.False(t, b.store.IsAuthenticated())

	route, err = auth.Login(ctx, "lan@example.com", "secret2")
	require.NoError(t, err)
	assert.Equal(t, routes.Home, route)
}

func TestAuthController_ForgotThenReset(t *testing.T) {
	b := newBackend(t)
	auth := controllers.NewAuthController(services.NewUserService(b.api), b.store)
	ctx := context.Background()
	b.registerCustomer(t)
	_, err := auth.Logout(ctx)
	require.NoError(t, err)

	msg, err := auth.ForgotPassword(ctx, "lan@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, msg.ResetToken)

	route, err := auth.ResetPassword(ctx, msg.ResetToken, "brandnew", "brandnew")
	require.NoError(t, err)
	assert.Equal(t, routes.Login, route)

	_, err = auth.Login(ctx, "lan@example.com", "brandnew")
	assert.NoError(t, err)
}

func TestAuthController_HandleAuthFailure(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(session.NewMemoryStorage())
	auth := controllers.NewAuthController(nil, store)
	signIn := func() {
		require.NoError(t, store.Login(ctx, models.User{ID: "u1", Name: "A"}, "t1"))
	}

	signIn()
	route, handled := auth.HandleAuthFailure(ctx, apperrors.FromStatus(http.StatusUnauthorized, "Not authorized, token failed"))
	assert.True(t, handled)
	assert.Equal(t, routes.Login, route)
	assert.False(t, store.IsAuthenticated())

	signIn()
	route, handled = auth.HandleAuthFailure(ctx, apperrors.FromStatus(http.StatusForbidden, "Not authorized as an admin"))
	assert.True(t, handled)
	assert.Equal(t, routes.Home, route)
	assert.True(t, store.IsAuthenticated())

	route, handled = auth.HandleAuthFailure(ctx, apperrors.ErrNotAuthenticated)
	assert.True(t, handled)
	assert.Equal(t, routes.Login, route)
	assert.False(t, store.IsAuthenticated())

	signIn()
	_, handled = auth.HandleAuthFailure(ctx, apperrors.FromStatus(http.StatusInternalServerError, "boom"))
	assert.False(t, handled)
	_, handled = auth.HandleAuthFailure(ctx, errors.New("plain"))
	assert.False(t, handled)
	assert.True(t, store.IsAuthenticated())
}
