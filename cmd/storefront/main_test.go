package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/mockapi"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func startBackend(t *testing.T) {
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

	t.Setenv("API_BASE_URL", srv.URL+"/api")
	t.Setenv("ASSET_BASE_URL", srv.URL)
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("STOREFRONT_CONFIG", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, a := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

func TestCLI_SessionSurvivesBetweenCommands(t *testing.T) {
	startBackend(t)

	out, err := run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	out, err = run(t, "login", "--email", "admin@example.com", "--password", "admin123")
	require.NoError(t, err)
	assert.Contains(t, out, "Next: /admin")

	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.com")
	assert.Contains(t, out, "admin")

	out, err = run(t, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.com")

	_, err = run(t, "logout")
	require.NoError(t, err)

	_, err = run(t, "users", "list")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestCLI_ShopAndCheckout(t *testing.T) {
	startBackend(t)

	out, err := run(t, "products", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "iPhone 15")
	assert.Contains(t, out, "HOT")
	assert.Contains(t, out, "sold out")
	assert.Contains(t, out, "Page 1 of 1, 5 products")

	_, err = run(t, "register", "--name", "Lan", "--email", "lan@example.com",
		"--password", "secret1", "--confirm", "secret1")
	require.NoError(t, err)

	_, err = run(t, "users", "list")
	assert.Equal(t, "Not authorized as an admin", apperrors.MessageOf(err))

	out, err = run(t, "products", "search", "cable")
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 2)
	cableID := string(bytes.Fields(lines[1])[0])

	_, err = run(t, "cart", "add", cableID, "-q", "2")
	require.NoError(t, err)

	out, err = run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Total $31.98")

	out, err = run(t, "checkout", "--fullname", "Lan", "--phone", "090", "--address", "1 Road",
		"--city", "Hanoi", "--country", "VN")
	require.NoError(t, err)
	assert.Contains(t, out, "total $31.98, pay with VNPay")

	out, err = run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")

	out, err = run(t, "orders", "mine")
	require.NoError(t, err)
	assert.Contains(t, out, "ORD-")
}

func TestCLI_ExpiredTokenSignsOut(t *testing.T) {
	startBackend(t)
	_, err := run(t, "login", "--email", "admin@example.com", "--password", "admin123")
	require.NoError(t, err)

	// a backend restarted with a new secret rejects the stored token
	startBackendKeepingSession(t)

	_, err = run(t, "orders", "mine")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `storefront login` first")

	out, err := run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func startBackendKeepingSession(t *testing.T) {
	t.Helper()
	s, err := mockapi.New(mockapi.Config{
		JWTSecret:     "rotated-secret",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
		BcryptCost:    bcrypt.MinCost,
	})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	t.Setenv("API_BASE_URL", srv.URL+"/api")
}
