package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/yashrajoria/storefront/common/errors"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus_ClassifiesAuthFailures(t *testing.T) {
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.FromStatus(http.StatusUnauthorized, "x").Kind)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.FromStatus(http.StatusForbidden, "x").Kind)
	assert.Equal(t, apperrors.KindBackend, apperrors.FromStatus(http.StatusBadRequest, "x").Kind)
	assert.Equal(t, apperrors.KindBackend, apperrors.FromStatus(http.StatusInternalServerError, "x").Kind)
}

func TestErrorsIs_MatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("add to cart: %w", apperrors.Unauthenticated("Please log in"))
	assert.True(t, stderrors.Is(err, apperrors.ErrNotAuthenticated))
	assert.False(t, stderrors.Is(err, apperrors.ErrNetwork))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, apperrors.IsUnauthorized(apperrors.FromStatus(http.StatusUnauthorized, "expired")))
	assert.True(t, apperrors.IsUnauthorized(apperrors.Unauthenticated("no token")))
	assert.False(t, apperrors.IsUnauthorized(apperrors.Validation("name is required")))
	assert.False(t, apperrors.IsUnauthorized(stderrors.New("plain")))
}

func TestMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", apperrors.FromStatus(http.StatusBadRequest, "Wrong password"))
	assert.Equal(t, "Wrong password", apperrors.MessageOf(wrapped))
	assert.Equal(t, "plain", apperrors.MessageOf(stderrors.New("plain")))
	assert.Equal(t, "", apperrors.MessageOf(nil))
}

func TestErrorString_IncludesCause(t *testing.T) {
	err := apperrors.Network("Could not reach the server", stderrors.New("dial tcp: refused"))
	assert.Equal(t, "Could not reach the server: dial tcp: refused", err.Error())
	assert.Equal(t, "network", err.Kind.String())
	assert.JSONEq(t, `{"message":"Could not reach the server"}`, err.JSON())
}

func TestFromStatus_CarriesStatusAsCode(t *testing.T) {
	err := apperrors.FromStatus(http.StatusNotFound, "Product not found")
	assert.Equal(t, http.StatusNotFound, err.Code)
	assert.JSONEq(t, `{"code":404,"message":"Product not found"}`, err.JSON())

	// a coded target only matches that status
	wrapped := fmt.Errorf("load product: %w", err)
	assert.True(t, stderrors.Is(wrapped, apperrors.New(apperrors.KindBackend, http.StatusNotFound, "", nil)))
	assert.False(t, stderrors.Is(wrapped, apperrors.New(apperrors.KindBackend, http.StatusConflict, "", nil)))
	assert.Equal(t, 0, apperrors.Validation("name is required").Code)
}
