package controllers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/routes"
	"github.com/yashrajoria/storefront/services"
	"github.com/yashrajoria/storefront/session"
)

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = apperrors.Validation("Passwords do not match")

// AuthController drives the login, register, password and profile screens.
type AuthController struct {
	users   services.UserService
	session *session.Store
}

func NewAuthController(users services.UserService, store *session.Store) *AuthController {
	return &AuthController{users: users, session: store}
}

// Login signs in and returns the route to navigate to. On any failure the
// session is left as it was.
func (a *AuthController) Login(ctx context.Context, email, password string) (string, error) {
	out, err := a.users.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	if err := a.session.Login(ctx, out.User, out.Token); err != nil {
		return "", err
	}
	logger.Info(ctx, "user logged in", zap.String("user_id", out.User.ID), zap.Bool("admin", out.User.IsAdmin))
	return routes.AfterLogin(&out.User), nil
}

// Register creates the account and signs it in.
func (a *AuthController) Register(ctx context.Context, req models.RegisterRequest, confirm string) (string, error) {
	if req.Password != confirm {
		return "", ErrPasswordMismatch
	}
	out, err := a.users.Register(ctx, req)
	if err != nil {
		return "", err
	}
	if err := a.session.Login(ctx, out.User, out.Token); err != nil {
		return "", err
	}
	return routes.AfterLogin(&out.User), nil
}

// Logout always ends signed out; a storage error is still reported.
func (a *AuthController) Logout(ctx context.Context) (string, error) {
	return routes.Login, a.session.Logout(ctx)
}

func (a *AuthController) ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error) {
	return a.users.ForgotPassword(ctx, email)
}

func (a *AuthController) ResetPassword(ctx context.Context, token, password, confirm string) (string, error) {
	if password != confirm {
		return "", ErrPasswordMismatch
	}
	if err := a.users.ResetPassword(ctx, token, password); err != nil {
		return "", err
	}
	return routes.Login, nil
}

func (a *AuthController) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	return a.users.UpdatePassword(ctx, models.PasswordUpdate{CurrentPassword: current, NewPassword: next})
}

// UpdateProfile saves the profile and refreshes the session user.
func (a *AuthController) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	u, err := a.users.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, err
	}
	current := a.session.User()
	if current != nil && u.ID == "" {
		u.ID = current.ID
	}
	if err := a.session.UpdateUser(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

// HandleAuthFailure is the one place screens send errors that may mean the
// session is no good. A rejected or missing token clears the session and
// routes to login; a forbidden action keeps the session and routes home.
// Other errors are not handled.
func (a *AuthController) HandleAuthFailure(ctx context.Context, err error) (string, bool) {
	if !apperrors.IsUnauthorized(err) {
		return "", false
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind == apperrors.KindUnauthorized && appErr.Code == http.StatusForbidden {
		return routes.Home, true
	}
	if logoutErr := a.session.Logout(ctx); logoutErr != nil {
		logger.Warn(ctx, "failed to clear session after auth failure", zap.Error(logoutErr))
	}
	return routes.Login, true
}
