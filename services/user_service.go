package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/yashrajoria/storefront/clients"
	apperrors "github.com/yashrajoria/storefront/common/errors"
	"github.com/yashrajoria/storefront/models"
)

type UserService interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	UpdatePassword(ctx context.Context, req models.PasswordUpdate) error
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)

	// Admin
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.AdminUserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]models.User, error)
}

type userService struct {
	api *clients.APIClient
}

func NewUserService(api *clients.APIClient) UserService {
	return &userService{api: api}
}

func (s *userService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out models.AuthResponse
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPost, Path: "/users/login", Body: req,
		Fallback: "Login failed!",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, apperrors.Decode("Login failed!", nil)
	}
	return &out, nil
}

func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out models.AuthResponse
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPost, Path: "/users/register", Body: req,
		Fallback: "Registration failed!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *userService) ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error) {
	body := struct {
		Email string `json:"email" validate:"required,email"`
	}{Email: strings.TrimSpace(email)}
	if err := Validate(body); err != nil {
		return nil, err
	}
	var out models.MessageResponse
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPost, Path: "/users/forgot-password", Body: body,
		Fallback: "Could not send the password reset email!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *userService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if strings.TrimSpace(resetToken) == "" {
		return apperrors.Validation("Missing password reset token")
	}
	body := struct {
		Password string `json:"password" validate:"required,min=6"`
	}{Password: newPassword}
	if err := Validate(body); err != nil {
		return err
	}
	return s.api.JSON(ctx, clients.Call{
		Method: http.MethodPost, Path: "/users/reset-password/" + url.PathEscape(resetToken), Body: body,
		Fallback: "Could not reset the password!",
	}, nil)
}

func (s *userService) UpdatePassword(ctx context.Context, req models.PasswordUpdate) error {
	if err := Validate(req); err != nil {
		return err
	}
	return s.api.JSON(ctx, clients.Call{
		Method: http.MethodPut, Path: "/users/update-password", Body: req, Auth: true,
		Fallback: "Could not change the password!",
	}, nil)
}

func (s *userService) GetProfile(ctx context.Context) (*models.User, error) {
	var out models.User
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/users/profile", Auth: true,
		Fallback: "Could not load your profile!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *userService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	if err := Validate(upd); err != nil {
		return nil, err
	}
	var out models.User
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPut, Path: "/users/profile", Body: upd, Auth: true,
		Fallback: "Could not update your profile!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/users", Auth: true,
		Fallback: "Could not load users!",
	}, &out)
	return out, err
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	if err := requireID("user", id); err != nil {
		return nil, err
	}
	var out models.User
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/users/" + url.PathEscape(id), Auth: true,
		Fallback: "Could not load the user!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *userService) Update(ctx context.Context, id string, upd models.AdminUserUpdate) (*models.User, error) {
	if err := requireID("user", id); err != nil {
		return nil, err
	}
	if err := Validate(upd); err != nil {
		return nil, err
	}
	var out models.User
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodPut, Path: "/users/" + url.PathEscape(id), Body: upd, Auth: true,
		Fallback: "Could not update the user!",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := requireID("user", id); err != nil {
		return err
	}
	return s.api.JSON(ctx, clients.Call{
		Method: http.MethodDelete, Path: "/users/" + url.PathEscape(id), Auth: true,
		Fallback: "Could not delete the user!",
	}, nil)
}

func (s *userService) Search(ctx context.Context, query string) ([]models.User, error) {
	var out []models.User
	err := s.api.JSON(ctx, clients.Call{
		Method: http.MethodGet, Path: "/users/search", Auth: true,
		Query:    url.Values{"query": {query}},
		Fallback: "Could not search users!",
	}, &out)
	return out, err
}
