package models

import "encoding/json"

// User is the account record the backend returns on login and profile calls.
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// UnmarshalJSON accepts both the `isAdmin` flag and the older `role` string,
// and `id` as an alias of `_id`.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		AltID string `json:"id"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.AltID
	}
	if aux.Role == "admin" {
		u.IsAdmin = true
	}
	return nil
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Session is the client-held record of who is logged in. An empty Token and a
// nil User mean nobody is.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
}

// ProfileUpdate carries the fields a user may change about themselves.
type ProfileUpdate struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

type PasswordUpdate struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AdminUserUpdate is what the admin panel may change on any account.
type AdminUserUpdate struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	IsAdmin *bool  `json:"isAdmin,omitempty"`
}

// MessageResponse is the `{message}` envelope used by fire-and-forget endpoints.
type MessageResponse struct {
	Message string `json:"message"`
	// Only the development backend fills this in.
	ResetToken string `json:"resetToken,omitempty"`
}
