package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/models"
)

func (s *Server) authResponse(c *gin.Context, status int, u models.User) {
	token, err := s.tokens.Generate(u.ID, u.Email, roleFor(u.IsAdmin))
	if err != nil {
		logger.Error(c.Request.Context(), "failed to sign token", err)
		fail(c, http.StatusInternalServerError, "Could not sign in")
		return
	}
	c.JSON(status, models.AuthResponse{Token: token, User: u})
}

func (s *Server) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, hash, err := s.store.UserByEmail(strings.TrimSpace(req.Email))
	if err != nil || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.authResponse(c, http.StatusOK, u)
}

func (s *Server) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		fail(c, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	u, err := s.createUser(models.User{Name: req.Name, Email: req.Email, Phone: req.Phone}, req.Password)
	switch {
	case errors.Is(err, ErrAlreadyExists):
		fail(c, http.StatusBadRequest, "User already exists")
		return
	case err != nil:
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.authResponse(c, http.StatusCreated, u)
}

func (s *Server) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		fail(c, http.StatusBadRequest, "Email is required")
		return
	}
	u, _, err := s.store.UserByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	token := s.store.IssueResetToken(u.ID, s.cfg.ResetTTL)
	logger.Info(c.Request.Context(), "password reset issued")
	// No mail is sent; the token goes back in the response for local use.
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Password reset email sent", ResetToken: token})
}

func (s *Server) ResetPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Password) < 6 {
		fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	userID, err := s.store.ConsumeResetToken(c.Param("token"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Could not reset the password")
		return
	}
	if err := s.store.SetPassword(userID, hash); err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Password has been reset"})
}

func (s *Server) UpdatePassword(c *gin.Context) {
	var req models.PasswordUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.NewPassword) < 6 {
		fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	userID := c.GetString(ctxUserID)
	_, hash, err := s.store.User(userID)
	if err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(req.CurrentPassword)) != nil {
		fail(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	next, err := s.hashPassword(req.NewPassword)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Could not change the password")
		return
	}
	if err := s.store.SetPassword(userID, next); err != nil {
		logger.Error(c.Request.Context(), "failed to store password", err)
		fail(c, http.StatusInternalServerError, "Could not change the password")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Password updated"})
}

func (s *Server) GetProfile(c *gin.Context) {
	u, _, err := s.store.User(c.GetString(ctxUserID))
	if err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, "Name is required")
		return
	}
	u, err := s.store.UpdateUser(c.GetString(ctxUserID), func(u *models.User) {
		u.Name = strings.TrimSpace(req.Name)
		u.Phone = req.Phone
	})
	if err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Users(""))
}

func (s *Server) SearchUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Users(c.Query("query")))
}

func (s *Server) GetUser(c *gin.Context) {
	u, _, err := s.store.User(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) UpdateUser(c *gin.Context) {
	var req models.AdminUserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, err := s.store.UpdateUser(c.Param("id"), func(u *models.User) {
		if req.Name != "" {
			u.Name = req.Name
		}
		if req.Email != "" {
			u.Email = req.Email
		}
		if req.Phone != "" {
			u.Phone = req.Phone
		}
		if req.IsAdmin != nil {
			u.IsAdmin = *req.IsAdmin
		}
	})
	switch {
	case errors.Is(err, ErrNotFound):
		fail(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrAlreadyExists):
		fail(c, http.StatusBadRequest, "Email is already in use")
	case err != nil:
		fail(c, http.StatusInternalServerError, "Could not update the user")
	default:
		c.JSON(http.StatusOK, u)
	}
}

func (s *Server) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	u, _, err := s.store.User(id)
	if err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	if u.IsAdmin {
		fail(c, http.StatusBadRequest, "Cannot delete admin user")
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "User removed"})
}
