package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/storefront/models"
)

func (s *Server) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Categories())
}

func bindCategory(c *gin.Context) (string, bool) {
	var req models.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, "Category name is required")
		return "", false
	}
	return strings.TrimSpace(req.Name), true
}

func (s *Server) CreateCategory(c *gin.Context) {
	name, ok := bindCategory(c)
	if !ok {
		return
	}
	cat, err := s.store.CreateCategory(name)
	if errors.Is(err, ErrAlreadyExists) {
		fail(c, http.StatusConflict, "Category already exists")
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) UpdateCategory(c *gin.Context) {
	name, ok := bindCategory(c)
	if !ok {
		return
	}
	cat, err := s.store.RenameCategory(c.Param("id"), name)
	switch {
	case errors.Is(err, ErrNotFound):
		fail(c, http.StatusNotFound, "Category not found")
	case errors.Is(err, ErrAlreadyExists):
		fail(c, http.StatusConflict, "Category already exists")
	default:
		c.JSON(http.StatusOK, cat)
	}
}

func (s *Server) DeleteCategory(c *gin.Context) {
	err := s.store.DeleteCategory(c.Param("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		fail(c, http.StatusNotFound, "Category not found")
	case errors.Is(err, ErrAlreadyExists):
		fail(c, http.StatusBadRequest, "Cannot delete category with associated products")
	default:
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Category deleted successfully"})
	}
}
