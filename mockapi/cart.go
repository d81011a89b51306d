package mockapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/storefront/models"
)

// GetCart returns the current cart for a user
func (s *Server) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.CartSummary(c.GetString(ctxUserID)))
}

func (s *Server) AddToCart(c *gin.Context) {
	s.changeCart(c, true)
}

func (s *Server) UpdateCartItem(c *gin.Context) {
	s.changeCart(c, false)
}

func (s *Server) changeCart(c *gin.Context, add bool) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" || req.Quantity < 1 {
		fail(c, http.StatusBadRequest, "Product and a positive quantity are required")
		return
	}

	cart, err := s.store.SetCartQuantity(c.GetString(ctxUserID), req.ProductID, req.Quantity, add)
	switch {
	case errors.Is(err, ErrNotFound) && add:
		fail(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrNotFound):
		fail(c, http.StatusNotFound, "Item not in cart")
	case errors.Is(err, ErrOutOfStock):
		fail(c, http.StatusBadRequest, "Not enough stock")
	case err != nil:
		fail(c, http.StatusInternalServerError, "Could not update the cart")
	default:
		c.JSON(http.StatusOK, cart)
	}
}

// RemoveCartItem removes a specific item from the cart
func (s *Server) RemoveCartItem(c *gin.Context) {
	cart, err := s.store.RemoveCartItem(c.GetString(ctxUserID), c.Param("productId"))
	if err != nil {
		fail(c, http.StatusNotFound, "Item not in cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}
