package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/common/logger"
	"github.com/yashrajoria/storefront/models"
)

func (s *Server) CreateOrder(c *gin.Context) {
	var req models.OrderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.OrderItems) == 0 {
		fail(c, http.StatusBadRequest, "No order items")
		return
	}
	for _, it := range req.OrderItems {
		if it.Product == "" || it.Quantity < 1 {
			fail(c, http.StatusBadRequest, "Every item needs a product and a positive quantity")
			return
		}
	}
	addr := req.ShippingAddress
	if addr.Fullname == "" || addr.Phone == "" || addr.Address == "" || addr.City == "" || addr.Country == "" {
		fail(c, http.StatusBadRequest, "Shipping address is incomplete")
		return
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		req.PaymentMethod = models.DefaultPaymentMethod
	}

	order, err := s.store.PlaceOrder(c.GetString(ctxUserID), req)
	var stockErr *stockError
	switch {
	case errors.As(err, &stockErr):
		fail(c, http.StatusBadRequest, stockErr.Error())
		return
	case errors.Is(err, ErrNotFound):
		fail(c, http.StatusNotFound, "Product not found")
		return
	case err != nil:
		logger.Error(c.Request.Context(), "failed to place order", err)
		fail(c, http.StatusInternalServerError, "Could not place the order")
		return
	}

	logger.Info(c.Request.Context(), "order placed",
		zap.String("order_id", order.ID),
		zap.String("total", order.TotalPrice.StringFixed(2)))
	c.JSON(http.StatusCreated, order)
}

func (s *Server) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Orders("", ""))
}

func (s *Server) MyOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Orders(c.GetString(ctxUserID), ""))
}

func (s *Server) SearchOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Orders("", c.Query("userName")))
}

// GetOrder is visible to the buyer and to admins.
func (s *Server) GetOrder(c *gin.Context) {
	order, owner, err := s.store.Order(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	if owner != c.GetString(ctxUserID) && c.GetString(ctxRole) != RoleAdmin {
		fail(c, http.StatusForbidden, "Not authorized to view this order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) MarkPaid(c *gin.Context) {
	s.setOrderFlag(c, func(o *models.Order) { o.IsPaid = true })
}

func (s *Server) MarkDelivered(c *gin.Context) {
	s.setOrderFlag(c, func(o *models.Order) { o.IsDelivered = true })
}

func (s *Server) setOrderFlag(c *gin.Context, fn func(o *models.Order)) {
	order, err := s.store.UpdateOrder(c.Param("id"), fn)
	if err != nil {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder lets admins cancel anything and buyers cancel their own unpaid
// orders.
func (s *Server) CancelOrder(c *gin.Context) {
	order, owner, err := s.store.Order(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	if c.GetString(ctxRole) != RoleAdmin {
		if owner != c.GetString(ctxUserID) {
			fail(c, http.StatusForbidden, "Not authorized to cancel this order")
			return
		}
		if order.IsPaid {
			fail(c, http.StatusBadRequest, "Paid orders cannot be cancelled")
			return
		}
	}
	if err := s.store.CancelOrder(order.ID); err != nil {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Order cancelled"})
}
