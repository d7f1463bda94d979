// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/spice-storefront/internal/domain/payment"
)

// OrderHandler serves the customer order history, a list view over payment records
type OrderHandler struct {
	payments *payment.Service
	logger   *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(payments *payment.Service, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		payments: payments,
		logger:   logger,
	}
}

type orderHistoryQuery struct {
	Email  string `form:"email" binding:"required,email"`
	Status string `form:"status" binding:"omitempty,payment_status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// GetOrderHistory handles GET /orders?email=
func (h *OrderHandler) GetOrderHistory(c *gin.Context) {
	var query orderHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.payments.List(c.Request.Context(), payment.ListFilter{
		Email:  strings.ToLower(strings.TrimSpace(query.Email)),
		Status: query.Status,
		Page:   query.Page,
		Limit:  query.Limit,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
