// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/spice-storefront/internal/domain/cart"
	"github.com/your-org/spice-storefront/internal/domain/checkout"
	"github.com/your-org/spice-storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles order submission
type CheckoutHandler struct {
	checkoutService *checkout.Service
	cartService     *cart.Service
	logger          *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, cartService *cart.Service, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		cartService:     cartService,
		logger:          logger,
	}
}

// Checkout handles POST /checkout. Without items in the body the session cart is used.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Customer.UserID == nil {
		if userID, ok := middleware.GetUserIDFromContext(c); ok {
			req.Customer.UserID = &userID
		}
	}

	var store *cart.Store
	if id := sessionID(c); id != "" {
		store = h.cartService.ForSession(id)
	}

	record, err := h.checkoutService.SubmitCart(c.Request.Context(), req, store)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}
