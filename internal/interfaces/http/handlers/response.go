// internal/interfaces/http/handlers/response.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/spice-storefront/internal/domain/cart"
	"github.com/your-org/spice-storefront/internal/domain/gateway"
	"github.com/your-org/spice-storefront/internal/domain/payment"
	"github.com/your-org/spice-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/spice-storefront/internal/pkg/currency"
)

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *payment.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": verr.Fields,
		})
	case errors.Is(err, payment.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
	case errors.Is(err, cart.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, payment.ErrConflict), errors.Is(err, payment.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, gateway.ErrNoAdapter):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, currency.ErrUnsupportedCurrency):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Upstream timeout"})
	default:
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"route":      c.FullPath(),
		}).WithError(err).Error("❌ Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upstream unavailable"})
	}
}

// badRequest reports a malformed body or query
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
