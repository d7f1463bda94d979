// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/spice-storefront/internal/config"
	"github.com/your-org/spice-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/spice-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/spice-storefront/internal/pkg/auth"
)

// Handlers bundles the HTTP handlers mounted under /api/v1
type Handlers struct {
	Payment  *handlers.PaymentHandler
	Order    *handlers.OrderHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
}

// SetupCartRoutes sets up session cart routes
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:productId", h.UpdateItem)
		cart.DELETE("/items/:productId", h.RemoveItem)
	}
}

// SetupCheckoutRoutes sets up checkout routes. Guests may check out; a valid token attaches the user.
func SetupCheckoutRoutes(rg *gin.RouterGroup, h *handlers.CheckoutHandler, jwtManager *auth.JWTManager) {
	rg.POST("/checkout", middleware.OptionalAuthMiddleware(jwtManager), h.Checkout)
}

// SetupPaymentRoutes sets up the public payment record routes
func SetupPaymentRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler, jwtManager *auth.JWTManager, cfg *config.Config) {
	payments := rg.Group("/payments")
	payments.Use(middleware.OptionalAuthMiddleware(jwtManager))
	{
		payments.GET("", h.ListPayments)
		payments.POST("", h.CreatePayment)
		payments.GET("/:id", h.GetPayment)
		payments.GET("/:id/receipt", h.GetReceipt)

		if cfg.Gateway.MockEnabled {
			payments.POST("/:id/gateway/success", h.GatewaySuccess)
			payments.POST("/:id/gateway/failure", h.GatewayFailure)
		}
	}
}

// SetupOrderRoutes sets up the customer order history routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler) {
	rg.GET("/orders", h.GetOrderHistory)
}

// SetupAdminRoutes sets up admin-only payment management routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler, jwtManager *auth.JWTManager) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/payments", h.ListPayments)
		admin.PUT("/payments/:id", h.UpdatePayment)
		admin.DELETE("/payments/:id", h.DeletePayment)
		admin.POST("/payments/:id/refund", h.RefundPayment)
		admin.POST("/payments/:id/complete", h.CompletePayment)
	}
}

// SetupRoutes mounts every route group
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager, cfg *config.Config) {
	SetupCartRoutes(rg, h.Cart)
	SetupCheckoutRoutes(rg, h.Checkout, jwtManager)
	SetupPaymentRoutes(rg, h.Payment, jwtManager, cfg)
	SetupOrderRoutes(rg, h.Order)
	SetupAdminRoutes(rg, h.Payment, jwtManager)
}
