// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/spice-storefront/internal/domain/cart"
)

// SessionHeader identifies the browser session that owns a cart
const SessionHeader = "X-Session-ID"

const (
	sessionCookie      = "session_id"
	maxSessionIDLength = 128
)

// CartHandler handles session cart endpoints
type CartHandler struct {
	cartService *cart.Service
	logger      *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

type addItemRequest struct {
	ProductID string                `json:"productId" binding:"required,max=100"`
	Quantity  int                   `json:"quantity"`
	Product   *cart.ProductSnapshot `json:"product"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	h.respondSummary(c, h.store(c))
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store := h.store(c)
	if err := store.Add(c.Request.Context(), req.ProductID, req.Quantity, req.Product); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respondSummary(c, store)
}

// UpdateItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store := h.store(c)
	if err := store.SetQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respondSummary(c, store)
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	store := h.store(c)
	if err := store.Remove(c.Request.Context(), c.Param("productId")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respondSummary(c, store)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store := h.store(c)
	if err := store.Clear(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respondSummary(c, store)
}

func (h *CartHandler) respondSummary(c *gin.Context, store *cart.Store) {
	summary, err := store.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CartHandler) store(c *gin.Context) *cart.Store {
	return h.cartService.ForSession(getOrCreateSessionID(c))
}

// sessionID reads the session from the header, then the cookie
func sessionID(c *gin.Context) string {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		id, _ = c.Cookie(sessionCookie)
	}
	if len(id) > maxSessionIDLength {
		return ""
	}
	return id
}

// getOrCreateSessionID returns the caller's session, issuing a new one when absent
func getOrCreateSessionID(c *gin.Context) string {
	id := sessionID(c)
	if id == "" {
		id = uuid.NewString()
		// 24 hours
		c.SetCookie(sessionCookie, id, 86400, "/", "", false, true)
	}
	c.Header(SessionHeader, id)
	return id
}
