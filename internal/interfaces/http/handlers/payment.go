// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/spice-storefront/internal/domain/payment"
	"github.com/your-org/spice-storefront/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment record endpoints
type PaymentHandler struct {
	payments *payment.Service
	logger   *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *payment.Service, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

type listQuery struct {
	Status string `form:"status" binding:"omitempty,payment_status"`
	Method string `form:"method" binding:"omitempty,payment_method"`
	Email  string `form:"email" binding:"omitempty,email"`
	Q      string `form:"q" binding:"max=200"`
	From   string `form:"from"`
	To     string `form:"to"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (q listQuery) filter() (payment.ListFilter, error) {
	filter := payment.ListFilter{
		Status: q.Status,
		Method: q.Method,
		Email:  strings.ToLower(strings.TrimSpace(q.Email)),
		Q:      strings.TrimSpace(q.Q),
		Page:   q.Page,
		Limit:  q.Limit,
	}

	var err error
	if filter.From, err = parseTimeParam("from", q.From); err != nil {
		return filter, err
	}
	if filter.To, err = parseTimeParam("to", q.To); err != nil {
		return filter, err
	}
	return filter, nil
}

// parseTimeParam accepts RFC 3339 timestamps or plain dates (midnight UTC)
func parseTimeParam(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s must be an RFC 3339 timestamp or YYYY-MM-DD date", name)
}

// ListPayments handles GET /payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	filter, err := query.filter()
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPayment handles GET /payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.payments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetReceipt handles GET /payments/:id/receipt
func (h *PaymentHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.payments.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// CreatePayment handles POST /payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req payment.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.UserID == nil {
		if userID, ok := middleware.GetUserIDFromContext(c); ok {
			req.UserID = &userID
		}
	}
	req.CreatedBy = payment.ActorSystem

	p, err := h.payments.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

type updateRequest struct {
	Status  *string            `json:"status" binding:"omitempty,payment_status"`
	Method  *string            `json:"method" binding:"omitempty,payment_method"`
	Meta    *payment.MetaPatch `json:"meta"`
	Note    string             `json:"note" binding:"max=500"`
	Version *int64             `json:"version" binding:"omitempty,min=1"`
}

// UpdatePayment handles PUT /admin/payments/:id
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	patch := payment.UpdatePatch{
		Status:  req.Status,
		Method:  req.Method,
		Meta:    req.Meta,
		Note:    req.Note,
		Version: req.Version,
	}

	p, err := h.payments.Update(c.Request.Context(), c.Param("id"), patch, payment.ActorAdmin)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeletePayment handles DELETE /admin/payments/:id
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	if err := h.payments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type actionRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// RefundPayment handles POST /admin/payments/:id/refund
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	var req actionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	p, err := h.payments.Refund(c.Request.Context(), c.Param("id"), req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// CompletePayment handles POST /admin/payments/:id/complete
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	var req actionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	p, err := h.payments.Complete(c.Request.Context(), c.Param("id"), req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GatewaySuccess handles POST /payments/:id/gateway/success
func (h *PaymentHandler) GatewaySuccess(c *gin.Context) {
	p, err := h.payments.FinalizeSuccess(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

type failureRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// GatewayFailure handles POST /payments/:id/gateway/failure
func (h *PaymentHandler) GatewayFailure(c *gin.Context) {
	var req failureRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	p, err := h.payments.FinalizeFailure(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// bindOptionalJSON binds the body when one was sent
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}
