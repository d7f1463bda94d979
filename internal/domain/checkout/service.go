// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/spice-storefront/internal/domain/cart"
	"github.com/your-org/spice-storefront/internal/domain/payment"
	"github.com/your-org/spice-storefront/internal/pkg/currency"
	"github.com/your-org/spice-storefront/internal/pkg/metrics"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// PaymentCreator stores new payment records
type PaymentCreator interface {
	Create(ctx context.Context, req payment.CreateRequest) (*payment.Payment, error)
}

// Service turns a cart and customer details into a pending payment record
type Service struct {
	payments  PaymentCreator
	converter *currency.Converter
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

// NewService creates a new checkout service
func NewService(payments PaymentCreator, converter *currency.Converter, m *metrics.Metrics, logger *logrus.Logger) *Service {
	return &Service{
		payments:  payments,
		converter: converter,
		metrics:   m,
		logger:    logger,
	}
}

// Customer holds the contact snapshot captured at checkout
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Address string  `json:"address,omitempty"`
	UserID  *string `json:"userId,omitempty"`
}

// Request represents checkout submission data
type Request struct {
	Customer Customer    `json:"customer"`
	Currency string      `json:"currency,omitempty"`
	Method   string      `json:"method,omitempty"`
	Items    []cart.Item `json:"items"`
	OrderID  string      `json:"orderId,omitempty"`
}

// Submit validates the request, converts amounts into the chosen currency and
// creates exactly one pending payment record. The cart is left untouched.
func (s *Service) Submit(ctx context.Context, req Request) (*payment.Payment, error) {
	target, err := s.validate(req)
	if err != nil {
		s.metrics.Checkout("rejected")
		return nil, err
	}

	baseTotal := cart.Total(req.Items)
	amount, err := s.converter.Convert(baseTotal, target)
	if err != nil {
		s.metrics.Checkout("rejected")
		return nil, &payment.ValidationError{Fields: []string{err.Error()}}
	}

	items := make([]payment.Item, len(req.Items))
	for i, line := range req.Items {
		unitPrice, err := s.converter.Convert(line.UnitPrice, target)
		if err != nil {
			s.metrics.Checkout("rejected")
			return nil, &payment.ValidationError{Fields: []string{err.Error()}}
		}
		items[i] = payment.Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		}
	}

	base := currency.Round(baseTotal)
	createReq := payment.CreateRequest{
		Name:         strings.TrimSpace(req.Customer.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Customer.Email)),
		Phone:        strings.TrimSpace(req.Customer.Phone),
		Address:      strings.TrimSpace(req.Customer.Address),
		UserID:       req.Customer.UserID,
		Amount:       &amount,
		Currency:     target,
		AmountBase:   &base,
		BaseCurrency: s.converter.Base(),
		Method:       req.Method,
		OrderID:      req.OrderID,
		Items:        items,
		Meta:         payment.Meta{Notes: s.converter.Describe(target)},
	}

	p, err := s.payments.Create(ctx, createReq)
	if err != nil {
		s.metrics.Checkout("failed")
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	s.metrics.Checkout("accepted")
	s.logger.WithFields(logrus.Fields{
		"payment_id":  p.ID,
		"currency":    target,
		"amount":      amount,
		"amount_base": base,
		"items":       len(items),
	}).Info("🛒 Checkout submitted")

	return p, nil
}

// SubmitCart checks out the session cart when the request carries no items
func (s *Service) SubmitCart(ctx context.Context, req Request, store *cart.Store) (*payment.Payment, error) {
	if len(req.Items) == 0 && store != nil {
		items, err := store.Items(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve cart: %w", err)
		}
		req.Items = items
	}
	return s.Submit(ctx, req)
}

// validate collects every unmet condition and returns the target currency
func (s *Service) validate(req Request) (string, error) {
	verr := &payment.ValidationError{}

	if strings.TrimSpace(req.Customer.Name) == "" {
		verr.Add("name is required")
	}

	if !emailPattern.MatchString(strings.TrimSpace(req.Customer.Email)) {
		verr.Add("a valid email is required")
	}

	if len(req.Items) == 0 {
		verr.Add("cart is empty")
	} else if cart.Total(req.Items) <= 0 {
		verr.Add("order total must be greater than zero")
	}

	for i, item := range req.Items {
		if item.Quantity < 1 {
			verr.Add(fmt.Sprintf("items[%d].quantity must be at least 1", i))
		}
	}

	target := strings.ToUpper(strings.TrimSpace(req.Currency))
	if target == "" {
		target = s.converter.Base()
	}
	if !s.converter.Supports(target) {
		verr.Add(fmt.Sprintf("unsupported currency %s", target))
	}

	if req.Method != "" {
		if _, err := payment.ParseMethod(req.Method); err != nil {
			verr.Add(err.Error())
		}
	}

	return target, verr.Err()
}
