// internal/domain/payment/service.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/spice-storefront/internal/domain/gateway"
	"github.com/your-org/spice-storefront/internal/pkg/metrics"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Gateways resolves the adapter responsible for a payment method
type Gateways interface {
	For(method string) (gateway.Gateway, error)
}

// Service handles payment record business logic
type Service struct {
	repo      Repository
	gateways  Gateways
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	now       func() time.Time
}

// NewService creates a new payment service. publisher may be nil.
func NewService(repo Repository, gateways Gateways, publisher Publisher, m *metrics.Metrics, logger *logrus.Logger) *Service {
	return &Service{
		repo:      repo,
		gateways:  gateways,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateRequest represents payment record creation data
type CreateRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone,omitempty"`
	Address      string   `json:"address,omitempty"`
	UserID       *string  `json:"userId,omitempty"`
	Amount       *float64 `json:"amount"`
	Currency     string   `json:"currency,omitempty"`
	AmountBase   *float64 `json:"amountBase,omitempty"`
	BaseCurrency string   `json:"baseCurrency,omitempty"`
	Method       string   `json:"method,omitempty"`
	Status       string   `json:"status,omitempty"`
	OrderID      string   `json:"orderId,omitempty"`
	Items        []Item   `json:"items,omitempty"`
	Meta         Meta     `json:"meta"`
	CreatedBy    Actor    `json:"-"`
}

// MetaPatch carries the meta fields to overwrite; nil fields are kept
type MetaPatch struct {
	Gateway       *string `json:"gateway,omitempty"`
	TransactionID *string `json:"transactionId,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdatePatch represents the mutable fields of a record
type UpdatePatch struct {
	Status  *string    `json:"status,omitempty"`
	Method  *string    `json:"method,omitempty"`
	Meta    *MetaPatch `json:"meta,omitempty"`
	Note    string     `json:"note,omitempty"`
	Version *int64     `json:"version,omitempty"`
}

// ListResult is the paginated list envelope
type ListResult struct {
	Data     []Payment `json:"data"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Total    int64     `json:"total"`
}

// Create validates and stores a new payment record
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Payment, error) {
	verr := &ValidationError{}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		verr.Add("name is required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		verr.Add("email is required")
	} else if !emailPattern.MatchString(email) {
		verr.Add("email is invalid")
	}

	if req.Amount == nil {
		verr.Add("amount is required")
	} else if *req.Amount < 0 {
		verr.Add("amount must not be negative")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	} else if len(currency) != 3 {
		verr.Add("currency must be a 3-letter code")
	}

	method := DefaultMethod
	if req.Method != "" {
		m, err := ParseMethod(req.Method)
		if err != nil {
			verr.Add(err.Error())
		}
		method = m
	}

	status := StatusPending
	if req.Status != "" {
		st, err := ParseStatus(req.Status)
		if err != nil {
			verr.Add(err.Error())
		}
		status = st
	}

	for i, item := range req.Items {
		if item.Quantity < 1 {
			verr.Add(fmt.Sprintf("items[%d].quantity must be at least 1", i))
		}
		if item.UnitPrice < 0 {
			verr.Add(fmt.Sprintf("items[%d].unitPrice must not be negative", i))
		}
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}

	by := req.CreatedBy
	if by == "" {
		by = ActorSystem
	}

	now := s.now()
	p := &Payment{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		OrderID:      strings.TrimSpace(req.OrderID),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Amount:       *req.Amount,
		Currency:     currency,
		AmountBase:   req.AmountBase,
		BaseCurrency: strings.ToUpper(req.BaseCurrency),
		Method:       method,
		Status:       status,
		Items:        req.Items,
		Meta:         req.Meta,
		History: []HistoryEntry{{
			From: StatusNone,
			To:   status,
			At:   now,
			By:   by,
			Note: "Created",
		}},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.Items == nil {
		p.Items = []Item{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.metrics.PaymentCreated(string(p.Method))
	s.logger.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"email":      p.Email,
		"amount":     p.Amount,
		"currency":   p.Currency,
		"method":     p.Method,
		"status":     p.Status,
	}).Info("💳 Payment record created")

	s.publish(ctx, newEvent(EventCreated, p, now))

	return p, nil
}

// Get retrieves a single record by ID
func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves records with filtering and pagination
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.Normalize()

	if filter.Status != "" {
		st, err := ParseStatus(filter.Status)
		if err != nil {
			return nil, &ValidationError{Fields: []string{err.Error()}}
		}
		filter.Status = string(st)
	}
	if filter.Method != "" {
		m, err := ParseMethod(filter.Method)
		if err != nil {
			return nil, &ValidationError{Fields: []string{err.Error()}}
		}
		filter.Method = string(m)
	}
	if filter.From != nil {
		from := filter.From.UTC()
		filter.From = &from
	}
	if filter.To != nil {
		to := filter.To.UTC()
		filter.To = &to
	}

	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []Payment{}
	}

	return &ListResult{
		Data:     payments,
		Page:     filter.Page,
		PageSize: filter.Limit,
		Total:    total,
	}, nil
}

// Update applies a patch as the given actor. Any status may be set; history
// grows only when the status actually changes.
func (s *Service) Update(ctx context.Context, id string, patch UpdatePatch, actor Actor) (*Payment, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Version != nil && *patch.Version != p.Version {
		return nil, fmt.Errorf("%w: expected version %d, current %d", ErrConflict, *patch.Version, p.Version)
	}

	return s.apply(ctx, p, patch, actor)
}

// Delete removes a record permanently
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("payment_id", id).Info("🗑️ Payment record deleted")
	s.publish(ctx, newEvent(EventDeleted, p, s.now()))
	return nil
}

// Receipt returns the read-only receipt projection of a record
func (s *Service) Receipt(ctx context.Context, id string) (*Receipt, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ToReceipt(), nil
}

// FinalizeSuccess marks a pending record paid through its method's gateway
func (s *Service) FinalizeSuccess(ctx context.Context, id string) (*Payment, error) {
	return s.finalize(ctx, id, StatusPaid, func(gw gateway.Gateway) (gateway.Result, error) {
		return gw.FinalizeSuccess(ctx, id)
	})
}

// FinalizeFailure marks a pending record failed through its method's gateway
func (s *Service) FinalizeFailure(ctx context.Context, id, reason string) (*Payment, error) {
	return s.finalize(ctx, id, StatusFailed, func(gw gateway.Gateway) (gateway.Result, error) {
		return gw.FinalizeFailure(ctx, id, reason)
	})
}

// Refund refunds a paid or completed record through its method's gateway
func (s *Service) Refund(ctx context.Context, id, note string) (*Payment, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(p.Status, StatusRefunded) {
		return nil, fmt.Errorf("%w: cannot refund a %s payment", ErrInvalidTransition, p.Status)
	}

	gw, err := s.gateways.For(string(p.Method))
	if err != nil {
		return nil, err
	}
	res, err := gw.Refund(ctx, id, p.Amount)
	if err != nil {
		return nil, fmt.Errorf("gateway refund failed: %w", err)
	}

	status := string(StatusRefunded)
	patch := UpdatePatch{
		Status: &status,
		Meta:   &MetaPatch{Gateway: &res.Gateway, Notes: &res.Notes},
		Note:   note,
	}
	return s.apply(ctx, p, patch, ActorAdmin)
}

// Complete marks a paid record completed
func (s *Service) Complete(ctx context.Context, id, note string) (*Payment, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(p.Status, StatusCompleted) {
		return nil, fmt.Errorf("%w: cannot complete a %s payment", ErrInvalidTransition, p.Status)
	}

	status := string(StatusCompleted)
	return s.apply(ctx, p, UpdatePatch{Status: &status, Note: note}, ActorAdmin)
}

func (s *Service) finalize(ctx context.Context, id string, to Status, call func(gateway.Gateway) (gateway.Result, error)) (*Payment, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(p.Status, to) {
		return nil, fmt.Errorf("%w: cannot finalize a %s payment", ErrInvalidTransition, p.Status)
	}

	gw, err := s.gateways.For(string(p.Method))
	if err != nil {
		return nil, err
	}
	res, err := call(gw)
	if err != nil {
		return nil, fmt.Errorf("gateway finalize failed: %w", err)
	}

	status := string(to)
	meta := &MetaPatch{Gateway: &res.Gateway, Notes: &res.Notes}
	if res.TransactionID != "" {
		meta.TransactionID = &res.TransactionID
	}
	return s.apply(ctx, p, UpdatePatch{Status: &status, Meta: meta, Note: res.Notes}, ActorGateway)
}

// apply mutates a freshly read record and writes it conditionally on the
// version that was read
func (s *Service) apply(ctx context.Context, p *Payment, patch UpdatePatch, actor Actor) (*Payment, error) {
	now := s.now()
	expected := p.Version
	from := p.Status

	if patch.Method != nil {
		m, err := ParseMethod(*patch.Method)
		if err != nil {
			return nil, &ValidationError{Fields: []string{err.Error()}}
		}
		p.Method = m
	}

	p.mergeMeta(patch.Meta)

	changed := false
	if patch.Status != nil {
		to, err := ParseStatus(*patch.Status)
		if err != nil {
			return nil, &ValidationError{Fields: []string{err.Error()}}
		}
		changed = p.transitionTo(to, actor, patch.Note, now)
	}

	p.Version = expected + 1
	p.UpdatedAt = now

	if err := s.repo.Save(ctx, p, expected); err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.WithFields(logrus.Fields{
				"payment_id": p.ID,
				"version":    expected,
			}).Warn("⚠️ Concurrent payment update rejected")
		}
		return nil, err
	}

	if changed {
		s.metrics.Transition(string(from), string(p.Status), string(actor))
		s.logger.WithFields(logrus.Fields{
			"payment_id": p.ID,
			"from":       from,
			"to":         p.Status,
			"actor":      actor,
		}).Info("🔄 Payment status changed")

		event := newEvent(EventStatusChanged, p, now)
		event.FromStatus = from
		event.Actor = actor
		s.publish(ctx, event)
	}

	return p, nil
}

func (s *Service) publish(ctx context.Context, event Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event.Type, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"payment_id": event.PaymentID,
			"event":      event.Type,
		}).Error("❌ Failed to publish payment event")
	}
}

func validatePatch(patch UpdatePatch) error {
	verr := &ValidationError{}
	if patch.Status != nil {
		if _, err := ParseStatus(*patch.Status); err != nil {
			verr.Add(err.Error())
		}
	}
	if patch.Method != nil {
		if _, err := ParseMethod(*patch.Method); err != nil {
			verr.Add(err.Error())
		}
	}
	return verr.Err()
}
