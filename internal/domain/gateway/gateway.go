// internal/domain/gateway/gateway.go
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNoAdapter is returned when no gateway is registered for a payment method
var ErrNoAdapter = errors.New("no gateway adapter for payment method")

// Result is what a gateway reports back after an operation
type Result struct {
	Gateway       string `json:"gateway"`
	TransactionID string `json:"transactionId,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Gateway finalizes and refunds payments for one or more payment methods
type Gateway interface {
	Name() string
	FinalizeSuccess(ctx context.Context, paymentID string) (Result, error)
	FinalizeFailure(ctx context.Context, paymentID, reason string) (Result, error)
	Refund(ctx context.Context, paymentID string, amount float64) (Result, error)
}

// Registry maps payment method names to gateway adapters
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Gateway
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Gateway)}
}

// Register binds a gateway to one or more payment methods
func (r *Registry) Register(gw Gateway, methods ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, method := range methods {
		r.adapters[key(method)] = gw
	}
}

// For returns the gateway bound to a payment method
func (r *Registry) For(method string) (Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gw, ok := r.adapters[key(method)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAdapter, method)
	}
	return gw, nil
}

func key(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}
