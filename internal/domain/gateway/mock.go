// internal/domain/gateway/mock.go
package gateway

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const mockAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Mock simulates a payment provider synchronously. Finalization always
// succeeds or fails as asked; refunds always succeed.
type Mock struct{}

// NewMock creates the mock gateway
func NewMock() *Mock {
	return &Mock{}
}

// Name returns the gateway name recorded on payments
func (m *Mock) Name() string {
	return "mock"
}

// FinalizeSuccess issues a TX-XXXXXX transaction id
func (m *Mock) FinalizeSuccess(ctx context.Context, paymentID string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	txID, err := mockID("TX")
	if err != nil {
		return Result{}, err
	}

	return Result{
		Gateway:       m.Name(),
		TransactionID: txID,
		Notes:         "Mock success",
	}, nil
}

// FinalizeFailure records the failure reason
func (m *Mock) FinalizeFailure(ctx context.Context, paymentID, reason string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	notes := "Mock failed"
	if reason = strings.TrimSpace(reason); reason != "" {
		notes = reason
	}

	return Result{
		Gateway: m.Name(),
		Notes:   notes,
	}, nil
}

// Refund issues an RF-XXXXXX refund reference
func (m *Mock) Refund(ctx context.Context, paymentID string, amount float64) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	refID, err := mockID("RF")
	if err != nil {
		return Result{}, err
	}

	return Result{
		Gateway: m.Name(),
		Notes:   fmt.Sprintf("Mock refund %s of %.2f", refID, amount),
	}, nil
}

func mockID(prefix string) (string, error) {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('-')

	limit := big.NewInt(int64(len(mockAlphabet)))
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate %s id: %w", prefix, err)
		}
		b.WriteByte(mockAlphabet[n.Int64()])
	}
	return b.String(), nil
}
