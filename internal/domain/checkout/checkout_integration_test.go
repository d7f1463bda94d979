package checkout_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/spice-storefront/internal/domain/cart"
	"github.com/your-org/spice-storefront/internal/domain/checkout"
	"github.com/your-org/spice-storefront/internal/domain/gateway"
	"github.com/your-org/spice-storefront/internal/domain/payment"
	"github.com/your-org/spice-storefront/internal/pkg/currency"
	"github.com/your-org/spice-storefront/internal/pkg/logger"
	"github.com/your-org/spice-storefront/internal/pkg/metrics"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type storefront struct {
	payments *payment.Service
	checkout *checkout.Service
	carts    *cart.Service
}

// setupStorefront wires the checkout flow against an in-memory SQLite database
func setupStorefront(t *testing.T) *storefront {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&payment.Payment{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gateways := gateway.NewRegistry()
	gateways.Register(gateway.NewMock(), "Credit Card", "COD", "Stripe")

	m := metrics.NewNop()
	log := logger.Discard()
	payments := payment.NewService(payment.NewGormRepository(db), gateways, nil, m, log)

	return &storefront{
		payments: payments,
		checkout: checkout.NewService(payments, currency.NewConverter("LKR", nil), m, log),
		carts:    cart.NewService(cart.NewMemoryStorage(), nil, "LKR", log),
	}
}

func fillCart(t *testing.T, store *cart.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, "p1", 2, &cart.ProductSnapshot{ID: "p1", Name: "Cinnamon", Price: 1000}))
	require.NoError(t, store.Add(ctx, "p2", 1, &cart.ProductSnapshot{ID: "p2", Name: "Cardamom", Price: 500}))
}

func customer() checkout.Customer {
	return checkout.Customer{Name: "Ana Perera", Email: "ana@example.com"}
}

func TestCheckout_CartToPaidRecord(t *testing.T) {
	sf := setupStorefront(t)
	ctx := context.Background()

	store := sf.carts.ForSession("sess-a")
	fillCart(t, store)

	p, err := sf.checkout.SubmitCart(ctx, checkout.Request{Customer: customer()}, store)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, p.Status)
	require.Len(t, p.History, 1)
	assert.Equal(t, payment.StatusNone, p.History[0].From)
	assert.Equal(t, payment.StatusPending, p.History[0].To)
	assert.Equal(t, payment.ActorSystem, p.History[0].By)
	assert.Equal(t, "Created", p.History[0].Note)
	assert.Equal(t, 2500.0, p.Amount)
	require.NotNil(t, p.AmountBase)
	assert.Equal(t, 2500.0, *p.AmountBase)

	paid, err := sf.payments.FinalizeSuccess(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, paid.Status)
	assert.Len(t, paid.History, 2)
	assert.NotEmpty(t, paid.Meta.TransactionID)

	orders, err := sf.payments.List(ctx, payment.ListFilter{Email: "ana@example.com"})
	require.NoError(t, err)
	require.Equal(t, int64(1), orders.Total)
	assert.Equal(t, payment.StatusPaid, orders.Data[0].Status)
}

func TestCheckout_USDConversion(t *testing.T) {
	sf := setupStorefront(t)
	ctx := context.Background()

	store := sf.carts.ForSession("sess-usd")
	fillCart(t, store)

	p, err := sf.checkout.SubmitCart(ctx, checkout.Request{Customer: customer(), Currency: "USD"}, store)
	require.NoError(t, err)

	assert.Equal(t, "USD", p.Currency)
	assert.InDelta(t, 8.33, p.Amount, 0.001)
	require.NotNil(t, p.AmountBase)
	assert.Equal(t, 2500.0, *p.AmountBase)
	assert.Equal(t, "LKR", p.BaseCurrency)
}

func TestCheckout_InvalidEmailCreatesNothing(t *testing.T) {
	sf := setupStorefront(t)
	ctx := context.Background()

	store := sf.carts.ForSession("sess-b")
	fillCart(t, store)

	req := checkout.Request{Customer: checkout.Customer{Name: "Ana", Email: "not-an-email"}}
	_, err := sf.checkout.SubmitCart(ctx, req, store)
	assert.ErrorIs(t, err, payment.ErrValidation)

	all, err := sf.payments.List(ctx, payment.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), all.Total)
}

func TestCheckout_DeleteMissingLeavesCount(t *testing.T) {
	sf := setupStorefront(t)
	ctx := context.Background()

	store := sf.carts.ForSession("sess-c")
	fillCart(t, store)
	_, err := sf.checkout.SubmitCart(ctx, checkout.Request{Customer: customer()}, store)
	require.NoError(t, err)

	err = sf.payments.Delete(ctx, uuid.NewString())
	assert.ErrorIs(t, err, payment.ErrNotFound)

	all, err := sf.payments.List(ctx, payment.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), all.Total)
}
