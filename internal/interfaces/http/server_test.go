package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/spice-storefront/internal/config"
	"github.com/your-org/spice-storefront/internal/domain/cart"
	"github.com/your-org/spice-storefront/internal/domain/checkout"
	"github.com/your-org/spice-storefront/internal/domain/gateway"
	"github.com/your-org/spice-storefront/internal/domain/payment"
	"github.com/your-org/spice-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/spice-storefront/internal/interfaces/http/routes"
	"github.com/your-org/spice-storefront/internal/pkg/auth"
	"github.com/your-org/spice-storefront/internal/pkg/currency"
	"github.com/your-org/spice-storefront/internal/pkg/logger"
	"github.com/your-org/spice-storefront/internal/pkg/metrics"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type healthStub struct{ err error }

func (h healthStub) Health() error { return h.err }

type testServer struct {
	handler    http.Handler
	adminToken string
	userToken  string
}

func testConfig(mockGateway bool) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Spice Storefront", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			Port:           "0",
			RequestTimeout: 5 * time.Second,
		},
		JWT: config.JWTConfig{
			Secret:            "test-secret-that-is-at-least-32-characters",
			AccessTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: []string{"http://localhost:5173"},
			CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Session-ID"},
		},
		Gateway: config.GatewayConfig{MockEnabled: mockGateway},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, db HealthChecker) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, handlers.RegisterValidators())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&payment.Payment{}))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	log := logger.Discard()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	gateways := gateway.NewRegistry()
	methods := make([]string, len(payment.Methods))
	for i, method := range payment.Methods {
		methods[i] = string(method)
	}
	gateways.Register(gateway.NewMock(), methods...)

	payments := payment.NewService(payment.NewGormRepository(gdb), gateways, nil, m, log)
	carts := cart.NewService(cart.NewMemoryStorage(), nil, "LKR", log)
	checkouts := checkout.NewService(payments, currency.NewConverter("LKR", nil), m, log)

	jwtManager := auth.NewJWTManager(cfg)
	adminToken, err := jwtManager.GenerateAccessToken("ops-1", "ops@spice.lk", true)
	require.NoError(t, err)
	userToken, err := jwtManager.GenerateAccessToken("cust-1", "nimal@example.com", false)
	require.NoError(t, err)

	srv := NewServer(cfg, Options{
		DB: db,
		Handlers: &routes.Handlers{
			Payment:  handlers.NewPaymentHandler(payments, log),
			Order:    handlers.NewOrderHandler(payments, log),
			Cart:     handlers.NewCartHandler(carts, log),
			Checkout: handlers.NewCheckoutHandler(checkouts, carts, log),
		},
		JWT:      jwtManager,
		Metrics:  m,
		Gatherer: registry,
		Logger:   log,
	})

	return &testServer{
		handler:    srv.Handler(),
		adminToken: adminToken,
		userToken:  userToken,
	}
}

type requestOption func(*http.Request)

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) asAdmin() requestOption {
	return withHeader("Authorization", "Bearer "+s.adminToken)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func checkoutBody(email string) gin.H {
	return gin.H{
		"customer": gin.H{"name": "Nimal Perera", "email": email, "phone": "0771234567"},
		"currency": "LKR",
		"method":   "COD",
	}
}

// fillSessionCart adds 2 x 1000 + 1 x 500 to the session cart
func (s *testServer) fillSessionCart(t *testing.T, session string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"productId": "p1", "quantity": 2,
		"product": gin.H{"id": "p1", "name": "Ceylon Cinnamon", "price": 1000},
	}, withHeader(handlers.SessionHeader, session))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"productId": "p2", "quantity": 1,
		"product": gin.H{"id": "p2", "name": "Cardamom", "price": 500},
	}, withHeader(handlers.SessionHeader, session))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestServer_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(t, testConfig(true), healthStub{})
		w := s.do(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]interface{}](t, w)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "disabled", body["redis"])
	})

	t.Run("database down", func(t *testing.T) {
		s := newTestServer(t, testConfig(true), healthStub{err: errors.New("down")})
		w := s.do(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_CartLifecycle(t *testing.T) {
	s := newTestServer(t, testConfig(true), healthStub{})
	session := withHeader(handlers.SessionHeader, "sess-cart")

	s.fillSessionCart(t, "sess-cart")

	w := s.do(t, http.MethodGet, "/api/v1/cart", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[cart.Summary](t, w)
	assert.Equal(t, 2500.0, summary.Total)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, 3, summary.TotalQuantity)

	w = s.do(t, http.MethodPut, "/api/v1/cart/items/p1", gin.H{"quantity": 0}, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1500.0, decode[cart.Summary](t, w).Total, "quantity is clamped to 1")

	w = s.do(t, http.MethodPut, "/api/v1/cart/items/p1", gin.H{}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/cart/items/p2", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1000.0, decode[cart.Summary](t, w).Total)

	w = s.do(t, http.MethodDelete, "/api/v1/cart", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[cart.Summary](t, w).Items)
}

func TestServer_CartIssuesSession(t *testing.T) {
	s := newTestServer(t, testConfig(true), healthStub{})

	w := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(handlers.SessionHeader))
}

func TestServer_CheckoutAndGatewayFlow(t *testing.T) {
	s := newTestServer(t, testConfig(true), healthStub{})
	s.fillSessionCart(t, "sess-1")

	w := s.do(t, http.MethodPost, "/api/v1/checkout", checkoutBody("Nimal@Example.com"),
		withHeader(handlers.SessionHeader, "sess-1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[payment.Payment](t, w)
	assert.Equal(t, payment.StatusPending, created.Status)
	assert.Equal(t, 2500.0, created.Amount)
	assert.Equal(t, "nimal@example.com", created.Email)
	require.Len(t, created.History, 1)

	// the cart survives checkout
	w = s.do(t, http.MethodGet, "/api/v1/cart", nil, withHeader(handlers.SessionHeader, "sess-1"))
	assert.Len(t, decode[cart.Summary](t, w).Items, 2)

	w = s.do(t, http.MethodPost, "/api/v1/payments/"+created.ID+"/gateway/success", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode[payment.Payment](t, w)
	assert.Equal(t, payment.StatusPaid, paid.Status)
	assert.Regexp(t, `^TX-[A-Z0-9]{6}$`, paid.Meta.TransactionID)
	require.Len(t, paid.History, 2)
	assert.Equal(t, payment.ActorGateway, paid.History[1].By)

	// a second finalize is rejected
	w = s.do(t, http.MethodPost, "/api/v1/payments/"+created.ID+"/gateway/failure", gin.H{"reason": "late"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/payments/"+created.ID+"/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"transactionId":"`+paid.Meta.TransactionID+`"`)
	assert.NotContains(t, w.Body.String(), "txId")
	receipt := decode[payment.Receipt](t, w)
	assert.Equal(t, created.ID, receipt.ReceiptNo)
	assert.Equal(t, paid.Meta.TransactionID, receipt.TransactionID)
	assert.Equal(t, 2500.0, receipt.Amount.Total)

	w = s.do(t, http.MethodGet, "/api/v1/orders?email=nimal@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[payment.ListResult](t, w)
	assert.EqualValues(t, 1, history.Total)
	assert.Equal(t, payment.StatusPaid, history.Data[0].Status)
}

func TestServer_CheckoutAttachesUser(t *testing.T) {
	s := newTestServer(t, testConfig(true), healthStub{})

	body := checkoutBody("nimal@example.com")
	body["items"] = []gin.H{{"productId": "p1", "name": "Pepper", "unitPrice": 900, "quantity": 1}}

	w := s.do(t, http.MethodPost, "/api/v1/checkout", body, withHeader("Authorization", "Bearer "+s.userToken))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[payment.Payment](t, w)
	require.NotNil(t, created.UserID)
	assert.Equal(t, "cust-1", *created.UserID)
}

func TestServer_CheckoutValidation(t *testing.T) {
	s := newTestServer(t, testConfig(true), healthStub{})

	w := s.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"customer": gin.H{"name": " ", "email": "nope"},
		"currency": "EUR",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}](t, w)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.Details, "name is required")
	assert.Contains(t, body.Details, "a valid email is required")
	assert.Contains(t, body.Details, "cart is empty")

	w = s.do(t, http.MethodGet, "/api/v1/payments", nil)
	assert.EqualValues(t, 0, decode[payment.ListResult](t, w).Total)
}

func TestServer_PaymentsCRUD(t *testing.T) {
	s := newTestServer(t, testConfig(true), healthStub{})

	w := s.do(t, http.MethodPost, "/api/v1/payments", gin.H{
		"name": "Kamal", "email": "kamal@example.com", "amount": 1200, "method": "Bank Transfer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[payment.Payment](t, w)
	assert.EqualValues(t, 1, created.Version)

	w = s.do(t, http.MethodPost, "/api/v1/payments", gin.H{"name": "Kamal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/payments/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/payments/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	t.Run("list filters", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/payments?method=bank%20transfer&status=pending&limit=500", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		list := decode[payment.ListResult](t, w)
		assert.EqualValues(t, 1, list.Total)
		assert.Equal(t, payment.MaxLimit, list.PageSize)

		w = s.do(t, http.MethodGet, "/api/v1/payments?status=shipped", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodGet, "/api/v1/payments?from=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodGet, "/api/v1/payments?from=2000-01-01&q=KAMAL", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, decode[payment.ListResult](t, w).Total)
	})

	t.Run("admin requires token", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/admin/payments/"+created.ID, gin.H{"status": "paid"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.do(t, http.MethodPut, "/api/v1/admin/payments/"+created.ID, gin.H{"status": "paid"},
			withHeader("Authorization", "Bearer "+s.userToken))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin update", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/admin/payments/"+created.ID, gin.H{"status": "shipped"}, s.asAdmin())
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPut, "/api/v1/admin/payments/"+created.ID, gin.H{
			"status": "paid", "meta": gin.H{"notes": "bank slip verified"}, "version": 1,
		}, s.asAdmin())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decode[payment.Payment](t, w)
		assert.Equal(t, payment.StatusPaid, updated.Status)
		assert.Equal(t, "bank slip verified", updated.Meta.Notes)
		assert.EqualValues(t, 2, updated.Version)

		// stale version
		w = s.do(t, http.MethodPut, "/api/v1/admin/payments/"+created.ID, gin.H{"status": "failed", "version": 1}, s.asAdmin())
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("admin actions", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/admin/payments/"+created.ID+"/complete", nil, s.asAdmin())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, payment.StatusCompleted, decode[payment.Payment](t, w).Status)

		w = s.do(t, http.MethodPost, "/api/v1/admin/payments/"+created.ID+"/complete", nil, s.asAdmin())
		assert.Equal(t, http.StatusConflict, w.Code)

		w = s.do(t, http.MethodPost, "/api/v1/admin/payments/"+created.ID+"/refund", gin.H{"note": "damaged"}, s.asAdmin())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		refunded := decode[payment.Payment](t, w)
		assert.Equal(t, payment.StatusRefunded, refunded.Status)
		assert.Equal(t, "mock", refunded.Meta.Gateway)
	})

	t.Run("admin delete", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/v1/admin/payments/"+created.ID, nil, s.asAdmin())
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodDelete, "/api/v1/admin/payments/"+created.ID, nil, s.asAdmin())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_OrderHistoryRequiresEmail(t *testing.T) {
	s := newTestServer(t, testConfig(true), healthStub{})

	w := s.do(t, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_GatewayRoutesDisabled(t *testing.T) {
	s := newTestServer(t, testConfig(false), healthStub{})

	w := s.do(t, http.MethodPost, "/api/v1/payments/any/gateway/success", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, testConfig(true), healthStub{})

	w := s.do(t, http.MethodPost, "/api/v1/payments", gin.H{"name": "Kamal", "email": "kamal@example.com", "amount": 10})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `storefront_payments_created_total{method="Credit Card"} 1`)
	assert.Contains(t, w.Body.String(), "storefront_http_request_duration_seconds")
}
