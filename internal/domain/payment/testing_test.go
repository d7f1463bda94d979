package payment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/spice-storefront/internal/domain/gateway"
	"github.com/your-org/spice-storefront/internal/pkg/logger"
	"github.com/your-org/spice-storefront/internal/pkg/metrics"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockPublisher is a mock implementation of Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

// newTestDB opens an isolated in-memory SQLite database with the payments table
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Payment{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func newTestRegistry() *gateway.Registry {
	r := gateway.NewRegistry()
	methods := make([]string, len(Methods))
	for i, m := range Methods {
		methods[i] = string(m)
	}
	r.Register(gateway.NewMock(), methods...)
	return r
}

// testClock hands out strictly increasing timestamps, one second apart
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type testEnv struct {
	svc   *Service
	repo  *GormRepository
	pub   *MockPublisher
	clock *testClock
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()

	repo := NewGormRepository(newTestDB(t))
	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	clock := newTestClock()
	svc := NewService(repo, newTestRegistry(), pub, metrics.NewNop(), logger.Discard())
	svc.now = clock.Now

	return &testEnv{svc: svc, repo: repo, pub: pub, clock: clock}
}

func amount(v float64) *float64 { return &v }

func str(s string) *string { return &s }

func validCreate() CreateRequest {
	return CreateRequest{
		Name:   "Ana Perera",
		Email:  "ana@example.com",
		Amount: amount(2500),
		Items: []Item{
			{ProductID: "p1", Name: "Cinnamon", Quantity: 2, UnitPrice: 1000},
			{ProductID: "p2", Name: "Cardamom", Quantity: 1, UnitPrice: 500},
		},
	}
}
