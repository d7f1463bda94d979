// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/spice-storefront/internal/config"
	"github.com/your-org/spice-storefront/internal/domain/cart"
	"github.com/your-org/spice-storefront/internal/domain/checkout"
	"github.com/your-org/spice-storefront/internal/domain/gateway"
	"github.com/your-org/spice-storefront/internal/domain/payment"
	"github.com/your-org/spice-storefront/internal/infrastructure/database"
	"github.com/your-org/spice-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/spice-storefront/internal/infrastructure/messaging/rabbitmq"
	"github.com/your-org/spice-storefront/internal/interfaces/http"
	"github.com/your-org/spice-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/spice-storefront/internal/interfaces/http/routes"
	"github.com/your-org/spice-storefront/internal/pkg/auth"
	"github.com/your-org/spice-storefront/internal/pkg/currency"
	"github.com/your-org/spice-storefront/internal/pkg/logger"
	"github.com/your-org/spice-storefront/internal/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging)
	log.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	db, err := database.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migration := database.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		log.Warnf("Index creation failed: %v", err)
	}

	// Redis backs the session carts and the rate limiter; without it carts live in process memory
	var redisClient *goredis.Client
	var cartStorage cart.Storage
	rc, err := redis.NewConnection(cfg, log)
	switch {
	case errors.Is(err, redis.ErrDisabled):
		log.Warn("⚠️ Redis disabled: using in-memory cart storage, rate limiting off")
		cartStorage = cart.NewMemoryStorage()
	case err != nil:
		log.Fatalf("Failed to connect to Redis: %v", err)
	default:
		defer rc.Close()
		redisClient = rc.GetClient()
		cartStorage = cart.NewRedisStorage(redisClient, cfg.Cart.TTL)
	}

	var publisher payment.Publisher
	if cfg.Messaging.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(rabbitmq.Config{
			URL:      cfg.Messaging.RabbitMQURL,
			Exchange: cfg.Messaging.Exchange,
		}, log)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		log.Info("📭 RABBITMQ_URL not set, payment events are not published")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	gateways := gateway.NewRegistry()
	methods := make([]string, len(payment.Methods))
	for i, method := range payment.Methods {
		methods[i] = string(method)
	}
	gateways.Register(gateway.NewMock(), methods...)

	converter := currency.NewConverter(cfg.Currency.Base, cfg.Currency.Rates)
	paymentService := payment.NewService(payment.NewGormRepository(db.GetDB()), gateways, publisher, m, log)
	cartService := cart.NewService(cartStorage, cart.NewHTTPCatalog(cfg.Catalog.BaseURL, cfg.Catalog.Timeout), converter.Base(), log)
	checkoutService := checkout.NewService(paymentService, converter, m, log)

	if err := handlers.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	server := http.NewServer(cfg, http.Options{
		DB:    db,
		Redis: redisClient,
		Handlers: &routes.Handlers{
			Payment:  handlers.NewPaymentHandler(paymentService, log),
			Order:    handlers.NewOrderHandler(paymentService, log),
			Cart:     handlers.NewCartHandler(cartService, log),
			Checkout: handlers.NewCheckoutHandler(checkoutService, cartService, log),
		},
		JWT:      auth.NewJWTManager(cfg),
		Metrics:  m,
		Gatherer: registry,
		Logger:   log,
	})

	log.Info("✅ All systems operational!")

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("👋 Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Info("✅ Server shutdown completed")
}
