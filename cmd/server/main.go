package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/alnoorcollection/storefront/internal/config"
	"github.com/alnoorcollection/storefront/internal/repository"
	"github.com/alnoorcollection/storefront/internal/service"
	"github.com/alnoorcollection/storefront/internal/storage"
	transport "github.com/alnoorcollection/storefront/internal/transport/http"
	"github.com/alnoorcollection/storefront/internal/transport/http/handler"
	"github.com/alnoorcollection/storefront/pkg/db"
	"github.com/alnoorcollection/storefront/pkg/kafka"
	outbox "github.com/alnoorcollection/storefront/pkg/outbox/repository"
	"github.com/alnoorcollection/storefront/pkg/outbox/worker"
	"github.com/alnoorcollection/storefront/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "storefront")
	if err != nil {
		log.Fatalf("Failed to init trace: %v", err)
	}

	pool, err := db.NewPostgresDB(cfg.Postgres.URL, db.PoolOptions{
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	})
	if err != nil {
		log.Fatalf("Error creating new postgres DB: %v", err)
	}
	log.Println("Connected to Postgres")

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	loggerCfg := config.LoggerConfig{
		Level: "info",
		Env:   cfg.Env,
	}

	logger, err := config.NewLogger(loggerCfg)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("error syncing logger: %v", err)
		}
	}()

	logger.Info("Storefront started!")

	uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}, logger)
	if err != nil {
		log.Fatalf("Error creating uploader: %v", err)
	}

	productRepository := repository.NewProductRepository(pool, logger)
	methodRepository := repository.NewPaymentMethodRepository(pool, logger)
	orderRepository := repository.NewOrderRepository(pool, logger)
	messageRepository := repository.NewMessageRepository(pool, logger)
	outboxRepository := outbox.NewOutboxRepository(pool, logger)

	catalogService := service.NewCatalogService(productRepository, outboxRepository, pool, logger)
	cachedCatalogService := service.NewCachedCatalogService(catalogService, rdb)

	cartStore := service.NewRedisCartStore(rdb, cfg.Redis.CartTTL)
	cartService := service.NewCartService(cartStore, cachedCatalogService, logger)

	paymentMethodService := service.NewPaymentMethodService(
		methodRepository,
		uploader,
		cfg.Storage.QRCodesBucket,
		logger,
	)

	checkoutService := service.NewCheckoutService(
		pool,
		orderRepository,
		productRepository,
		methodRepository,
		cartStore,
		uploader,
		outboxRepository,
		logger,
		service.CheckoutConfig{
			ProofsBucket:    cfg.Storage.ProofsBucket,
			DeliveryCharges: cfg.Checkout.DeliveryCharges,
			MaxProofBytes:   cfg.Checkout.MaxProofBytes,
		},
	)

	orderAdminService := service.NewOrderAdminService(
		pool,
		orderRepository,
		productRepository,
		outboxRepository,
		logger,
	)

	adminAuthService := service.NewAdminAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash, logger)

	messageService := service.NewMessageService(messageRepository, logger)

	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	outboxProcessor := worker.NewOutboxProcessor(pool, outboxRepository, kafkaProducer, logger)

	go outboxProcessor.Start(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Checkout.MaxProofBytes) + 1024*1024,
	})

	app.Use(otelfiber.Middleware())

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Limiter.Max,
		Expiration: cfg.Limiter.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Try again later.",
			})
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("Storefront is alive!")
	})

	handlers := &transport.Handlers{
		Auth:           handler.NewAuthHandler(adminAuthService, logger),
		Catalog:        handler.NewCatalogHandler(cachedCatalogService, logger),
		Cart:           handler.NewCartHandler(cartService, logger),
		Checkout:       handler.NewCheckoutHandler(checkoutService, logger),
		PaymentMethods: handler.NewPaymentMethodHandler(paymentMethodService, logger),
		Orders:         handler.NewOrderAdminHandler(orderAdminService, logger),
		Messages:       handler.NewMessageHandler(messageService, logger),
	}

	transport.RegisterRoutes(app, handlers, adminAuthService)

	go func() {
		log.Println("HTTP Service listening on: " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP port %v: %v\n", cfg.HTTP.Port, err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down gracefully...")
	shutdownContext, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownContext); err != nil {
		log.Printf("Error shutting down HTTP app: %v\n", err)
	} else {
		log.Println("HTTP App stopped gracefully")
	}

	pool.Close()
	log.Println("Closed db pool successfully")

	if err := tp.Shutdown(shutdownContext); err != nil {
		log.Printf("Error stopping telemetry: %v\n", err)
	} else {
		log.Println("Telemetry closed correctly")
	}
}
