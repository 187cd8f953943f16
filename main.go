package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
	"github.com/benchan0527/GoGoFood/internal/cache"
	"github.com/benchan0527/GoGoFood/internal/config"
	"github.com/benchan0527/GoGoFood/internal/database"
	"github.com/benchan0527/GoGoFood/internal/handlers"
	applogger "github.com/benchan0527/GoGoFood/internal/logger"
	"github.com/benchan0527/GoGoFood/internal/middleware"
	"github.com/benchan0527/GoGoFood/internal/models"
	"github.com/benchan0527/GoGoFood/internal/repositories"
	"github.com/benchan0527/GoGoFood/internal/services"
	"github.com/benchan0527/GoGoFood/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := applogger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// --- Repositories ---
	// With a DSN we run against postgres; without one the in-memory
	// repositories make the service self-contained for local development.
	var (
		catalogRepo repositories.CatalogRepository
		orderRepo   repositories.OrderRepository
		userRepo    repositories.UserRepository
	)
	if cfg.DatabaseDSN != "" {
		db, err := database.Connect(cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		catalogRepo = repositories.NewGORMCatalogRepository(db)
		orderRepo = repositories.NewGORMOrderRepository(db)
		userRepo = repositories.NewGORMUserRepository(db)
		logger.Info("using postgres persistence")
	} else {
		mockCatalog := repositories.NewMockCatalogRepository()
		seedMenu(mockCatalog, logger)
		catalogRepo = mockCatalog
		orderRepo = repositories.NewMockOrderRepository()
		userRepo = repositories.NewMockUserRepository()
		logger.Info("using in-memory persistence")
	}

	// --- Catalog cache ---
	var catalogCache cache.Cache
	if cfg.RedisAddr != "" {
		catalogCache = cache.NewRedisCache(cfg.RedisAddr, "gogofood")
		logger.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	// --- Message bus ---
	// The broker is optional: orders stay correct without it, events are
	// simply not emitted and fulfillment confirmations arrive over HTTP only.
	var mqClient *rabbitmq.Client
	mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		logger.Warn("RabbitMQ unavailable, continuing without events", zap.Error(err))
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Services ---
	catalogService := services.NewCatalogService(catalogRepo, catalogCache, cfg.CatalogCacheTTL, logger)
	accessGate := services.NewAccessGate(userRepo, cfg.JWTSecret, logger)

	var publisher services.OrderEventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	orderService := services.NewOrderService(orderRepo, catalogService, publisher, logger)

	// --- Handlers ---
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	profileHandler := handlers.NewProfileHandler(accessGate, logger)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(fiberlogger.New()) // Request logger

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Everything under /api/v1 sits behind the access gate.
	apiV1 := app.Group("/api/v1", middleware.AuthRequired(accessGate))
	adminOnly := middleware.AdminRequired()

	catalogHandler.RegisterRoutes(apiV1, adminOnly)
	orderHandler.RegisterRoutes(apiV1, adminOnly)
	profileHandler.RegisterRoutes(apiV1)

	// --- Fulfillment consumer ---
	// Kitchen confirmations arrive on the fulfillment queue and drive the
	// PLACED -> CONFIRMED transition.
	if mqClient != nil {
		handler := fulfillmentHandler(orderService, logger)
		if consumerErr := mqClient.ConsumeFulfillmentEvents(handler); consumerErr != nil {
			logger.Warn("failed to start fulfillment consumer", zap.Error(consumerErr))
		}
	}

	// --- Start HTTP Server ---
	logger.Info("starting server", zap.String("port", cfg.AppPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}

// fulfillmentHandler decodes a kitchen confirmation and applies it to the
// order engine. Returning nil for malformed or already-terminal orders keeps
// poison messages from cycling through the queue forever.
func fulfillmentHandler(orderService *services.OrderService, logger *zap.Logger) func(msg amqp.Delivery) error {
	type confirmation struct {
		OrderID string `json:"order_id"`
	}

	return func(msg amqp.Delivery) error {
		var conf confirmation
		if err := json.Unmarshal(msg.Body, &conf); err != nil || conf.OrderID == "" {
			logger.Warn("discarding malformed fulfillment message", zap.Uint64("tag", msg.DeliveryTag))
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := orderService.ConfirmOrder(ctx, conf.OrderID); err != nil {
			if apperrors.IsUnavailable(err) {
				return err // nack, retry later
			}
			logger.Warn("dropping non-retryable fulfillment message",
				zap.String("order_id", conf.OrderID),
				zap.Error(err))
			return nil
		}

		logger.Info("order confirmed via fulfillment event", zap.String("order_id", conf.OrderID))
		return nil
	}
}

// seedMenu populates the in-memory catalog with a small menu for local
// development.
func seedMenu(repo repositories.CatalogRepository, logger *zap.Logger) {
	beverages := models.Modifier{
		ID:   "mod-beverages",
		Name: "Beverages",
		Options: []models.ModifierOption{
			{ID: "opt-red-bean-fizzy", Name: "Red Bean Fizzy", PriceDelta: 3.00},
			{ID: "opt-milk-tea", Name: "Hong Kong Milk Tea", PriceDelta: 2.50},
			{ID: "opt-lemon-tea", Name: "Iced Lemon Tea", PriceDelta: 2.00},
		},
	}
	if err := repo.CreateModifier(context.Background(), &beverages); err != nil {
		logger.Warn("failed to seed modifier", zap.String("name", beverages.Name), zap.Error(err))
	}

	items := []models.MenuItem{
		{ID: "item-1", Name: "Pineapple Bun with Butter", Description: "Fresh from the oven", Price: 9.50, Category: models.CategoryMain, Available: true, ModifierIDs: []string{"mod-beverages"}},
		{ID: "item-2", Name: "Shredded Pork Noodles", Description: "House special", Price: 32.00, Category: models.CategoryMain, Available: true, ModifierIDs: []string{"mod-beverages"}},
		{ID: "item-3", Name: "Egg Tart", Price: 6.00, Category: models.CategoryDessert, Available: true},
		{ID: "item-4", Name: "Red Bean Fizzy", Price: 12.00, Category: models.CategoryBeverage, Available: false},
	}
	for i := range items {
		if err := repo.CreateItem(context.Background(), &items[i]); err != nil {
			logger.Warn("failed to seed menu item", zap.String("name", items[i].Name), zap.Error(err))
		}
	}
	logger.Info("seeded development menu", zap.Int("items", len(items)))
}
