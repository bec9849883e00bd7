package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"warbler/internal/db"
	"warbler/internal/handlers"
	"warbler/internal/metrics"
	"warbler/internal/middleware"
	"warbler/internal/repositories"
	"warbler/internal/services"
	"warbler/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "warbler.db")
	viper.SetDefault("JWT_SECRET", "it's a secret")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	databaseURL := viper.GetString("DATABASE_URL")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Logging ---
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// --- Database ---
	conn, err := db.Connect(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// --- RabbitMQ (optional: no URL means events are skipped) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		logger.Info("RABBITMQ_URL not set, domain events disabled")
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(conn)
	messageRepo := repositories.NewGORMMessageRepository(conn)
	followRepo := repositories.NewGORMFollowRepository(conn)
	likeRepo := repositories.NewGORMLikeRepository(conn)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	userService := services.NewUserService(userRepo, authService)
	followService := services.NewFollowService(followRepo, userRepo, mqClient)
	messageService := services.NewMessageService(messageRepo, mqClient)
	likeService := services.NewLikeService(likeRepo, messageRepo)

	// --- Session store & metrics ---
	store := session.New(session.Config{
		Expiration:     16 * time.Hour,
		CookieHTTPOnly: true,
		CookieSameSite: "Strict",
	})
	m := metrics.InitMetrics()

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, store, m, logger)
	userHandler := handlers.NewUserHandler(userService, followService, messageService, likeService, store, m, logger)
	messageHandler := handlers.NewMessageHandler(messageService, likeService, m, logger)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(fiberlogger.New())
	app.Use(middleware.RequestID(logger))

	apiV1 := app.Group("/api/v1")

	// Public routes first: signup/login/logout, profile reads, single
	// warbles. The auth middleware below is a prefix-mounted Use, so
	// anything registered after it would be intercepted.
	authHandler.RegisterRoutes(apiV1)
	userHandler.RegisterPublicRoutes(apiV1)
	messageHandler.RegisterPublicRoutes(apiV1)

	// The feed admits anonymous viewers and shows them the no-feed state.
	optional := apiV1.Group("", middleware.OptionalAuth(store, authService))
	messageHandler.RegisterFeed(optional)

	// Protected routes require a session or a bearer token.
	protected := apiV1.Group("", middleware.AuthRequired(store, authService, logger))
	userHandler.RegisterProtectedRoutes(protected)
	messageHandler.RegisterProtectedRoutes(protected)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Event consumer ---
	if mqClient != nil {
		go func() {
			logger.Info("Starting RabbitMQ consumer for warbler events...")
			messageHandler := func(msg amqp.Delivery) error {
				logger.WithField("tag", msg.DeliveryTag).Infof("Received event: %s", string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeEvents(messageHandler); consumerErr != nil {
				logger.WithError(consumerErr).Error("Failed to start RabbitMQ consumer")
			}
		}()
	}

	// --- Start HTTP server with graceful shutdown ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
