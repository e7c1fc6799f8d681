package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gestion-personas/internal/di"
	"gestion-personas/internal/personas/config"
	"gestion-personas/internal/personas/usecase"
	"gestion-personas/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger().WithComponent("main")

	personasCfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load personas configuration: %v", err)
	}
	appLogger.Info("Application configuration loaded successfully")

	container := di.NewContainer(logger.NewLogger())
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = container.InitializePersonas(initCtx, personasCfg)
	cancel()
	if err != nil {
		appLogger.Errorf("Failed to initialize personas module: %v", err)
		os.Exit(1)
	}
	appLogger.Infof("Personas module initialized with %s storage", personasCfg.Driver)

	app := fiber.New(fiber.Config{
		AppName:      "Gestion Personas API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Errorf("HTTP error: %v", err)
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   "request_failed",
				"message": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "UNHEALTHY",
				"error":   err.Error(),
				"message": "Storage backend is unavailable",
			})
		}

		body := fiber.Map{
			"status":    "HEALTHY",
			"message":   "Gestion Personas API is running",
			"timestamp": time.Now().UTC(),
			"storage":   personasCfg.Driver,
		}
		if store, err := di.GetService[*usecase.Store](container); err == nil {
			body["writes"] = store.Stats()
		}
		return c.JSON(body)
	})

	container.GetPersonasModule().RegisterRoutes(app)

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
