package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"drinks/internal/app"
	"drinks/internal/config"
	"drinks/internal/database"
	"drinks/internal/handlers"
	"drinks/internal/logger"
	"drinks/internal/models"
	"drinks/internal/repositories"
	"drinks/internal/services"
	"drinks/internal/validation"
	"drinks/pkg/rabbitmq"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.Must(zap.NewProduction()).Sugar().Fatalw("failed to load configuration", "error", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		zap.Must(zap.NewProduction()).Sugar().Fatalw("failed to build logger", "error", err)
	}
	defer log.Sync()

	// --- Database ---
	db, err := database.Open(database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.Database.Debug,
	})
	if err != nil {
		log.Fatalw("failed to open database", "driver", cfg.Database.Driver, "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalw("failed to migrate database", "error", err)
	}
	if cfg.Database.Seed {
		if err := database.Seed(db); err != nil {
			log.Fatalw("failed to seed database", "error", err)
		}
	}
	log.Infow("database ready", "driver", cfg.Database.Driver)

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, log)
		if err != nil {
			log.Fatalw("failed to connect to RabbitMQ", "error", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.Consume(logDrinkEvent(log)); err != nil {
			log.Warnw("failed to start drink event consumer", "error", err)
		}
	} else {
		log.Warn("RABBITMQ_URL not set, drink events are disabled")
	}

	// --- Services ---
	validate := validation.New()
	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), services.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	drinkService := services.NewDrinkService(drinkRepositoryFactory(db), validate, publisher, log)

	// --- Fiber App ---
	server := app.New(app.Deps{
		DrinkService:   drinkService,
		AuthHandler:    handlers.NewAuthHandler(authService, validate),
		TokenValidator: authService,
		Ping:           func(ctx context.Context) error { return database.Ping(ctx, db) },
		Log:            log,
		Development:    cfg.IsDevelopment(),
		AccessLog:      true,
	})

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infow("starting server", "addr", cfg.Port, "env", cfg.Env)
		if err := server.Listen(cfg.Port); err != nil {
			log.Fatalw("server failed to start", "error", err)
		}
	}()

	<-quit
	log.Info("shutting down server")

	if err := server.Shutdown(); err != nil {
		log.Errorw("error during fiber shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server gracefully stopped")
}

// drinkRepositoryFactory opens one unit of work per request, bound to the
// request context.
func drinkRepositoryFactory(db *gorm.DB) services.DrinkRepositoryFactory {
	return func(ctx context.Context) repositories.DrinkRepository {
		return repositories.NewGORMDrinkRepository(db.WithContext(ctx))
	}
}

// logDrinkEvent is the consumer for the drink event queue.
func logDrinkEvent(log *zap.SugaredLogger) rabbitmq.Handler {
	return func(body []byte) error {
		var event models.DrinkEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return err
		}
		log.Infow("drink event received",
			"event_id", event.ID,
			"type", event.Type,
			"drink_id", event.DrinkID,
			"name", event.Name,
		)
		return nil
	}
}
