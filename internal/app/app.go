// Package app assembles the HTTP application from its collaborators.
package app

import (
	"context"

	"drinks/internal/errs"
	"drinks/internal/handlers"
	"drinks/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	DrinkService   handlers.DrinkService
	AuthHandler    *handlers.AuthHandler
	TokenValidator middleware.TokenValidator
	Ping           handlers.PingFunc
	Log            *zap.SugaredLogger
	Development    bool
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// New builds the fiber app with the public auth and health routes and the
// bearer-protected drink routes under /api.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "drinks-api",
		ErrorHandler: errs.Handler(deps.Log, deps.Development),
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}

	ping := deps.Ping
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}
	handlers.NewHealthHandler(ping).RegisterRoutes(app)

	api := app.Group("/api")
	deps.AuthHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(deps.TokenValidator, deps.Log))
	handlers.NewDrinkHandler(deps.DrinkService).RegisterRoutes(protected)

	return app
}
