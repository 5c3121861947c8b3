package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/souchan25/attendance-go-api/internal/config"
	"github.com/souchan25/attendance-go-api/internal/handler"
	"github.com/souchan25/attendance-go-api/internal/middleware"
	"github.com/souchan25/attendance-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	PersonHandler *handler.PersonHandler
	EventHandler  *handler.EventHandler
	KioskHandler  *handler.KioskHandler
	DeviceHandler *handler.DeviceHandler
	AuthHandler   *handler.AuthHandler
	JWTMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Kiosk routes
// stay unauthenticated since the scanner itself is the credential; all
// management surfaces sit behind the JWT guard.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.RegisterPublic(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	if deps.KioskHandler != nil {
		kiosk := api.Group("/kiosk", middleware.RateLimit("kiosk", cfg.KioskRateLimit, cfg.KioskRateWindow))
		deps.KioskHandler.Register(kiosk)
	}

	if deps.PersonHandler != nil {
		people := api.Group("/people", jwtMiddleware)
		deps.PersonHandler.Register(people)
	}

	if deps.EventHandler != nil {
		events := api.Group("/events", jwtMiddleware)
		deps.EventHandler.Register(events)
	}

	if deps.DeviceHandler != nil {
		device := api.Group("/device", jwtMiddleware)
		deps.DeviceHandler.Register(device)
	}
}
