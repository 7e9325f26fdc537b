// Package server assembles the fiber application: middleware, health and
// metrics endpoints, and the product API.
package server

import (
	"productapi/internal/handlers"
	"productapi/internal/metrics"
	"productapi/internal/middleware"
	"productapi/internal/repositories"
	"productapi/internal/router"
	"productapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Options holds the collaborators of the HTTP app.
type Options struct {
	Logger     zerolog.Logger
	Repository repositories.ProductRepository
	// Events is optional; nil disables lifecycle events.
	Events services.EventPublisher
	// Metrics is optional; nil disables /metrics and request metrics.
	Metrics      *metrics.Metrics
	APIPrefix    string
	AllowOrigins string
}

// NewApp builds the fiber app. The repository is passed in explicitly and
// shared by every request.
func NewApp(opts Options) *fiber.App {
	if opts.AllowOrigins == "" {
		opts.AllowOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "productapi",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(opts.Logger),
	})

	app.Use(middleware.RequestIDs())
	if opts.Metrics != nil {
		app.Use(middleware.Metrics(opts.Metrics))
	}
	app.Use(cors.New(cors.Config{AllowOrigins: opts.AllowOrigins}))
	app.Use(middleware.RequestLogger(opts.Logger))
	app.Use(recover.New())

	handlers.NewHealthHandler(opts.Repository, opts.Logger).RegisterRoutes(app)
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	productService := services.NewProductService(opts.Repository, opts.Events, opts.Logger)
	productHandler := handlers.NewProductHandler(productService)
	productHandler.RegisterRoutes(router.New(app.Group(opts.APIPrefix)))

	return app
}
