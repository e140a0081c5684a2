package http

import (
	"context"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/nikolayk812/marketplace/internal/metrics"
	"github.com/nikolayk812/marketplace/internal/transport/http/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Sale    *handler.SaleHandler
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewApp creates the fiber app with tracing, request id and access log middleware installed.
func NewApp(logger *zap.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "marketplace",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/health"
	})))
	app.Use(NewRequestIDMiddleware())
	app.Use(NewAccessLogMiddleware(logger, m))

	return app
}

func RegisterRoutes(app *fiber.App, h *Handlers, authenticator Authenticator, db Pinger, m *metrics.Metrics) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)

	api := app.Group("/api", NewAuthMiddleware(authenticator))
	api.Get("/me", h.Auth.GetMe)

	users := api.Group("/users")
	users.Get("", h.Auth.ListUsers)
	users.Patch("/:id", h.Auth.UpdateUser)

	product := api.Group("/products")
	product.Get("", h.Product.ListProducts)
	product.Get("/mine", h.Product.ListMine)
	product.Get("/:id", h.Product.FindByID)
	product.Post("", h.Product.Create)
	product.Patch("/:id", h.Product.Update)
	product.Delete("/:id", h.Product.Deactivate)

	order := api.Group("/orders")
	order.Post("", h.Order.Create)
	order.Get("", h.Order.ListAll)
	order.Get("/mine", h.Order.ListMine)
	order.Get("/:id", h.Order.FindByID)
	order.Patch("/:id/status", h.Order.UpdateStatus)

	sale := api.Group("/sales")
	sale.Get("", h.Sale.ListAll)
	sale.Get("/mine", h.Sale.ListMine)
	sale.Get("/stats", h.Sale.MyStats)

	api.Get("/sellers/:id/stats", h.Sale.SellerStats)
}
