package handlers

import (
	"github.com/gofiber/fiber/v2"
	sharedHTTP "github.com/online-store/store-service/shared/http"
)

type Handlers struct {
	Health       *HealthHandler
	Categories   *CategoryHandler
	Products     *ProductHandler
	Discounts    *DiscountHandler
	Reservations *ReservationHandler
	Sales        *SaleHandler
}

// SetupRoutes mounts every handler under /api/v1 and answers unknown routes
// with 404.
func (h Handlers) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Get("/health", h.Health.HealthCheck)

	h.Categories.Register(api)
	h.Products.Register(api)
	h.Discounts.Register(api)
	h.Reservations.Register(api)
	h.Sales.Register(api)

	app.Use(func(c *fiber.Ctx) error {
		return sharedHTTP.NotFoundResponse(c, "Route not found")
	})
}
