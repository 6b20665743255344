package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	sharedHTTP "github.com/online-store/store-service/shared/http"
)

type HealthHandler struct {
	service string
	ping    func(ctx context.Context) error
}

// NewHealthHandler builds the health endpoint. ping may be nil when there is
// no external dependency to check.
func NewHealthHandler(service string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{service: service, ping: ping}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			return sharedHTTP.ErrorResponse(c, fiber.StatusServiceUnavailable, "UNAVAILABLE",
				"Database is unreachable", nil)
		}
	}
	return sharedHTTP.SuccessResponse(c, "Store service is healthy", map[string]interface{}{
		"service": h.service,
		"status":  "healthy",
	})
}
