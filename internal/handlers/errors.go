package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/online-store/store-service/internal/domain"
	sharedHTTP "github.com/online-store/store-service/shared/http"
)

const internalErrorMessage = "An internal server error occurred."

// respondError maps a service error onto the response envelope. Errors that
// are not domain errors are logged and hidden behind a generic message.
func respondError(c *fiber.Ctx, err error) error {
	message := domain.ClientMessage(err)

	switch {
	case message == "":
	case errors.Is(err, domain.ErrNotFound):
		return sharedHTTP.NotFoundResponse(c, message)
	case errors.Is(err, domain.ErrNotEnoughStock):
		return sharedHTTP.ErrorResponse(c, fiber.StatusConflict, "NOT_ENOUGH_STOCK", message, nil)
	case errors.Is(err, domain.ErrConflict):
		return sharedHTTP.ConflictResponse(c, message, nil)
	case errors.Is(err, domain.ErrInvalidInput):
		return sharedHTTP.BadRequestResponse(c, message, nil)
	}

	log.Printf("Internal error: %s %s: %v", c.Method(), c.Path(), err)
	return sharedHTTP.InternalServerErrorResponse(c, internalErrorMessage)
}

func invalidBody(c *fiber.Ctx, err error) error {
	return sharedHTTP.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
		"parse_error": err.Error(),
	})
}
