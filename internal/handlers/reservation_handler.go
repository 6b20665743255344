package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/internal/service"
	sharedHTTP "github.com/online-store/store-service/shared/http"
)

type ReservationHandler struct {
	reservationService *service.ReservationService
}

func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

func (h *ReservationHandler) Register(router fiber.Router) {
	reservations := router.Group("/reservations")
	reservations.Get("/", h.List)
	reservations.Post("/", h.Reserve)
	reservations.Get("/product/:product_id", h.ListByProduct)
	reservations.Get("/:id", h.GetByID)
	reservations.Patch("/:id/cancel", h.Cancel)
}

func (h *ReservationHandler) respondPage(c *fiber.Ctx, page domain.Page, reservations []*domain.Reservation) error {
	var lastID uint
	if len(reservations) > 0 {
		lastID = reservations[len(reservations)-1].ID
	}
	return pageResponse(c, "Reservations retrieved successfully", page,
		mapReservations(reservations), len(reservations), lastID)
}

func (h *ReservationHandler) List(c *fiber.Ctx) error {
	page, err := queryPage(c)
	if err != nil {
		return badParam(c, err)
	}

	reservations, err := h.reservationService.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, page, reservations)
}

func (h *ReservationHandler) ListByProduct(c *fiber.Ctx) error {
	productID, err := pathID(c, "product_id")
	if err != nil {
		return badParam(c, err)
	}
	page, err := queryPage(c)
	if err != nil {
		return badParam(c, err)
	}

	reservations, err := h.reservationService.ListByProduct(c.UserContext(), productID, page)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, page, reservations)
}

func (h *ReservationHandler) GetByID(c *fiber.Ctx) error {
	reservationID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	reservation, err := h.reservationService.GetByID(c.UserContext(), reservationID)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Reservation retrieved successfully", mapReservation(reservation))
}

func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	var request domain.ReserveRequest
	if err := c.BodyParser(&request); err != nil {
		return invalidBody(c, err)
	}
	if request.ProductID == 0 {
		return sharedHTTP.BadRequestResponse(c, "Product ID is required", nil)
	}

	reservation, err := h.reservationService.Reserve(c.UserContext(), request)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.CreatedResponse(c, "Reservation created successfully", mapReservation(reservation))
}

func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	reservationID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	reservation, err := h.reservationService.Cancel(c.UserContext(), reservationID)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Reservation cancelled successfully", mapReservation(reservation))
}
