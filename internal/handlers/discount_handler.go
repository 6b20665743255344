package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/internal/service"
	sharedHTTP "github.com/online-store/store-service/shared/http"
)

type DiscountHandler struct {
	discountService *service.DiscountService
}

func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

func (h *DiscountHandler) Register(router fiber.Router) {
	discounts := router.Group("/discounts")
	discounts.Get("/", h.List)
	discounts.Post("/", h.Add)
	discounts.Get("/:id", h.GetByID)
	discounts.Delete("/:id", h.Delete)
}

func (h *DiscountHandler) List(c *fiber.Ctx) error {
	page, err := queryPage(c)
	if err != nil {
		return badParam(c, err)
	}

	discounts, err := h.discountService.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}

	var lastID uint
	if len(discounts) > 0 {
		lastID = discounts[len(discounts)-1].ID
	}
	return pageResponse(c, "Discounts retrieved successfully", page, mapDiscounts(discounts), len(discounts), lastID)
}

func (h *DiscountHandler) GetByID(c *fiber.Ctx) error {
	discountID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	discount, err := h.discountService.GetByID(c.UserContext(), discountID)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Discount retrieved successfully", mapDiscount(discount))
}

func (h *DiscountHandler) Add(c *fiber.Ctx) error {
	var request domain.CreateDiscountRequest
	if err := c.BodyParser(&request); err != nil {
		return invalidBody(c, err)
	}

	discount, err := h.discountService.Add(c.UserContext(), request)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.CreatedResponse(c, "Discount created successfully", mapDiscount(discount))
}

func (h *DiscountHandler) Delete(c *fiber.Ctx) error {
	discountID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	if err := h.discountService.Delete(c.UserContext(), discountID); err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Discount deleted successfully", map[string]interface{}{
		"discount_id": discountID,
	})
}
