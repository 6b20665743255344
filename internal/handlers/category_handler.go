package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/internal/service"
	sharedHTTP "github.com/online-store/store-service/shared/http"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) Register(router fiber.Router) {
	categories := router.Group("/categories")
	categories.Get("/", h.ListRoots)
	categories.Post("/", h.Add)
	categories.Get("/name/:name", h.GetByName)
	categories.Get("/:id", h.GetByID)
	categories.Put("/:id", h.Update)
	categories.Patch("/:id", h.Update)
	categories.Delete("/:id", h.Delete)
}

func (h *CategoryHandler) ListRoots(c *fiber.Ctx) error {
	categories, err := h.categoryService.ListRoots(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Categories retrieved successfully", mapCategories(categories))
}

func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	categoryID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	category, err := h.categoryService.GetByID(c.UserContext(), categoryID)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Category retrieved successfully", mapCategory(category))
}

func (h *CategoryHandler) GetByName(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return sharedHTTP.BadRequestResponse(c, "Category name is required", nil)
	}

	category, err := h.categoryService.GetByName(c.UserContext(), name)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Category retrieved successfully", mapCategory(category))
}

func (h *CategoryHandler) Add(c *fiber.Ctx) error {
	var request domain.CreateCategoryRequest
	if err := c.BodyParser(&request); err != nil {
		return invalidBody(c, err)
	}

	category, err := h.categoryService.Add(c.UserContext(), request)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.CreatedResponse(c, "Category created successfully", mapCategory(category))
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	categoryID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	var request domain.UpdateCategoryRequest
	if err := c.BodyParser(&request); err != nil {
		return invalidBody(c, err)
	}

	category, err := h.categoryService.Update(c.UserContext(), categoryID, request)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Category updated successfully", mapCategory(category))
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	categoryID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	if err := h.categoryService.Delete(c.UserContext(), categoryID); err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Category deleted successfully", map[string]interface{}{
		"category_id": categoryID,
	})
}
