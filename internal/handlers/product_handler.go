package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/internal/service"
	sharedHTTP "github.com/online-store/store-service/shared/http"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Register(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.List)
	products.Post("/", h.Add)
	products.Get("/category/:category_id", h.ListByCategory)
	products.Get("/:id", h.GetByID)
	products.Put("/:id", h.Update)
	products.Patch("/:id", h.Update)
	products.Patch("/:id/price", h.UpdatePrice)
	products.Delete("/:id", h.Delete)
	products.Post("/:id/discount/:discount_id", h.AttachDiscount)
	products.Delete("/:id/discount", h.DetachDiscount)
}

func (h *ProductHandler) respondPage(c *fiber.Ctx, page domain.Page, products []*domain.Product) error {
	var lastID uint
	if len(products) > 0 {
		lastID = products[len(products)-1].ID
	}
	return pageResponse(c, "Products retrieved successfully", page, mapProducts(products), len(products), lastID)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, err := queryPage(c)
	if err != nil {
		return badParam(c, err)
	}

	products, err := h.productService.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, page, products)
}

func (h *ProductHandler) ListByCategory(c *fiber.Ctx) error {
	categoryID, err := pathID(c, "category_id")
	if err != nil {
		return badParam(c, err)
	}
	page, err := queryPage(c)
	if err != nil {
		return badParam(c, err)
	}

	products, err := h.productService.ListByCategory(c.UserContext(), categoryID, page)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, page, products)
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	product, err := h.productService.GetByID(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Product retrieved successfully", mapProduct(product))
}

func (h *ProductHandler) Add(c *fiber.Ctx) error {
	var request domain.CreateProductRequest
	if err := c.BodyParser(&request); err != nil {
		return invalidBody(c, err)
	}

	product, err := h.productService.Add(c.UserContext(), request)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.CreatedResponse(c, "Product created successfully", mapProduct(product))
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	var request domain.UpdateProductRequest
	if err := c.BodyParser(&request); err != nil {
		return invalidBody(c, err)
	}

	product, err := h.productService.Update(c.UserContext(), productID, request)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Product updated successfully", mapProduct(product))
}

func (h *ProductHandler) UpdatePrice(c *fiber.Ctx) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	var request domain.UpdatePriceRequest
	if err := c.BodyParser(&request); err != nil {
		return invalidBody(c, err)
	}

	product, err := h.productService.UpdatePrice(c.UserContext(), productID, request.Price)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Product price updated successfully", mapProduct(product))
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	if err := h.productService.Delete(c.UserContext(), productID); err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Product deleted successfully", map[string]interface{}{
		"product_id": productID,
	})
}

func (h *ProductHandler) AttachDiscount(c *fiber.Ctx) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}
	discountID, err := pathID(c, "discount_id")
	if err != nil {
		return badParam(c, err)
	}

	product, err := h.productService.AttachDiscount(c.UserContext(), productID, discountID)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Discount attached successfully", mapProduct(product))
}

func (h *ProductHandler) DetachDiscount(c *fiber.Ctx) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	product, err := h.productService.DetachDiscount(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Discount detached successfully", mapProduct(product))
}
