package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/internal/service"
	sharedHTTP "github.com/online-store/store-service/shared/http"
)

type SaleHandler struct {
	saleService   *service.SaleService
	reportService *service.ReportService
}

func NewSaleHandler(saleService *service.SaleService, reportService *service.ReportService) *SaleHandler {
	return &SaleHandler{
		saleService:   saleService,
		reportService: reportService,
	}
}

func (h *SaleHandler) Register(router fiber.Router) {
	router.Post("/sales", h.Buy)
	router.Get("/reports/sales", h.SalesReport)
}

func (h *SaleHandler) Buy(c *fiber.Ctx) error {
	var request domain.BuyRequest
	if err := c.BodyParser(&request); err != nil {
		return invalidBody(c, err)
	}
	if request.ProductID == 0 {
		return sharedHTTP.BadRequestResponse(c, "Product ID is required", nil)
	}

	receipt, err := h.saleService.Buy(c.UserContext(), request)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.CreatedResponse(c, "Purchase completed successfully", mapReceipt(receipt))
}

// SalesReport accepts product_id, product_name, category_id, category_name,
// start_date and end_date query parameters (start and end are accepted as
// aliases). All filters are optional and combined.
func (h *SaleHandler) SalesReport(c *fiber.Ctx) error {
	filter, err := queryReportFilter(c)
	if err != nil {
		return badParam(c, err)
	}

	rows, err := h.reportService.Generate(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return sharedHTTP.SuccessResponse(c, "Sales report generated successfully", mapReportRows(rows))
}
