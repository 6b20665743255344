package handlers

import (
	"time"

	"github.com/online-store/store-service/internal/domain"
	"github.com/shopspring/decimal"
)

type CategoryResponse struct {
	ID            uint               `json:"id"`
	Name          string             `json:"name"`
	ParentID      *uint              `json:"parent_id"`
	Subcategories []CategoryResponse `json:"subcategories"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type DiscountResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Percentage  float64   `json:"percentage"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductResponse struct {
	ID               uint              `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Price            float64           `json:"price"`
	FinalPrice       float64           `json:"final_price"`
	Stock            int               `json:"stock"`
	ReservedQuantity int               `json:"reserved_quantity"`
	CategoryID       uint              `json:"category_id"`
	CategoryName     string            `json:"category_name"`
	DiscountID       *uint             `json:"discount_id"`
	DiscountName     *string           `json:"discount_name"`
	Discount         *DiscountResponse `json:"discount"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type ReservationResponse struct {
	ID         uint      `json:"id"`
	ProductID  uint      `json:"product_id"`
	Quantity   int       `json:"quantity"`
	Active     bool      `json:"active"`
	ReservedAt time.Time `json:"reserved_at"`
}

type ReceiptResponse struct {
	SaleID       uint      `json:"sale_id"`
	ProductID    uint      `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductPrice float64   `json:"product_price"`
	FinalPrice   float64   `json:"final_price"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	DiscountID   *uint     `json:"discount_id"`
	DiscountName *string   `json:"discount_name"`
	Quantity     int       `json:"quantity"`
	Total        float64   `json:"total"`
	SoldAt       time.Time `json:"sold_at"`
}

type SaleReportRowResponse struct {
	SaleID       uint      `json:"sale_id"`
	ProductID    uint      `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductPrice float64   `json:"product_price"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	DiscountID   *uint     `json:"discount_id"`
	DiscountName *string   `json:"discount_name"`
	Quantity     int       `json:"quantity"`
	SoldAt       time.Time `json:"sold_at"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func mapCategory(category *domain.Category) CategoryResponse {
	response := CategoryResponse{
		ID:            category.ID,
		Name:          category.Name,
		ParentID:      category.ParentID,
		Subcategories: make([]CategoryResponse, 0, len(category.Subcategories)),
		CreatedAt:     category.CreatedAt,
		UpdatedAt:     category.UpdatedAt,
	}
	for _, child := range category.Subcategories {
		response.Subcategories = append(response.Subcategories, mapCategory(child))
	}
	return response
}

func mapCategories(categories []*domain.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = mapCategory(category)
	}
	return responses
}

func mapDiscount(discount *domain.Discount) *DiscountResponse {
	if discount == nil {
		return nil
	}
	return &DiscountResponse{
		ID:          discount.ID,
		Name:        discount.Name,
		Percentage:  discount.Percentage,
		Description: discount.Description,
		CreatedAt:   discount.CreatedAt,
	}
}

func mapDiscounts(discounts []*domain.Discount) []*DiscountResponse {
	responses := make([]*DiscountResponse, len(discounts))
	for i, discount := range discounts {
		responses[i] = mapDiscount(discount)
	}
	return responses
}

func mapProduct(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:               product.ID,
		Name:             product.Name,
		Description:      product.Description,
		Price:            money(product.Price),
		FinalPrice:       money(product.FinalPrice()),
		Stock:            product.Stock,
		ReservedQuantity: product.ReservedQuantity(),
		CategoryID:       product.CategoryID,
		CategoryName:     product.CategoryName(),
		DiscountID:       product.DiscountID,
		DiscountName:     product.DiscountName(),
		Discount:         mapDiscount(product.Discount),
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
}

func mapProducts(products []*domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = mapProduct(product)
	}
	return responses
}

func mapReservation(reservation *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         reservation.ID,
		ProductID:  reservation.ProductID,
		Quantity:   reservation.Quantity,
		Active:     reservation.Active,
		ReservedAt: reservation.ReservedAt,
	}
}

func mapReservations(reservations []*domain.Reservation) []ReservationResponse {
	responses := make([]ReservationResponse, len(reservations))
	for i, reservation := range reservations {
		responses[i] = mapReservation(reservation)
	}
	return responses
}

func mapReceipt(receipt *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		SaleID:       receipt.Sale.ID,
		ProductID:    receipt.Sale.ProductID,
		ProductName:  receipt.ProductName,
		ProductPrice: money(receipt.ProductPrice),
		FinalPrice:   money(receipt.FinalPrice),
		CategoryID:   receipt.CategoryID,
		CategoryName: receipt.CategoryName,
		DiscountID:   receipt.Sale.DiscountID,
		DiscountName: receipt.DiscountName,
		Quantity:     receipt.Sale.Quantity,
		Total:        money(receipt.Total()),
		SoldAt:       receipt.Sale.SoldAt,
	}
}

func mapReportRows(rows []domain.SaleReportRow) []SaleReportRowResponse {
	responses := make([]SaleReportRowResponse, len(rows))
	for i, row := range rows {
		responses[i] = SaleReportRowResponse{
			SaleID:       row.SaleID,
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			ProductPrice: money(row.ProductPrice),
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			DiscountID:   row.DiscountID,
			DiscountName: row.DiscountName,
			Quantity:     row.Quantity,
			SoldAt:       row.SoldAt,
		}
	}
	return responses
}
