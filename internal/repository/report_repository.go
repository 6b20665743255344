package repository

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
	"gorm.io/gorm"
)

type ReportRepository struct {
	base
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{base{db: db}}
}

// SalesReport pushes every filter down to SQL. Name filters are
// case-insensitive substring matches; date bounds are inclusive.
func (r *ReportRepository) SalesReport(ctx context.Context, filter domain.SaleReportFilter) ([]*domain.Sale, error) {
	conn := r.conn(ctx)
	query := conn.Preload("Product.Category").Preload("Discount").Order("id")

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.ProductName != "" {
		products := conn.Model(&domain.Product{}).Select("id").
			Where("name ILIKE ?", containsPattern(filter.ProductName))
		query = query.Where("product_id IN (?)", products)
	}
	if filter.CategoryID != nil {
		products := conn.Model(&domain.Product{}).Select("id").
			Where("category_id = ?", *filter.CategoryID)
		query = query.Where("product_id IN (?)", products)
	}
	if filter.CategoryName != "" {
		categories := conn.Model(&domain.Category{}).Select("id").
			Where("name ILIKE ?", containsPattern(filter.CategoryName))
		products := conn.Model(&domain.Product{}).Select("id").
			Where("category_id IN (?)", categories)
		query = query.Where("product_id IN (?)", products)
	}
	if filter.Start != nil {
		query = query.Where("sold_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("sold_at <= ?", *filter.End)
	}

	sales := []*domain.Sale{}
	if err := query.Find(&sales).Error; err != nil {
		return nil, translateError("report.SalesReport", err)
	}
	return sales, nil
}
