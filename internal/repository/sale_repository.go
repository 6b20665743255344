package repository

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository struct {
	base
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{base{db: db}}
}

func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	err := r.conn(ctx).Omit(clause.Associations).Create(sale).Error
	return translateError("sale.Create", err)
}

func (r *SaleRepository) GetByID(ctx context.Context, saleID uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.conn(ctx).
		Preload("Product.Category").
		Preload("Discount").
		First(&sale, saleID).Error
	if err != nil {
		return nil, translateError("sale.GetByID", err)
	}
	return &sale, nil
}

func (r *SaleRepository) CountByDiscount(ctx context.Context, discountID uint) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.Sale{}).Where("discount_id = ?", discountID).Count(&count).Error
	if err != nil {
		return 0, translateError("sale.CountByDiscount", err)
	}
	return count, nil
}

func (r *SaleRepository) DeleteByProducts(ctx context.Context, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	err := r.conn(ctx).Where("product_id IN ?", productIDs).Delete(&domain.Sale{}).Error
	return translateError("sale.DeleteByProducts", err)
}
