package repository

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
	"gorm.io/gorm"
)

type DiscountRepository struct {
	base
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{base{db: db}}
}

func (r *DiscountRepository) List(ctx context.Context, page domain.Page) ([]*domain.Discount, error) {
	discounts := []*domain.Discount{}
	if err := r.conn(ctx).Scopes(paginate(page)).Find(&discounts).Error; err != nil {
		return nil, translateError("discount.List", err)
	}
	return discounts, nil
}

func (r *DiscountRepository) GetByID(ctx context.Context, discountID uint) (*domain.Discount, error) {
	var discount domain.Discount
	if err := r.conn(ctx).First(&discount, discountID).Error; err != nil {
		return nil, translateError("discount.GetByID", err)
	}
	return &discount, nil
}

func (r *DiscountRepository) Create(ctx context.Context, discount *domain.Discount) error {
	return translateError("discount.Create", r.conn(ctx).Create(discount).Error)
}

func (r *DiscountRepository) Delete(ctx context.Context, discountID uint) error {
	result := r.conn(ctx).Delete(&domain.Discount{}, discountID)
	return affected("discount.Delete", result)
}
