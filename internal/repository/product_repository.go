package repository

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	base
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{base{db: db}}
}

// withRelations loads the category, the discount and the active reservations.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").
		Preload("Discount").
		Preload("Reservations", "active = ?", true)
}

func (r *ProductRepository) List(ctx context.Context, page domain.Page) ([]*domain.Product, error) {
	products := []*domain.Product{}
	err := r.conn(ctx).Scopes(withRelations, paginate(page)).Find(&products).Error
	if err != nil {
		return nil, translateError("product.List", err)
	}
	return products, nil
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID uint, page domain.Page) ([]*domain.Product, error) {
	conn := r.conn(ctx)
	children := conn.Model(&domain.Category{}).Select("id").Where("parent_id = ?", categoryID)

	products := []*domain.Product{}
	err := conn.Scopes(withRelations, paginate(page)).
		Where("category_id = ? OR category_id IN (?)", categoryID, children).
		Where("stock > 0").
		Find(&products).Error
	if err != nil {
		return nil, translateError("product.ListByCategory", err)
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, productID uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.conn(ctx).Scopes(withRelations).First(&product, productID).Error; err != nil {
		return nil, translateError("product.GetByID", err)
	}
	return &product, nil
}

// GetForUpdate locks the product row with SELECT ... FOR UPDATE before
// loading its relations. The lock is held until the transaction ends.
func (r *ProductRepository) GetForUpdate(ctx context.Context, productID uint) (*domain.Product, error) {
	conn := r.conn(ctx)

	var locked domain.Product
	err := conn.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, productID).Error
	if err != nil {
		return nil, translateError("product.GetForUpdate", err)
	}

	var product domain.Product
	if err := conn.Scopes(withRelations).First(&product, productID).Error; err != nil {
		return nil, translateError("product.GetForUpdate", err)
	}
	return &product, nil
}

func (r *ProductRepository) IDsByCategories(ctx context.Context, categoryIDs []uint) ([]uint, error) {
	ids := []uint{}
	if len(categoryIDs) == 0 {
		return ids, nil
	}
	err := r.conn(ctx).Model(&domain.Product{}).
		Where("category_id IN ?", categoryIDs).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, translateError("product.IDsByCategories", err)
	}
	return ids, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	err := r.conn(ctx).Omit(clause.Associations).Create(product).Error
	return translateError("product.Create", err)
}

func (r *ProductRepository) Update(ctx context.Context, productID uint, fields map[string]interface{}) error {
	result := r.conn(ctx).Model(&domain.Product{}).Where("id = ?", productID).Updates(fields)
	return affected("product.Update", result)
}

func (r *ProductRepository) SetStock(ctx context.Context, productID uint, stock int) error {
	result := r.conn(ctx).Model(&domain.Product{}).Where("id = ?", productID).Update("stock", stock)
	return affected("product.SetStock", result)
}

func (r *ProductRepository) SetDiscount(ctx context.Context, productID uint, discountID *uint) error {
	var value interface{} = gorm.Expr("NULL")
	if discountID != nil {
		value = *discountID
	}
	result := r.conn(ctx).Model(&domain.Product{}).Where("id = ?", productID).Update("discount_id", value)
	return affected("product.SetDiscount", result)
}

func (r *ProductRepository) DetachDiscount(ctx context.Context, discountID uint) error {
	err := r.conn(ctx).Model(&domain.Product{}).
		Where("discount_id = ?", discountID).
		Update("discount_id", gorm.Expr("NULL")).Error
	return translateError("product.DetachDiscount", err)
}

func (r *ProductRepository) Delete(ctx context.Context, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	err := r.conn(ctx).Where("id IN ?", productIDs).Delete(&domain.Product{}).Error
	return translateError("product.Delete", err)
}
