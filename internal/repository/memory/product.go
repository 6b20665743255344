package memory

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
	"github.com/shopspring/decimal"
)

const productConstraint = "The record references, or is referenced by, another record."

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) list(p domain.Page, keep func(domain.Product) bool) []*domain.Product {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := page(s.products, p, keep)
	out := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.productOut(row))
	}
	return out
}

func (r *ProductRepository) List(ctx context.Context, p domain.Page) ([]*domain.Product, error) {
	return r.list(p, nil), nil
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID uint, p domain.Page) ([]*domain.Product, error) {
	s := r.store
	s.mu.RLock()
	owners := []uint{categoryID}
	for id, category := range s.categories {
		if category.ParentID != nil && *category.ParentID == categoryID {
			owners = append(owners, id)
		}
	}
	s.mu.RUnlock()

	return r.list(p, func(product domain.Product) bool {
		return product.Stock > 0 && contains(owners, product.CategoryID)
	}), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, productID uint) (*domain.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.productOut(row), nil
}

// GetForUpdate needs no row lock: transactions on the store are serialised.
func (r *ProductRepository) GetForUpdate(ctx context.Context, productID uint) (*domain.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *ProductRepository) IDsByCategories(ctx context.Context, categoryIDs []uint) ([]uint, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []uint{}
	for _, id := range sortedIDs(s.products) {
		if contains(categoryIDs, s.products[id].CategoryID) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// checkRow enforces the column constraints and foreign keys of a product row.
func (r *ProductRepository) checkRow(op string, row domain.Product) error {
	s := r.store
	if row.Stock < 0 {
		return domain.InvalidInput(op, "Value rejected by constraint chk_products_stock.")
	}
	if _, ok := s.categories[row.CategoryID]; !ok {
		return domain.Conflict(op, productConstraint)
	}
	if row.DiscountID != nil {
		if _, ok := s.discounts[*row.DiscountID]; !ok {
			return domain.Conflict(op, productConstraint)
		}
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row := *product
	row.DiscountID = cloneUint(product.DiscountID)
	row.Category = nil
	row.Discount = nil
	row.Reservations = nil
	if err := r.checkRow("product.Create", row); err != nil {
		return err
	}

	s.seq.product++
	row.ID = s.seq.product
	row.CreatedAt = s.now()
	row.UpdatedAt = row.CreatedAt
	s.products[row.ID] = row

	product.ID = row.ID
	product.CreatedAt = row.CreatedAt
	product.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ProductRepository) modify(op string, productID uint, apply func(*domain.Product)) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	apply(&row)
	if err := r.checkRow(op, row); err != nil {
		return err
	}
	row.UpdatedAt = s.now()
	s.products[productID] = row
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, productID uint, fields map[string]interface{}) error {
	return r.modify("product.Update", productID, func(row *domain.Product) {
		for column, value := range fields {
			switch column {
			case "name":
				row.Name = value.(string)
			case "description":
				row.Description = value.(string)
			case "category_id":
				row.CategoryID = value.(uint)
			case "stock":
				row.Stock = value.(int)
			case "price":
				row.Price = value.(decimal.Decimal)
			}
		}
	})
}

func (r *ProductRepository) SetStock(ctx context.Context, productID uint, stock int) error {
	return r.modify("product.SetStock", productID, func(row *domain.Product) {
		row.Stock = stock
	})
}

func (r *ProductRepository) SetDiscount(ctx context.Context, productID uint, discountID *uint) error {
	return r.modify("product.SetDiscount", productID, func(row *domain.Product) {
		row.DiscountID = cloneUint(discountID)
	})
}

func (r *ProductRepository) DetachDiscount(ctx context.Context, discountID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, row := range s.products {
		if row.DiscountID != nil && *row.DiscountID == discountID {
			row.DiscountID = nil
			row.UpdatedAt = s.now()
			s.products[id] = row
		}
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, productIDs []uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, reservation := range s.reservations {
		if contains(productIDs, reservation.ProductID) {
			return domain.Conflict("product.Delete", productConstraint)
		}
	}
	for _, sale := range s.sales {
		if contains(productIDs, sale.ProductID) {
			return domain.Conflict("product.Delete", productConstraint)
		}
	}
	for _, id := range productIDs {
		delete(s.products, id)
	}
	return nil
}
