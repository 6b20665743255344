package memory

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
)

type SaleRepository struct {
	store *Store
}

func NewSaleRepository(store *Store) *SaleRepository {
	return &SaleRepository{store: store}
}

func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if sale.Quantity <= 0 {
		return domain.InvalidInput("sale.Create", "Value rejected by constraint chk_sales_quantity.")
	}
	if _, ok := s.products[sale.ProductID]; !ok {
		return domain.Conflict("sale.Create", productConstraint)
	}
	if sale.DiscountID != nil {
		if _, ok := s.discounts[*sale.DiscountID]; !ok {
			return domain.Conflict("sale.Create", productConstraint)
		}
	}

	s.seq.sale++
	sale.ID = s.seq.sale

	row := *sale
	row.DiscountID = cloneUint(sale.DiscountID)
	row.Product = nil
	row.Discount = nil
	s.sales[row.ID] = row
	return nil
}

func (r *SaleRepository) GetByID(ctx context.Context, saleID uint) (*domain.Sale, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.sales[saleID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.saleOut(row), nil
}

func (r *SaleRepository) CountByDiscount(ctx context.Context, discountID uint) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, row := range s.sales {
		if row.DiscountID != nil && *row.DiscountID == discountID {
			count++
		}
	}
	return count, nil
}

func (r *SaleRepository) DeleteByProducts(ctx context.Context, productIDs []uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, row := range s.sales {
		if contains(productIDs, row.ProductID) {
			delete(s.sales, id)
		}
	}
	return nil
}
