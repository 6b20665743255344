package memory

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
)

type DiscountRepository struct {
	store *Store
}

func NewDiscountRepository(store *Store) *DiscountRepository {
	return &DiscountRepository{store: store}
}

func (r *DiscountRepository) List(ctx context.Context, p domain.Page) ([]*domain.Discount, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := page(s.discounts, p, nil)
	out := make([]*domain.Discount, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.discountOut(row))
	}
	return out, nil
}

func (r *DiscountRepository) GetByID(ctx context.Context, discountID uint) (*domain.Discount, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.discounts[discountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.discountOut(row), nil
}

func (r *DiscountRepository) Create(ctx context.Context, discount *domain.Discount) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.ValidPercentage(discount.Percentage) {
		return domain.InvalidInput("discount.Create", "Value rejected by constraint chk_discounts_percentage.")
	}

	s.seq.discount++
	discount.ID = s.seq.discount
	discount.CreatedAt = s.now()

	row := *discount
	row.Description = cloneString(discount.Description)
	s.discounts[row.ID] = row
	return nil
}

func (r *DiscountRepository) Delete(ctx context.Context, discountID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.discounts[discountID]; !ok {
		return domain.ErrNotFound
	}
	for _, product := range s.products {
		if product.DiscountID != nil && *product.DiscountID == discountID {
			return domain.Conflict("discount.Delete", productConstraint)
		}
	}
	for _, sale := range s.sales {
		if sale.DiscountID != nil && *sale.DiscountID == discountID {
			return domain.Conflict("discount.Delete", productConstraint)
		}
	}
	delete(s.discounts, discountID)
	return nil
}
