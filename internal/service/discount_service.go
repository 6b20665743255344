package service

import (
	"context"
	"log"

	"github.com/online-store/store-service/internal/domain"
)

type DiscountService struct {
	tx        Transactor
	discounts DiscountRepository
	products  ProductRepository
	sales     SaleRepository
}

func NewDiscountService(tx Transactor, discounts DiscountRepository, products ProductRepository, sales SaleRepository) *DiscountService {
	return &DiscountService{
		tx:        tx,
		discounts: discounts,
		products:  products,
		sales:     sales,
	}
}

func (s *DiscountService) List(ctx context.Context, page domain.Page) ([]*domain.Discount, error) {
	return s.discounts.List(ctx, page)
}

func (s *DiscountService) GetByID(ctx context.Context, discountID uint) (*domain.Discount, error) {
	discount, err := s.discounts.GetByID(ctx, discountID)
	if domain.IsNotFound(err) {
		return nil, domain.DiscountNotFound("discount.GetByID", discountID)
	}
	return discount, err
}

func (s *DiscountService) Add(ctx context.Context, request domain.CreateDiscountRequest) (*domain.Discount, error) {
	const op = "discount.Add"
	request.Normalize()
	if request.Name == "" {
		return nil, domain.InvalidInput(op, "Discount name is required.")
	}
	if !domain.ValidPercentage(request.Percentage) {
		return nil, domain.InvalidInput(op, "Discount percentage must be between 0 and 100, got %g.", request.Percentage)
	}

	discount := request.ToDiscount()
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.discounts.Create(ctx, discount)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Discount created: ID=%d, Name=%s, Percentage=%g", discount.ID, discount.Name, discount.Percentage)
	return discount, nil
}

// Delete detaches the discount from every product and removes it. Discounts
// referenced by a sale are kept, since sales are immutable.
func (s *DiscountService) Delete(ctx context.Context, discountID uint) error {
	const op = "discount.Delete"

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.discounts.GetByID(ctx, discountID)
		if domain.IsNotFound(err) {
			return domain.DiscountNotFound(op, discountID)
		}
		if err != nil {
			return err
		}

		sold, err := s.sales.CountByDiscount(ctx, discountID)
		if err != nil {
			return err
		}
		if sold > 0 {
			return domain.Conflict(op,
				"Discount with ID %d is referenced by %d sale(s) and cannot be deleted.", discountID, sold)
		}

		if err := s.products.DetachDiscount(ctx, discountID); err != nil {
			return err
		}
		return s.discounts.Delete(ctx, discountID)
	})
	if err != nil {
		return err
	}

	log.Printf("Discount deleted: ID=%d", discountID)
	return nil
}
