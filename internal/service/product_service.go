package service

import (
	"context"
	"log"

	"github.com/online-store/store-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductService struct {
	tx           Transactor
	products     ProductRepository
	categories   CategoryRepository
	discounts    DiscountRepository
	reservations ReservationRepository
	sales        SaleRepository
}

func NewProductService(
	tx Transactor,
	products ProductRepository,
	categories CategoryRepository,
	discounts DiscountRepository,
	reservations ReservationRepository,
	sales SaleRepository,
) *ProductService {
	return &ProductService{
		tx:           tx,
		products:     products,
		categories:   categories,
		discounts:    discounts,
		reservations: reservations,
		sales:        sales,
	}
}

func (s *ProductService) List(ctx context.Context, page domain.Page) ([]*domain.Product, error) {
	return s.products.List(ctx, page)
}

func (s *ProductService) GetByID(ctx context.Context, productID uint) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if domain.IsNotFound(err) {
		return nil, domain.ProductNotFound("product.GetByID", productID)
	}
	return product, err
}

// ListByCategory returns in-stock products of the category and of its direct
// subcategories.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uint, page domain.Page) ([]*domain.Product, error) {
	const op = "product.ListByCategory"
	if err := s.requireCategory(ctx, op, categoryID); err != nil {
		return nil, err
	}
	return s.products.ListByCategory(ctx, categoryID, page)
}

func (s *ProductService) requireCategory(ctx context.Context, op string, categoryID uint) error {
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.CategoryNotFound(op, categoryID)
	}
	return nil
}

func (s *ProductService) requireProduct(ctx context.Context, op string, productID uint) error {
	_, err := s.products.GetByID(ctx, productID)
	if domain.IsNotFound(err) {
		return domain.ProductNotFound(op, productID)
	}
	return err
}

func (s *ProductService) Add(ctx context.Context, request domain.CreateProductRequest) (*domain.Product, error) {
	const op = "product.Add"
	request.Normalize()
	if request.Name == "" {
		return nil, domain.InvalidInput(op, "Product name is required.")
	}
	if request.Price <= 0 {
		return nil, domain.InvalidInput(op, "Product price must be greater than zero.")
	}
	if request.Stock != nil && *request.Stock < 0 {
		return nil, domain.InvalidInput(op, "Product stock must not be negative.")
	}

	product := request.ToProduct()
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireCategory(ctx, op, request.CategoryID); err != nil {
			return err
		}
		return s.products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Product created: ID=%d, Name=%s, CategoryID=%d", product.ID, product.Name, product.CategoryID)
	return s.GetByID(ctx, product.ID)
}

func (s *ProductService) Update(ctx context.Context, productID uint, request domain.UpdateProductRequest) (*domain.Product, error) {
	const op = "product.Update"
	request.Normalize()
	if request.Name != nil && *request.Name == "" {
		return nil, domain.InvalidInput(op, "Product name must not be empty.")
	}
	if request.Stock != nil && *request.Stock < 0 {
		return nil, domain.InvalidInput(op, "Product stock must not be negative.")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireProduct(ctx, op, productID); err != nil {
			return err
		}
		if request.CategoryID != nil {
			if err := s.requireCategory(ctx, op, *request.CategoryID); err != nil {
				return err
			}
		}

		fields := request.Fields()
		if len(fields) == 0 {
			return nil
		}
		return s.products.Update(ctx, productID, fields)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Product updated: ID=%d", productID)
	return s.GetByID(ctx, productID)
}

func (s *ProductService) UpdatePrice(ctx context.Context, productID uint, price float64) (*domain.Product, error) {
	const op = "product.UpdatePrice"
	if price <= 0 {
		return nil, domain.InvalidInput(op, "Product price must be greater than zero.")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		err := s.products.Update(ctx, productID, map[string]interface{}{
			"price": decimal.NewFromFloat(price).Round(2),
		})
		if domain.IsNotFound(err) {
			return domain.ProductNotFound(op, productID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Product price updated: ID=%d, Price=%.2f", productID, price)
	return s.GetByID(ctx, productID)
}

// Delete removes the product together with its reservations and sales.
func (s *ProductService) Delete(ctx context.Context, productID uint) error {
	const op = "product.Delete"

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireProduct(ctx, op, productID); err != nil {
			return err
		}
		ids := []uint{productID}
		if err := s.reservations.DeleteByProducts(ctx, ids); err != nil {
			return err
		}
		if err := s.sales.DeleteByProducts(ctx, ids); err != nil {
			return err
		}
		return s.products.Delete(ctx, ids)
	})
	if err != nil {
		return err
	}

	log.Printf("Product deleted: ID=%d", productID)
	return nil
}

func (s *ProductService) AttachDiscount(ctx context.Context, productID, discountID uint) (*domain.Product, error) {
	const op = "product.AttachDiscount"

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireProduct(ctx, op, productID); err != nil {
			return err
		}
		_, err := s.discounts.GetByID(ctx, discountID)
		if domain.IsNotFound(err) {
			return domain.DiscountNotFound(op, discountID)
		}
		if err != nil {
			return err
		}
		return s.products.SetDiscount(ctx, productID, &discountID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Discount attached: ProductID=%d, DiscountID=%d", productID, discountID)
	return s.GetByID(ctx, productID)
}

func (s *ProductService) DetachDiscount(ctx context.Context, productID uint) (*domain.Product, error) {
	const op = "product.DetachDiscount"

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireProduct(ctx, op, productID); err != nil {
			return err
		}
		return s.products.SetDiscount(ctx, productID, nil)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Discount detached: ProductID=%d", productID)
	return s.GetByID(ctx, productID)
}
