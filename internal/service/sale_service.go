package service

import (
	"context"
	"log"

	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/shared/events"
)

type SaleService struct {
	tx        Transactor
	products  ProductRepository
	sales     SaleRepository
	publisher EventPublisher
}

func NewSaleService(tx Transactor, products ProductRepository, sales SaleRepository, publisher EventPublisher) *SaleService {
	return &SaleService{
		tx:        tx,
		products:  products,
		sales:     sales,
		publisher: publisher,
	}
}

// Buy takes quantity from stock and records a sale carrying the product's
// current discount, in one transaction.
func (s *SaleService) Buy(ctx context.Context, request domain.BuyRequest) (*domain.Receipt, error) {
	const op = "sale.Buy"
	log.Printf("Buy started: ProductID=%d, Quantity=%d", request.ProductID, request.Quantity)

	if request.Quantity <= 0 {
		return nil, domain.InvalidInput(op, "Quantity must be greater than zero.")
	}

	var (
		receipt   *domain.Receipt
		remaining int
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.products.GetForUpdate(ctx, request.ProductID)
		if domain.IsNotFound(err) {
			return domain.ProductNotFound(op, request.ProductID)
		}
		if err != nil {
			return err
		}

		if err := product.Take(op, request.Quantity); err != nil {
			return err
		}
		if err := s.products.SetStock(ctx, product.ID, product.Stock); err != nil {
			return err
		}

		sale := domain.NewSale(product, request.Quantity)
		if err := s.sales.Create(ctx, sale); err != nil {
			return err
		}

		receipt = domain.NewReceipt(sale, product)
		remaining = product.Stock
		return nil
	})
	if err != nil {
		log.Printf("Buy failed: ProductID=%d, Error=%v", request.ProductID, err)
		return nil, err
	}

	sale := receipt.Sale
	log.Printf("Sale completed: ID=%d, ProductID=%d, Total=%s", sale.ID, sale.ProductID, receipt.Total().StringFixed(2))
	publish(s.publisher, events.SaleCompletedEvent, events.SaleCompletedPayload{
		SaleID:         sale.ID,
		ProductID:      sale.ProductID,
		Quantity:       sale.Quantity,
		DiscountID:     sale.DiscountID,
		Total:          receipt.Total().StringFixed(2),
		RemainingStock: remaining,
		SoldAt:         sale.SoldAt,
	})
	return receipt, nil
}
