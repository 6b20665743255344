package service

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/shared/events"
)

// Repositories return a bare domain.ErrNotFound for missing rows; services
// turn it into a domain.Error that names the entity.

// Transactor runs fn inside one database transaction. Repository calls made
// with the ctx passed to fn join that transaction; returning an error from fn
// rolls every write back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CategoryRepository interface {
	// ListRoots returns root categories with their full subtrees attached.
	ListRoots(ctx context.Context) ([]*domain.Category, error)
	// GetByID and GetByName return the category with its full subtree attached.
	GetByID(ctx context.Context, categoryID uint) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	Exists(ctx context.Context, categoryID uint) (bool, error)
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, categoryID uint, fields map[string]interface{}) error
	Delete(ctx context.Context, categoryIDs []uint) error
}

type ProductRepository interface {
	List(ctx context.Context, page domain.Page) ([]*domain.Product, error)
	// ListByCategory returns in-stock products of the category or of its
	// direct children.
	ListByCategory(ctx context.Context, categoryID uint, page domain.Page) ([]*domain.Product, error)
	GetByID(ctx context.Context, productID uint) (*domain.Product, error)
	// GetForUpdate loads the product and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, productID uint) (*domain.Product, error)
	IDsByCategories(ctx context.Context, categoryIDs []uint) ([]uint, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, productID uint, fields map[string]interface{}) error
	SetStock(ctx context.Context, productID uint, stock int) error
	SetDiscount(ctx context.Context, productID uint, discountID *uint) error
	// DetachDiscount clears discountID from every product linked to it.
	DetachDiscount(ctx context.Context, discountID uint) error
	Delete(ctx context.Context, productIDs []uint) error
}

type DiscountRepository interface {
	List(ctx context.Context, page domain.Page) ([]*domain.Discount, error)
	GetByID(ctx context.Context, discountID uint) (*domain.Discount, error)
	Create(ctx context.Context, discount *domain.Discount) error
	Delete(ctx context.Context, discountID uint) error
}

type ReservationRepository interface {
	List(ctx context.Context, page domain.Page) ([]*domain.Reservation, error)
	ListByProduct(ctx context.Context, productID uint, page domain.Page) ([]*domain.Reservation, error)
	GetByID(ctx context.Context, reservationID uint) (*domain.Reservation, error)
	GetForUpdate(ctx context.Context, reservationID uint) (*domain.Reservation, error)
	Create(ctx context.Context, reservation *domain.Reservation) error
	Deactivate(ctx context.Context, reservationID uint) error
	DeleteByProducts(ctx context.Context, productIDs []uint) error
}

type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	GetByID(ctx context.Context, saleID uint) (*domain.Sale, error)
	CountByDiscount(ctx context.Context, discountID uint) (int64, error)
	DeleteByProducts(ctx context.Context, productIDs []uint) error
}

type ReportRepository interface {
	// SalesReport returns the sales matching filter with product, category
	// and snapshot discount loaded.
	SalesReport(ctx context.Context, filter domain.SaleReportFilter) ([]*domain.Sale, error)
}

// EventPublisher announces committed inventory changes.
type EventPublisher interface {
	PublishStoreEvent(event events.StoreEvent) error
}
