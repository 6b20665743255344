package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/internal/repository/memory"
	"github.com/online-store/store-service/shared/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Transactor            = (*memory.Transactor)(nil)
	_ CategoryRepository    = (*memory.CategoryRepository)(nil)
	_ ProductRepository     = (*memory.ProductRepository)(nil)
	_ DiscountRepository    = (*memory.DiscountRepository)(nil)
	_ ReservationRepository = (*memory.ReservationRepository)(nil)
	_ SaleRepository        = (*memory.SaleRepository)(nil)
	_ ReportRepository      = (*memory.ReportRepository)(nil)
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.StoreEvent
	err    error
}

func (p *recordingPublisher) PublishStoreEvent(event events.StoreEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []events.StoreEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []events.StoreEventType{}
	for _, event := range p.events {
		out = append(out, event.EventType)
	}
	return out
}

type fixture struct {
	categories   *CategoryService
	products     *ProductService
	discounts    *DiscountService
	reservations *ReservationService
	sales        *SaleService
	reports      *ReportService

	saleRepo  *memory.SaleRepository
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithSales(t, nil)
}

// newFixtureWithSales lets a test replace the sale repository used by Buy.
func newFixtureWithSales(t *testing.T, wrap func(SaleRepository) SaleRepository) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTransactor(store)
	categories := memory.NewCategoryRepository(store)
	products := memory.NewProductRepository(store)
	discounts := memory.NewDiscountRepository(store)
	reservations := memory.NewReservationRepository(store)
	saleRepo := memory.NewSaleRepository(store)
	publisher := &recordingPublisher{}

	var sales SaleRepository = saleRepo
	if wrap != nil {
		sales = wrap(saleRepo)
	}

	return &fixture{
		categories:   NewCategoryService(tx, categories, products, reservations, saleRepo, publisher),
		products:     NewProductService(tx, products, categories, discounts, reservations, saleRepo),
		discounts:    NewDiscountService(tx, discounts, products, saleRepo),
		reservations: NewReservationService(tx, products, reservations, publisher),
		sales:        NewSaleService(tx, products, sales, publisher),
		reports:      NewReportService(memory.NewReportRepository(store)),
		saleRepo:     saleRepo,
		publisher:    publisher,
	}
}

func (f *fixture) category(t *testing.T, name string, parentID *uint) *domain.Category {
	t.Helper()
	category, err := f.categories.Add(context.Background(), domain.CreateCategoryRequest{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return category
}

func (f *fixture) product(t *testing.T, name string, categoryID uint, price float64, stock int) *domain.Product {
	t.Helper()
	product, err := f.products.Add(context.Background(), domain.CreateProductRequest{
		Name: name, Price: price, CategoryID: categoryID, Stock: &stock,
	})
	require.NoError(t, err)
	return product
}

func (f *fixture) discount(t *testing.T, name string, percentage float64) *domain.Discount {
	t.Helper()
	discount, err := f.discounts.Add(context.Background(), domain.CreateDiscountRequest{Name: name, Percentage: percentage})
	require.NoError(t, err)
	return discount
}

func (f *fixture) stock(t *testing.T, productID uint) int {
	t.Helper()
	product, err := f.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return product.Stock
}

func TestCategoryService_AddAndLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.category(t, "Electronics", nil)
	phones := f.category(t, "Phones", &root.ID)
	f.category(t, "Android", &phones.ID)

	loaded, err := f.categories.GetByName(ctx, "Electronics")
	require.NoError(t, err)
	require.Len(t, loaded.Subcategories, 1)
	require.Len(t, loaded.Subcategories[0].Subcategories, 1)
	assert.Equal(t, "Android", loaded.Subcategories[0].Subcategories[0].Name)

	_, err = f.categories.Add(ctx, domain.CreateCategoryRequest{Name: " Phones "})
	assert.ErrorIs(t, err, domain.ErrConflict)

	missing := uint(99)
	_, err = f.categories.Add(ctx, domain.CreateCategoryRequest{Name: "Tablets", ParentID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Category with ID 99 not found.", domain.ClientMessage(err))

	_, err = f.categories.GetByName(ctx, "Nope")
	assert.Equal(t, "Category with name 'Nope' not found.", domain.ClientMessage(err))

	_, err = f.categories.Add(ctx, domain.CreateCategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryService_UpdateRejectsCycles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.category(t, "Root", nil)
	child := f.category(t, "Child", &root.ID)
	grandchild := f.category(t, "Grandchild", &child.ID)
	other := f.category(t, "Other", nil)

	_, err := f.categories.Update(ctx, root.ID, domain.UpdateCategoryRequest{ParentID: &grandchild.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.categories.Update(ctx, root.ID, domain.UpdateCategoryRequest{ParentID: &root.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	moved, err := f.categories.Update(ctx, child.ID, domain.UpdateCategoryRequest{ParentID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, *moved.ParentID)
	require.Len(t, moved.Subcategories, 1, "subtree moves with the category")

	name := "Renamed"
	renamed, err := f.categories.Update(ctx, child.ID, domain.UpdateCategoryRequest{Name: &name, ClearParent: true})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)
	assert.True(t, renamed.IsRoot())

	taken := "Other"
	_, err = f.categories.Update(ctx, child.ID, domain.UpdateCategoryRequest{Name: &taken})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.categories.Update(ctx, 404, domain.UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.category(t, "Root", nil)
	child := f.category(t, "Child", &root.ID)
	grandchild := f.category(t, "Grandchild", &child.ID)
	sibling := f.category(t, "Sibling", nil)

	p1 := f.product(t, "P1", root.ID, 10, 10)
	p2 := f.product(t, "P2", child.ID, 10, 10)
	p3 := f.product(t, "P3", grandchild.ID, 10, 10)
	kept := f.product(t, "Kept", sibling.ID, 10, 10)

	_, err := f.reservations.Reserve(ctx, domain.ReserveRequest{ProductID: p2.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.sales.Buy(ctx, domain.BuyRequest{ProductID: p3.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.sales.Buy(ctx, domain.BuyRequest{ProductID: kept.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, f.categories.Delete(ctx, root.ID))

	for _, id := range []uint{root.ID, child.ID, grandchild.ID} {
		_, err := f.categories.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	for _, id := range []uint{p1.ID, p2.ID, p3.ID} {
		_, err := f.products.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	reservations, err := f.reservations.List(ctx, domain.NewPage(nil, 0))
	require.NoError(t, err)
	assert.Empty(t, reservations)

	rows, err := f.reports.Generate(ctx, domain.SaleReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, kept.ID, rows[0].ProductID)

	roots, err := f.categories.ListRoots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Sibling", roots[0].Name)

	assert.Contains(t, f.publisher.types(), events.CategoryDeletedEvent)
	assert.ErrorIs(t, f.categories.Delete(ctx, root.ID), domain.ErrNotFound)
}

func TestProductService_FinalPriceWithDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.category(t, "Books", nil)
	product := f.product(t, "Novel", category.ID, 100, 5)
	assert.Equal(t, "100", product.FinalPrice().String())

	discount := f.discount(t, "Spring", 20)
	product, err := f.products.AttachDiscount(ctx, product.ID, discount.ID)
	require.NoError(t, err)
	assert.Equal(t, "80", product.FinalPrice().String())
	assert.Equal(t, "Spring", *product.DiscountName())

	product, err = f.products.DetachDiscount(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, product.DiscountID)
	assert.Equal(t, "100", product.FinalPrice().String())

	_, err = f.products.AttachDiscount(ctx, product.ID, 77)
	assert.Equal(t, "Discount with ID 77 not found.", domain.ClientMessage(err))
	_, err = f.products.AttachDiscount(ctx, 88, discount.ID)
	assert.Equal(t, "Product with ID 88 not found.", domain.ClientMessage(err))
}

func TestProductService_AddValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Tools", nil)

	negative := -1
	tests := []struct {
		name    string
		request domain.CreateProductRequest
		kind    error
	}{
		{"missing name", domain.CreateProductRequest{Price: 1, CategoryID: category.ID}, domain.ErrInvalidInput},
		{"zero price", domain.CreateProductRequest{Name: "Saw", CategoryID: category.ID}, domain.ErrInvalidInput},
		{"negative stock", domain.CreateProductRequest{Name: "Saw", Price: 1, CategoryID: category.ID, Stock: &negative}, domain.ErrInvalidInput},
		{"missing category", domain.CreateProductRequest{Name: "Saw", Price: 1, CategoryID: 42}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.Add(ctx, tt.request)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	product, err := f.products.Add(ctx, domain.CreateProductRequest{Name: "Saw", Price: 9.999, CategoryID: category.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock, "stock defaults to zero")
	assert.Equal(t, "10", product.Price.String(), "price is rounded to cents")
	assert.Equal(t, "Tools", product.CategoryName())
}

func TestProductService_UpdateAndPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools", nil)
	garden := f.category(t, "Garden", nil)
	product := f.product(t, "Saw", tools.ID, 10, 1)

	name := "Hand saw"
	stock := 7
	updated, err := f.products.Update(ctx, product.ID, domain.UpdateProductRequest{
		Name: &name, CategoryID: &garden.ID, Stock: &stock,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hand saw", updated.Name)
	assert.Equal(t, garden.ID, updated.CategoryID)
	assert.Equal(t, 7, updated.Stock)

	missing := uint(55)
	_, err = f.products.Update(ctx, product.ID, domain.UpdateProductRequest{CategoryID: &missing})
	assert.Equal(t, "Category with ID 55 not found.", domain.ClientMessage(err))

	updated, err = f.products.UpdatePrice(ctx, product.ID, 12.345)
	require.NoError(t, err)
	assert.Equal(t, "12.35", updated.Price.String())

	_, err = f.products.UpdatePrice(ctx, 999, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.products.UpdatePrice(ctx, product.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductService_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Misc", nil)
	for _, name := range []string{"A", "B", "C", "D"} {
		f.product(t, name, category.ID, 1, 1)
	}

	ids := func(products []*domain.Product) []uint {
		out := []uint{}
		for _, product := range products {
			out = append(out, product.ID)
		}
		return out
	}

	first, err := f.products.List(ctx, domain.NewPage(nil, 2))
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ids(first))

	cursor := uint(2)
	second, err := f.products.List(ctx, domain.NewPage(&cursor, 2))
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 4}, ids(second))

	cursor = 4
	rest, err := f.products.List(ctx, domain.NewPage(&cursor, 2))
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestProductService_ListByCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.category(t, "Home", nil)
	child := f.category(t, "Kitchen", &root.ID)
	grandchild := f.category(t, "Knives", &child.ID)

	f.product(t, "Lamp", root.ID, 1, 1)
	f.product(t, "Pan", child.ID, 1, 2)
	f.product(t, "Empty", child.ID, 1, 0)
	f.product(t, "Knife", grandchild.ID, 1, 3)

	products, err := f.products.ListByCategory(ctx, root.ID, domain.NewPage(nil, 10))
	require.NoError(t, err)
	names := []string{}
	for _, product := range products {
		names = append(names, product.Name)
	}
	assert.Equal(t, []string{"Lamp", "Pan"}, names)

	_, err = f.products.ListByCategory(ctx, 404, domain.NewPage(nil, 10))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductService_DeleteRemovesDependents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Misc", nil)
	product := f.product(t, "Thing", category.ID, 5, 5)

	_, err := f.reservations.Reserve(ctx, domain.ReserveRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.sales.Buy(ctx, domain.BuyRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(ctx, product.ID))
	_, err = f.products.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rows, err := f.reports.Generate(ctx, domain.SaleReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, f.products.Delete(ctx, product.ID), domain.ErrNotFound)
}

func TestReservationService_ReserveAndCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Misc", nil)
	product := f.product(t, "Widget", category.ID, 3, 10)

	reservation, err := f.reservations.Reserve(ctx, domain.ReserveRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	assert.True(t, reservation.Active)
	assert.Equal(t, 7, f.stock(t, product.ID))

	loaded, err := f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.ReservedQuantity())

	cancelled, err := f.reservations.Cancel(ctx, reservation.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.Active)
	assert.Equal(t, 10, f.stock(t, product.ID))

	loaded, err = f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.ReservedQuantity())

	_, err = f.reservations.Cancel(ctx, reservation.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Active reservation with ID 1 not found.", domain.ClientMessage(err))
	assert.Equal(t, 10, f.stock(t, product.ID), "second cancel must not restore stock again")

	stored, err := f.reservations.GetByID(ctx, reservation.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	assert.Equal(t,
		[]events.StoreEventType{events.InventoryReservedEvent, events.ReservationCancelledEvent},
		f.publisher.types())
}

func TestReservationService_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Misc", nil)
	product := f.product(t, "Widget", category.ID, 3, 2)

	_, err := f.reservations.Reserve(ctx, domain.ReserveRequest{ProductID: product.ID, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrNotEnoughStock)
	assert.Equal(t, 2, f.stock(t, product.ID))

	_, err = f.reservations.Reserve(ctx, domain.ReserveRequest{ProductID: 404, Quantity: 1})
	assert.Equal(t, "Product with ID 404 not found.", domain.ClientMessage(err))

	_, err = f.reservations.Reserve(ctx, domain.ReserveRequest{ProductID: product.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reservations.Cancel(ctx, 12)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.reservations.GetByID(ctx, 12)
	assert.Equal(t, "Reservation with ID 12 not found.", domain.ClientMessage(err))

	all, err := f.reservations.List(ctx, domain.NewPage(nil, 0))
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.publisher.types())
}

func TestReservationService_ListByProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Misc", nil)
	product := f.product(t, "Widget", category.ID, 3, 10)
	other := f.product(t, "Gadget", category.ID, 3, 10)

	listed, err := f.reservations.ListByProduct(ctx, product.ID, domain.NewPage(nil, 0))
	require.NoError(t, err)
	assert.NotNil(t, listed)
	assert.Empty(t, listed)

	for i := 0; i < 3; i++ {
		_, err := f.reservations.Reserve(ctx, domain.ReserveRequest{ProductID: product.ID, Quantity: 1})
		require.NoError(t, err)
	}
	_, err = f.reservations.Reserve(ctx, domain.ReserveRequest{ProductID: other.ID, Quantity: 1})
	require.NoError(t, err)

	listed, err = f.reservations.ListByProduct(ctx, product.ID, domain.NewPage(nil, 2))
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	_, err = f.reservations.ListByProduct(ctx, 404, domain.NewPage(nil, 0))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReservationService_ConcurrentReservesNeverOversell(t *testing.T) {
	f := newFixture(t)
	category := f.category(t, "Misc", nil)
	product := f.product(t, "Limited", category.ID, 3, 10)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.reservations.Reserve(context.Background(), domain.ReserveRequest{ProductID: product.ID, Quantity: 1})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, f.stock(t, product.ID))
}

func TestSaleService_BuySnapshotsDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Books", nil)
	product := f.product(t, "Novel", category.ID, 50, 5)
	discount := f.discount(t, "Summer", 10)

	_, err := f.products.AttachDiscount(ctx, product.ID, discount.ID)
	require.NoError(t, err)

	receipt, err := f.sales.Buy(ctx, domain.BuyRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "Novel", receipt.ProductName)
	assert.Equal(t, "Books", receipt.CategoryName)
	assert.Equal(t, "45", receipt.FinalPrice.String())
	assert.Equal(t, "90.00", receipt.Total().StringFixed(2))
	require.NotNil(t, receipt.DiscountName)
	assert.Equal(t, "Summer", *receipt.DiscountName)
	assert.Equal(t, 3, f.stock(t, product.ID))

	_, err = f.products.DetachDiscount(ctx, product.ID)
	require.NoError(t, err)

	sale, err := f.saleRepo.GetByID(ctx, receipt.Sale.ID)
	require.NoError(t, err)
	require.NotNil(t, sale.DiscountID)
	assert.Equal(t, discount.ID, *sale.DiscountID, "sale keeps the discount it was sold with")

	rows, err := f.reports.Generate(ctx, domain.SaleReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].DiscountName)
	assert.Equal(t, "Summer", *rows[0].DiscountName)

	assert.Contains(t, f.publisher.types(), events.SaleCompletedEvent)
}

func TestSaleService_BuyFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Misc", nil)
	product := f.product(t, "Widget", category.ID, 3, 1)

	_, err := f.sales.Buy(ctx, domain.BuyRequest{ProductID: product.ID, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrNotEnoughStock)

	_, err = f.sales.Buy(ctx, domain.BuyRequest{ProductID: 404, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 1, f.stock(t, product.ID))
}

type failingSales struct {
	SaleRepository
}

func (failingSales) Create(ctx context.Context, sale *domain.Sale) error {
	return errors.New("disk full")
}

func TestSaleService_BuyRollsBackStock(t *testing.T) {
	f := newFixtureWithSales(t, func(sales SaleRepository) SaleRepository {
		return failingSales{sales}
	})
	category := f.category(t, "Misc", nil)
	product := f.product(t, "Widget", category.ID, 3, 4)

	_, err := f.sales.Buy(context.Background(), domain.BuyRequest{ProductID: product.ID, Quantity: 2})
	require.Error(t, err)
	assert.Equal(t, 4, f.stock(t, product.ID))
	assert.Empty(t, f.publisher.types())
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")
	category := f.category(t, "Misc", nil)
	product := f.product(t, "Widget", category.ID, 3, 4)

	_, err := f.sales.Buy(context.Background(), domain.BuyRequest{ProductID: product.ID, Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, product.ID))
}

func TestDiscountService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Misc", nil)
	product := f.product(t, "Widget", category.ID, 10, 4)

	_, err := f.discounts.Add(ctx, domain.CreateDiscountRequest{Name: "Bad", Percentage: 120})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	unused := f.discount(t, "Unused", 5)
	used := f.discount(t, "Used", 15)

	_, err = f.products.AttachDiscount(ctx, product.ID, unused.ID)
	require.NoError(t, err)
	require.NoError(t, f.discounts.Delete(ctx, unused.ID))

	loaded, err := f.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.DiscountID, "deleting a discount detaches it")

	_, err = f.products.AttachDiscount(ctx, product.ID, used.ID)
	require.NoError(t, err)
	_, err = f.sales.Buy(ctx, domain.BuyRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	err = f.discounts.Delete(ctx, used.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	listed, err := f.discounts.List(ctx, domain.NewPage(nil, 0))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Used", listed[0].Name)

	assert.ErrorIs(t, f.discounts.Delete(ctx, unused.ID), domain.ErrNotFound)
}

func TestReportService_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	books := f.category(t, "Books", nil)
	games := f.category(t, "Board games", nil)
	novel := f.product(t, "Novel", books.ID, 10, 10)
	chess := f.product(t, "Chess", games.ID, 20, 10)

	for _, buy := range []domain.BuyRequest{
		{ProductID: novel.ID, Quantity: 1},
		{ProductID: chess.ID, Quantity: 2},
		{ProductID: novel.ID, Quantity: 3},
	} {
		_, err := f.sales.Buy(ctx, buy)
		require.NoError(t, err)
	}

	rows, err := f.reports.Generate(ctx, domain.SaleReportFilter{CategoryName: "BOOK"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Books", rows[0].CategoryName)
	assert.Equal(t, 3, rows[1].Quantity)

	rows, err = f.reports.Generate(ctx, domain.SaleReportFilter{ProductID: &chess.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Chess", rows[0].ProductName)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	rows, err = f.reports.Generate(ctx, domain.SaleReportFilter{Start: &past, End: &future})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = f.reports.Generate(ctx, domain.SaleReportFilter{Start: &future})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = f.reports.Generate(ctx, domain.SaleReportFilter{Start: &future, End: &past})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
