package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/online-store/store-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store *Store) (*domain.Category, *domain.Product) {
	t.Helper()
	ctx := context.Background()

	category := &domain.Category{Name: "Garden"}
	require.NoError(t, NewCategoryRepository(store).Create(ctx, category))

	product := &domain.Product{
		Name:       "Rake",
		Price:      decimal.RequireFromString("12.50"),
		CategoryID: category.ID,
		Stock:      5,
	}
	require.NoError(t, NewProductRepository(store).Create(ctx, product))
	return category, product
}

func TestTransactionRollsBackOnError(t *testing.T) {
	store := NewStore()
	_, product := seed(t, store)
	products := NewProductRepository(store)
	reservations := NewReservationRepository(store)

	boom := errors.New("boom")
	err := NewTransactor(store).WithinTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, products.SetStock(ctx, product.ID, 3))
		require.NoError(t, reservations.Create(ctx, domain.NewReservation(product.ID, 2)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	reloaded, err := products.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Stock)

	all, err := reservations.List(context.Background(), domain.NewPage(nil, 0))
	require.NoError(t, err)
	assert.Empty(t, all)

	// Sequences roll back too, so the next row reuses the id.
	next := domain.NewReservation(product.ID, 1)
	require.NoError(t, reservations.Create(context.Background(), next))
	assert.EqualValues(t, 1, next.ID)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	store := NewStore()
	tx := NewTransactor(store)

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return nil
		})
	})
	assert.NoError(t, err, "nested call must not deadlock on txMu")
}

func TestTransactionsAreSerialised(t *testing.T) {
	store := NewStore()
	_, product := seed(t, store)
	products := NewProductRepository(store)
	tx := NewTransactor(store)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
				current, err := products.GetForUpdate(ctx, product.ID)
				if err != nil {
					return err
				}
				if err := current.Take("test", 1); err != nil {
					return err
				}
				return products.SetStock(ctx, current.ID, current.Stock)
			})
		}()
	}
	wg.Wait()

	reloaded, err := products.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Stock)
}

func TestRowsAreCopied(t *testing.T) {
	store := NewStore()
	_, product := seed(t, store)
	products := NewProductRepository(store)

	product.Stock = 99
	loaded, err := products.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Stock)

	loaded.Category.Name = "changed"
	again, err := products.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden", again.Category.Name)
}

func TestForeignKeysAndConstraints(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	category, product := seed(t, store)
	categories := NewCategoryRepository(store)
	products := NewProductRepository(store)
	reservations := NewReservationRepository(store)

	assert.ErrorIs(t, categories.Create(ctx, &domain.Category{Name: "Garden"}), domain.ErrConflict)

	missing := uint(42)
	assert.ErrorIs(t, categories.Create(ctx, &domain.Category{Name: "Orphan", ParentID: &missing}), domain.ErrConflict)
	assert.ErrorIs(t, products.Create(ctx, &domain.Product{Name: "X", CategoryID: missing}), domain.ErrConflict)
	assert.ErrorIs(t, products.SetStock(ctx, product.ID, -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, products.SetStock(ctx, missing, 1), domain.ErrNotFound)

	assert.ErrorIs(t, categories.Delete(ctx, []uint{category.ID}), domain.ErrConflict, "products still reference it")

	require.NoError(t, reservations.Create(ctx, domain.NewReservation(product.ID, 1)))
	assert.ErrorIs(t, products.Delete(ctx, []uint{product.ID}), domain.ErrConflict)

	require.NoError(t, reservations.DeleteByProducts(ctx, []uint{product.ID}))
	require.NoError(t, products.Delete(ctx, []uint{product.ID}))
	require.NoError(t, categories.Delete(ctx, []uint{category.ID}))
	assert.ErrorIs(t, categories.Delete(ctx, []uint{category.ID}), domain.ErrNotFound)
}

func TestCategoryUpdateParent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	categories := NewCategoryRepository(store)

	root := &domain.Category{Name: "Root"}
	child := &domain.Category{Name: "Child"}
	require.NoError(t, categories.Create(ctx, root))
	require.NoError(t, categories.Create(ctx, child))

	require.NoError(t, categories.Update(ctx, child.ID, map[string]interface{}{"parent_id": root.ID}))
	loaded, err := categories.GetByID(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Subcategories, 1)

	require.NoError(t, categories.Update(ctx, child.ID, map[string]interface{}{"parent_id": nil}))
	roots, err := categories.ListRoots(ctx)
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestPageSkipsFilteredRows(t *testing.T) {
	rows := map[uint]int{1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 6: 6}
	even := func(v int) bool { return v%2 == 0 }

	cursor := uint(2)
	assert.Equal(t, []int{4, 6}, page(rows, domain.NewPage(&cursor, 2), even))
	assert.Equal(t, []int{1, 2, 3}, page(rows, domain.NewPage(nil, 3), nil))
}
