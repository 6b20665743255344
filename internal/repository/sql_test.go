package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/online-store/store-service/internal/config"
	"github.com/online-store/store-service/internal/database"
	"github.com/online-store/store-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newMockDB wraps a sqlmock connection in the same gorm setup the service
// uses, so the generated SQL can be asserted without a database.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := database.Wrap(sqlDB, config.Default().Database)
	require.NoError(t, err)
	return db, mock
}

func TestProductListByCategorySQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE .*category_id = \$1 OR category_id IN \(SELECT .*id.* FROM "categories" WHERE parent_id = \$2\).* AND stock > 0 ORDER BY id LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category_id", "stock"}))

	products, err := repo.ListByCategory(context.Background(), 4, domain.NewPage(nil, 10))
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductGetForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`SELECT .*id.* FROM "products" WHERE "products"\."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetForUpdate(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationDeactivateOnlyActive(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"active reservation", 1, nil},
		{"already inactive", 0, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewReservationRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE "reservations" SET "active"=\$1 WHERE id = \$2 AND active`).
				WithArgs(false, 9).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			err := repo.Deactivate(context.Background(), 9)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSalesReportEscapesNameFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE product_id IN \(SELECT .*id.* FROM "products" WHERE name ILIKE \$1\) ORDER BY id`).
		WithArgs(`%s\_b%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity"}))

	sales, err := repo.SalesReport(context.Background(), domain.SaleReportFilter{ProductName: "s_b"})
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.NoError(t, mock.ExpectationsWereMet())
}
