package memory

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
)

type ReportRepository struct {
	store *Store
}

func NewReportRepository(store *Store) *ReportRepository {
	return &ReportRepository{store: store}
}

func (r *ReportRepository) SalesReport(ctx context.Context, filter domain.SaleReportFilter) ([]*domain.Sale, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := []*domain.Sale{}
	for _, id := range sortedIDs(s.sales) {
		sale := s.saleOut(s.sales[id])
		if filter.Matches(sale) {
			sales = append(sales, sale)
		}
	}
	return sales, nil
}
