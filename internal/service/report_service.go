package service

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
)

type ReportService struct {
	reports ReportRepository
}

func NewReportService(reports ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// Generate returns one flattened row per sale matching every set filter.
func (s *ReportService) Generate(ctx context.Context, filter domain.SaleReportFilter) ([]domain.SaleReportRow, error) {
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, domain.InvalidInput("report.Generate", "Report end date must not be before start date.")
	}

	sales, err := s.reports.SalesReport(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.SaleReportRow, 0, len(sales))
	for _, sale := range sales {
		rows = append(rows, domain.NewSaleReportRow(sale))
	}
	return rows, nil
}
