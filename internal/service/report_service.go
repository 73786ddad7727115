package service

import (
	"context"
	"time"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"
)

type ReportService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	SalesSummary(ctx context.Context) (*dto.SalesSummaryResponse, error)

	// Export data feeds the PDF / XLSX generators in the handler layer.
	SalesExportData(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, error)
	InventoryExportData(ctx context.Context) ([]model.Product, error)
}

type reportService struct {
	reportRepo   repository.ReportRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
}

func NewReportService(
	reportRepo repository.ReportRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
) ReportService {
	return &reportService{
		reportRepo:   reportRepo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

const topProductLimit = 5

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	totalProducts, err := s.reportRepo.ProductCount(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.reportRepo.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	todaySales, err := s.reportRepo.SalesCountSince(ctx, startOfToday())
	if err != nil {
		return nil, err
	}
	totalCustomers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.saleRepo.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}

	recentResp := make([]dto.SaleResponse, 0, len(recent))
	for i := range recent {
		recentResp = append(recentResp, *saleToResponse(&recent[i]))
	}

	return &dto.DashboardResponse{
		TotalProducts:  totalProducts,
		LowStockItems:  lowStock,
		TodaySales:     todaySales,
		TotalCustomers: totalCustomers,
		RecentSales:    recentResp,
	}, nil
}

func (s *reportService) SalesSummary(ctx context.Context) (*dto.SalesSummaryResponse, error) {
	today := startOfToday()
	daily, err := s.reportRepo.SalesTotalSince(ctx, today)
	if err != nil {
		return nil, err
	}
	weekly, err := s.reportRepo.SalesTotalSince(ctx, today.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	monthly, err := s.reportRepo.SalesTotalSince(ctx, today.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	topRows, err := s.reportRepo.TopProducts(ctx, topProductLimit)
	if err != nil {
		return nil, err
	}

	top := make([]dto.TopProduct, 0, len(topRows))
	for _, r := range topRows {
		top = append(top, dto.TopProduct{
			Name:         r.Name,
			UnitsSold:    r.UnitsSold,
			TotalRevenue: r.TotalRevenue,
		})
	}

	return &dto.SalesSummaryResponse{
		DailyTotal:   daily,
		WeeklyTotal:  weekly,
		MonthlyTotal: monthly,
		TopProducts:  top,
	}, nil
}

// SalesExportData returns the raw sales matching the filter, uncapped pages
// collapsed to a single large one so exports cover the full range.
func (s *reportService) SalesExportData(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, error) {
	filter.Page = 1
	filter.Limit = 10000
	sales, _, err := s.saleRepo.List(ctx, filter)
	return sales, err
}

func (s *reportService) InventoryExportData(ctx context.Context) ([]model.Product, error) {
	products, _, err := s.productRepo.List(ctx, dto.ProductFilter{Page: 1, Limit: 10000, Active: "all"})
	return products, err
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
