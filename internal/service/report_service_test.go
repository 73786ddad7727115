package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReportRepo answers the aggregate queries from an in-memory list of
// completed sale totals, mirroring the SQL the real repository runs.
type stubReportRepo struct {
	sales []struct {
		at     time.Time
		amount decimal.Decimal
	}
	top      []repository.TopProductRow
	products int64
	lowStock int64
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

func (r *stubReportRepo) record(daysAgo int, amount string) {
	r.sales = append(r.sales, struct {
		at     time.Time
		amount decimal.Decimal
	}{time.Now().AddDate(0, 0, -daysAgo), decimal.RequireFromString(amount)})
}

func (r *stubReportRepo) SalesTotalSince(_ context.Context, since time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.sales {
		if !s.at.Before(since) {
			total = total.Add(s.amount)
		}
	}
	return total, nil
}

func (r *stubReportRepo) SalesCountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, s := range r.sales {
		if !s.at.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *stubReportRepo) TopProducts(_ context.Context, limit int) ([]repository.TopProductRow, error) {
	if len(r.top) > limit {
		return r.top[:limit], nil
	}
	return r.top, nil
}

func (r *stubReportRepo) ProductCount(_ context.Context) (int64, error)  { return r.products, nil }
func (r *stubReportRepo) LowStockCount(_ context.Context) (int64, error) { return r.lowStock, nil }

func buildReportSvc() (service.ReportService, *stubReportRepo, *stubSaleRepo, *stubCustomerRepo, *stubProductRepo) {
	reportRepo := &stubReportRepo{}
	saleRepo := newStubSaleRepo()
	customerRepo := newStubCustomerRepo()
	productRepo := newStubProductRepo()
	svc := service.NewReportService(reportRepo, saleRepo, customerRepo, productRepo)
	return svc, reportRepo, saleRepo, customerRepo, productRepo
}

func TestReportService_SummaryPeriodBuckets(t *testing.T) {
	svc, reportRepo, _, _, _ := buildReportSvc()
	reportRepo.record(0, "17000")  // today
	reportRepo.record(3, "2500")   // this week
	reportRepo.record(20, "6500")  // this month
	reportRepo.record(90, "99999") // outside every window

	summary, err := svc.SalesSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "17000.00", summary.DailyTotal.StringFixed(2))
	assert.Equal(t, "19500.00", summary.WeeklyTotal.StringFixed(2))
	assert.Equal(t, "26000.00", summary.MonthlyTotal.StringFixed(2))
}

func TestReportService_SummaryTopProductsCapped(t *testing.T) {
	svc, reportRepo, _, _, _ := buildReportSvc()
	for i := 0; i < 8; i++ {
		reportRepo.top = append(reportRepo.top, repository.TopProductRow{
			Name:         "Product",
			UnitsSold:    int64(100 - i),
			TotalRevenue: decimal.RequireFromString("1000"),
		})
	}

	summary, err := svc.SalesSummary(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.TopProducts, 5)
	assert.Equal(t, int64(100), summary.TopProducts[0].UnitsSold)
}

func TestReportService_Dashboard(t *testing.T) {
	svc, reportRepo, _, customerRepo, _ := buildReportSvc()
	reportRepo.products = 5
	reportRepo.lowStock = 2
	reportRepo.record(0, "8500")
	customerRepo.seed("John Doe")
	customerRepo.seed("Jane Smith")

	dash, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), dash.TotalProducts)
	assert.Equal(t, int64(2), dash.LowStockItems)
	assert.Equal(t, int64(1), dash.TodaySales)
	assert.Equal(t, int64(2), dash.TotalCustomers)
}

func TestReportService_InventoryExportIncludesInactive(t *testing.T) {
	svc, _, _, _, productRepo := buildReportSvc()
	productRepo.seed("Windshield Glass - Toyota Camry", "8500", 15, 5)
	inactive := productRepo.seed("Discontinued Panel", "500", 0, 0)
	inactive.Active = false

	products, err := svc.InventoryExportData(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
