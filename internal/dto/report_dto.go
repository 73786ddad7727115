package dto

import "github.com/shopspring/decimal"

// DashboardResponse backs the landing view: headline counters plus the most
// recent sales.
type DashboardResponse struct {
	TotalProducts  int64          `json:"total_products"`
	LowStockItems  int64          `json:"low_stock_items"`
	TodaySales     int64          `json:"today_sales"`
	TotalCustomers int64          `json:"total_customers"`
	RecentSales    []SaleResponse `json:"recent_sales"`
}

type TopProduct struct {
	Name         string          `json:"name"`
	UnitsSold    int64           `json:"units_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// SalesSummaryResponse aggregates completed sales over rolling windows.
type SalesSummaryResponse struct {
	DailyTotal   decimal.Decimal `json:"daily_total"`
	WeeklyTotal  decimal.Decimal `json:"weekly_total"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
	TopProducts  []TopProduct    `json:"top_products"`
}
