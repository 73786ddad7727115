package repository

import (
	"context"
	"time"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TopProductRow is the scan target for the best-sellers aggregate.
type TopProductRow struct {
	Name         string
	UnitsSold    int64
	TotalRevenue decimal.Decimal
}

// ReportRepository holds the aggregate queries backing dashboard and reports.
// Only completed sales count toward totals.
type ReportRepository interface {
	SalesTotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	SalesCountSince(ctx context.Context, since time.Time) (int64, error)
	TopProducts(ctx context.Context, limit int) ([]TopProductRow, error)
	ProductCount(ctx context.Context) (int64, error)
	LowStockCount(ctx context.Context) (int64, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesTotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ? AND created_at >= ?", model.SaleStatusCompleted, since).
		Scan(&total).Error
	return total, err
}

func (r *reportRepo) SalesCountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("status = ? AND created_at >= ?", model.SaleStatusCompleted, since).
		Count(&count).Error
	return count, err
}

func (r *reportRepo) TopProducts(ctx context.Context, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).Table("sale_items").
		Select("products.name AS name, SUM(sale_items.quantity) AS units_sold, SUM(sale_items.total_price) AS total_revenue").
		Joins("JOIN products ON sale_items.product_id = products.id").
		Joins("JOIN sales ON sale_items.sale_id = sales.id").
		Where("sales.status = ?", model.SaleStatusCompleted).
		Group("products.id, products.name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) ProductCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("active = true").Count(&count).Error
	return count, err
}

func (r *reportRepo) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("active = true AND stock_quantity <= min_stock_level").
		Count(&count).Error
	return count, err
}
