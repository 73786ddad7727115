package infra

// excel.go — XLSX export generation using excelize. Exports stream straight
// to the HTTP response writer rather than touching disk.

import (
	"fmt"
	"io"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"

	"github.com/xuri/excelize/v2"
)

// WriteSalesXLSX streams a sales export workbook to w. One row per sale,
// completed total at the bottom.
func WriteSalesXLSX(sales []model.Sale, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Customer", "Items", "Payment Method", "Status", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("excel: write header: %w", err)
		}
	}

	total := 0.0
	for i, s := range sales {
		row := i + 2
		customer := "Walk-in"
		if s.Customer != nil {
			customer = s.Customer.Name
		}
		amount, _ := s.TotalAmount.Float64()
		values := []interface{}{
			s.CreatedAt.Format("2006-01-02 15:04"),
			customer,
			len(s.Items),
			s.PaymentMethod,
			s.Status,
			amount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("excel: write row: %w", err)
			}
		}
		if s.Status == model.SaleStatusCompleted {
			total += amount
		}
	}

	totalRow := len(sales) + 3
	labelCell, _ := excelize.CoordinatesToCellName(5, totalRow)
	valueCell, _ := excelize.CoordinatesToCellName(6, totalRow)
	f.SetCellValue(sheet, labelCell, "Completed total")
	f.SetCellValue(sheet, valueCell, total)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: write workbook: %w", err)
	}
	return nil
}

// WriteInventoryXLSX streams the product catalog with stock levels to w.
func WriteInventoryXLSX(products []model.Product, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Product", "Category", "Unit Price", "Stock", "Min Level", "Low Stock", "Active"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("excel: write header: %w", err)
		}
	}

	for i, p := range products {
		row := i + 2
		price, _ := p.UnitPrice.Float64()
		values := []interface{}{
			p.Name,
			p.Category,
			price,
			p.StockQuantity,
			p.MinStockLevel,
			p.StockQuantity <= p.MinStockLevel,
			p.Active,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("excel: write row: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: write workbook: %w", err)
	}
	return nil
}
