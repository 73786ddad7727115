package infra

// pdf.go — PDF document generation using go-pdf/fpdf:
//   - receipt-style sale tickets (thermal paper size)
//   - A4 sales report with summary totals and top products
//   - A4 inventory report flagging low-stock rows
//   - A4 purchase order document for sending to suppliers
//
// Receipt files are saved to storagePath/receipt_{saleID}.pdf; report
// generators stream straight to the HTTP response writer.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateReceiptPDF renders a receipt for a completed sale. storagePath is
// the directory the PDF is written to (created if needed). Returns the path
// of the generated file.
func GenerateReceiptPDF(sale *model.Sale, businessName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", sale.ID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, businessName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sales Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW, 5, "Receipt "+shortID(sale.ID.String()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.CreatedAt.Format("01/02/2006  15:04"), "", 1, "L", false, 0, "")
	if sale.Customer != nil {
		pdf.CellFormat(contentW, 4, "Customer: "+sale.Customer.Name, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+sale.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Payment:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, sale.PaymentMethod, "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for your business!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// WriteSalesReportPDF renders an A4 report from a batch of sales plus the
// precomputed summary and streams it to w.
func WriteSalesReportPDF(sales []model.Sale, summary *dto.SalesSummaryResponse, businessName string, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	reportHeader(pdf, contentW, businessName, "Sales Report")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, "Today:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "$"+summary.DailyTotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Last 7 days:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "$"+summary.WeeklyTotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Last 30 days:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "$"+summary.MonthlyTotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	if len(summary.TopProducts) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Top Products", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.5, 6, "Product", "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.2, 6, "Units", "B", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.3, 6, "Revenue", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, tp := range summary.TopProducts {
			pdf.CellFormat(contentW*0.5, 6, tp.Name, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.2, 6, fmt.Sprintf("%d", tp.UnitsSold), "", 0, "C", false, 0, "")
			pdf.CellFormat(contentW*0.3, 6, "$"+tp.TotalRevenue.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Transactions", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.25, 6, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.25, 6, "Customer", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.15, 6, "Payment", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.15, 6, "Status", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.2, 6, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	grand := decimal.Zero
	for _, s := range sales {
		customer := "Walk-in"
		if s.Customer != nil {
			customer = s.Customer.Name
		}
		pdf.CellFormat(contentW*0.25, 6, s.CreatedAt.Format("01/02/2006 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.25, 6, customer, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.15, 6, s.PaymentMethod, "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.15, 6, s.Status, "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.2, 6, "$"+s.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")
		if s.Status == model.SaleStatusCompleted {
			grand = grand.Add(s.TotalAmount)
		}
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.8, 7, "Completed total:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.2, 7, "$"+grand.StringFixed(2), "T", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write output: %w", err)
	}
	return nil
}

// WriteInventoryReportPDF renders the full product catalog with stock
// levels; rows at or below their minimum stock level are marked LOW.
func WriteInventoryReportPDF(products []model.Product, businessName string, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	reportHeader(pdf, contentW, businessName, "Inventory Report")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.34, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.16, 6, "Category", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.14, 6, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.12, 6, "Stock", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.12, 6, "Min", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.12, 6, "Alert", "B", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range products {
		alert := ""
		if p.StockQuantity <= p.MinStockLevel {
			alert = "LOW"
		}
		name := p.Name
		if len(name) > 34 {
			name = name[:33] + "…"
		}
		pdf.CellFormat(contentW*0.34, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.16, 6, p.Category, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.14, 6, "$"+p.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.12, 6, fmt.Sprintf("%d", p.StockQuantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.12, 6, fmt.Sprintf("%d", p.MinStockLevel), "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.12, 6, alert, "", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write output: %w", err)
	}
	return nil
}

// WritePurchaseOrderPDF renders an order document suitable for sending to
// the supplier.
func WritePurchaseOrderPDF(po *model.PurchaseOrder, businessName string, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	reportHeader(pdf, contentW, businessName, "Purchase Order "+po.PONumber)

	pdf.SetFont("Helvetica", "", 9)
	if po.Supplier != nil {
		pdf.CellFormat(contentW, 5, "Supplier: "+po.Supplier.Name, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Status: "+po.Status, "", 1, "L", false, 0, "")
	if po.ExpectedDelivery != nil {
		pdf.CellFormat(contentW, 5, "Expected delivery: "+po.ExpectedDelivery.Format("01/02/2006"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.44, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.14, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.21, 6, "Unit Cost", "B", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.21, 6, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range po.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		pdf.CellFormat(contentW*0.44, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.14, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.21, 6, "$"+item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.21, 6, "$"+item.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.79, 7, "Order total:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.21, 7, "$"+po.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")

	if po.Notes != nil && *po.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, "Notes: "+*po.Notes, "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write output: %w", err)
	}
	return nil
}

func reportHeader(pdf *fpdf.Fpdf, contentW float64, businessName, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, businessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+time.Now().Format("01/02/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
