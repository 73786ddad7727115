package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/apierror"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/infra"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportsHandler struct {
	svc          service.ReportService
	poSvc        service.PurchaseOrderService
	businessName string
}

func NewReportsHandler(svc service.ReportService, poSvc service.PurchaseOrderService, businessName string) *ReportsHandler {
	return &ReportsHandler{svc: svc, poSvc: poSvc, businessName: businessName}
}

// Dashboard godoc
// @Summary      Dashboard counters
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DashboardResponse
// @Router       /v1/reports/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build dashboard"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SalesSummary godoc
// @Summary      Sales summary
// @Description  Daily / weekly / monthly completed-sale totals plus top products by units sold.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SalesSummaryResponse
// @Router       /v1/reports/sales-summary [get]
func (h *ReportsHandler) SalesSummary(c *gin.Context) {
	resp, err := h.svc.SalesSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build sales summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportSales godoc
// @Summary      Export sales
// @Description  Streams the sales report as PDF or XLSX, selected by the format query param.
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        format query string false "pdf | xlsx (default pdf)"
// @Param        date   query string false "Date YYYY-MM-DD"
// @Param        status query string false "completed | voided | all"
// @Router       /v1/reports/sales/export [get]
func (h *ReportsHandler) ExportSales(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	sales, err := h.svc.SalesExportData(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load sales"))
		return
	}

	stamp := time.Now().Format("20060102")
	switch c.DefaultQuery("format", "pdf") {
	case "xlsx":
		writeAttachment(c, contentTypeXLSX, fmt.Sprintf("sales_%s.xlsx", stamp))
		if err := infra.WriteSalesXLSX(sales, c.Writer); err != nil {
			_ = c.Error(err)
		}
	case "pdf":
		summary, err := h.svc.SalesSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Failed to build sales summary"))
			return
		}
		writeAttachment(c, contentTypePDF, fmt.Sprintf("sales_%s.pdf", stamp))
		if err := infra.WriteSalesReportPDF(sales, summary, h.businessName, c.Writer); err != nil {
			_ = c.Error(err)
		}
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Unknown format, expected pdf or xlsx"))
	}
}

// ExportInventory godoc
// @Summary      Export inventory
// @Description  Streams the full product catalog with stock levels as PDF or XLSX.
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        format query string false "pdf | xlsx (default pdf)"
// @Router       /v1/reports/inventory/export [get]
func (h *ReportsHandler) ExportInventory(c *gin.Context) {
	products, err := h.svc.InventoryExportData(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load products"))
		return
	}

	stamp := time.Now().Format("20060102")
	switch c.DefaultQuery("format", "pdf") {
	case "xlsx":
		writeAttachment(c, contentTypeXLSX, fmt.Sprintf("inventory_%s.xlsx", stamp))
		if err := infra.WriteInventoryXLSX(products, c.Writer); err != nil {
			_ = c.Error(err)
		}
	case "pdf":
		writeAttachment(c, contentTypePDF, fmt.Sprintf("inventory_%s.pdf", stamp))
		if err := infra.WriteInventoryReportPDF(products, h.businessName, c.Writer); err != nil {
			_ = c.Error(err)
		}
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Unknown format, expected pdf or xlsx"))
	}
}

// PurchaseOrderDocument streams the printable PDF for one purchase order.
func (h *ReportsHandler) PurchaseOrderDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	po, err := h.poSvc.DocumentData(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Purchase order not found"))
		return
	}
	writeAttachment(c, contentTypePDF, po.PONumber+".pdf")
	if err := infra.WritePurchaseOrderPDF(po, h.businessName, c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func writeAttachment(c *gin.Context, contentType, fileName string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
}
