package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/apierror"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/middleware"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// RegisterSale godoc
// @Summary      Register a new sale
// @Description  Creates a sale atomically: persists the sale with its items and decrements stock, all-or-nothing. Receipt generation is dispatched asynchronously.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegisterSaleRequest true "Sale detail"
// @Success      201  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) RegisterSale(c *gin.Context) {
	var req dto.RegisterSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegisterSale(c.Request.Context(), userID, req)
	if err != nil {
		writeSaleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// VoidSale godoc
// @Summary      Void a sale
// @Description  Voids a completed sale: restores the sold stock and marks the sale voided, atomically.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string              true "Sale UUID"
// @Param        body body     dto.VoidSaleRequest true "Void reason"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/sales/{id} [delete]
func (h *SalesHandler) VoidSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.VoidSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.VoidSale(c.Request.Context(), id, req.Reason); err != nil {
		writeSaleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SalesHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Sale not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List sales
// @Description  Returns a paginated list of sales filtered by date and status.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        date   query string false "Date YYYY-MM-DD (default: all)"
// @Param        status query string false "completed | voided | all"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Rows per page (default 50)"
// @Success      200    {object} dto.SaleListResponse
// @Failure      400    {object} apierror.APIError
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// writeSaleError maps typed service errors onto HTTP statuses. Insufficient
// stock is a conflict, not a client mistake: the request was well-formed,
// the inventory just cannot satisfy it.
func writeSaleError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":      stockErr.Error(),
			"product_id": stockErr.ProductID.String(),
			"product":    stockErr.ProductName,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
			"shortfall":  stockErr.Shortfall(),
		})
		return
	}

	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, apierror.New(valErr.Error()))
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Sale not found"))
		return
	}

	var persistErr *service.PersistenceError
	if errors.As(err, &persistErr) {
		_ = c.Error(fmt.Errorf("sale persistence: %w", persistErr))
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
		return
	}

	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}
