package handler

import (
	"context"
	"net/http"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/apierror"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/middleware"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchaseOrdersHandler struct{ svc service.PurchaseOrderService }

func NewPurchaseOrdersHandler(svc service.PurchaseOrderService) *PurchaseOrdersHandler {
	return &PurchaseOrdersHandler{svc: svc}
}

// Issue godoc
// @Summary      Issue a purchase order
// @Description  Creates a pending purchase order against a supplier with a sequential PO number.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.IssuePORequest true "Order detail"
// @Success      201  {object} dto.POResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/purchase-orders [post]
func (h *PurchaseOrdersHandler) Issue(c *gin.Context) {
	var req dto.IssuePORequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Issue(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PurchaseOrdersHandler) List(c *gin.Context) {
	var filter dto.POFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list purchase orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PurchaseOrdersHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Purchase order not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PurchaseOrdersHandler) Approve(c *gin.Context) {
	h.transition(c, h.svc.Approve)
}

func (h *PurchaseOrdersHandler) Cancel(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

// MarkDelivered godoc
// @Summary      Mark a purchase order delivered
// @Description  Receives the ordered stock: every item quantity is added to its product atomically with the status change.
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Purchase order UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/purchase-orders/{id}/deliver [post]
func (h *PurchaseOrdersHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.svc.MarkDelivered)
}

// transition runs one of the status-change operations; invalid transitions
// (e.g. delivering a cancelled order) come back as conflicts.
func (h *PurchaseOrdersHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
