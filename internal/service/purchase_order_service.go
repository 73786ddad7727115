package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrderService interface {
	Issue(ctx context.Context, userID uuid.UUID, req dto.IssuePORequest) (*dto.POResponse, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
	// MarkDelivered receives the ordered stock: status flips to delivered and
	// every item's quantity is added to its product, atomically.
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*dto.POResponse, error)
	List(ctx context.Context, filter dto.POFilter) (*dto.POListResponse, error)
	// DocumentData returns the full order with supplier and product
	// associations loaded, for the printable PDF document.
	DocumentData(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
}

type purchaseOrderService struct {
	repo         repository.PurchaseOrderRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	movementRepo repository.StockMovementRepository
}

func NewPurchaseOrderService(
	repo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	movementRepo repository.StockMovementRepository,
) PurchaseOrderService {
	return &purchaseOrderService{
		repo:         repo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
	}
}

func (s *purchaseOrderService) Issue(ctx context.Context, userID uuid.UUID, req dto.IssuePORequest) (*dto.POResponse, error) {
	if len(req.Items) == 0 {
		return nil, validationErrorf("empty purchase order")
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, validationErrorf("invalid supplier_id: %s", req.SupplierID)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, validationErrorf("supplier %s not found", supplierID)
	}

	var expected *time.Time
	if req.ExpectedDelivery != nil {
		d, err := time.Parse("2006-01-02", *req.ExpectedDelivery)
		if err != nil {
			return nil, validationErrorf("invalid expected_delivery: %s", *req.ExpectedDelivery)
		}
		expected = &d
	}

	type resolvedItem struct {
		productID uuid.UUID
		name      string
		quantity  int
		unitPrice decimal.Decimal
		lineTotal decimal.Decimal
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, validationErrorf("invalid quantity %d for product %s", item.Quantity, item.ProductID)
		}
		if item.UnitPrice.IsNegative() {
			return nil, validationErrorf("negative unit price for product %s", item.ProductID)
		}
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, validationErrorf("invalid product_id: %s", item.ProductID)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, validationErrorf("product %s not found", item.ProductID)
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			quantity:  item.Quantity,
			unitPrice: item.UnitPrice,
			lineTotal: lineTotal,
		})
	}

	var po model.PurchaseOrder
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		num, err := s.repo.NextPONumber(ctx, tx)
		if err != nil {
			return &PersistenceError{Op: "next po number", Err: err}
		}
		po = model.PurchaseOrder{
			PONumber:         fmt.Sprintf("PO-%04d", num),
			SupplierID:       supplierID,
			UserID:           userID,
			TotalAmount:      total,
			Status:           model.POStatusPending,
			ExpectedDelivery: expected,
			Notes:            req.Notes,
		}
		for _, r := range resolved {
			po.Items = append(po.Items, model.PurchaseOrderItem{
				ProductID:  r.productID,
				Quantity:   r.quantity,
				UnitPrice:  r.unitPrice,
				TotalPrice: r.lineTotal,
			})
		}
		if err := s.repo.Create(ctx, tx, &po); err != nil {
			return &PersistenceError{Op: "create purchase order", Err: err}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := poToResponse(&po)
	resp.Supplier = supplier.Name
	for i, r := range resolved {
		resp.Items[i].Product = r.name
	}
	return resp, nil
}

func (s *purchaseOrderService) Approve(ctx context.Context, id uuid.UUID) error {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return validationErrorf("purchase order %s not found", id)
	}
	if po.Status != model.POStatusPending {
		return validationErrorf("purchase order %s is %s, only pending orders can be approved", po.PONumber, po.Status)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateStatusTx(tx, id, model.POStatusApproved)
	})
}

func (s *purchaseOrderService) Cancel(ctx context.Context, id uuid.UUID) error {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return validationErrorf("purchase order %s not found", id)
	}
	if po.Status != model.POStatusPending && po.Status != model.POStatusApproved {
		return validationErrorf("purchase order %s is %s and cannot be cancelled", po.PONumber, po.Status)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateStatusTx(tx, id, model.POStatusCancelled)
	})
}

func (s *purchaseOrderService) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return validationErrorf("purchase order %s not found", id)
	}
	// The status gate doubles as the idempotency guard: a delivered order
	// cannot receive stock twice.
	if po.Status != model.POStatusApproved {
		return validationErrorf("purchase order %s is %s, only approved orders can be delivered", po.PONumber, po.Status)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range po.Items {
			if err := s.productRepo.IncrementStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return &PersistenceError{Op: "receive stock", Err: err}
			}
			stockAfter := 0
			if p, err := s.productRepo.FindByIDTx(tx, item.ProductID); err == nil {
				stockAfter = p.StockQuantity
			}
			poRef := po.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        model.MovementPODelivery,
				Quantity:    item.Quantity,
				StockBefore: stockAfter - item.Quantity,
				StockAfter:  stockAfter,
				Reason:      fmt.Sprintf("Delivery of %s", po.PONumber),
				ReferenceID: &poRef,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return &PersistenceError{Op: "record delivery movement", Err: err}
			}
		}
		if err := s.repo.UpdateStatusTx(tx, id, model.POStatusDelivered); err != nil {
			return &PersistenceError{Op: "update po status", Err: err}
		}
		return nil
	})
}

func (s *purchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*dto.POResponse, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, validationErrorf("purchase order %s not found", id)
	}
	return poToResponse(po), nil
}

func (s *purchaseOrderService) DocumentData(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, validationErrorf("purchase order %s not found", id)
	}
	return po, nil
}

func (s *purchaseOrderService) List(ctx context.Context, filter dto.POFilter) (*dto.POListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.POResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *poToResponse(&orders[i]))
	}
	return &dto.POListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func poToResponse(po *model.PurchaseOrder) *dto.POResponse {
	items := make([]dto.POItemResponse, 0, len(po.Items))
	for _, item := range po.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.POItemResponse{
			ProductID:  item.ProductID.String(),
			Product:    name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	resp := &dto.POResponse{
		ID:          po.ID.String(),
		PONumber:    po.PONumber,
		SupplierID:  po.SupplierID.String(),
		UserID:      po.UserID.String(),
		Items:       items,
		TotalAmount: po.TotalAmount,
		Status:      po.Status,
		Notes:       po.Notes,
		CreatedAt:   po.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if po.Supplier != nil {
		resp.Supplier = po.Supplier.Name
	}
	if po.ExpectedDelivery != nil {
		d := po.ExpectedDelivery.Format("2006-01-02")
		resp.ExpectedDelivery = &d
	}
	return resp
}
