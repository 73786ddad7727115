package service

import (
	"context"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService covers stock mutations outside the sale path: manual
// adjustments, the movement audit trail, and low-stock alerts.
type InventoryService interface {
	AdjustStock(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
	LowStockAlerts(ctx context.Context) ([]dto.LowStockAlertResponse, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

func NewInventoryService(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository) InventoryService {
	return &inventoryService{productRepo: productRepo, movementRepo: movementRepo}
}

// AdjustStock applies a signed manual delta. Negative deltas go through the
// same guarded decrement as sales, so an adjustment can never drive stock
// below zero.
func (s *inventoryService) AdjustStock(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, validationErrorf("product %s not found", productID)
	}
	if req.Delta == 0 {
		return nil, validationErrorf("delta must be non-zero")
	}

	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		if req.Delta < 0 {
			ok, err := s.productRepo.DecrementStockTx(tx, productID, -req.Delta)
			if err != nil {
				return &PersistenceError{Op: "adjust stock", Err: err}
			}
			if !ok {
				return &InsufficientStockError{
					ProductID:   productID,
					ProductName: p.Name,
					Requested:   -req.Delta,
					Available:   p.StockQuantity,
				}
			}
		} else {
			if err := s.productRepo.IncrementStockTx(tx, productID, req.Delta); err != nil {
				return &PersistenceError{Op: "adjust stock", Err: err}
			}
		}

		after, err := s.productRepo.FindByIDTx(tx, productID)
		if err != nil {
			return &PersistenceError{Op: "read adjusted stock", Err: err}
		}
		mov := &model.StockMovement{
			ProductID:   productID,
			Type:        model.MovementManualAdjust,
			Quantity:    req.Delta,
			StockBefore: after.StockQuantity - req.Delta,
			StockAfter:  after.StockQuantity,
			Reason:      req.Reason,
		}
		return s.movementRepo.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	updated, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return productToResponse(updated), nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		item := dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Type:        m.Type,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if m.Product != nil {
			item.Product = m.Product.Name
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			item.ReferenceID = &ref
		}
		items = append(items, item)
	}
	return &dto.StockMovementListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) LowStockAlerts(ctx context.Context) ([]dto.LowStockAlertResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlertResponse, 0, len(products))
	for _, p := range products {
		alerts = append(alerts, dto.LowStockAlertResponse{
			ProductID:     p.ID.String(),
			Name:          p.Name,
			Category:      p.Category,
			StockQuantity: p.StockQuantity,
			MinStockLevel: p.MinStockLevel,
		})
	}
	return alerts, nil
}
