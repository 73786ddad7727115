package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	RegisterSale(ctx context.Context, operatorID uuid.UUID, req dto.RegisterSaleRequest) (*dto.SaleResponse, error)
	VoidSale(ctx context.Context, id uuid.UUID, reason string) error
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	movementRepo repository.StockMovementRepository
	dispatcher   *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		movementRepo: movementRepo,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegisterSale ─────────────────────────────────────────────────────────────
// The one code path that mutates multiple entities together:
//   1. Validate input (items present, quantities positive, method known)
//   2. Resolve products, capture current prices, compute line totals
//   3. BEGIN TX: create sale + items, conditionally decrement each product's
//      stock, record stock movements
//   4. COMMIT — or roll back leaving no partial effect
//   5. (async) enqueue receipt job, best-effort
//
// The availability check and the decrement are one statement
// (ProductRepository.DecrementStockTx), so two concurrent sales on the same
// product cannot both pass a stale check: the row guard serializes them.

func (s *saleService) RegisterSale(ctx context.Context, operatorID uuid.UUID, req dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, validationErrorf("empty sale")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, validationErrorf("invalid quantity %d for product %s", item.Quantity, item.ProductID)
		}
	}
	if req.PaymentMethod != model.PaymentCash && req.PaymentMethod != model.PaymentCredit {
		return nil, validationErrorf("unknown payment method %q", req.PaymentMethod)
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, validationErrorf("invalid customer_id: %s", *req.CustomerID)
		}
		if _, err := s.customerRepo.FindByID(ctx, cid); err != nil {
			return nil, validationErrorf("customer %s not found", cid)
		}
		customerID = &cid
	}

	// Resolve products and capture prices (pre-flight, outside TX). The price
	// captured here is written into the line item so later catalog price
	// changes never alter this sale.
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		unitPrice decimal.Decimal
		quantity  int
		lineTotal decimal.Decimal
	}

	resolved := make([]resolvedItem, 0, len(req.Items))
	total := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, validationErrorf("invalid product_id: %s", item.ProductID)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, validationErrorf("product %s not found", item.ProductID)
		}
		if !p.Active {
			return nil, validationErrorf("product %q is inactive and cannot be sold", p.Name)
		}
		lineTotal := p.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			unitPrice: p.UnitPrice,
			quantity:  item.Quantity,
			lineTotal: lineTotal,
		})
	}

	// ACID transaction: header + items + stock decrements commit together or
	// not at all. A failed availability check surfaces as a typed error and
	// rolls back everything, including decrements already applied for earlier
	// items of the same request.
	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale = model.Sale{
			CustomerID:    customerID,
			UserID:        operatorID,
			TotalAmount:   total,
			PaymentMethod: req.PaymentMethod,
			Status:        model.SaleStatusCompleted,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:  r.productID,
				Quantity:   r.quantity,
				UnitPrice:  r.unitPrice,
				TotalPrice: r.lineTotal,
			})
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return &PersistenceError{Op: "create sale", Err: err}
		}

		for _, r := range resolved {
			ok, err := s.productRepo.DecrementStockTx(tx, r.productID, r.quantity)
			if err != nil {
				return &PersistenceError{Op: fmt.Sprintf("decrement stock of %q", r.name), Err: err}
			}
			if !ok {
				// Guard failed: re-read only to report the shortfall.
				available := 0
				if p, err := s.productRepo.FindByIDTx(tx, r.productID); err == nil {
					available = p.StockQuantity
				}
				return &InsufficientStockError{
					ProductID:   r.productID,
					ProductName: r.name,
					Requested:   r.quantity,
					Available:   available,
				}
			}

			p, err := s.productRepo.FindByIDTx(tx, r.productID)
			if err != nil {
				return &PersistenceError{Op: "read stock after decrement", Err: err}
			}
			saleRef := sale.ID
			mov := &model.StockMovement{
				ProductID:   r.productID,
				Type:        model.MovementSale,
				Quantity:    -r.quantity,
				StockBefore: p.StockQuantity + r.quantity,
				StockAfter:  p.StockQuantity,
				Reason:      fmt.Sprintf("Sale %s", sale.ID),
				ReferenceID: &saleRef,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return &PersistenceError{Op: "record stock movement", Err: err}
			}
		}
		return nil
	})
	if txErr != nil {
		var ve *ValidationError
		var ise *InsufficientStockError
		var pe *PersistenceError
		if errors.As(txErr, &ve) || errors.As(txErr, &ise) || errors.As(txErr, &pe) {
			return nil, txErr
		}
		return nil, &PersistenceError{Op: "commit sale", Err: txErr}
	}

	// Async receipt job — best-effort, never affects the committed sale.
	if s.dispatcher != nil {
		payload := worker.ReceiptJob{SaleID: sale.ID.String()}
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			payload.CustomerEmail = *req.CustomerEmail
		}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)

		// Low-stock alerts for products the sale pushed to the threshold.
		for _, r := range resolved {
			p, err := s.productRepo.FindByID(ctx, r.productID)
			if err != nil || p.StockQuantity > p.MinStockLevel {
				continue
			}
			_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockJob{
				ProductID:     p.ID.String(),
				Name:          p.Name,
				StockQuantity: p.StockQuantity,
				MinStockLevel: p.MinStockLevel,
			})
		}
	}

	resp := saleToResponse(&sale)
	for i, r := range resolved {
		resp.Items[i].Product = r.name
	}
	return resp, nil
}

// ── VoidSale ─────────────────────────────────────────────────────────────────

func (s *saleService) VoidSale(ctx context.Context, id uuid.UUID, reason string) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return validationErrorf("sale %s not found", id)
	}
	if sale.Status == model.SaleStatusVoided {
		return validationErrorf("sale %s is already voided", id)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			if err := s.productRepo.IncrementStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return &PersistenceError{Op: "restore stock", Err: err}
			}
			stockAfter := 0
			if p, err := s.productRepo.FindByIDTx(tx, item.ProductID); err == nil {
				stockAfter = p.StockQuantity
			}
			saleRef := sale.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        model.MovementVoidRestore,
				Quantity:    item.Quantity,
				StockBefore: stockAfter - item.Quantity,
				StockAfter:  stockAfter,
				Reason:      fmt.Sprintf("Void sale %s — %s", sale.ID, reason),
				ReferenceID: &saleRef,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return &PersistenceError{Op: "record void movement", Err: err}
			}
		}
		if err := s.repo.UpdateStatusTx(tx, id, model.SaleStatusVoided); err != nil {
			return &PersistenceError{Op: "update sale status", Err: err}
		}
		return nil
	})
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, validationErrorf("sale %s not found", id)
	}
	return saleToResponse(sale), nil
}

// ListSales returns a paginated list of sales, filtered by date and status.
func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = model.SaleStatusCompleted
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:  item.ProductID.String(),
			Product:    name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	resp := &dto.SaleResponse{
		ID:            s.ID.String(),
		UserID:        s.UserID.String(),
		Items:         items,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if s.CustomerID != nil {
		cid := s.CustomerID.String()
		resp.CustomerID = &cid
	}
	if s.Customer != nil {
		resp.Customer = s.Customer.Name
	}
	if s.User != nil {
		resp.Operator = s.User.FullName
	}
	return resp
}
