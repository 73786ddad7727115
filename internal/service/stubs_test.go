package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory stubs ──────────────────────────────────────────────────────────
// These implement the repository interfaces without a database. Tx methods
// accept the nil *gorm.DB the services pass in stub mode. All stubs are
// mutex-guarded so concurrency tests can hammer them from many goroutines.

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) seed(name string, price string, stock, minStock int) *model.Product {
	p := &model.Product{
		ID:            uuid.New(),
		Name:          name,
		Category:      "glass",
		UnitPrice:     decimal.RequireFromString(price),
		StockQuantity: stock,
		MinStockLevel: minStock,
		Active:        true,
	}
	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = false
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = true
	return nil
}

func (r *stubProductRepo) FindBySupplierID(_ context.Context, supplierID uuid.UUID) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.SupplierID != nil && *p.SupplierID == supplierID && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindLowStock(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.StockQuantity <= p.MinStockLevel {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if p.StockQuantity < quantity {
		return false, nil
	}
	p.StockQuantity -= quantity
	return true, nil
}

func (r *stubProductRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity += quantity
	return nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo is an in-memory SaleRepository.
type stubSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.mu.Lock()
	r.sales[s.ID] = s
	r.mu.Unlock()
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) Recent(_ context.Context, limit int) ([]model.Sale, error) {
	sales, _, _ := r.List(context.Background(), dto.SaleFilter{})
	if len(sales) > limit {
		sales = sales[:limit]
	}
	return sales, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubCustomerRepo is an in-memory CustomerRepository.
type stubCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) seed(name string) *model.Customer {
	c := &model.Customer{ID: uuid.New(), Name: name}
	r.mu.Lock()
	r.customers[c.ID] = c
	r.mu.Unlock()
	return c
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.mu.Lock()
	r.customers[c.ID] = c
	r.mu.Unlock()
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ dto.PageFilter) ([]model.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	r.customers[c.ID] = c
	r.mu.Unlock()
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	delete(r.customers, id)
	r.mu.Unlock()
	return nil
}

func (r *stubCustomerRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.customers)), nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubMovementRepo captures stock movements for assertions.
type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	r.movements = append(r.movements, *m)
	r.mu.Unlock()
	return nil
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) List(_ context.Context, _ dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.StockMovement, len(r.movements))
	copy(out, r.movements)
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) byType(movType string) []model.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.Type == movType {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubSupplierRepo is an in-memory SupplierRepository.
type stubSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) seed(name string) *model.Supplier {
	s := &model.Supplier{ID: uuid.New(), Name: name}
	r.mu.Lock()
	r.suppliers[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.mu.Lock()
	r.suppliers[s.ID] = s
	r.mu.Unlock()
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context, _ dto.PageFilter) ([]model.Supplier, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.mu.Lock()
	r.suppliers[s.ID] = s
	r.mu.Unlock()
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	delete(r.suppliers, id)
	r.mu.Unlock()
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// stubPORepo is an in-memory PurchaseOrderRepository.
type stubPORepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*model.PurchaseOrder
	seq    int
}

func newStubPORepo() *stubPORepo {
	return &stubPORepo{orders: make(map[uuid.UUID]*model.PurchaseOrder)}
}

func (r *stubPORepo) Create(_ context.Context, _ *gorm.DB, po *model.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	for i := range po.Items {
		po.Items[i].PurchaseOrderID = po.ID
	}
	r.mu.Lock()
	r.orders[po.ID] = po
	r.mu.Unlock()
	return nil
}

func (r *stubPORepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return po, nil
}

func (r *stubPORepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	po.Status = status
	return nil
}

func (r *stubPORepo) NextPONumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *stubPORepo) List(_ context.Context, _ dto.POFilter) ([]model.PurchaseOrder, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		out = append(out, *po)
	}
	return out, int64(len(out)), nil
}

func (r *stubPORepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseOrderRepository = (*stubPORepo)(nil)

// failOnCreateMovementRepo errors on the Nth movement to simulate a mid-tx
// persistence failure.
type failOnCreateMovementRepo struct {
	stubMovementRepo
	failAt int
	calls  int
}

func (r *failOnCreateMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	r.calls++
	if r.calls == r.failAt {
		return fmt.Errorf("simulated write failure: %w", errors.New("disk full"))
	}
	return r.stubMovementRepo.CreateTx(tx, m)
}
