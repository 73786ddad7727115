package service

import (
	"context"
	"errors"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo         repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

func NewProductService(repo repository.ProductRepository, supplierRepo repository.SupplierRepository) ProductService {
	return &productService{repo: repo, supplierRepo: supplierRepo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.UnitPrice.IsNegative() {
		return nil, errors.New("unit price cannot be negative")
	}
	p := &model.Product{
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Active:        true,
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, errors.New("invalid supplier_id")
		}
		if _, err := s.supplierRepo.FindByID(ctx, sid); err != nil {
			return nil, errors.New("supplier not found")
		}
		p.SupplierID = &sid
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.LessThan(decimal.Zero) {
			return nil, errors.New("unit price cannot be negative")
		}
		p.UnitPrice = *req.UnitPrice
	}
	if req.MinStockLevel != nil {
		p.MinStockLevel = *req.MinStockLevel
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, errors.New("invalid supplier_id")
		}
		p.SupplierID = &sid
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Category:      p.Category,
		Description:   p.Description,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Active:        p.Active,
		LowStock:      p.StockQuantity <= p.MinStockLevel,
	}
	if p.SupplierID != nil {
		sid := p.SupplierID.String()
		resp.SupplierID = &sid
	}
	if p.Supplier != nil {
		resp.Supplier = p.Supplier.Name
	}
	return resp
}
