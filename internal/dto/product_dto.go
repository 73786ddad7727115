package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	SupplierID string `form:"supplier_id"`
	Active     string `form:"active"` // "false" = inactive, "all" = everything, default = active only
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	Name          string          `json:"name"            validate:"required"`
	Category      string          `json:"category"        validate:"required"`
	Description   *string         `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"      validate:"min=0"`
	StockQuantity int             `json:"stock_quantity"  validate:"min=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	SupplierID    *string         `json:"supplier_id"     validate:"omitempty,uuid"`
}

type UpdateProductRequest struct {
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Description   *string          `json:"description"`
	UnitPrice     *decimal.Decimal `json:"unit_price"      validate:"omitempty,min=0"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	SupplierID    *string          `json:"supplier_id"     validate:"omitempty,uuid"`
}

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Description   *string         `json:"description,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	SupplierID    *string         `json:"supplier_id,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
	Active        bool            `json:"active"`
	LowStock      bool            `json:"low_stock"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
