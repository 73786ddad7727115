package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date   string `form:"date"`                     // YYYY-MM-DD; empty = all
	Status string `form:"status,default=completed"` // completed | voided | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Request DTOs ───────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type RegisterSaleRequest struct {
	CustomerID    *string           `json:"customer_id"    validate:"omitempty,uuid"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash credit"`
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// ─── Response DTOs ──────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID  string          `json:"product_id"`
	Product    string          `json:"product"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	Customer      string             `json:"customer,omitempty"`
	UserID        string             `json:"user_id"`
	Operator      string             `json:"operator,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"created_at"`
}
