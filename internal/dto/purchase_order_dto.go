package dto

import "github.com/shopspring/decimal"

type POItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"` // supplier cost per unit
}

type IssuePORequest struct {
	SupplierID       string          `json:"supplier_id"       validate:"required,uuid"`
	ExpectedDelivery *string         `json:"expected_delivery" validate:"omitempty,datetime=2006-01-02"`
	Notes            *string         `json:"notes"`
	Items            []POItemRequest `json:"items"             validate:"required,min=1,dive"`
}

type POFilter struct {
	Status string `form:"status"` // pending | approved | delivered | cancelled | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type POItemResponse struct {
	ProductID  string          `json:"product_id"`
	Product    string          `json:"product"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type POResponse struct {
	ID               string           `json:"id"`
	PONumber         string           `json:"po_number"`
	SupplierID       string           `json:"supplier_id"`
	Supplier         string           `json:"supplier,omitempty"`
	UserID           string           `json:"user_id"`
	Items            []POItemResponse `json:"items"`
	TotalAmount      decimal.Decimal  `json:"total_amount"`
	Status           string           `json:"status"`
	ExpectedDelivery *string          `json:"expected_delivery,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	CreatedAt        string           `json:"created_at"`
}

type POListResponse struct {
	Data  []POResponse `json:"data"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}
