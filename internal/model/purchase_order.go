package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is a replenishment order issued to a supplier.
// Status flow: pending → approved → delivered, or pending/approved → cancelled.
// Stock is received only on the approved → delivered transition.
type PurchaseOrder struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PONumber         string          `gorm:"uniqueIndex;not null"` // "PO-0001"
	SupplierID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending'"`
	ExpectedDelivery *time.Time      `gorm:"type:date"`
	Notes            *string
	CreatedAt        time.Time

	Supplier *Supplier           `gorm:"foreignKey:SupplierID"`
	User     *User               `gorm:"foreignKey:UserID"`
	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"` // supplier cost
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

const (
	POStatusPending   = "pending"
	POStatusApproved  = "approved"
	POStatusDelivered = "delivered"
	POStatusCancelled = "cancelled"
)
