package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every stock change on a product: sales, voids,
// purchase-order deliveries, and manual adjustments.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"not null"` // "sale" | "void_restore" | "po_delivery" | "manual_adjust"
	Quantity    int       `gorm:"not null"` // positive = inbound, negative = outbound
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // sale_id or purchase_order_id if applicable
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

const (
	MovementSale         = "sale"
	MovementVoidRestore  = "void_restore"
	MovementPODelivery   = "po_delivery"
	MovementManualAdjust = "manual_adjust"
)
