package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the header of a completed point-of-sale transaction.
// Immutable once created except for the status transition completed → voided.
// Invariant: TotalAmount equals the sum of its items' TotalPrice.
type Sale struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	// TotalAmount is derived from the items at registration time and never
	// recomputed afterwards.
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"` // "cash" | "credit"
	Status        string          `gorm:"type:varchar(20);not null;default:'completed'"`
	CreatedAt     time.Time       `gorm:"index"`

	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	User     *User      `gorm:"foreignKey:UserID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is one product/quantity/price line within a sale. UnitPrice is the
// product's price captured at the time of sale, so later price changes never
// retroactively alter historical sales.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"

	PaymentCash   = "cash"
	PaymentCredit = "credit"
)
