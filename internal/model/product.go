package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry: windshields, side glass, aluminum profiles,
// installation accessories. Products referenced by historical sale items are
// never deleted, only deactivated.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Category    string    `gorm:"not null"` // "glass" | "aluminum" | "accessories"
	Description *string
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// StockQuantity never goes below zero after a committed transaction;
	// the conditional decrement in the repository enforces it.
	StockQuantity int        `gorm:"not null;default:0"`
	MinStockLevel int        `gorm:"not null;default:10"`
	SupplierID    *uuid.UUID `gorm:"type:uuid;index"`
	Active        bool       `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
