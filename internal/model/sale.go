package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is an immutable customer transaction. DeliveryID is set only on the
// sale derived from a confirmed delivery, and is unique.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	DeliveryID    *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountChange  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"index"`

	Customer *Customer    `gorm:"foreignKey:CustomerID"`
	Details  []SaleDetail `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// SumProducts is the number of units sold across all lines.
func (s *Sale) SumProducts() int {
	n := 0
	for _, d := range s.Details {
		n += d.Quantity
	}
	return n
}

// SaleDetail is one line of a sale. TotalDetail is stored as supplied.
type SaleDetail struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ItemID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	TotalDetail decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (d *SaleDetail) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}
