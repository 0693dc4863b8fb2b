package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase delivery statuses. A purchase moves stock exactly once, when it
// becomes Shipped.
const (
	PurchasePending = "P"
	PurchaseShipped = "S"
)

// Purchase is a restocking order for a single item.
type Purchase struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ItemID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	VendorID       *uuid.UUID      `gorm:"type:uuid;index"`
	Description    *string         `gorm:"type:varchar(300)"`
	Quantity       int             `gorm:"not null"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"` // item purchase price at creation
	OrderDate      time.Time       `gorm:"not null"`
	DeliveryDate   *time.Time
	DeliveryStatus string `gorm:"type:varchar(1);not null;default:'S'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Item   *Item   `gorm:"foreignKey:ItemID"`
	Vendor *Vendor `gorm:"foreignKey:VendorID"`
}

func (p *Purchase) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// TotalValue is price × quantity.
func (p *Purchase) TotalValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

func (p *Purchase) Shipped() bool { return p.DeliveryStatus == PurchaseShipped }
