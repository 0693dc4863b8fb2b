package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a stocked product. Quantity is the on-hand ledger value and is
// only written by the inventory ledger; catalog updates never touch it.
type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"type:varchar(50);index;not null"`
	Description   string          `gorm:"type:varchar(256)"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity      int             `gorm:"not null;default:0"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpiringDate  *time.Time
	VendorID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
