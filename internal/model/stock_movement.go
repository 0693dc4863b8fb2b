package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movement types written by the inventory ledger.
const (
	MovementPurchaseReceived  = "purchase_received"
	MovementPurchaseReversed  = "purchase_reversed"
	MovementSale              = "sale"
	MovementDeliveryConfirmed = "delivery_confirmed"
)

// StockMovement is an append-only audit row for every ledger mutation.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Type           string    `gorm:"type:varchar(30);not null"`
	Delta          int       `gorm:"not null"` // positive = in, negative = out
	QuantityBefore int       `gorm:"not null"`
	QuantityAfter  int       `gorm:"not null"`
	Reason         string
	ReferenceID    *uuid.UUID `gorm:"type:uuid;index"` // purchase, sale or delivery id
	CreatedAt      time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (m *StockMovement) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}
