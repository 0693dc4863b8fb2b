package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DeliveryNotDelivered = "NOT_DELIVERED"
	DeliveryDelivered    = "DELIVERED"
)

// Delivery books items for a future hand-over. Stock is only decremented when
// the delivery is confirmed.
type Delivery struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerName  string          `gorm:"type:varchar(30);not null"`
	PhoneNumber   string          `gorm:"type:varchar(30);not null"`
	Location      string          `gorm:"type:varchar(50);not null"`
	DeliveryDate  time.Time       `gorm:"not null"`
	Status        string          `gorm:"type:varchar(15);not null;default:'NOT_DELIVERED';index"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountChange  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Details []DeliveryDetail `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralization (deliverys → deliveries).
func (Delivery) TableName() string { return "deliveries" }

func (d *Delivery) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}

func (d *Delivery) Delivered() bool { return d.Status == DeliveryDelivered }

// SumProducts is the number of units booked across all lines.
func (d *Delivery) SumProducts() int {
	n := 0
	for _, det := range d.Details {
		n += det.Quantity
	}
	return n
}

// DeliveryDetail is one booked line. The item is referenced, never owned.
type DeliveryDetail struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DeliveryID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	ItemID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	TotalDetail decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (d *DeliveryDetail) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}
