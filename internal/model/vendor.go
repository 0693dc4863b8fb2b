package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor supplies items. Purchases default to the item's vendor.
type Vendor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(50);not null"`
	PhoneNumber *string   `gorm:"type:varchar(30)"`
	Address     *string   `gorm:"type:varchar(100)"`
	CreatedAt   time.Time
}

func (v *Vendor) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}
