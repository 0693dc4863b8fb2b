package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer buys through sales. Delivery confirmation finds customers by Phone.
type Customer struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName     string    `gorm:"type:varchar(256);not null"`
	LastName      *string   `gorm:"type:varchar(256)"`
	Address       *string   `gorm:"type:varchar(256)"`
	Email         *string   `gorm:"type:varchar(256)"`
	Phone         *string   `gorm:"type:varchar(30);index"`
	LoyaltyPoints int       `gorm:"not null;default:0"`
	CreatedAt     time.Time
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (c *Customer) FullName() string {
	if c.LastName == nil || *c.LastName == "" {
		return c.FirstName
	}
	return strings.TrimSpace(c.FirstName + " " + *c.LastName)
}
