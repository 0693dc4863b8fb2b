package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt kinds and print states.
const (
	ReceiptSale     = "sale"
	ReceiptDelivery = "delivery"

	ReceiptPending = "pending"
	ReceiptPrinted = "printed"
	ReceiptFailed  = "failed" // print failed, scheduled for retry
	ReceiptError   = "error"  // retries exhausted
)

// Receipt records a generated document for a sale or a delivery and its
// print outcome. Printing is best-effort and retried by the reprint cron.
type Receipt struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind        string    `gorm:"type:varchar(10);not null"`
	ReferenceID uuid.UUID `gorm:"type:uuid;index;not null"`
	// PDFPath is relative to RECEIPT_STORAGE_PATH
	PDFPath     *string `gorm:"column:pdf_path"`
	Printer     *string `gorm:"type:varchar(100)"`
	Status      string  `gorm:"type:varchar(10);not null;default:'pending'"`
	RetryCount  int     `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *Receipt) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}
