package dto

import "github.com/shopspring/decimal"

type CreatePurchaseRequest struct {
	ItemID      string  `json:"item_id"     validate:"required,uuid"`
	VendorID    *string `json:"vendor_id"   validate:"omitempty,uuid"`
	Description *string `json:"description" validate:"omitempty,max=300"`
	Quantity    int     `json:"quantity"    validate:"required,min=1"`
	// DeliveryStatus defaults to "S": purchases are recorded once received.
	DeliveryStatus string  `json:"delivery_status" validate:"omitempty,oneof=P S"`
	OrderDate      *string `json:"order_date"`
	DeliveryDate   *string `json:"delivery_date"`
}

type UpdatePurchaseRequest struct {
	VendorID       *string `json:"vendor_id"       validate:"omitempty,uuid"`
	Description    *string `json:"description"     validate:"omitempty,max=300"`
	Quantity       *int    `json:"quantity"        validate:"omitempty,min=1"`
	DeliveryStatus *string `json:"delivery_status" validate:"omitempty,oneof=P S"`
	DeliveryDate   *string `json:"delivery_date"`
}

type PurchaseFilter struct {
	Status string `form:"status"  validate:"omitempty,oneof=P S"`
	ItemID string `form:"item_id" validate:"omitempty,uuid"`
	Pagination
}

type PurchaseResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name"`
	VendorID       *string         `json:"vendor_id"`
	VendorName     string          `json:"vendor_name,omitempty"`
	Description    *string         `json:"description"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	TotalValue     decimal.Decimal `json:"total_value"`
	OrderDate      string          `json:"order_date"`
	DeliveryDate   *string         `json:"delivery_date"`
	DeliveryStatus string          `json:"delivery_status"`
}
