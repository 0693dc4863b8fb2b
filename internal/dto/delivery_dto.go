package dto

import "github.com/shopspring/decimal"

type CreateDeliveryRequest struct {
	CustomerName string `json:"customer_name" validate:"max=30"`
	PhoneNumber  string `json:"phone_number"  validate:"max=30"`
	Location     string `json:"location"      validate:"max=50"`
	// DeliveryDate accepts RFC 3339, "2006-01-02T15:04" or "2006-01-02".
	DeliveryDate string `json:"delivery_date"`
	Financials
	Items []LineItemRequest `json:"items" validate:"dive"`
}

// UpdateDeliveryRequest edits the hand-over details of an undelivered
// delivery. Financial fields are not editable.
type UpdateDeliveryRequest struct {
	CustomerName *string `json:"customer_name" validate:"omitempty,min=1,max=30"`
	PhoneNumber  *string `json:"phone_number"  validate:"omitempty,min=1,max=30"`
	Location     *string `json:"location"      validate:"omitempty,min=1,max=50"`
	DeliveryDate *string `json:"delivery_date"`
}

type DeliveryFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=NOT_DELIVERED DELIVERED"`
	Pagination
}

type DeliveryResponse struct {
	ID            string             `json:"id"`
	CustomerName  string             `json:"customer_name"`
	PhoneNumber   string             `json:"phone_number"`
	Location      string             `json:"location"`
	DeliveryDate  string             `json:"delivery_date"`
	Status        string             `json:"status"`
	SubTotal      decimal.Decimal    `json:"sub_total"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	TaxAmount     decimal.Decimal    `json:"tax_amount"`
	TaxPercentage decimal.Decimal    `json:"tax_percentage"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	AmountChange  decimal.Decimal    `json:"amount_change"`
	SumProducts   int                `json:"sum_products"`
	Details       []LineItemResponse `json:"details"`
	SaleID        *string            `json:"sale_id,omitempty"` // set once confirmed
	CreatedAt     string             `json:"created_at"`

	Warning string `json:"-"`
}
