package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineItemRequest is one (item, price, quantity, total) tuple of a sale or a
// delivery. Price and TotalItem are snapshots supplied by the caller.
type LineItemRequest struct {
	ID        string          `json:"id"         validate:"required,uuid"`
	Price     decimal.Decimal `json:"price"      validate:"min=0"`
	Quantity  int             `json:"quantity"   validate:"min=1"`
	TotalItem decimal.Decimal `json:"total_item" validate:"min=0"`
}

// Financials are the header amounts shared by sales and deliveries. The
// required ones are pointers so a missing key can be told apart from zero.
type Financials struct {
	SubTotal      *decimal.Decimal `json:"sub_total"`
	GrandTotal    *decimal.Decimal `json:"grand_total"`
	TaxAmount     *decimal.Decimal `json:"tax_amount"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	AmountPaid    *decimal.Decimal `json:"amount_paid"`
	AmountChange  *decimal.Decimal `json:"amount_change"`
}

type CreateSaleRequest struct {
	Customer string `json:"customer" validate:"omitempty,uuid"`
	Financials
	Items []LineItemRequest `json:"items" validate:"dive"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	CustomerID string `form:"customer_id" validate:"omitempty,uuid"`
	From       string `form:"from"` // YYYY-MM-DD
	To         string `form:"to"`   // YYYY-MM-DD, inclusive
	Pagination
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineItemResponse struct {
	ItemID      string          `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	TotalDetail decimal.Decimal `json:"total_detail"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	CustomerID    string             `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	DeliveryID    *string            `json:"delivery_id,omitempty"`
	SubTotal      decimal.Decimal    `json:"sub_total"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	TaxAmount     decimal.Decimal    `json:"tax_amount"`
	TaxPercentage decimal.Decimal    `json:"tax_percentage"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	AmountChange  decimal.Decimal    `json:"amount_change"`
	Details       []LineItemResponse `json:"details"`
	CreatedAt     string             `json:"created_at"`

	// Warning carries a non-fatal side-effect failure (receipt dispatch).
	// Handlers lift it into the response envelope.
	Warning string `json:"-"`
}
