package dto

import "github.com/shopspring/decimal"

// ─── Items ───────────────────────────────────────────────────────────────────

// CreateItemRequest has no quantity: stock starts at zero and only moves
// through purchases, sales and deliveries.
type CreateItemRequest struct {
	Name          string          `json:"name"           validate:"required,min=1,max=50"`
	Description   string          `json:"description"    validate:"max=256"`
	CategoryID    string          `json:"category_id"    validate:"required,uuid"`
	Price         decimal.Decimal `json:"price"          validate:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	VendorID      *string         `json:"vendor_id"      validate:"omitempty,uuid"`
	ExpiringDate  *string         `json:"expiring_date"`
}

type UpdateItemRequest struct {
	Name          *string          `json:"name"           validate:"omitempty,min=1,max=50"`
	Description   *string          `json:"description"    validate:"omitempty,max=256"`
	CategoryID    *string          `json:"category_id"    validate:"omitempty,uuid"`
	Price         *decimal.Decimal `json:"price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	VendorID      *string          `json:"vendor_id"      validate:"omitempty,uuid"`
	ExpiringDate  *string          `json:"expiring_date"`
}

type ItemFilter struct {
	Q          string `form:"q"`
	CategoryID string `form:"category_id" validate:"omitempty,uuid"`
	VendorID   string `form:"vendor_id"   validate:"omitempty,uuid"`
	Pagination
}

type ItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	VendorID      *string         `json:"vendor_id"`
	ExpiringDate  *string         `json:"expiring_date"`
	LowStock      bool            `json:"low_stock"`
}

// ─── Categories ──────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ─── Vendors ─────────────────────────────────────────────────────────────────

type VendorRequest struct {
	Name        string  `json:"name"         validate:"required,min=1,max=50"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
	Address     *string `json:"address"      validate:"omitempty,max=100"`
}

type VendorResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
}

// ─── Customers ───────────────────────────────────────────────────────────────

type CustomerRequest struct {
	FirstName     string  `json:"first_name"     validate:"required,min=1,max=256"`
	LastName      *string `json:"last_name"      validate:"omitempty,max=256"`
	Address       *string `json:"address"        validate:"omitempty,max=256"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Phone         *string `json:"phone"          validate:"omitempty,max=30"`
	LoyaltyPoints int     `json:"loyalty_points" validate:"min=0"`
}

type CustomerResponse struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"first_name"`
	LastName      *string `json:"last_name"`
	FullName      string  `json:"full_name"`
	Address       *string `json:"address"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	LoyaltyPoints int     `json:"loyalty_points"`
}

// CatalogFilter is shared by the category, vendor and customer lists.
type CatalogFilter struct {
	Q string `form:"q"`
	Pagination
}
