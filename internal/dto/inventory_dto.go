package dto

// MovementFilter is bound from the query string of GET /v1/stock-movements.
type MovementFilter struct {
	ItemID string `form:"item_id" validate:"omitempty,uuid"`
	Type   string `form:"type"    validate:"omitempty,oneof=purchase_received purchase_reversed sale delivery_confirmed"`
	Pagination
}

type MovementResponse struct {
	ID             string  `json:"id"`
	ItemID         string  `json:"item_id"`
	ItemName       string  `json:"item_name"`
	Type           string  `json:"type"`
	Delta          int     `json:"delta"`
	QuantityBefore int     `json:"quantity_before"`
	QuantityAfter  int     `json:"quantity_after"`
	Reason         string  `json:"reason"`
	ReferenceID    *string `json:"reference_id"`
	CreatedAt      string  `json:"created_at"`
}

// DashboardResponse summarizes the store for the landing screen.
type DashboardResponse struct {
	SalesToday        string `json:"sales_today"` // decimal string
	SalesTodayCount   int64  `json:"sales_today_count"`
	ItemsOnHand       int64  `json:"items_on_hand"`
	LowStockCount     int64  `json:"low_stock_count"`
	PendingDeliveries int64  `json:"pending_deliveries"`
	PendingPurchases  int64  `json:"pending_purchases"`
}
