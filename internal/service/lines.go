package service

import (
	"bytes"
	"sort"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// lineItem is a validated line of a sale or delivery request.
type lineItem struct {
	itemID   uuid.UUID
	price    decimal.Decimal
	quantity int
	total    decimal.Decimal
}

func parseLines(items []dto.LineItemRequest) ([]lineItem, error) {
	if len(items) == 0 {
		return nil, apierror.Validation("missing required field: items")
	}
	lines := make([]lineItem, 0, len(items))
	for i, it := range items {
		id, err := parseID("items.id", it.ID)
		if err != nil {
			return nil, err
		}
		if it.Quantity <= 0 {
			return nil, apierror.Validation("items[%d]: quantity must be greater than zero", i)
		}
		if it.Price.IsNegative() || it.TotalItem.IsNegative() {
			return nil, apierror.Validation("items[%d]: amounts cannot be negative", i)
		}
		lines = append(lines, lineItem{itemID: id, price: it.Price, quantity: it.Quantity, total: it.TotalItem})
	}
	return lines, nil
}

// lockOrder returns line indexes sorted by item id. Locking item rows in a
// stable order keeps two concurrent transactions from deadlocking.
func lockOrder(ids []uuid.UUID) []int {
	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return bytes.Compare(ids[order[a]][:], ids[order[b]][:]) < 0
	})
	return order
}

// financials are the validated header amounts of a sale or delivery.
type financials struct {
	subTotal, grandTotal, taxAmount, taxPercentage, amountPaid, amountChange decimal.Decimal
}

func parseFinancials(f dto.Financials) (financials, error) {
	required := []struct {
		name string
		v    *decimal.Decimal
	}{
		{"sub_total", f.SubTotal},
		{"grand_total", f.GrandTotal},
		{"amount_paid", f.AmountPaid},
		{"amount_change", f.AmountChange},
	}
	for _, r := range required {
		if r.v == nil {
			return financials{}, apierror.Validation("missing required field: %s", r.name)
		}
		if r.v.IsNegative() {
			return financials{}, apierror.Validation("%s cannot be negative", r.name)
		}
	}
	out := financials{
		subTotal:     *f.SubTotal,
		grandTotal:   *f.GrandTotal,
		amountPaid:   *f.AmountPaid,
		amountChange: *f.AmountChange,
	}
	if f.TaxAmount != nil {
		out.taxAmount = *f.TaxAmount
	}
	if f.TaxPercentage != nil {
		out.taxPercentage = *f.TaxPercentage
	}
	if out.taxAmount.IsNegative() || out.taxPercentage.IsNegative() {
		return financials{}, apierror.Validation("tax cannot be negative")
	}
	return out, nil
}
