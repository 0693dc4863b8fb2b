package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/metrics"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LedgerRef describes the business event behind a ledger mutation. It is
// copied into the StockMovement audit row.
type LedgerRef struct {
	Type        string
	ReferenceID *uuid.UUID
	Reason      string
}

// Ledger is the only writer of Item.Quantity. Every mutation runs inside the
// caller's transaction on a row locked FOR UPDATE, so it commits or rolls
// back together with the record that triggered it.
type Ledger interface {
	Increment(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int, ref LedgerRef) (*model.StockMovement, error)
	// Decrement fails with InsufficientStock when the item holds fewer than qty units.
	Decrement(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int, ref LedgerRef) (*model.StockMovement, error)
	// DecrementClamped never fails on shortage: it stops at zero and logs.
	DecrementClamped(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int, ref LedgerRef) (*model.StockMovement, error)
	// Check is a read-only sufficiency test; it takes no lock and writes nothing.
	Check(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) (*model.Item, error)
}

type ledger struct {
	items     repository.ItemRepository
	movements repository.StockMovementRepository
	metrics   *metrics.LedgerMetrics
}

func NewLedger(items repository.ItemRepository, movements repository.StockMovementRepository, m *metrics.LedgerMetrics) Ledger {
	return &ledger{items: items, movements: movements, metrics: m}
}

func (l *ledger) Increment(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int, ref LedgerRef) (*model.StockMovement, error) {
	if qty <= 0 {
		return nil, apierror.Validation("quantity must be greater than zero")
	}
	item, err := l.lock(tx, itemID)
	if err != nil {
		return nil, err
	}
	return l.apply(tx, item, qty, ref)
}

func (l *ledger) Decrement(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int, ref LedgerRef) (*model.StockMovement, error) {
	if qty <= 0 {
		return nil, apierror.Validation("quantity must be greater than zero")
	}
	item, err := l.lock(tx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Quantity < qty {
		l.metrics.IncRejected("insufficient_stock")
		return nil, apierror.InsufficientStock(item.Name, item.Quantity, qty)
	}
	return l.apply(tx, item, -qty, ref)
}

func (l *ledger) DecrementClamped(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int, ref LedgerRef) (*model.StockMovement, error) {
	if qty <= 0 {
		return nil, apierror.Validation("quantity must be greater than zero")
	}
	item, err := l.lock(tx, itemID)
	if err != nil {
		return nil, err
	}
	delta := -qty
	if item.Quantity < qty {
		log.Warn().
			Str("item_id", item.ID.String()).
			Str("item", item.Name).
			Int("quantity", item.Quantity).
			Int("requested", qty).
			Str("movement", ref.Type).
			Msg("ledger: decrement clamped at zero")
		l.metrics.IncClamped()
		delta = -item.Quantity
	}
	return l.apply(tx, item, delta, ref)
}

func (l *ledger) Check(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) (*model.Item, error) {
	if tx == nil {
		tx = l.items.DB().WithContext(ctx)
	}
	if qty <= 0 {
		return nil, apierror.Validation("quantity must be greater than zero")
	}
	item, err := l.items.FindByIDTx(tx, itemID)
	if err != nil {
		return nil, l.notFound(err, itemID)
	}
	if item.Quantity < qty {
		return nil, apierror.InsufficientStock(item.Name, item.Quantity, qty)
	}
	return item, nil
}

func (l *ledger) lock(tx *gorm.DB, itemID uuid.UUID) (*model.Item, error) {
	item, err := l.items.LockByIDTx(tx, itemID)
	if err != nil {
		return nil, l.notFound(err, itemID)
	}
	return item, nil
}

func (l *ledger) notFound(err error, itemID uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.metrics.IncRejected("item_not_found")
	}
	return lookupErr(err, "item", itemID)
}

// apply writes quantity+delta and appends the audit row.
func (l *ledger) apply(tx *gorm.DB, item *model.Item, delta int, ref LedgerRef) (*model.StockMovement, error) {
	before := item.Quantity
	after := before + delta
	if after < 0 {
		// unreachable through the public methods
		return nil, apierror.InsufficientStock(item.Name, before, -delta)
	}
	if err := l.items.SetQuantityTx(tx, item.ID, after); err != nil {
		return nil, apierror.Store(err, "update item quantity")
	}
	reason := ref.Reason
	if reason == "" {
		reason = fmt.Sprintf("%s %+d", ref.Type, delta)
	}
	mov := &model.StockMovement{
		ItemID:         item.ID,
		Type:           ref.Type,
		Delta:          delta,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         reason,
		ReferenceID:    ref.ReferenceID,
	}
	if err := l.movements.CreateTx(tx, mov); err != nil {
		return nil, apierror.Store(err, "record stock movement")
	}
	item.Quantity = after
	mov.Item = item

	abs := delta
	if abs < 0 {
		abs = -abs
	}
	l.metrics.ObserveMutation(ref.Type, abs)
	return mov, nil
}
