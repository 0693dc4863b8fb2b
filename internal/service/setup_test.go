package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/infra"
	"github.com/st9-8/mouegne/internal/metrics"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubDispatcher records queued receipts. failWith makes every call fail.
type stubDispatcher struct {
	mu       sync.Mutex
	receipts []string // kind:reference
	reprints []uuid.UUID
	failWith error
}

func (d *stubDispatcher) EnqueueReceipt(_ context.Context, kind string, referenceID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	d.receipts = append(d.receipts, kind+":"+referenceID.String())
	return nil
}

func (d *stubDispatcher) EnqueueReprint(_ context.Context, receiptID uuid.UUID, _ *string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	d.reprints = append(d.reprints, receiptID)
	return nil
}

var _ ReceiptDispatcher = (*stubDispatcher)(nil)

// ── Test environment ──────────────────────────────────────────────────────────

// testEnv wires every repository and service on a fresh SQLite file.
type testEnv struct {
	db         *gorm.DB
	items      repository.ItemRepository
	movements  repository.StockMovementRepository
	categories repository.CategoryRepository
	vendors    repository.VendorRepository
	customers  repository.CustomerRepository
	sales      repository.SaleRepository
	deliveries repository.DeliveryRepository
	purchases  repository.PurchaseRepository
	receipts   repository.ReceiptRepository

	dispatcher *stubDispatcher
	ledger     Ledger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := infra.NewDatabase("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, infra.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		db:         db,
		items:      repository.NewItemRepository(db),
		movements:  repository.NewStockMovementRepository(db),
		categories: repository.NewCategoryRepository(db),
		vendors:    repository.NewVendorRepository(db),
		customers:  repository.NewCustomerRepository(db),
		sales:      repository.NewSaleRepository(db),
		deliveries: repository.NewDeliveryRepository(db),
		purchases:  repository.NewPurchaseRepository(db),
		receipts:   repository.NewReceiptRepository(db),
		dispatcher: &stubDispatcher{},
	}
	env.ledger = NewLedger(env.items, env.movements, metrics.NewLedgerMetrics(nil))
	return env
}

func (e *testEnv) saleService() SaleService {
	return NewSaleService(e.sales, e.customers, e.ledger, e.dispatcher)
}

func (e *testEnv) deliveryService() DeliveryService {
	return NewDeliveryService(e.deliveries, e.sales, e.customers, e.ledger, e.dispatcher)
}

func (e *testEnv) purchaseService() PurchaseService {
	return NewPurchaseService(e.purchases, e.items, e.vendors, e.ledger)
}

// ── Seed helpers ──────────────────────────────────────────────────────────────

func (e *testEnv) seedCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, e.categories.Create(context.Background(), c))
	return c
}

func (e *testEnv) seedVendor(t *testing.T, name string) *model.Vendor {
	t.Helper()
	v := &model.Vendor{Name: name}
	require.NoError(t, e.vendors.Create(context.Background(), v))
	return v
}

// seedItem creates an item holding qty units. Stock is written directly:
// it is fixture state, not a business movement.
func (e *testEnv) seedItem(t *testing.T, name string, qty int, price string) *model.Item {
	t.Helper()
	cat := e.seedCategory(t, "cat-"+name)
	item := &model.Item{
		Name:          name,
		CategoryID:    cat.ID,
		Price:         decimal.RequireFromString(price),
		PurchasePrice: decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
	}
	require.NoError(t, e.items.Create(context.Background(), item))
	require.NoError(t, e.items.SetQuantityTx(e.db, item.ID, qty))
	item.Quantity = qty
	return item
}

func (e *testEnv) seedCustomer(t *testing.T, first string, phone *string) *model.Customer {
	t.Helper()
	c := &model.Customer{FirstName: first, Phone: phone}
	require.NoError(t, e.customers.Create(context.Background(), c))
	return c
}

func (e *testEnv) quantity(t *testing.T, itemID uuid.UUID) int {
	t.Helper()
	item, err := e.items.FindByID(context.Background(), itemID)
	require.NoError(t, err)
	return item.Quantity
}

func (e *testEnv) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testFinancials(total string) dto.Financials {
	return dto.Financials{
		SubTotal:     dec(total),
		GrandTotal:   dec(total),
		AmountPaid:   dec(total),
		AmountChange: dec("0"),
	}
}

func line(item *model.Item, qty int) dto.LineItemRequest {
	return dto.LineItemRequest{
		ID:        item.ID.String(),
		Price:     item.Price,
		Quantity:  qty,
		TotalItem: item.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

var errQueueDown = errors.New("redis: connection refused")
