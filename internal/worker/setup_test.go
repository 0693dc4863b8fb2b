package worker

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/st9-8/mouegne/internal/config"
	"github.com/st9-8/mouegne/internal/infra"
	"github.com/st9-8/mouegne/internal/metrics"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeSpooler records print calls and fails with err when set.
type fakeSpooler struct {
	mu    sync.Mutex
	err   error
	paths []string
	dests []string
}

func (s *fakeSpooler) Print(_ context.Context, path, printer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	s.dests = append(s.dests, printer)
	return s.err
}

type workerEnv struct {
	db       *gorm.DB
	sales    repository.SaleRepository
	delivery repository.DeliveryRepository
	receipts repository.ReceiptRepository
	storage  string
	spooler  *fakeSpooler
	cb       *infra.CircuitBreaker
	worker   *ReceiptWorker
}

func newWorkerEnv(t *testing.T) *workerEnv {
	t.Helper()
	db, err := infra.NewDatabase("sqlite://" + filepath.Join(t.TempDir(), "worker.db"))
	require.NoError(t, err)
	require.NoError(t, infra.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &workerEnv{
		db:       db,
		sales:    repository.NewSaleRepository(db),
		delivery: repository.NewDeliveryRepository(db),
		receipts: repository.NewReceiptRepository(db),
		storage:  t.TempDir(),
		spooler:  &fakeSpooler{},
		cb:       infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 100, OpenTimeout: time.Hour}),
	}
	env.worker = NewReceiptWorker(ReceiptWorkerConfig{
		Sales:       env.sales,
		Deliveries:  env.delivery,
		Receipts:    env.receipts,
		Spooler:     env.spooler,
		CB:          env.cb,
		Company:     config.Company{Name: "Mouegne Store", Currency: "XAF"},
		StoragePath: env.storage,
		Metrics:     metrics.NewReceiptMetrics(prometheus.NewRegistry()),
	})
	return env
}

// seedSale stores a one-line sale for a customer with the given email.
func (e *workerEnv) seedSale(t *testing.T, email *string) *model.Sale {
	t.Helper()
	cat := &model.Category{Name: "Drinks " + uuid.NewString()[:8]}
	require.NoError(t, e.db.Create(cat).Error)
	item := &model.Item{Name: "Water 1.5L", CategoryID: cat.ID, Price: decimal.NewFromInt(350)}
	require.NoError(t, e.db.Create(item).Error)
	customer := &model.Customer{FirstName: "Paul", Email: email}
	require.NoError(t, e.db.Create(customer).Error)

	sale := &model.Sale{
		CustomerID: customer.ID,
		SubTotal:   decimal.NewFromInt(700),
		GrandTotal: decimal.NewFromInt(700),
		AmountPaid: decimal.NewFromInt(1000),
		Details: []model.SaleDetail{
			{ItemID: item.ID, Price: item.Price, Quantity: 2, TotalDetail: decimal.NewFromInt(700)},
		},
	}
	require.NoError(t, e.db.Create(sale).Error)
	return sale
}

func (e *workerEnv) seedFailedReceipt(t *testing.T, retries int, due time.Time) *model.Receipt {
	t.Helper()
	rel, err := infra.SaveReceipt(e.storage, "seed.pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	rc := &model.Receipt{
		Kind:        model.ReceiptSale,
		ReferenceID: e.seedSale(t, nil).ID,
		PDFPath:     &rel,
		Status:      model.ReceiptFailed,
		RetryCount:  retries,
		NextRetryAt: &due,
	}
	require.NoError(t, e.receipts.Create(context.Background(), rc))
	return rc
}

func (e *workerEnv) reload(t *testing.T, rc *model.Receipt) *model.Receipt {
	t.Helper()
	got, err := e.receipts.FindByID(context.Background(), rc.ID)
	require.NoError(t, err)
	return got
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
