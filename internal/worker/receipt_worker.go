package worker

// receipt_worker.go
// Renders sale and delivery receipts, stores the PDF, records a Receipt row
// and sends the document to the printer through the circuit breaker.
// A failed print is never fatal: the receipt is marked failed and the
// reprint cron tries again with backoff until MaxReceiptRetries.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/st9-8/mouegne/internal/config"
	"github.com/st9-8/mouegne/internal/infra"
	"github.com/st9-8/mouegne/internal/metrics"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxReceiptRetries is the number of failed prints after which a receipt is
// given up (status error) and moved to the DLQ.
const MaxReceiptRetries = 5

// ReceiptJobPayload is the job envelope for a new receipt.
type ReceiptJobPayload struct {
	Kind        string `json:"kind"` // model.ReceiptSale | model.ReceiptDelivery
	ReferenceID string `json:"reference_id"`
}

// ReprintJobPayload asks for another print of an existing receipt.
type ReprintJobPayload struct {
	ReceiptID string  `json:"receipt_id"`
	Printer   *string `json:"printer,omitempty"`
}

// Spooler sends a file to a printer; infra.Printer implements it.
type Spooler interface {
	Print(ctx context.Context, path, printer string) error
}

type ReceiptWorkerConfig struct {
	Sales       repository.SaleRepository
	Deliveries  repository.DeliveryRepository
	Receipts    repository.ReceiptRepository
	Spooler     Spooler
	CB          *infra.CircuitBreaker
	Dispatcher  *Dispatcher // for customer emails; nil disables them
	RDB         *redis.Client
	Company     config.Company
	StoragePath string
	Metrics     *metrics.ReceiptMetrics
}

type ReceiptWorker struct {
	cfg ReceiptWorkerConfig
	now func() time.Time
}

func NewReceiptWorker(cfg ReceiptWorkerConfig) *ReceiptWorker {
	if cfg.CB == nil {
		cfg.CB = infra.NewCircuitBreaker(infra.DefaultCBConfig())
	}
	return &ReceiptWorker{cfg: cfg, now: time.Now}
}

// Process handles a receipt job:
//  1. Load the sale or delivery with its lines
//  2. Render and store the PDF, create the Receipt record
//  3. Print it
//  4. Queue an email when the sale's customer has an address
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("receipt_worker: invalid payload: %w", err)
	}
	refID, err := uuid.Parse(payload.ReferenceID)
	if err != nil {
		return fmt.Errorf("receipt_worker: invalid reference_id %q", payload.ReferenceID)
	}
	start := w.now()
	defer func() { w.cfg.Metrics.ObserveDuration(payload.Kind, time.Since(start)) }()

	var (
		pdf     []byte
		emailTo string
	)
	switch payload.Kind {
	case model.ReceiptSale:
		sale, err := w.cfg.Sales.FindByID(ctx, refID)
		if err != nil {
			return fmt.Errorf("receipt_worker: load sale %s: %w", refID, err)
		}
		if pdf, err = infra.RenderSaleReceipt(sale, w.cfg.Company); err != nil {
			return err
		}
		if sale.Customer != nil && sale.Customer.Email != nil {
			emailTo = *sale.Customer.Email
		}
	case model.ReceiptDelivery:
		d, err := w.cfg.Deliveries.FindByID(ctx, refID)
		if err != nil {
			return fmt.Errorf("receipt_worker: load delivery %s: %w", refID, err)
		}
		if pdf, err = infra.RenderDeliveryReceipt(d, w.cfg.Company); err != nil {
			return err
		}
	default:
		return fmt.Errorf("receipt_worker: unknown receipt kind %q", payload.Kind)
	}

	name := fmt.Sprintf("%s-%s-%d.pdf", payload.Kind, refID, w.now().UnixNano())
	rel, err := infra.SaveReceipt(w.cfg.StoragePath, name, pdf)
	if err != nil {
		return err
	}
	rc := &model.Receipt{
		Kind:        payload.Kind,
		ReferenceID: refID,
		PDFPath:     &rel,
		Status:      model.ReceiptPending,
	}
	if err := w.cfg.Receipts.Create(ctx, rc); err != nil {
		return fmt.Errorf("receipt_worker: create receipt: %w", err)
	}
	log.Info().
		Str("receipt_id", rc.ID.String()).
		Str("kind", rc.Kind).
		Str("reference_id", refID.String()).
		Msg("receipt_worker: receipt generated")

	w.print(ctx, rc)

	if emailTo != "" && w.cfg.Dispatcher != nil {
		job := EmailJobPayload{
			ReceiptID: rc.ID.String(),
			ToEmail:   emailTo,
			Subject:   fmt.Sprintf("%s receipt #%s", w.cfg.Company.Name, refID.String()[:8]),
			Body:      "Please find your receipt attached.",
		}
		if err := w.cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
			log.Warn().Err(err).Str("receipt_id", rc.ID.String()).Msg("receipt_worker: failed to enqueue email")
		}
	}
	return nil
}

// ProcessReprint prints an existing receipt again, optionally on another printer.
func (w *ReceiptWorker) ProcessReprint(ctx context.Context, raw json.RawMessage) error {
	var payload ReprintJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("receipt_worker: invalid reprint payload: %w", err)
	}
	id, err := uuid.Parse(payload.ReceiptID)
	if err != nil {
		return fmt.Errorf("receipt_worker: invalid receipt_id %q", payload.ReceiptID)
	}
	rc, err := w.cfg.Receipts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("receipt_worker: load receipt %s: %w", id, err)
	}
	if payload.Printer != nil && *payload.Printer != "" {
		rc.Printer = payload.Printer
	}
	// an explicit reprint starts a fresh retry budget
	rc.RetryCount = 0
	w.print(ctx, rc)
	return nil
}

// Retry is called by the reprint cron for a failed receipt.
func (w *ReceiptWorker) Retry(ctx context.Context, rc *model.Receipt) {
	w.print(ctx, rc)
}

func (w *ReceiptWorker) print(ctx context.Context, rc *model.Receipt) {
	printer := ""
	if rc.Printer != nil {
		printer = *rc.Printer
	}
	path := filepath.Join(w.cfg.StoragePath, *rc.PDFPath)

	err := w.cfg.CB.Execute(func() error {
		return w.cfg.Spooler.Print(ctx, path, printer)
	})
	if err == nil {
		rc.Status = model.ReceiptPrinted
		rc.NextRetryAt = nil
		rc.LastError = nil
		log.Info().Str("receipt_id", rc.ID.String()).Msg("receipt_worker: receipt printed")
	} else {
		w.markFailed(ctx, rc, err)
	}
	w.cfg.Metrics.IncOutcome(rc.Kind, rc.Status)
	if err := w.cfg.Receipts.Update(ctx, rc); err != nil {
		log.Error().Err(err).Str("receipt_id", rc.ID.String()).Msg("receipt_worker: failed to update receipt")
	}
}

func (w *ReceiptWorker) markFailed(ctx context.Context, rc *model.Receipt, err error) {
	rc.RetryCount++
	msg := err.Error()
	rc.LastError = &msg

	if rc.RetryCount >= MaxReceiptRetries {
		rc.Status = model.ReceiptError
		rc.NextRetryAt = nil
		log.Error().
			Str("receipt_id", rc.ID.String()).
			Int("retries", rc.RetryCount).
			Msg("receipt_worker: max print retries exceeded, moving to error/DLQ")
		if w.cfg.RDB != nil {
			payload, _ := json.Marshal(ReprintJobPayload{ReceiptID: rc.ID.String(), Printer: rc.Printer})
			SendToDLQ(ctx, w.cfg.RDB, QueueReceipt, JobReprint, payload,
				fmt.Sprintf("max retries (%d) exceeded: %s", MaxReceiptRetries, msg), rc.RetryCount)
		}
		return
	}

	rc.Status = model.ReceiptFailed
	next := w.now().Add(computeRetryBackoff(rc.RetryCount))
	rc.NextRetryAt = &next
	ev := log.Warn()
	if errors.Is(err, infra.ErrCircuitOpen) {
		ev = log.Debug()
	}
	ev.Err(err).
		Str("receipt_id", rc.ID.String()).
		Int("retry_count", rc.RetryCount).
		Time("next_retry_at", next).
		Msg("receipt_worker: print failed, scheduled next attempt")
}
