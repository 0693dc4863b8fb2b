package worker

// email_worker.go
// Processes email jobs from QueueEmail: mails a stored receipt PDF to the
// customer of a sale.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ReceiptID string `json:"receipt_id"`
	ToEmail   string `json:"to_email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// ReceiptSender delivers a PDF by email; infra.Mailer implements it.
type ReceiptSender interface {
	Enabled() bool
	SendReceipt(to, subject, body, filename string, pdf []byte) error
}

type EmailWorker struct {
	sender      ReceiptSender
	receipts    repository.ReceiptRepository
	storagePath string
}

func NewEmailWorker(sender ReceiptSender, receipts repository.ReceiptRepository, storagePath string) *EmailWorker {
	return &EmailWorker{sender: sender, receipts: receipts, storagePath: storagePath}
}

// Process sends an email with the receipt PDF attached, retrying transient
// SMTP failures. A job that still fails is returned to the pool for the DLQ.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if !w.sender.Enabled() {
		log.Debug().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, skipping")
		return nil
	}

	id, err := uuid.Parse(payload.ReceiptID)
	if err != nil {
		return fmt.Errorf("email_worker: invalid receipt_id %q", payload.ReceiptID)
	}
	rc, err := w.receipts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("email_worker: load receipt %s: %w", id, err)
	}
	if rc.PDFPath == nil {
		return fmt.Errorf("email_worker: receipt %s has no document", id)
	}
	pdf, err := os.ReadFile(filepath.Join(w.storagePath, *rc.PDFPath))
	if err != nil {
		return fmt.Errorf("email_worker: read receipt: %w", err)
	}

	err = withRetry(ctx, 3, func(attempt int) error {
		err := w.sender.SendReceipt(payload.ToEmail, payload.Subject, payload.Body, filepath.Base(*rc.PDFPath), pdf)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("to", payload.ToEmail).Msg("email_worker: send failed")
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Str("receipt_id", id.String()).Msg("email_worker: receipt sent")
	return nil
}
