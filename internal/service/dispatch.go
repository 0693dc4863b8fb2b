package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptDispatcher queues receipt rendering and printing. It is implemented
// by worker.Dispatcher; a nil dispatcher disables printing.
type ReceiptDispatcher interface {
	EnqueueReceipt(ctx context.Context, kind string, referenceID uuid.UUID) error
	EnqueueReprint(ctx context.Context, receiptID uuid.UUID, printer *string) error
}

// dispatchReceipt queues a receipt after a committed transaction. Failures
// come back as a warning for the response envelope, never as an error.
func dispatchReceipt(ctx context.Context, d ReceiptDispatcher, kind string, referenceID uuid.UUID) string {
	if d == nil {
		return ""
	}
	if err := d.EnqueueReceipt(ctx, kind, referenceID); err != nil {
		log.Warn().Err(err).
			Str("kind", kind).
			Str("reference_id", referenceID.String()).
			Msg("receipt dispatch failed")
		return "saved, but the receipt could not be queued for printing"
	}
	return ""
}
