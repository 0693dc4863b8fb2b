package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, filename string
	size                  int
}

type fakeSender struct {
	enabled  bool
	failures int // calls that fail before one succeeds
	sent     []sentMail
	calls    int
}

func (s *fakeSender) Enabled() bool { return s.enabled }

func (s *fakeSender) SendReceipt(to, subject, _ string, filename string, pdf []byte) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("421 service not available")
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, filename: filename, size: len(pdf)})
	return nil
}

func TestEmailWorker_SendsStoredReceipt(t *testing.T) {
	env := newWorkerEnv(t)
	rc := env.seedFailedReceipt(t, 0, time.Now())
	sender := &fakeSender{enabled: true}
	w := NewEmailWorker(sender, env.receipts, env.storage)

	err := w.Process(context.Background(), mustJSON(t, EmailJobPayload{
		ReceiptID: rc.ID.String(),
		ToEmail:   "paul@example.com",
		Subject:   "Your receipt",
	}))
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, sentMail{to: "paul@example.com", subject: "Your receipt", filename: "seed.pdf", size: 8}, sender.sent[0])
}

func TestEmailWorker_RetriesTransientFailure(t *testing.T) {
	env := newWorkerEnv(t)
	rc := env.seedFailedReceipt(t, 0, time.Now())
	sender := &fakeSender{enabled: true, failures: 1}
	w := NewEmailWorker(sender, env.receipts, env.storage)

	err := w.Process(context.Background(), mustJSON(t, EmailJobPayload{ReceiptID: rc.ID.String(), ToEmail: "paul@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, 2, sender.calls)
	assert.Len(t, sender.sent, 1)
}

func TestEmailWorker_Skips(t *testing.T) {
	env := newWorkerEnv(t)
	rc := env.seedFailedReceipt(t, 0, time.Now())
	ctx := context.Background()

	disabled := &fakeSender{}
	require.NoError(t, NewEmailWorker(disabled, env.receipts, env.storage).
		Process(ctx, mustJSON(t, EmailJobPayload{ReceiptID: rc.ID.String(), ToEmail: "paul@example.com"})))
	assert.Zero(t, disabled.calls)

	enabled := &fakeSender{enabled: true}
	require.NoError(t, NewEmailWorker(enabled, env.receipts, env.storage).
		Process(ctx, mustJSON(t, EmailJobPayload{ReceiptID: rc.ID.String()})))
	assert.Zero(t, enabled.calls)
}

func TestEmailWorker_MissingDocument(t *testing.T) {
	env := newWorkerEnv(t)
	rc := env.seedFailedReceipt(t, 0, time.Now())
	sender := &fakeSender{enabled: true}

	w := NewEmailWorker(sender, env.receipts, t.TempDir())
	err := w.Process(context.Background(), mustJSON(t, EmailJobPayload{ReceiptID: rc.ID.String(), ToEmail: "paul@example.com"}))
	assert.Error(t, err)
	assert.Zero(t, sender.calls)
}

func TestWithRetry(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 2, func(int) error {
		attempts++
		if attempts == 1 {
			return errors.New("first")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = withRetry(ctx, 3, func(int) error { return errors.New("always") })
	assert.ErrorIs(t, err, context.Canceled)
}
