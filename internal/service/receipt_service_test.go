package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrinters struct {
	names []string
	def   string
	err   error
}

func (p stubPrinters) ListPrinters(context.Context) ([]string, string, error) {
	return p.names, p.def, p.err
}

func (e *testEnv) seedReceipt(t *testing.T, kind string, ref uuid.UUID, pdf *string) *model.Receipt {
	t.Helper()
	rc := &model.Receipt{Kind: kind, ReferenceID: ref, PDFPath: pdf, Status: model.ReceiptPrinted}
	require.NoError(t, e.receipts.Create(context.Background(), rc))
	return rc
}

func TestReceiptService_GetAndPDFPath(t *testing.T) {
	env := newTestEnv(t)
	storage := t.TempDir()
	svc := NewReceiptService(env.receipts, env.dispatcher, nil, storage)
	ctx := context.Background()

	saleID := uuid.New()
	rc := env.seedReceipt(t, model.ReceiptSale, saleID, strPtr("sale-1.pdf"))

	got, err := svc.Get(ctx, rc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PDFUrl)
	assert.Equal(t, "/v1/receipts/"+rc.ID.String()+"/pdf", *got.PDFUrl)

	latest, err := svc.ForReference(ctx, model.ReceiptSale, saleID)
	require.NoError(t, err)
	assert.Equal(t, rc.ID.String(), latest.ID)

	path, err := svc.PDFPath(ctx, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(storage, "sale-1.pdf"), path)

	_, err = svc.ForReference(ctx, model.ReceiptDelivery, saleID)
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestReceiptService_PDFPathStaysInStorage(t *testing.T) {
	env := newTestEnv(t)
	storage := t.TempDir()
	svc := NewReceiptService(env.receipts, env.dispatcher, nil, storage)

	rc := env.seedReceipt(t, model.ReceiptSale, uuid.New(), strPtr("../../etc/passwd"))
	path, err := svc.PDFPath(context.Background(), rc.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(storage, "etc/passwd"), path)

	empty := env.seedReceipt(t, model.ReceiptSale, uuid.New(), nil)
	_, err = svc.PDFPath(context.Background(), empty.ID)
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestReceiptService_Reprint(t *testing.T) {
	env := newTestEnv(t)
	svc := NewReceiptService(env.receipts, env.dispatcher, nil, t.TempDir())
	ctx := context.Background()

	rc := env.seedReceipt(t, model.ReceiptDelivery, uuid.New(), strPtr("d.pdf"))
	require.NoError(t, svc.Reprint(ctx, rc.ID, dto.ReprintRequest{Printer: strPtr("counter")}))
	assert.Equal(t, []uuid.UUID{rc.ID}, env.dispatcher.reprints)

	assert.True(t, errors.Is(svc.Reprint(ctx, uuid.New(), dto.ReprintRequest{}), apierror.ErrNotFound))

	env.dispatcher.failWith = errQueueDown
	assert.True(t, errors.Is(svc.Reprint(ctx, rc.ID, dto.ReprintRequest{}), apierror.ErrStore))

	noDispatch := NewReceiptService(env.receipts, nil, nil, t.TempDir())
	assert.True(t, errors.Is(noDispatch.Reprint(ctx, rc.ID, dto.ReprintRequest{}), apierror.ErrStore))
}

func TestReceiptService_Printers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := NewReceiptService(env.receipts, nil, stubPrinters{names: []string{"counter", "office"}, def: "office"}, "")
	list, err := svc.Printers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dto.PrinterResponse{{Name: "counter"}, {Name: "office", Default: true}}, list)

	none := NewReceiptService(env.receipts, nil, nil, "")
	list, err = none.Printers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	broken := NewReceiptService(env.receipts, nil, stubPrinters{err: errors.New("lpstat: not found")}, "")
	_, err = broken.Printers(ctx)
	assert.True(t, errors.Is(err, apierror.ErrStore))
}
